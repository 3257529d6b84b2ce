package service

import (
	"context"
	"reflect"
	"testing"

	"swapstay/internal/directory/validator"
	"swapstay/internal/events"
	"swapstay/pkg/config"
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/logger"
	"swapstay/pkg/model"
	"swapstay/test/memstore"
)

func newService(t *testing.T) (DirectoryService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	cfg := &config.Config{Log: logger.Nop()}
	return NewDirectoryService(store.Directory(), validator.NewObjectValidator(), cfg), store
}

func strPtr(s string) *string { return &s }

func TestCreateObject(t *testing.T) {
	svc, store := newService(t)
	owner := store.AddUser(model.User{Email: "o@example.com", FullName: "Owner"})
	rooms := 3

	obj, err := svc.CreateObject(context.Background(), &model.CreateObjectRequest{
		OwnerID:     &owner.ID,
		Title:       "  Lake   cabin ",
		Description: strPtr("  two floors \n  sauna  "),
		Images:      []string{" https://CDN.example.com/a.jpg/ ", "", "https://cdn.example.com/b.jpg#top"},
		Address:     strPtr("   "),
		Rooms:       &rooms,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if obj.ID == 0 || obj.Title != "Lake cabin" {
		t.Errorf("object = %+v", obj)
	}
	if obj.Description == nil || *obj.Description != "two floors\nsauna" {
		t.Errorf("description = %v", obj.Description)
	}
	if obj.Address != nil {
		t.Errorf("blank address should be dropped, got %q", *obj.Address)
	}
	want := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	if !reflect.DeepEqual(obj.Images, want) {
		t.Errorf("images = %v, want %v", obj.Images, want)
	}
	if !obj.IsOwnedBy(owner.ID) {
		t.Errorf("owner = %v", obj.OwnerID)
	}
}

func TestCreateObject_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateObject(ctx, &model.CreateObjectRequest{Title: "   "})
	if !apperrors.HasCode(err, apperrors.CodeMissingField) {
		t.Errorf("blank title: got %v", err)
	}

	_, err = svc.CreateObject(ctx, &model.CreateObjectRequest{Title: "Hut", Images: []string{"not a url"}})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("bad image: got %v", err)
	}

	ghost := int64(77)
	_, err = svc.CreateObject(ctx, &model.CreateObjectRequest{Title: "Hut", OwnerID: &ghost})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown owner: got %v", err)
	}
}

func TestLookups(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	alice := store.AddUser(model.User{Email: "a@example.com", FullName: "Alice"})
	bob := store.AddUser(model.User{Email: "b@example.com", FullName: "Bob"})
	first := store.AddObject(model.Object{OwnerID: &alice.ID, Title: "First"})
	second := store.AddObject(model.Object{OwnerID: &alice.ID, Title: "Second"})
	store.AddObject(model.Object{OwnerID: &bob.ID, Title: "Bob's"})

	users, err := svc.ListUsers(ctx)
	if err != nil || len(users) != 2 || users[0].ID != bob.ID {
		t.Errorf("ListUsers = %v, %v", users, err)
	}

	owned, err := svc.ListObjects(ctx, &alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owned) != 2 || owned[0].ID != second.ID || owned[1].ID != first.ID {
		t.Errorf("ListObjects(alice) = %+v", owned)
	}

	all, _ := svc.ListObjects(ctx, nil)
	if len(all) != 3 {
		t.Errorf("ListObjects(nil) returned %d objects", len(all))
	}

	if _, err := svc.GetObject(ctx, 999); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("GetObject(999) = %v", err)
	}
	if _, err := svc.GetUser(ctx, 999); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("GetUser(999) = %v", err)
	}
	if u, err := svc.GetUser(ctx, alice.ID); err != nil || u.FullName != "Alice" {
		t.Errorf("GetUser = %v, %v", u, err)
	}
}

func TestTransferOwnership(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	alice := store.AddUser(model.User{Email: "a@example.com", FullName: "Alice"})
	bob := store.AddUser(model.User{Email: "b@example.com", FullName: "Bob"})
	obj := store.AddObject(model.Object{OwnerID: &alice.ID, Title: "Cabin"})

	ev, err := svc.TransferOwnership(ctx, obj.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev == nil || ev.Type != events.ObjectOwnerTransferred {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Data["previous_owner_id"] != alice.ID || ev.Data["new_owner_id"] != bob.ID {
		t.Errorf("event data = %v", ev.Data)
	}
	stored, _ := store.Object(obj.ID)
	if !stored.IsOwnedBy(bob.ID) {
		t.Errorf("owner = %v, want %d", stored.OwnerID, bob.ID)
	}

	again, err := svc.TransferOwnership(ctx, obj.ID, bob.ID)
	if err != nil || again != nil {
		t.Errorf("repeat transfer = %+v, %v; want no event", again, err)
	}

	if _, err := svc.TransferOwnership(ctx, obj.ID, 999); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown user: %v", err)
	}
	if _, err := svc.TransferOwnership(ctx, 999, bob.ID); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown object: %v", err)
	}
}

func TestTransferOwnership_OwnerlessObject(t *testing.T) {
	svc, store := newService(t)
	bob := store.AddUser(model.User{Email: "b@example.com", FullName: "Bob"})
	obj := store.AddObject(model.Object{Title: "Plot"})

	ev, err := svc.TransferOwnership(context.Background(), obj.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ev.Data["previous_owner_id"]; ok {
		t.Errorf("unexpected previous owner in %v", ev.Data)
	}
}
