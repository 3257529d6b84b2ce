package memstore

import (
	"context"
	"fmt"
	"sort"

	directoryerrors "swapstay/internal/directory/errors"
	"swapstay/internal/directory/repository"
	"swapstay/pkg/model"
)

type directoryRepo struct {
	*Store
}

var _ repository.DirectoryRepository = directoryRepo{}

// Directory returns the store as a user and object directory.
func (s *Store) Directory() repository.DirectoryRepository {
	return directoryRepo{s}
}

func (r directoryRepo) ListUsers(_ context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	_ = r.with(func(st *state) error {
		for _, u := range st.users {
			u := u
			users = append(users, &u)
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r directoryRepo) FindUser(_ context.Context, id int64) (*model.User, error) {
	var out *model.User
	err := r.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return fmt.Errorf("%w: %d", directoryerrors.ErrUserNotFound, id)
		}
		out = &u
		return nil
	})
	return out, err
}

func (r directoryRepo) ListObjects(_ context.Context, ownerID *int64) ([]*model.Object, error) {
	objects := make([]*model.Object, 0)
	_ = r.with(func(st *state) error {
		for _, o := range st.objects {
			if ownerID != nil && !o.IsOwnedBy(*ownerID) {
				continue
			}
			o := o
			objects = append(objects, &o)
		}
		return nil
	})
	sort.Slice(objects, func(i, j int) bool { return objects[i].CreatedAt.After(objects[j].CreatedAt) })
	return objects, nil
}

func (r directoryRepo) FindObject(_ context.Context, id int64) (*model.Object, error) {
	var out *model.Object
	err := r.with(func(st *state) error {
		o, ok := st.objects[id]
		if !ok {
			return fmt.Errorf("%w: %d", directoryerrors.ErrObjectNotFound, id)
		}
		out = &o
		return nil
	})
	return out, err
}

func (r directoryRepo) LockObject(ctx context.Context, id int64) (*model.Object, error) {
	r.recordLock(id)
	if err := r.injected("directory.LockObject"); err != nil {
		return nil, err
	}
	return r.FindObject(ctx, id)
}

func (r directoryRepo) InsertObject(_ context.Context, o *model.Object) error {
	return r.with(func(st *state) error {
		if o.OwnerID != nil {
			if _, ok := st.users[*o.OwnerID]; !ok {
				return fmt.Errorf("%w: objects_owner_id_fkey", directoryerrors.ErrUnknownOwner)
			}
		}
		o.ID = st.newID()
		o.CreatedAt = st.tick()
		if o.Images == nil {
			o.Images = []string{}
		}
		st.objects[o.ID] = *o
		return nil
	})
}

func (r directoryRepo) UpdateObjectOwner(_ context.Context, objectID, ownerID int64) error {
	if err := r.injected("directory.UpdateObjectOwner"); err != nil {
		return err
	}
	return r.with(func(st *state) error {
		o, ok := st.objects[objectID]
		if !ok {
			return fmt.Errorf("%w: %d", directoryerrors.ErrObjectNotFound, objectID)
		}
		if _, ok := st.users[ownerID]; !ok {
			return fmt.Errorf("%w: %d", directoryerrors.ErrUnknownOwner, ownerID)
		}
		o.OwnerID = &ownerID
		st.objects[objectID] = o
		return nil
	})
}
