package service

import (
	"context"
	"errors"
	"strings"

	directoryerrors "swapstay/internal/directory/errors"
	"swapstay/internal/directory/repository"
	"swapstay/internal/directory/validator"
	"swapstay/internal/events"
	"swapstay/pkg/config"
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/model"
	"swapstay/pkg/sanitizer"
)

type DirectoryService interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)

	ListObjects(ctx context.Context, ownerID *int64) ([]*model.Object, error)
	GetObject(ctx context.Context, id int64) (*model.Object, error)
	CreateObject(ctx context.Context, req *model.CreateObjectRequest) (*model.Object, error)

	// TransferOwnership locks the object and makes newOwnerID its owner. It
	// joins the caller's transaction when one is open. The returned event is
	// nil when the owner did not change; the caller publishes it after commit.
	TransferOwnership(ctx context.Context, objectID, newOwnerID int64) (*events.Event, error)
}

type directoryService struct {
	repo      repository.DirectoryRepository
	validator *validator.ObjectValidator
	cfg       *config.Config
}

func NewDirectoryService(
	repo repository.DirectoryRepository,
	validator *validator.ObjectValidator,
	cfg *config.Config,
) DirectoryService {
	return &directoryService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *directoryService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

func (s *directoryService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.FindUser(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	return user, nil
}

func (s *directoryService) ListObjects(ctx context.Context, ownerID *int64) ([]*model.Object, error) {
	objects, err := s.repo.ListObjects(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list objects", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve objects", err)
	}
	return objects, nil
}

func (s *directoryService) GetObject(ctx context.Context, id int64) (*model.Object, error) {
	object, err := s.repo.FindObject(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	return object, nil
}

func (s *directoryService) CreateObject(ctx context.Context, req *model.CreateObjectRequest) (*model.Object, error) {
	s.sanitize(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Object validation failed", "error", err)
		return nil, err
	}

	object := &model.Object{
		OwnerID:      req.OwnerID,
		Title:        req.Title,
		Description:  req.Description,
		Images:       sanitizer.NormalizeURLs(req.Images),
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Address:      req.Address,
		Area:         req.Area,
		Rooms:        req.Rooms,
		Share:        req.Share,
	}
	if err := s.repo.InsertObject(ctx, object); err != nil {
		if errors.Is(err, directoryerrors.ErrUnknownOwner) {
			return nil, apperrors.NotFoundWithID("User", *req.OwnerID)
		}
		s.cfg.Log.Error("Failed to create object", "error", err)
		return nil, apperrors.Internal("Failed to create object", err)
	}

	s.cfg.Log.Info("Object created", "object_id", object.ID, "owner_id", object.OwnerID)
	return object, nil
}

func (s *directoryService) TransferOwnership(ctx context.Context, objectID, newOwnerID int64) (*events.Event, error) {
	var ev *events.Event

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		object, err := s.repo.LockObject(txCtx, objectID)
		if err != nil {
			return translate(err, objectID)
		}
		if object.IsOwnedBy(newOwnerID) {
			return nil
		}

		if err := s.repo.UpdateObjectOwner(txCtx, objectID, newOwnerID); err != nil {
			if errors.Is(err, directoryerrors.ErrUnknownOwner) {
				return apperrors.NotFoundWithID("User", newOwnerID)
			}
			return translate(err, objectID)
		}

		e := events.New(events.ObjectOwnerTransferred, events.EntityObject, objectID).
			WithActor(newOwnerID).
			With("new_owner_id", newOwnerID)
		if object.OwnerID != nil {
			e = e.With("previous_owner_id", *object.OwnerID)
		}
		ev = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ev != nil {
		s.cfg.Log.Info("Object ownership transferred", "object_id", objectID, "new_owner_id", newOwnerID)
	}
	return ev, nil
}

func (s *directoryService) sanitize(req *model.CreateObjectRequest) {
	req.Title = sanitizer.TrimAndNormalize(req.Title)
	req.Description = sanitizer.NormalizeMultiline(req.Description)
	req.OwnerName = sanitizer.NormalizeOptional(req.OwnerName)
	req.OwnerContact = sanitizer.NormalizeOptional(req.OwnerContact)
	req.Address = sanitizer.NormalizeOptional(req.Address)
	req.Share = sanitizer.NormalizeOptional(req.Share)
	if req.Images != nil {
		req.Images = sanitizer.NormalizeStringSlice(req.Images, strings.TrimSpace)
	}
}

func translate(err error, id int64) error {
	switch {
	case errors.Is(err, directoryerrors.ErrUserNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, directoryerrors.ErrObjectNotFound):
		return apperrors.NotFoundWithID("Object", id)
	case apperrors.IsAppError(err):
		return err
	}
	return apperrors.Internal("Directory lookup failed", err)
}
