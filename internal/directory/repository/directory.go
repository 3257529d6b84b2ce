package repository

import (
	"context"
	"fmt"

	directoryerrors "swapstay/internal/directory/errors"
	"swapstay/pkg/config"
	"swapstay/pkg/db/postgres"
	"swapstay/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DirectoryRepository is the user and object lookup the booking core depends on.
type DirectoryRepository interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	FindUser(ctx context.Context, id int64) (*model.User, error)

	ListObjects(ctx context.Context, ownerID *int64) ([]*model.Object, error)
	FindObject(ctx context.Context, id int64) (*model.Object, error)
	// LockObject reads the object with FOR UPDATE. It must run inside a
	// transaction to hold the lock.
	LockObject(ctx context.Context, id int64) (*model.Object, error)
	InsertObject(ctx context.Context, o *model.Object) error
	UpdateObjectOwner(ctx context.Context, objectID, ownerID int64) error

	ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error
}

type pgDirectoryRepository struct {
	pool      *pgxpool.Pool
	txManager postgres.TransactionManager
}

func NewPostgresDirectoryRepository(cfg *config.Config) DirectoryRepository {
	return &pgDirectoryRepository{
		pool:      cfg.Client.Postgres,
		txManager: postgres.NewTransactionManager(cfg.Client.Postgres),
	}
}

const (
	userColumns   = `id, email, full_name, phone, role, status, created_at`
	objectColumns = `id, owner_id, title, description, images, owner_name, owner_contact, address, area, rooms, share, created_at`
)

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.Status, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanObject(row pgx.Row) (*model.Object, error) {
	var o model.Object
	if err := row.Scan(&o.ID, &o.OwnerID, &o.Title, &o.Description, &o.Images, &o.OwnerName, &o.OwnerContact,
		&o.Address, &o.Area, &o.Rooms, &o.Share, &o.CreatedAt); err != nil {
		return nil, err
	}
	if o.Images == nil {
		o.Images = []string{}
	}
	return &o, nil
}

func (r *pgDirectoryRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *pgDirectoryRepository) FindUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(postgres.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %d", directoryerrors.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *pgDirectoryRepository) ListObjects(ctx context.Context, ownerID *int64) ([]*model.Object, error) {
	const q = `SELECT ` + objectColumns + ` FROM objects
		WHERE ($1::bigint IS NULL OR owner_id = $1)
		ORDER BY created_at DESC, id DESC`

	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	defer rows.Close()

	objects := make([]*model.Object, 0)
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate objects: %w", err)
	}
	return objects, nil
}

func (r *pgDirectoryRepository) FindObject(ctx context.Context, id int64) (*model.Object, error) {
	return r.findObject(ctx, `SELECT `+objectColumns+` FROM objects WHERE id = $1`, id)
}

func (r *pgDirectoryRepository) LockObject(ctx context.Context, id int64) (*model.Object, error) {
	return r.findObject(ctx, `SELECT `+objectColumns+` FROM objects WHERE id = $1 FOR UPDATE`, id)
}

func (r *pgDirectoryRepository) findObject(ctx context.Context, q string, id int64) (*model.Object, error) {
	o, err := scanObject(postgres.Conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %d", directoryerrors.ErrObjectNotFound, id)
		}
		return nil, fmt.Errorf("failed to find object: %w", err)
	}
	return o, nil
}

func (r *pgDirectoryRepository) InsertObject(ctx context.Context, o *model.Object) error {
	q := `
		INSERT INTO objects (owner_id, title, description, images, owner_name, owner_contact, address, area, rooms, share)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + objectColumns

	created, err := scanObject(postgres.Conn(ctx, r.pool).QueryRow(ctx, q,
		o.OwnerID, o.Title, o.Description, o.Images, o.OwnerName, o.OwnerContact, o.Address, o.Area, o.Rooms, o.Share))
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", directoryerrors.ErrUnknownOwner, postgres.ConstraintName(err))
		}
		return fmt.Errorf("failed to insert object: %w", err)
	}
	*o = *created
	return nil
}

func (r *pgDirectoryRepository) UpdateObjectOwner(ctx context.Context, objectID, ownerID int64) error {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx, `UPDATE objects SET owner_id = $2 WHERE id = $1`, objectID, ownerID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %d", directoryerrors.ErrUnknownOwner, ownerID)
		}
		return fmt.Errorf("failed to update object owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", directoryerrors.ErrObjectNotFound, objectID)
	}
	return nil
}

func (r *pgDirectoryRepository) ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
