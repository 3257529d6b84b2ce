package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "swapstay/internal/bookings/errors"
	"swapstay/pkg/config"
	"swapstay/pkg/db/postgres"
	"swapstay/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// HasConflict reports whether a pending or confirmed booking on objectID
	// overlaps r. excludeID skips one booking, used when relocating it.
	HasConflict(ctx context.Context, objectID int64, r model.DateRange, excludeID *int64) (bool, error)
	// FindConfirmedOccupant returns the user of a confirmed booking on objectID
	// overlapping r, or nil.
	FindConfirmedOccupant(ctx context.Context, objectID int64, r model.DateRange) (*int64, error)

	Insert(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	FindForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	ListViews(ctx context.Context) ([]*model.BookingView, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	Relocate(ctx context.Context, id, objectID int64, r model.DateRange, status model.BookingStatus) (*model.Booking, error)

	ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error
}

type pgBookingRepository struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	txManager postgres.TransactionManager
}

func NewPostgresBookingRepository(cfg *config.Config) BookingRepository {
	return &pgBookingRepository{
		cfg:       cfg,
		pool:      cfg.Client.Postgres,
		txManager: postgres.NewTransactionManager(cfg.Client.Postgres),
	}
}

const bookingColumns = `id, object_id, user_id, status, start_date, end_date, guests, note, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var status string
	if err := row.Scan(&b.ID, &b.ObjectID, &b.UserID, &status, &b.StartDate, &b.EndDate, &b.Guests, &b.Note, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

func (r *pgBookingRepository) HasConflict(ctx context.Context, objectID int64, dr model.DateRange, excludeID *int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE object_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND NOT (end_date < $2 OR start_date > $3)
			  AND ($4::bigint IS NULL OR id <> $4)
		)`

	var exists bool
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, q, objectID, dr.Start, dr.End, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking conflicts: %w", err)
	}
	return exists, nil
}

func (r *pgBookingRepository) FindConfirmedOccupant(ctx context.Context, objectID int64, dr model.DateRange) (*int64, error) {
	const q = `
		SELECT user_id FROM bookings
		WHERE object_id = $1
		  AND status = 'confirmed'
		  AND NOT (end_date < $2 OR start_date > $3)
		ORDER BY start_date
		LIMIT 1`

	var userID int64
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, q, objectID, dr.Start, dr.End).Scan(&userID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find occupant: %w", err)
	}
	return &userID, nil
}

func (r *pgBookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	q := `
		INSERT INTO bookings (object_id, user_id, status, start_date, end_date, guests, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns

	row := postgres.Conn(ctx, r.pool).QueryRow(ctx, q,
		b.ObjectID, b.UserID, string(b.Status), b.StartDate, b.EndDate, b.Guests, b.Note)
	created, err := scanBooking(row)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrUnknownReference, postgres.ConstraintName(err))
		}
		if postgres.IsCheckViolation(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDateRange, postgres.ConstraintName(err))
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	*b = *created
	return nil
}

func (r *pgBookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *pgBookingRepository) FindForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *pgBookingRepository) findOne(ctx context.Context, q string, id int64) (*model.Booking, error) {
	b, err := scanBooking(postgres.Conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepository) ListViews(ctx context.Context) ([]*model.BookingView, error) {
	const q = `
		SELECT b.id, b.object_id, b.user_id, b.status, b.start_date, b.end_date, b.guests, b.note, b.created_at,
		       u.full_name, u.phone, o.title
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN objects o ON o.id = b.object_id
		ORDER BY b.created_at DESC, b.id DESC`

	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	views := make([]*model.BookingView, 0)
	for rows.Next() {
		var v model.BookingView
		var status string
		if err := rows.Scan(&v.ID, &v.ObjectID, &v.UserID, &status, &v.StartDate, &v.EndDate, &v.Guests, &v.Note, &v.CreatedAt,
			&v.UserName, &v.UserPhone, &v.ObjectTitle); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		v.Status = model.BookingStatus(status)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return views, nil
}

func (r *pgBookingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
	}
	return nil
}

func (r *pgBookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	q := `UPDATE bookings SET status = $2 WHERE id = $1 RETURNING ` + bookingColumns
	return r.findOneWith(ctx, q, id, string(status))
}

func (r *pgBookingRepository) Relocate(ctx context.Context, id, objectID int64, dr model.DateRange, status model.BookingStatus) (*model.Booking, error) {
	q := `
		UPDATE bookings
		SET object_id = $2, start_date = $3, end_date = $4, status = $5
		WHERE id = $1
		RETURNING ` + bookingColumns
	return r.findOneWith(ctx, q, id, objectID, dr.Start, dr.End, string(status))
}

func (r *pgBookingRepository) findOneWith(ctx context.Context, q string, id int64, args ...any) (*model.Booking, error) {
	b, err := scanBooking(postgres.Conn(ctx, r.pool).QueryRow(ctx, q, append([]any{id}, args...)...))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		if postgres.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrUnknownReference, postgres.ConstraintName(err))
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepository) ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// withTimeout bounds a new transaction by the configured write timeout unless
// the caller already set a tighter deadline or a transaction is open.
func (r *pgBookingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := postgres.TxFromContext(ctx); ok {
		return ctx, func() {}
	}
	timeout := r.cfg.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
