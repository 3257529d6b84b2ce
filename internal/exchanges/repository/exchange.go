package repository

import (
	"context"
	"fmt"
	"time"

	exchangeserrors "swapstay/internal/exchanges/errors"
	"swapstay/pkg/config"
	"swapstay/pkg/db/postgres"
	"swapstay/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExchangeRepository interface {
	Insert(ctx context.Context, e *model.Exchange) error
	FindByID(ctx context.Context, id int64) (*model.Exchange, error)
	FindForUpdate(ctx context.Context, id int64) (*model.Exchange, error)
	// List returns exchanges newest first, optionally only those requested by userID.
	List(ctx context.Context, userID *int64) ([]*model.ExchangeView, error)
	// ListIncoming returns exchanges whose counterpart is userID, either as the
	// recorded target owner or as the target object's owner.
	ListIncoming(ctx context.Context, userID int64) ([]*model.ExchangeView, error)
	Decide(ctx context.Context, id int64, status model.ExchangeStatus, decidedAt time.Time) (*model.Exchange, error)
	SaveSharedContacts(ctx context.Context, id int64, shared *model.SharedContacts) (*model.Exchange, error)

	ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error
}

type pgExchangeRepository struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	txManager postgres.TransactionManager
}

func NewPostgresExchangeRepository(cfg *config.Config) ExchangeRepository {
	return &pgExchangeRepository{
		cfg:       cfg,
		pool:      cfg.Client.Postgres,
		txManager: postgres.NewTransactionManager(cfg.Client.Postgres),
	}
}

const exchangeColumns = `id, user_id, base_booking_id, target_object_id, start_date, end_date, nights, message,
	status, created_at, decided_at, contact, shared_contacts, target_owner_id`

func exchangeDest(e *model.Exchange, status *string) []any {
	return []any{
		&e.ID, &e.UserID, &e.BaseBookingID, &e.TargetObjectID, &e.StartDate, &e.EndDate, &e.Nights, &e.Message,
		status, &e.CreatedAt, &e.DecidedAt, &e.Contact, &e.SharedContacts, &e.TargetOwnerID,
	}
}

func scanExchange(row pgx.Row) (*model.Exchange, error) {
	var e model.Exchange
	var status string
	if err := row.Scan(exchangeDest(&e, &status)...); err != nil {
		return nil, err
	}
	e.Status = model.ExchangeStatus(status)
	return &e, nil
}

func (r *pgExchangeRepository) Insert(ctx context.Context, e *model.Exchange) error {
	q := `
		INSERT INTO exchanges (user_id, base_booking_id, target_object_id, start_date, end_date, nights, message,
		                       status, contact, target_owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + exchangeColumns

	created, err := scanExchange(postgres.Conn(ctx, r.pool).QueryRow(ctx, q,
		e.UserID, e.BaseBookingID, e.TargetObjectID, e.StartDate, e.EndDate, e.Nights, e.Message,
		string(e.Status), e.Contact, e.TargetOwnerID))
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", exchangeserrors.ErrUnknownReference, postgres.ConstraintName(err))
		}
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	*e = *created
	return nil
}

func (r *pgExchangeRepository) FindByID(ctx context.Context, id int64) (*model.Exchange, error) {
	return r.findOne(ctx, `SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1`, id)
}

func (r *pgExchangeRepository) FindForUpdate(ctx context.Context, id int64) (*model.Exchange, error) {
	return r.findOne(ctx, `SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1 FOR UPDATE`, id)
}

func (r *pgExchangeRepository) findOne(ctx context.Context, q string, args ...any) (*model.Exchange, error) {
	e, err := scanExchange(postgres.Conn(ctx, r.pool).QueryRow(ctx, q, args...))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %v", exchangeserrors.ErrNotFound, args[0])
		}
		return nil, fmt.Errorf("failed to query exchange: %w", err)
	}
	return e, nil
}

const viewSelect = `
	SELECT e.id, e.user_id, e.base_booking_id, e.target_object_id, e.start_date, e.end_date, e.nights, e.message,
	       e.status, e.created_at, e.decided_at, e.contact, e.shared_contacts, e.target_owner_id,
	       bo.object_id, obase.title, otarget.title
	FROM exchanges e
	LEFT JOIN bookings bo ON bo.id = e.base_booking_id
	LEFT JOIN objects obase ON obase.id = bo.object_id
	LEFT JOIN objects otarget ON otarget.id = e.target_object_id`

func (r *pgExchangeRepository) List(ctx context.Context, userID *int64) ([]*model.ExchangeView, error) {
	q := viewSelect + `
	WHERE ($1::bigint IS NULL OR e.user_id = $1)
	ORDER BY e.created_at DESC, e.id DESC`
	return r.listViews(ctx, q, userID)
}

func (r *pgExchangeRepository) ListIncoming(ctx context.Context, userID int64) ([]*model.ExchangeView, error) {
	q := viewSelect + `
	WHERE e.target_owner_id = $1
	   OR (e.target_owner_id IS NULL AND otarget.owner_id = $1)
	ORDER BY e.created_at DESC, e.id DESC`
	return r.listViews(ctx, q, userID)
}

func (r *pgExchangeRepository) listViews(ctx context.Context, q string, args ...any) ([]*model.ExchangeView, error) {
	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	views := make([]*model.ExchangeView, 0)
	for rows.Next() {
		var v model.ExchangeView
		var status string
		dest := append(exchangeDest(&v.Exchange, &status), &v.BaseObjectID, &v.BaseObjectTitle, &v.TargetObjectTitle)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		v.Status = model.ExchangeStatus(status)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}
	return views, nil
}

func (r *pgExchangeRepository) Decide(ctx context.Context, id int64, status model.ExchangeStatus, decidedAt time.Time) (*model.Exchange, error) {
	q := `UPDATE exchanges SET status = $2, decided_at = $3 WHERE id = $1 RETURNING ` + exchangeColumns
	return r.findOne(ctx, q, id, string(status), decidedAt)
}

func (r *pgExchangeRepository) SaveSharedContacts(ctx context.Context, id int64, shared *model.SharedContacts) (*model.Exchange, error) {
	q := `UPDATE exchanges SET shared_contacts = $2 WHERE id = $1 RETURNING ` + exchangeColumns
	return r.findOne(ctx, q, id, shared)
}

func (r *pgExchangeRepository) ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error {
	if _, ok := postgres.TxFromContext(ctx); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}
	return r.txManager.ExecuteTransaction(ctx, fn)
}
