package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"swapstay/pkg/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

const queryTimeout = 5 * time.Second

// PostgresHelper seeds and inspects the API's database directly. Users have
// no create endpoint, so every test seeds them here.
type PostgresHelper struct {
	Pool *pgxpool.Pool
	seq  int
}

func NewPostgresHelper(t *testing.T, databaseURL string) *PostgresHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to ping PostgreSQL: %v", err)
	}
	return &PostgresHelper{Pool: pool}
}

func (p *PostgresHelper) Close() {
	p.Pool.Close()
}

func (p *PostgresHelper) Truncate(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := p.Pool.Exec(ctx, `TRUNCATE exchanges, bookings, objects, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedUser inserts a user with a unique email and returns it.
func (p *PostgresHelper) SeedUser(t *testing.T, fullName, phone string) model.User {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	p.seq++
	u := model.User{
		Email:    fmt.Sprintf("user%d-%d@example.com", p.seq, time.Now().UnixNano()),
		FullName: fullName,
		Role:     "client",
	}
	if phone != "" {
		u.Phone = &phone
	}

	err := p.Pool.QueryRow(ctx,
		`INSERT INTO users (email, full_name, phone, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		u.Email, u.FullName, u.Phone, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

// SetBookingStatus bypasses the API to put a booking in any state.
func (p *PostgresHelper) SetBookingStatus(t *testing.T, bookingID int64, status model.BookingStatus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := p.Pool.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, string(status), bookingID); err != nil {
		t.Fatalf("failed to update booking %d: %v", bookingID, err)
	}
}

func (p *PostgresHelper) ObjectOwner(t *testing.T, objectID int64) *int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var owner *int64
	if err := p.Pool.QueryRow(ctx, `SELECT owner_id FROM objects WHERE id = $1`, objectID).Scan(&owner); err != nil {
		t.Fatalf("failed to read object %d: %v", objectID, err)
	}
	return owner
}

// CountBlocking counts pending and confirmed bookings of an object.
func (p *PostgresHelper) CountBlocking(t *testing.T, objectID int64) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var n int
	err := p.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE object_id = $1 AND status IN ('pending', 'confirmed')`,
		objectID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return n
}
