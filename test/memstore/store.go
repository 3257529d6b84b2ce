// Package memstore is an in-memory stand-in for the Postgres repositories.
// Transactions are serialized by one mutex, which is stricter than the row
// locks they replace, and a failed transaction restores the state it began
// with.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"swapstay/pkg/db/postgres"
	"swapstay/pkg/model"
)

type txKey struct{}

type state struct {
	users     map[int64]model.User
	objects   map[int64]model.Object
	bookings  map[int64]model.Booking
	exchanges map[int64]model.Exchange
	nextID    int64
	clock     time.Time
}

func (s *state) clone() *state {
	c := &state{
		users:     make(map[int64]model.User, len(s.users)),
		objects:   make(map[int64]model.Object, len(s.objects)),
		bookings:  make(map[int64]model.Booking, len(s.bookings)),
		exchanges: make(map[int64]model.Exchange, len(s.exchanges)),
		nextID:    s.nextID,
		clock:     s.clock,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.objects {
		v.Images = append([]string(nil), v.Images...)
		c.objects[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.exchanges {
		c.exchanges[k] = v
	}
	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   *state

	failMu sync.Mutex
	fail   map[string]error
	locks  []int64

	Transactions int
}

func New() *Store {
	return &Store{
		st: &state{
			users:     map[int64]model.User{},
			objects:   map[int64]model.Object{},
			bookings:  map[int64]model.Booking{},
			exchanges: map[int64]model.Exchange{},
			clock:     time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		},
		fail: map[string]error{},
	}
}

// FailOn makes the named operation (for example "bookings.Insert") return err
// until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.fail[op]
}

// LockedObjects returns the object ids passed to LockObject, in call order.
func (s *Store) LockedObjects() []int64 {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return append([]int64(nil), s.locks...)
}

func (s *Store) recordLock(id int64) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.locks = append(s.locks, id)
}

func (s *Store) ExecuteTransaction(ctx context.Context, fn postgres.TransactionFunc) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.Transactions++
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// with runs f under the data lock.
func (s *Store) with(f func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.st)
}

func (st *state) newID() int64 {
	st.nextID++
	return st.nextID
}

// tick hands out strictly increasing creation times so newest-first ordering
// is deterministic.
func (st *state) tick() time.Time {
	st.clock = st.clock.Add(time.Second)
	return st.clock
}

// Seeding and inspection helpers.

func (s *Store) AddUser(u model.User) *model.User {
	_ = s.with(func(st *state) error {
		u.ID = st.newID()
		u.CreatedAt = st.tick()
		st.users[u.ID] = u
		return nil
	})
	return &u
}

func (s *Store) AddObject(o model.Object) *model.Object {
	_ = s.with(func(st *state) error {
		o.ID = st.newID()
		o.CreatedAt = st.tick()
		if o.Images == nil {
			o.Images = []string{}
		}
		st.objects[o.ID] = o
		return nil
	})
	return &o
}

// AddBooking stores b as given, skipping every check.
func (s *Store) AddBooking(b model.Booking) *model.Booking {
	_ = s.with(func(st *state) error {
		b.ID = st.newID()
		b.CreatedAt = st.tick()
		if b.Guests == 0 {
			b.Guests = 1
		}
		st.bookings[b.ID] = b
		return nil
	})
	return &b
}

func (s *Store) Booking(id int64) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

func (s *Store) Object(id int64) (model.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.objects[id]
	return o, ok
}

func (s *Store) Exchange(id int64) (model.Exchange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.st.exchanges[id]
	return e, ok
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.bookings)
}

func (s *Store) ExchangeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.exchanges)
}

// BookingsOn returns the bookings of one object ordered by id.
func (s *Store) BookingsOn(objectID int64) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.st.bookings {
		if b.ObjectID == objectID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OverlappingBlocking lists pairs of blocking bookings on the same object whose
// ranges overlap. An empty result means no double booking.
func (s *Store) OverlappingBlocking() [][2]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.st.bookings))
	for id := range s.st.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var pairs [][2]int64
	for i, a := range ids {
		ba := s.st.bookings[a]
		if !ba.Status.IsBlocking() {
			continue
		}
		for _, b := range ids[i+1:] {
			bb := s.st.bookings[b]
			if bb.ObjectID != ba.ObjectID || !bb.Status.IsBlocking() {
				continue
			}
			if ba.Range().Overlaps(bb.Range()) {
				pairs = append(pairs, [2]int64{a, b})
			}
		}
	}
	return pairs
}

var errInjected = errors.New("injected failure")

// ErrInjected is a ready-made error for FailOn.
func ErrInjected(op string) error {
	return fmt.Errorf("%s: %w", op, errInjected)
}
