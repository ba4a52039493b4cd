package scheduling

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// memStore is a transactional in-memory Store: a Tx works on copies that are only
// published when the callback returns nil.
type memStore struct {
	mu    sync.Mutex
	clock time.Time

	users []User
	appts []Appointment
	logs  []ActionLog

	commits   int
	rollbacks int

	failAppend    error
	hideUsersOnce bool
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store: m,
		users: append([]User(nil), m.users...),
		appts: append([]Appointment(nil), m.appts...),
		logs:  append([]ActionLog(nil), m.logs...),
	}
	if err := fn(ctx, tx); err != nil {
		m.rollbacks++
		return err
	}
	m.users, m.appts, m.logs = tx.users, tx.appts, tx.logs
	m.commits++
	return nil
}

func (m *memStore) LatestAppointment(ctx context.Context, userID int64) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *Appointment
	for i := range m.appts {
		a := m.appts[i]
		if a.UserID != userID {
			continue
		}
		if latest == nil || newer(a, *latest) {
			latest = &a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *memStore) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]User(nil), m.users...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]Appointment(nil), m.appts...)
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, nil
}

func (m *memStore) ListActionLogs(ctx context.Context) ([]ActionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]ActionLog(nil), m.logs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func newer(a, b Appointment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

type memTx struct {
	store *memStore
	users []User
	appts []Appointment
	logs  []ActionLog
}

func (t *memTx) FindUser(ctx context.Context, name string, dob time.Time) (*User, error) {
	if t.store.hideUsersOnce {
		t.store.hideUsersOnce = false
		return nil, ErrNotFound
	}
	for i := range t.users {
		if t.users[i].Name == name && t.users[i].DateOfBirth.Equal(dob) {
			u := t.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (t *memTx) UserExists(ctx context.Context, id int64) (bool, error) {
	for _, u := range t.users {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertUser(ctx context.Context, u *User) (bool, error) {
	for _, existing := range t.users {
		if existing.Name == u.Name && existing.DateOfBirth.Equal(u.DateOfBirth) {
			return false, nil
		}
	}
	u.ID = int64(len(t.users) + 1)
	u.CreatedAt = t.store.tick()
	t.users = append(t.users, *u)
	return true, nil
}

func (t *memTx) InsertAppointment(ctx context.Context, a *Appointment) error {
	a.ID = int64(len(t.appts) + 1)
	a.CreatedAt = t.store.tick()
	t.appts = append(t.appts, *a)
	return nil
}

func (t *memTx) CancelLatestActive(ctx context.Context, userID int64) (int64, error) {
	idx := -1
	for i, a := range t.appts {
		if a.UserID != userID || a.Status == StatusCancelled {
			continue
		}
		if idx < 0 || newer(a, t.appts[idx]) {
			idx = i
		}
	}
	if idx < 0 {
		return 0, ErrNotFound
	}
	t.appts[idx].Status = StatusCancelled
	return t.appts[idx].ID, nil
}

func (t *memTx) AppendAction(ctx context.Context, userID int64, action string) error {
	if t.store.failAppend != nil {
		return t.store.failAppend
	}
	t.logs = append(t.logs, ActionLog{
		ID:        int64(len(t.logs) + 1),
		UserID:    userID,
		Action:    action,
		CreatedAt: t.store.tick(),
	})
	return nil
}

var errDiskFull = errors.New("disk full")
