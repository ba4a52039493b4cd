package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/tanpawarit/appointment-assistant/scheduling"
)

var _ scheduling.Store = (*Store)(nil)

// Store persists users, appointments and the action log in Postgres through bun.
type Store struct {
	db *bun.DB
}

func New(db *bun.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &Store{db: db}, nil
}

// CreateSchema creates the three tables when they are missing. Existing data is kept.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*userRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*appointmentRow)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create appointments table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*actionLogRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create action_logs table: %w", err)
	}

	return nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx scheduling.Tx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &txStore{tx: tx})
	})
}

func (s *Store) LatestAppointment(ctx context.Context, userID int64) (*scheduling.Appointment, error) {
	var row appointmentRow
	err := s.db.NewSelect().
		Model(&row).
		Where("a.user_id = ?", userID).
		OrderExpr("a.created_at DESC, a.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scheduling.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest appointment: %w", err)
	}

	appt := row.toDomain()
	return &appt, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]scheduling.User, error) {
	var rows []userRow
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("u.created_at DESC, u.id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]scheduling.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) ListAppointments(ctx context.Context) ([]scheduling.Appointment, error) {
	var rows []appointmentRow
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("a.created_at DESC, a.id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := make([]scheduling.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) ListActionLogs(ctx context.Context) ([]scheduling.ActionLog, error) {
	var rows []actionLogRow
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("l.created_at DESC, l.id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list action logs: %w", err)
	}

	out := make([]scheduling.ActionLog, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

type txStore struct {
	tx bun.Tx
}

func (t *txStore) FindUser(ctx context.Context, name string, dateOfBirth time.Time) (*scheduling.User, error) {
	var row userRow
	err := t.tx.NewSelect().
		Model(&row).
		Where("u.name = ?", name).
		Where("u.date_of_birth = ?", scheduling.FormatDate(dateOfBirth)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scheduling.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	u := row.toDomain()
	return &u, nil
}

func (t *txStore) UserExists(ctx context.Context, id int64) (bool, error) {
	exists, err := t.tx.NewSelect().
		Model((*userRow)(nil)).
		Where("u.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (t *txStore) InsertUser(ctx context.Context, u *scheduling.User) (bool, error) {
	row := &userRow{
		Name:        u.Name,
		DateOfBirth: u.DateOfBirth,
	}
	res, err := t.tx.NewInsert().
		Model(row).
		On("CONFLICT (name, date_of_birth) DO NOTHING").
		Returning("id, created_at").
		Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}

	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	return true, nil
}

func (t *txStore) InsertAppointment(ctx context.Context, a *scheduling.Appointment) error {
	row := &appointmentRow{
		UserID:          a.UserID,
		AppointmentDate: a.Date,
		AppointmentTime: scheduling.FormatTime(a.Time),
		Purpose:         a.Purpose,
		Status:          string(a.Status),
	}
	if _, err := t.tx.NewInsert().
		Model(row).
		Returning("id, created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	return nil
}

func (t *txStore) CancelLatestActive(ctx context.Context, userID int64) (int64, error) {
	latest := t.tx.NewSelect().
		Model((*appointmentRow)(nil)).
		Column("a.id").
		Where("a.user_id = ?", userID).
		Where("a.status <> ?", string(scheduling.StatusCancelled)).
		OrderExpr("a.created_at DESC, a.id DESC").
		Limit(1)

	var id int64
	err := t.tx.NewUpdate().
		Model((*appointmentRow)(nil)).
		Set("status = ?", string(scheduling.StatusCancelled)).
		Where("a.id = (?)", latest).
		Returning("a.id").
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, scheduling.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("cancel appointment: %w", err)
	}
	return id, nil
}

func (t *txStore) AppendAction(ctx context.Context, userID int64, action string) error {
	if _, err := t.tx.NewInsert().
		Model(&actionLogRow{UserID: userID, Action: action}).
		Exec(ctx); err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}
