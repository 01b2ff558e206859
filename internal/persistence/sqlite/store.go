// Package sqlite implements domain.Store on an embedded SQLite database for
// single-node deployments. It does not record outbox events.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"example.com/wellplan/internal/domain"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists profiles, plans and feedback in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers, which keeps active-plan swaps atomic.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS profiles (
        user_id TEXT PRIMARY KEY,
        document TEXT NOT NULL,
        targets TEXT,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS plans (
        plan_id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        source TEXT NOT NULL,
        fallback_reason TEXT NOT NULL DEFAULT '',
        active INTEGER NOT NULL DEFAULT 1,
        document TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_one_active ON plans(user_id, kind) WHERE active = 1;
    CREATE INDEX IF NOT EXISTS idx_plans_history ON plans(user_id, created_at, plan_id);

    CREATE TABLE IF NOT EXISTS plan_feedback (
        feedback_id TEXT PRIMARY KEY,
        plan_id TEXT NOT NULL REFERENCES plans(plan_id),
        user_id TEXT NOT NULL,
        day_key TEXT NOT NULL DEFAULT '',
        segment_key TEXT NOT NULL DEFAULT '',
        content TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_feedback_plan ON plan_feedback(plan_id, created_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

// GetProfile implements domain.Store.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var document string
	var targets sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT document, targets FROM profiles WHERE user_id = ?`, userID).Scan(&document, &targets)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(document), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	profile.UserID = userID
	profile.Targets = nil
	if targets.Valid {
		var t domain.NutritionTargets
		if err := json.Unmarshal([]byte(targets.String), &t); err != nil {
			return nil, fmt.Errorf("failed to decode targets: %w", err)
		}
		profile.Targets = &t
	}
	return &profile, nil
}

// SaveProfile implements domain.Store. The cached targets are replaced with the profile's.
func (s *Store) SaveProfile(ctx context.Context, profile domain.Profile) error {
	targets := profile.Targets
	profile.Targets = nil

	document, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	var targetsJSON sql.NullString
	if targets != nil {
		body, err := json.Marshal(targets)
		if err != nil {
			return err
		}
		targetsJSON = sql.NullString{String: string(body), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, document, targets, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, targets = excluded.targets, updated_at = excluded.updated_at
    `, profile.UserID, string(document), targetsJSON, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveTargets implements domain.Store.
func (s *Store) SaveTargets(ctx context.Context, userID string, targets domain.NutritionTargets) error {
	body, err := json.Marshal(targets)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET targets = ?, updated_at = ? WHERE user_id = ?`, string(body), formatTime(time.Now()), userID)
	if err != nil {
		return fmt.Errorf("failed to save targets: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

const planColumns = `plan_id, user_id, kind, source, fallback_reason, active, document, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (domain.Plan, error) {
	var (
		plan      domain.Plan
		kind      string
		source    string
		document  string
		createdAt string
	)
	if err := row.Scan(&plan.ID, &plan.UserID, &kind, &source, &plan.FallbackReason, &plan.Active, &document, &createdAt); err != nil {
		return domain.Plan{}, err
	}
	plan.Kind = domain.PlanKind(kind)
	plan.Source = domain.PlanSource(source)

	ts, err := parseTime(createdAt)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	plan.CreatedAt = ts
	if err := plan.SetDocument([]byte(document)); err != nil {
		return domain.Plan{}, fmt.Errorf("failed to decode plan %s: %w", plan.ID, err)
	}
	return plan, nil
}

// GetPlan implements domain.Store.
func (s *Store) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := scanPlan(s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE plan_id = ?`, planID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetActivePlan implements domain.Store.
func (s *Store) GetActivePlan(ctx context.Context, userID string, kind domain.PlanKind) (*domain.Plan, error) {
	plan, err := scanPlan(s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE user_id = ? AND kind = ? AND active = 1`, userID, string(kind)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans implements domain.Store. Plans are ordered newest first.
func (s *Store) ListPlans(ctx context.Context, userID string, kind domain.PlanKind, cursor *domain.Cursor, limit int) ([]domain.Plan, *domain.Cursor, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id = ?`
	args := []interface{}{userID}

	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}
	if cursor != nil {
		query += " AND (created_at < ? OR (created_at = ? AND plan_id < ?))"
		ts := formatTime(cursor.CreatedAt)
		args = append(args, ts, ts, cursor.ID)
	}
	query += " ORDER BY created_at DESC, plan_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Plan, 0, limit)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// DeactivatePlan implements domain.Store.
func (s *Store) DeactivatePlan(ctx context.Context, planID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE plans SET active = 0 WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("failed to deactivate plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

// SwapActivePlan implements domain.Store.
func (s *Store) SwapActivePlan(ctx context.Context, plan domain.Plan) (string, error) {
	document, err := plan.Document()
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var priorID string
	err = tx.QueryRowContext(ctx, `SELECT plan_id FROM plans WHERE user_id = ? AND kind = ? AND active = 1`, plan.UserID, string(plan.Kind)).Scan(&priorID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if priorID != "" {
		if _, err := tx.ExecContext(ctx, `UPDATE plans SET active = 0 WHERE plan_id = ?`, priorID); err != nil {
			return "", fmt.Errorf("failed to deactivate prior plan: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO plans (plan_id, user_id, kind, source, fallback_reason, active, document, created_at)
        VALUES (?, ?, ?, ?, ?, 1, ?, ?)
    `, plan.ID, plan.UserID, string(plan.Kind), string(plan.Source), plan.FallbackReason, string(document), formatTime(plan.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("failed to insert plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return priorID, nil
}

// InsertFeedback implements domain.Store.
func (s *Store) InsertFeedback(ctx context.Context, record domain.FeedbackRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans WHERE plan_id = ?`, record.PlanID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrPlanNotFound
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO plan_feedback (feedback_id, plan_id, user_id, day_key, segment_key, content, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, record.ID, record.PlanID, record.UserID, record.DayKey, record.SegmentKey, record.Content, formatTime(record.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return tx.Commit()
}

// ListFeedback implements domain.Store.
func (s *Store) ListFeedback(ctx context.Context, planID string) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT feedback_id, plan_id, user_id, day_key, segment_key, content, created_at
        FROM plan_feedback WHERE plan_id = ? ORDER BY created_at, feedback_id
    `, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var records []domain.FeedbackRecord
	for rows.Next() {
		var rec domain.FeedbackRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.PlanID, &rec.UserID, &rec.DayKey, &rec.SegmentKey, &rec.Content, &createdAt); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ domain.Store = (*Store)(nil)
