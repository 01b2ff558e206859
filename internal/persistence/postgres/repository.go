// Package postgres implements domain.Store on Postgres, recording plan events
// in the outbox table inside the same transaction as the state change.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/events"
)

const foreignKeyViolation = "23503"

// Repository provides Postgres-backed persistence for profiles, plans, feedback and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile implements domain.Store.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var document, targets []byte
	err := r.pool.QueryRow(ctx, `SELECT document, targets FROM profiles WHERE user_id=$1`, userID).Scan(&document, &targets)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var profile domain.Profile
	if err := json.Unmarshal(document, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	profile.UserID = userID
	profile.Targets = nil
	if len(targets) > 0 {
		var t domain.NutritionTargets
		if err := json.Unmarshal(targets, &t); err != nil {
			return nil, fmt.Errorf("decode targets %s: %w", userID, err)
		}
		profile.Targets = &t
	}
	return &profile, nil
}

// SaveProfile implements domain.Store. The cached targets are replaced with the profile's.
func (r *Repository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	targets := profile.Targets
	profile.Targets = nil

	document, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	var targetsJSON []byte
	if targets != nil {
		if targetsJSON, err = json.Marshal(targets); err != nil {
			return err
		}
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, document, targets, updated_at) VALUES ($1,$2,$3,NOW())
         ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, targets = EXCLUDED.targets, updated_at = NOW()`,
		profile.UserID, document, targetsJSON,
	)
	return err
}

// SaveTargets implements domain.Store.
func (r *Repository) SaveTargets(ctx context.Context, userID string, targets domain.NutritionTargets) error {
	body, err := json.Marshal(targets)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET targets=$2, updated_at=NOW() WHERE user_id=$1`, userID, body)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

const planColumns = `plan_id, user_id, kind, source, COALESCE(fallback_reason, ''), active, document, created_at`

func scanPlan(row pgx.Row) (domain.Plan, error) {
	var plan domain.Plan
	var document []byte
	if err := row.Scan(&plan.ID, &plan.UserID, &plan.Kind, &plan.Source, &plan.FallbackReason, &plan.Active, &document, &plan.CreatedAt); err != nil {
		return domain.Plan{}, err
	}
	if err := plan.SetDocument(document); err != nil {
		return domain.Plan{}, fmt.Errorf("decode plan %s: %w", plan.ID, err)
	}
	return plan, nil
}

// GetPlan implements domain.Store.
func (r *Repository) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE plan_id=$1`, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetActivePlan implements domain.Store.
func (r *Repository) GetActivePlan(ctx context.Context, userID string, kind domain.PlanKind) (*domain.Plan, error) {
	plan, err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE user_id=$1 AND kind=$2 AND active`, userID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans implements domain.Store. Plans are ordered newest first.
func (r *Repository) ListPlans(ctx context.Context, userID string, kind domain.PlanKind, cursor *domain.Cursor, limit int) ([]domain.Plan, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id=$1`

	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(` AND kind=$%d`, len(args))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(` AND (created_at, plan_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	query += ` ORDER BY created_at DESC, plan_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
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

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

// DeactivatePlan implements domain.Store. Deactivating an inactive plan is a no-op.
func (r *Repository) DeactivatePlan(ctx context.Context, planID string) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var (
		userID string
		kind   domain.PlanKind
		active bool
	)
	err = tx.QueryRow(ctx, `SELECT user_id, kind, active FROM plans WHERE plan_id=$1 FOR UPDATE`, planID).Scan(&userID, &kind, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPlanNotFound
		}
		return err
	}

	if active {
		if _, err = tx.Exec(ctx, `UPDATE plans SET active=FALSE, deactivated_at=NOW() WHERE plan_id=$1`, planID); err != nil {
			return err
		}
		if err = insertOutbox(ctx, tx, planID, userID, events.PlanDeactivatedType, events.PlanDeactivated{
			PlanID:     planID,
			UserID:     userID,
			Kind:       string(kind),
			Reason:     events.ReasonUser,
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SwapActivePlan implements domain.Store. Swaps for the same user and kind are
// serialized by a transaction-scoped advisory lock.
func (r *Repository) SwapActivePlan(ctx context.Context, plan domain.Plan) (priorID string, err error) {
	document, err := plan.Document()
	if err != nil {
		return "", err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, plan.UserID+"|"+string(plan.Kind)); err != nil {
		return "", err
	}

	rows, err := tx.Query(ctx,
		`UPDATE plans SET active=FALSE, deactivated_at=NOW() WHERE user_id=$1 AND kind=$2 AND active RETURNING plan_id`,
		plan.UserID, plan.Kind)
	if err != nil {
		return "", err
	}
	var superseded []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return "", err
		}
		superseded = append(superseded, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO plans (plan_id, user_id, kind, source, fallback_reason, active, document, created_at)
         VALUES ($1,$2,$3,$4,$5,TRUE,$6,$7)`,
		plan.ID, plan.UserID, plan.Kind, plan.Source, nullIfEmpty(plan.FallbackReason), document, plan.CreatedAt,
	)
	if err != nil {
		return "", err
	}

	for _, id := range superseded {
		if err = insertOutbox(ctx, tx, id, plan.UserID, events.PlanDeactivatedType, events.PlanDeactivated{
			PlanID:     id,
			UserID:     plan.UserID,
			Kind:       string(plan.Kind),
			Reason:     events.ReasonSuperseded,
			OccurredAt: plan.CreatedAt,
		}); err != nil {
			return "", err
		}
		priorID = id
	}

	if err = insertOutbox(ctx, tx, plan.ID, plan.UserID, events.PlanGeneratedType, events.PlanGenerated{
		PlanID:         plan.ID,
		UserID:         plan.UserID,
		Kind:           string(plan.Kind),
		Source:         string(plan.Source),
		FallbackReason: plan.FallbackReason,
		PriorPlanID:    priorID,
		CreatedAt:      plan.CreatedAt,
	}); err != nil {
		return "", err
	}

	if err = tx.Commit(ctx); err != nil {
		return "", err
	}
	return priorID, nil
}

// InsertFeedback implements domain.Store. A record for an unknown plan yields domain.ErrPlanNotFound.
func (r *Repository) InsertFeedback(ctx context.Context, record domain.FeedbackRecord) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO plan_feedback (feedback_id, plan_id, user_id, day_key, segment_key, content, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		record.ID, record.PlanID, record.UserID, nullIfEmpty(record.DayKey), nullIfEmpty(record.SegmentKey), record.Content, record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrPlanNotFound
		}
		return err
	}

	if err = insertOutbox(ctx, tx, record.ID, record.UserID, events.FeedbackSubmittedType, events.FeedbackSubmitted{
		FeedbackID: record.ID,
		PlanID:     record.PlanID,
		UserID:     record.UserID,
		DayKey:     record.DayKey,
		SegmentKey: record.SegmentKey,
		Content:    record.Content,
		CreatedAt:  record.CreatedAt,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListFeedback implements domain.Store.
func (r *Repository) ListFeedback(ctx context.Context, planID string) ([]domain.FeedbackRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT feedback_id, plan_id, user_id, COALESCE(day_key, ''), COALESCE(segment_key, ''), content, created_at
           FROM plan_feedback WHERE plan_id=$1 ORDER BY created_at, feedback_id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.FeedbackRecord
	for rows.Next() {
		var rec domain.FeedbackRecord
		if err := rows.Scan(&rec.ID, &rec.PlanID, &rec.UserID, &rec.DayKey, &rec.SegmentKey, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateID, userID, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := events.Catalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	aggregateType := "plan"
	if eventType == events.FeedbackSubmittedType {
		aggregateType = "feedback"
	}

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		userID,
		body,
		fmt.Sprintf("%s:%s", aggregateID, eventType),
	)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

var _ domain.Store = (*Repository)(nil)
