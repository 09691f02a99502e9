package capacity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/dbmetrics"
	"github.com/tourbase/TB-AdmissionService/pkg/psqlbuilder"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Repository репозиторий шаблонов вместимости и их переопределений
// Слоты как таковые не хранятся: таблица переопределений заполняется только
// явными исключениями операторов, остальное выводится из шаблона на чтении
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вместимости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListTemplateEntries получает все строки шаблона активности, упорядоченные
// по дню недели и времени
func (r *Repository) ListTemplateEntries(ctx context.Context, tenantID, activityID int64) ([]*domain.CapacityTemplateEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"activity_id",
		"weekday",
		"start_time",
		"seats",
		"created_at",
		"updated_at",
	).
		From("capacity_templates").
		Where(squirrel.Eq{"tenant_id": tenantID, "activity_id": activityID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplateEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplateEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.CapacityTemplateEntry, 0)
	for rows.Next() {
		var e domain.CapacityTemplateEntry
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.ActivityID,
			&weekday,
			&e.StartTime,
			&e.Seats,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTemplateEntries - scan row: %v", ErrScanRow, err)
		}

		e.Weekday = time.Weekday(weekday)
		e.CreatedAt = createdAt.Time
		e.UpdatedAt = updatedAt.Time
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplateEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// ListTemplateActivityIDs получает ID всех активностей тенанта, у которых
// есть хотя бы одна строка шаблона вместимости
func (r *Repository) ListTemplateActivityIDs(ctx context.Context, tenantID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT activity_id").
		From("capacity_templates").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("activity_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplateActivityIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplateActivityIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListTemplateActivityIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplateActivityIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// CreateTemplateEntry создает строку шаблона вместимости
func (r *Repository) CreateTemplateEntry(ctx context.Context, entry *domain.CapacityTemplateEntry) (*domain.CapacityTemplateEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_templates").
		Columns("tenant_id", "activity_id", "weekday", "start_time", "seats").
		Values(entry.TenantID, entry.ActivityID, int(entry.Weekday), entry.StartTime, entry.Seats).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplateEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplateEntry - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// GetOverride получает переопределение для точного (activity, date, time)
func (r *Repository) GetOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.CapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"activity_id",
		"date",
		"start_time",
		"seats",
		"created_at",
		"updated_at",
	).
		From("capacity_overrides").
		Where(squirrel.Eq{
			"tenant_id":   tenantID,
			"activity_id": activityID,
			"date":        date,
			"start_time":  startTime,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %v", ErrScanRow, err)
	}

	return override, nil
}

// ListOverridesForRange получает переопределения активности за период дат
func (r *Repository) ListOverridesForRange(ctx context.Context, tenantID, activityID int64, from, to time.Time) ([]*domain.CapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"activity_id",
		"date",
		"start_time",
		"seats",
		"created_at",
		"updated_at",
	).
		From("capacity_overrides").
		Where(squirrel.Eq{"tenant_id": tenantID, "activity_id": activityID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.CapacityOverride, 0)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverridesForRange - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForRange - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// UpsertOverride создает или обновляет переопределение вместимости
// Уникальность обеспечивает индекс (tenant_id, activity_id, date, start_time)
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.CapacityOverride) (*domain.CapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_overrides").
		Columns("tenant_id", "activity_id", "date", "start_time", "seats").
		Values(override.TenantID, override.ActivityID, override.Date, override.StartTime, override.Seats).
		Suffix("ON CONFLICT (tenant_id, activity_id, date, start_time) DO UPDATE SET seats = EXCLUDED.seats, updated_at = NOW()").
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&override.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute upsert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// DeleteOverride удаляет переопределение, возвращая слот к шаблонному значению
func (r *Repository) DeleteOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("capacity_overrides").
		Where(squirrel.Eq{
			"tenant_id":   tenantID,
			"activity_id": activityID,
			"date":        date,
			"start_time":  startTime,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOverride сканирует одну строку переопределения
func scanOverride(row rowScanner) (*domain.CapacityOverride, error) {
	var o domain.CapacityOverride
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.ActivityID,
		&o.Date,
		&o.StartTime,
		&o.Seats,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
