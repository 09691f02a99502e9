package reservation

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

var reservationColumns = []string{
	"id",
	"tenant_id",
	"activity_id",
	"date",
	"start_time",
	"quantity",
	"status",
	"order_number",
	"package_tour_id",
	"customer_name",
	"customer_phone",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий леджера бронирований
// Cancelled и completed строки остаются в таблице (tombstone-подход):
// освобождение мест происходит за счет фильтра по статусу в выборках,
// отдельного шага "release" не существует
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только из Admission Controller внутри сериализуемой транзакции:
// прямые вставки в обход проверки остатка запрещены
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"tenant_id",
			"activity_id",
			"date",
			"start_time",
			"quantity",
			"status",
			"order_number",
			"package_tour_id",
			"customer_name",
			"customer_phone",
			"notes",
		).
		Values(
			res.TenantID,
			res.ActivityID,
			res.Date,
			res.StartTime,
			res.Quantity,
			res.Status,
			res.OrderNumber,
			res.PackageTourID,
			res.CustomerName,
			res.CustomerPhone,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID в рамках тенанта
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByFilter получает бронирования по фильтру
// При filter.ForUpdate внутри транзакции добавляет FOR UPDATE:
// Admission Controller блокирует строки слота перед подсчетом остатка
func (r *Repository) GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.ActivityID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"activity_id": *filter.ActivityID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": *filter.Date})
	}
	if filter.StartTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"start_time": *filter.StartTime})
	}
	if len(filter.Statuses) > 0 {
		statusStrings := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("date ASC, start_time ASC, id ASC")

	// FOR UPDATE только внутри транзакции - вне ее блокировка бессмысленна
	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// BookedSum сумма занятых мест по одному слоту
type BookedSum struct {
	ActivityID int64
	Date       time.Time
	StartTime  types.TimeString
	Quantity   int
}

// GetBookedSums возвращает суммы занятых мест по слотам за период
// Учитываются только pending/confirmed строки (индексированный фильтр по статусу)
// Используется Availability Resolver и Aggregation Reporter; выборка
// неблокирующая и может отставать - admission всегда перечитывает внутри
// своей транзакции
func (r *Repository) GetBookedSums(ctx context.Context, tenantID int64, activityID *int64, from, to time.Time) ([]BookedSum, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	consuming := make([]string, len(domain.ConsumingStatuses))
	for i, s := range domain.ConsumingStatuses {
		consuming[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(
		"activity_id",
		"date",
		"start_time",
		"COALESCE(SUM(quantity), 0)",
	).
		From("reservations").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"status": consuming}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		GroupBy("activity_id", "date", "start_time").
		OrderBy("date ASC, start_time ASC")

	if activityID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"activity_id": *activityID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSums - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSums - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sums := make([]BookedSum, 0)
	for rows.Next() {
		var s BookedSum
		if err := rows.Scan(&s.ActivityID, &s.Date, &s.StartTime, &s.Quantity); err != nil {
			return nil, fmt.Errorf("%w: GetBookedSums - scan row: %v", ErrScanRow, err)
		}
		sums = append(sums, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedSums - rows error: %v", ErrScanRow, err)
	}

	return sums, nil
}

// GetGroupByOrderNumber получает все бронирования с указанным номером заказа
func (r *Repository) GetGroupByOrderNumber(ctx context.Context, tenantID int64, orderNumber string, forUpdate bool) ([]*domain.Reservation, error) {
	return r.getGroup(ctx, squirrel.Eq{"tenant_id": tenantID, "order_number": orderNumber}, forUpdate)
}

// GetGroupByPackageKey получает все бронирования по эвристическому ключу
// (packageTourId, customerName, customerPhone) на указанную дату
func (r *Repository) GetGroupByPackageKey(ctx context.Context, tenantID int64, packageTourID int64, customerName, customerPhone string, date time.Time) ([]*domain.Reservation, error) {
	return r.getGroup(ctx, squirrel.Eq{
		"tenant_id":       tenantID,
		"package_tour_id": packageTourID,
		"customer_name":   customerName,
		"customer_phone":  customerPhone,
		"date":            date,
	}, false)
}

func (r *Repository) getGroup(ctx context.Context, where squirrel.Eq, forUpdate bool) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(where).
		OrderBy("activity_id ASC, date ASC, start_time ASC, id ASC")

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getGroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getGroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus обновляет статус бронирования
// Для cancelled дополнительно проставляет cancelled_at
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	if status == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// UpdateQuantity обновляет количество мест бронирования
// Вызывается только из Admission Controller после атомарной проверки дельты
func (r *Repository) UpdateQuantity(ctx context.Context, tenantID, id int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateQuantity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateQuantity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateQuantity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// CountCreatedOnDate подсчитывает бронирования тенанта, созданные в указанные сутки
// Используется Admission Controller для проверки дневной квоты лицензии
func (r *Repository) CountCreatedOnDate(ctx context.Context, tenantID int64, day time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"created_at": dayStart}).
		Where(squirrel.Lt{"created_at": dayEnd}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountCreatedOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCreatedOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку в доменную модель
func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.TenantID,
		&res.ActivityID,
		&res.Date,
		&res.StartTime,
		&res.Quantity,
		&res.Status,
		&res.OrderNumber,
		&res.PackageTourID,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.Notes,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
