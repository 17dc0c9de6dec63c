package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the booking record store. Lookups report a miss as
// ErrNotFound or a nil booking; the service decides whether that is an error.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// UpdateStatus moves a booking from one status to another atomically.
	// It fails with ErrStatusAlreadySet when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// FindLast returns the latest non-rejected booking of the item that started at or before now.
	FindLast(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// FindNext returns the earliest non-rejected booking of the item that starts after now.
	FindNext(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// ExistsCompleted reports whether the user has an approved booking of the item that ended before now.
	ExistsCompleted(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status", "b.created_at",
}

func selectBookings(columns ...string) squirrel.SelectBuilder {
	cols := make([]string, 0, len(bookingColumns)+len(columns))
	cols = append(cols, bookingColumns...)
	cols = append(cols, columns...)

	return psql.Select(cols...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, string(b.Status)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return createError(err)
	}
	return nil
}

// createError maps an insert failure. A foreign key violation means the item
// or booker was deleted after the engine checked it.
func createError(err error) error {
	if isForeignKeyViolation(err) {
		return ErrNotFound.Withf("Item or user for booking not found")
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

// statusUpdateQuery is a compare-and-swap on the status column.
func statusUpdateQuery(id int64, from, to Status) (string, []any, error) {
	return psql.Update("public.bookings").
		Set("status", string(to)).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (*Booking, error) {
	query, args, err := statusUpdateQuery(id, from, to)
	if err != nil {
		return nil, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the booking is gone or another writer already moved it.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusAlreadySet
	}

	return r.GetByID(ctx, id)
}

// listQuery builds the scoped, state-filtered page ordered by start descending.
func listQuery(filter Filter) (squirrel.SelectBuilder, error) {
	query := selectBookings("count(*) OVER() AS total_count")

	switch {
	case filter.BookerID != 0:
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	case filter.OwnerID != 0:
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}

	pred, err := filter.State.Predicate(filter.Now)
	if err != nil {
		return query, err
	}
	if pred != nil {
		query = query.Where(pred)
	}

	return query.
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()), nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query, err := listQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
			&b.Start, &b.End, &b.Status, &b.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}

func lastQuery(itemID int64, now time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.NotEq{"b.status": string(StatusRejected)}).
		Where(squirrel.LtOrEq{"b.start_time": now}).
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(1)
}

func nextQuery(itemID int64, now time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.NotEq{"b.status": string(StatusRejected)}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.start_time ASC", "b.id ASC").
		Limit(1)
}

func (r *pgxRepository) FindLast(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findOne(ctx, lastQuery(itemID, now))
}

func (r *pgxRepository) FindNext(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findOne(ctx, nextQuery(itemID, now))
}

func (r *pgxRepository) findOne(ctx context.Context, query squirrel.SelectBuilder) (*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ExistsCompleted(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{
			"item_id":   itemID,
			"booker_id": userID,
			"status":    string(StatusApproved),
		}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build completed booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking failed: %w", err)
	}
	return exists, nil
}

func isForeignKeyViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
