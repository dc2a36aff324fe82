package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

// Repository defines persistence for bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// FindByBooker and FindByItems return bookings ordered by start_time
	// descending with offset/limit applied in the query.
	FindByBooker(ctx context.Context, bookerID int64, page pagination.Page) ([]*Booking, error)
	FindByItems(ctx context.Context, itemIDs []int64, page pagination.Page) ([]*Booking, error)

	// FindByItem returns all bookings of one item, newest start first.
	FindByItem(ctx context.Context, itemID int64) ([]*Booking, error)

	// HasFinished reports whether the booker has a booking of the item that
	// ended before now.
	HasFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)

	// UpdateStatus transitions a booking from one status to another as a
	// single compare-and-swap. It returns false when the booking was not in
	// the expected status, so of two concurrent decisions only one succeeds.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)
}

const bookingColumns = "b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name, b.start_time, b.end_time, b.status, b.created_at"

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := scanBooking(row.Scan, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) FindByBooker(ctx context.Context, bookerID int64, page pagination.Page) ([]*Booking, error) {
	query := r.selectBookings().
		Where(squirrel.Eq{"b.booker_id": bookerID}).
		OrderBy("b.start_time DESC").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit))

	return r.queryMany(ctx, query, "find bookings by booker")
}

func (r *pgxRepository) FindByItems(ctx context.Context, itemIDs []int64, page pagination.Page) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := r.selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs}).
		OrderBy("b.start_time DESC").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit))

	return r.queryMany(ctx, query, "find bookings by items")
}

func (r *pgxRepository) FindByItem(ctx context.Context, itemID int64) ([]*Booking, error) {
	query := r.selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		OrderBy("b.start_time DESC")

	return r.queryMany(ctx, query, "find bookings by item")
}

func (r *pgxRepository) HasFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *pgxRepository) selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func (r *pgxRepository) queryMany(ctx context.Context, query squirrel.SelectBuilder, op string) ([]*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query failed: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows.Scan, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

func scanBooking(scan func(dest ...any) error, b *Booking) error {
	return scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt,
	)
}
