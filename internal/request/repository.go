package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

// Repository defines persistence for item requests.
type Repository interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*ItemRequest, error)

	// ListOthers returns requests made by anyone except the given user,
	// newest first.
	ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error)
}

// itemsJSON aggregates the answering items as a JSON array in one query.
const itemsJSON = `COALESCE(
	(
		SELECT json_agg(json_build_object(
			'id', i.id, 'name', i.name, 'description', i.description,
			'available', i.available, 'owner_id', i.owner_id
		) ORDER BY i.id)
		FROM public.items i
		WHERE i.request_id = r.id
	),
	'[]'::json
) AS items`

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.requests").
		Columns("description", "requester_id").
		Values(req.Description, req.RequesterID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	query, args, err := r.selectRequests().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	req, err := scanRequest(r.pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*ItemRequest, error) {
	query := r.selectRequests().
		Where(squirrel.Eq{"r.requester_id": requesterID}).
		OrderBy("r.created_at DESC")

	return r.queryMany(ctx, query, "list requests by requester")
}

func (r *pgxRepository) ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error) {
	query := r.selectRequests().
		Where(squirrel.NotEq{"r.requester_id": userID}).
		OrderBy("r.created_at DESC").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit))

	return r.queryMany(ctx, query, "list other users' requests")
}

func (r *pgxRepository) selectRequests() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select("r.id", "r.description", "r.requester_id", "r.created_at", itemsJSON).
		From("public.requests r")
}

func (r *pgxRepository) queryMany(ctx context.Context, query squirrel.SelectBuilder, op string) ([]*ItemRequest, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query failed: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(scan func(dest ...any) error) (*ItemRequest, error) {
	var req ItemRequest
	var itemsRaw []byte

	if err := scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt, &itemsRaw); err != nil {
		return nil, err
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &req.Items); err != nil {
			return nil, fmt.Errorf("unmarshal request items: %w", err)
		}
	}
	return &req, nil
}
