package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, item *Item) error
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error)
	Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error)

	CreateComment(ctx context.Context, c *Comment) error
	// ListComments returns the comments of the given items keyed by item id, oldest first.
	ListComments(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var itemColumns = []string{"i.id", "i.name", "i.description", "i.available", "i.owner_id", "i.request_id"}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error) {
	query := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		OrderBy("i.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset())

	return r.queryItems(ctx, query)
}

func (r *pgxRepository) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	return r.queryItems(ctx, searchQuery(text, page))
}

// searchQuery matches available items whose name or description contains text, ignoring case.
func searchQuery(text string, page pagination.Page) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(text) + "%"
	return psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		}).
		OrderBy("i.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset())
}

func (r *pgxRepository) queryItems(ctx context.Context, query squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	const query = `
		WITH inserted AS (
			INSERT INTO public.comments (text, item_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, author_id
		)
		SELECT inserted.id, inserted.created_at, u.name
		FROM inserted
		JOIN public.users u ON u.id = inserted.author_id
	`

	if err := r.pool.QueryRow(ctx, query, c.Text, c.ItemID, c.AuthorID).Scan(&c.ID, &c.CreatedAt, &c.AuthorName); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListComments(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error) {
	result := make(map[int64][]*Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		result[c.ItemID] = append(result[c.ItemID], &c)
	}
	return result, rows.Err()
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
		return nil, err
	}
	return &it, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
