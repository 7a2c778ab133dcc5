package product

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"demo-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// PostgresRepository reads and writes the products table.
type PostgresRepository interface {
	Repository
	Writer
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) PostgresRepository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const selectColumns = `
SELECT id, slug, title, category, price::float8, old_price::float8, currency, stock, rating::float8, reviews_count,
       tags, images, features, specs, short_description, description, created_at
FROM products
`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Category,
		&p.Price,
		&p.OldPrice,
		&p.Currency,
		&p.Stock,
		&p.Rating,
		&p.ReviewsCount,
		&p.Tags,
		&p.Images,
		&p.Features,
		&p.Specs,
		&p.ShortDescription,
		&p.Description,
		&p.CreatedAt,
	)
	return p, err
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`ORDER BY position, id`)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "slug", selectColumns+`WHERE slug = $1`, slug)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "id", selectColumns+`WHERE id = $1`, id)
}

func (r *postgresRepo) getOne(ctx context.Context, field, q, value string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get %s=%s error=%v", field, value, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, position int, p domain.Product) error {
	const q = `
INSERT INTO products (id, slug, position, title, category, price, old_price, currency, stock, rating, reviews_count,
                      tags, images, features, specs, short_description, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE(NULLIF($8, ''), 'GEL'), $9, $10, $11,
        COALESCE($12, '{}'::text[]), COALESCE($13, '{}'::text[]), COALESCE($14, '{}'::text[]),
        COALESCE($15, '{}'::jsonb), $16, $17, COALESCE($18, now()))
ON CONFLICT (id) DO UPDATE SET
    slug = EXCLUDED.slug,
    position = EXCLUDED.position,
    title = EXCLUDED.title,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    old_price = EXCLUDED.old_price,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock,
    rating = EXCLUDED.rating,
    reviews_count = EXCLUDED.reviews_count,
    tags = EXCLUDED.tags,
    images = EXCLUDED.images,
    features = EXCLUDED.features,
    specs = EXCLUDED.specs,
    short_description = EXCLUDED.short_description,
    description = EXCLUDED.description
`
	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		createdAt = &p.CreatedAt
	}
	_, err := r.pool.Exec(ctx, q,
		p.ID,
		p.Slug,
		position,
		p.Title,
		string(p.Category),
		p.Price,
		p.OldPrice,
		p.Currency,
		p.Stock,
		p.Rating,
		p.ReviewsCount,
		p.Tags,
		p.Images,
		p.Features,
		p.Specs,
		p.ShortDescription,
		p.Description,
		createdAt,
	)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s slug=%s error=%v", p.ID, p.Slug, err)
		return err
	}
	r.logger.Printf("product repo: upserted id=%s slug=%s position=%d", p.ID, p.Slug, position)
	return nil
}
