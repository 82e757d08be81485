package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const catalogSchema = `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS brands (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		discount_price NUMERIC(10,2),
		discount NUMERIC(5,2) NOT NULL DEFAULT 0,
		images TEXT[] NOT NULL DEFAULT '{}',
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		rating_count INTEGER NOT NULL DEFAULT 0,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		brand_id INTEGER NOT NULL REFERENCES brands(id),
		colors TEXT[] NOT NULL DEFAULT '{}',
		sizes TEXT[] NOT NULL DEFAULT '{}',
		features TEXT[] NOT NULL DEFAULT '{}',
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		stock INTEGER NOT NULL DEFAULT 0,
		new_arrival BOOLEAN NOT NULL DEFAULT FALSE,
		bestseller BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
	CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_id);
`

const productColumns = `
	id, name, description, price, discount_price, discount, images, rating,
	rating_count, category_id, brand_id, colors, sizes, features, in_stock,
	stock, new_arrival, bestseller
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func (r *productRepository) EnsureSchema(ctx context.Context) error {
	if err := database.ApplySchema(ctx, r.pool, "catalog", catalogSchema, r.logger); err != nil {
		r.logger.Error().Err(err).Msg("failed to create catalog schema")
		return err
	}
	return nil
}

// Products retrieves every product ordered by ID.
func (r *productRepository) Products(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Product retrieves a single product by its ID. A missing product is not an error.
func (r *productRepository) Product(ctx context.Context, id int) (*model.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

func (r *productRepository) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

func (r *productRepository) Brands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM brands ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query brands")
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}

	brands, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Brand])
	if err != nil {
		return nil, fmt.Errorf("failed to scan brands: %w", err)
	}
	return brands, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) Import(ctx context.Context, src catalog.Source) error {
	categories, err := src.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}
	brands, err := src.Brands(ctx)
	if err != nil {
		return fmt.Errorf("failed to read brands: %w", err)
	}
	products, err := src.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`
			INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug
		`, c.ID, c.Name, c.Slug)
	}
	for _, b := range brands {
		batch.Queue(`
			INSERT INTO brands (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		`, b.ID, b.Name)
	}
	for _, p := range products {
		p = model.NormalizeProduct(p)
		batch.Queue(`
			INSERT INTO products (`+productColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				discount_price = EXCLUDED.discount_price,
				discount = EXCLUDED.discount,
				images = EXCLUDED.images,
				rating = EXCLUDED.rating,
				rating_count = EXCLUDED.rating_count,
				category_id = EXCLUDED.category_id,
				brand_id = EXCLUDED.brand_id,
				colors = EXCLUDED.colors,
				sizes = EXCLUDED.sizes,
				features = EXCLUDED.features,
				in_stock = EXCLUDED.in_stock,
				stock = EXCLUDED.stock,
				new_arrival = EXCLUDED.new_arrival,
				bestseller = EXCLUDED.bestseller
		`,
			p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.Discount,
			textArray(p.Images), p.Rating, p.RatingCount, p.CategoryID, p.BrandID,
			textArray(p.Colors), textArray(p.Sizes), textArray(p.Features),
			p.InStock, p.Stock, p.NewArrival, p.Bestseller)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error().Err(err).Msg("failed to import catalog")
		return fmt.Errorf("failed to import catalog: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog import: %w", err)
	}

	r.logger.Info().
		Int("categories", len(categories)).
		Int("brands", len(brands)).
		Int("products", len(products)).
		Msg("catalog imported")

	return nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice, &p.Discount,
		&p.Images, &p.Rating, &p.RatingCount, &p.CategoryID, &p.BrandID,
		&p.Colors, &p.Sizes, &p.Features, &p.InStock, &p.Stock,
		&p.NewArrival, &p.Bestseller,
	)
	if err != nil {
		return model.Product{}, err
	}
	return model.NormalizeProduct(p), nil
}

// textArray keeps NOT NULL array columns populated for products without values.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
