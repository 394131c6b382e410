package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for brokers and products.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const brokerColumns = `id, name, website, rating, regulation, min_deposit, featured, created_at, updated_at`

func scanBroker(row pgx.Row) (*Broker, error) {
	b := &Broker{}
	err := row.Scan(&b.ID, &b.Name, &b.Website, &b.Rating, &b.Regulation,
		&b.MinDeposit, &b.Featured, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBroker inserts a new broker and returns the full row.
func (s *Store) CreateBroker(ctx context.Context, in CreateBrokerInput) (*Broker, error) {
	query := fmt.Sprintf(`INSERT INTO brokers (name, website, rating, regulation, min_deposit, featured)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, brokerColumns)

	b, err := scanBroker(s.pool.QueryRow(ctx, query,
		in.Name, in.Website, in.Rating, in.Regulation, in.MinDeposit, in.Featured))
	if err != nil {
		return nil, fmt.Errorf("creating broker: %w", err)
	}
	return b, nil
}

// GetBroker retrieves a broker by its ID.
func (s *Store) GetBroker(ctx context.Context, id string) (*Broker, error) {
	query := fmt.Sprintf(`SELECT %s FROM brokers WHERE id = $1`, brokerColumns)
	b, err := scanBroker(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting broker: %w", err)
	}
	return b, nil
}

// ListBrokers returns all brokers ordered by created_at DESC.
func (s *Store) ListBrokers(ctx context.Context) ([]*Broker, error) {
	query := fmt.Sprintf(`SELECT %s FROM brokers ORDER BY created_at DESC`, brokerColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing brokers: %w", err)
	}
	defer rows.Close()

	var brokers []*Broker
	for rows.Next() {
		b, err := scanBroker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning broker: %w", err)
		}
		brokers = append(brokers, b)
	}
	return brokers, rows.Err()
}

// UpdateBroker applies a partial update and returns the updated row.
func (s *Store) UpdateBroker(ctx context.Context, id string, in UpdateBrokerInput) (*Broker, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Website != nil {
		setClauses = append(setClauses, fmt.Sprintf("website = $%d", argIdx))
		args = append(args, *in.Website)
		argIdx++
	}
	if in.Rating != nil {
		setClauses = append(setClauses, fmt.Sprintf("rating = $%d", argIdx))
		args = append(args, *in.Rating)
		argIdx++
	}
	if in.Regulation != nil {
		setClauses = append(setClauses, fmt.Sprintf("regulation = $%d", argIdx))
		args = append(args, *in.Regulation)
		argIdx++
	}
	if in.MinDeposit != nil {
		setClauses = append(setClauses, fmt.Sprintf("min_deposit = $%d", argIdx))
		args = append(args, *in.MinDeposit)
		argIdx++
	}
	if in.Featured != nil {
		setClauses = append(setClauses, fmt.Sprintf("featured = $%d", argIdx))
		args = append(args, *in.Featured)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetBroker(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE brokers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, brokerColumns)

	b, err := scanBroker(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating broker: %w", err)
	}
	return b, nil
}

// DeleteBroker removes a broker by its ID.
func (s *Store) DeleteBroker(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM brokers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting broker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const productColumns = `id, name, category, price, stock, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct inserts a new product and returns the full row.
func (s *Store) CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error) {
	query := fmt.Sprintf(`INSERT INTO products (name, category, price, stock, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, productColumns)

	p, err := scanProduct(s.pool.QueryRow(ctx, query,
		in.Name, in.Category, in.Price, in.Stock, in.Active))
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return p, nil
}

// GetProduct retrieves a product by its ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// ListProducts returns all products ordered by created_at DESC.
func (s *Store) ListProducts(ctx context.Context) ([]*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct applies a partial update and returns the updated row.
func (s *Store) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*Product, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}
	if in.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argIdx))
		args = append(args, *in.Price)
		argIdx++
	}
	if in.Stock != nil {
		setClauses = append(setClauses, fmt.Sprintf("stock = $%d", argIdx))
		args = append(args, *in.Stock)
		argIdx++
	}
	if in.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *in.Active)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetProduct(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, productColumns)

	p, err := scanProduct(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product by its ID.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
