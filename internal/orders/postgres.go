package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresStore persists orders in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed order store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema runs the pending migrations.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return Migrate(ctx, s.db)
}

// Create inserts the order and its items in one transaction. A second order
// for the same checkout session returns the stored one with ErrDuplicateOrder.
func (s *PostgresStore) Create(ctx context.Context, order Order) (Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, total_cents, stripe_session_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, order.TotalCents, order.StripeSessionID, order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// The failed statement aborted tx; read through the pool instead.
			existing, findErr := s.FindBySession(ctx, order.StripeSessionID)
			if findErr != nil {
				return Order{}, findErr
			}
			return existing, ErrDuplicateOrder
		}
		return Order{}, err
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, price_cents) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), order.ID, item.ProductID, item.Quantity, item.PriceCents); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return order, nil
}

// FindBySession loads the order created for a checkout session.
func (s *PostgresStore) FindBySession(ctx context.Context, sessionID string) (Order, error) {
	var order Order
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, total_cents, stripe_session_id, created_at FROM orders WHERE stripe_session_id = $1`,
		sessionID).Scan(&order.ID, &order.UserID, &order.TotalCents, &order.StripeSessionID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT product_id, quantity, price_cents FROM order_items WHERE order_id = $1 ORDER BY product_id`, order.ID)
	if err != nil {
		return Order{}, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var item Item
		err := row.Scan(&item.ProductID, &item.Quantity, &item.PriceCents)
		return item, err
	})
	if err != nil {
		return Order{}, err
	}
	order.Items = items
	order.CreatedAt = order.CreatedAt.UTC()
	return order, nil
}

// Totals counts orders and sums revenue.
func (s *PostgresStore) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total_cents), 0) FROM orders`).Scan(&t.Sales, &t.RevenueCents)
	return t, err
}

// DailySales groups orders created in [from, to] by UTC day.
func (s *PostgresStore) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	const query = `
        SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
               COUNT(*),
               COALESCE(SUM(total_cents), 0)
        FROM orders
        WHERE created_at >= $1 AND created_at <= $2
        GROUP BY day
        ORDER BY day`
	rows, err := s.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (DailySales, error) {
		var d DailySales
		err := row.Scan(&d.Date, &d.Sales, &d.RevenueCents)
		return d, err
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
