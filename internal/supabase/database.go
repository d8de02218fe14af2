package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"blankspace-backend/internal/models"
)

var (
	// ErrDuplicateOrder means an order already exists for the checkout
	// session (unique constraint on stripe_session_id).
	ErrDuplicateOrder = errors.New("order already exists for session")
	// ErrDuplicateSubscriber means the email address is already subscribed.
	ErrDuplicateSubscriber = errors.New("email already subscribed")
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

const orderColumns = `id, user_email, tier, status, image_data, stripe_session_id,
	stripe_payment_intent_id, pdf_url, error_message, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.UserEmail, &order.Tier, &order.Status, &order.ImageData,
		&order.StripeSessionID, &order.StripePaymentIntentID, &order.PDFURL,
		&order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts a new order. The stripe_session_id unique constraint
// is the idempotency key: a second insert for the same checkout session
// returns ErrDuplicateOrder instead of a new row.
func (d *DatabaseClient) CreateOrder(order *models.Order) (*models.Order, error) {
	row := d.db.QueryRow(`
		INSERT INTO orders (id, user_email, tier, status, image_data, stripe_session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		order.ID, order.UserEmail, order.Tier, order.Status, order.ImageData, order.StripeSessionID,
	)

	created, err := scanOrder(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return created, nil
}

func (d *DatabaseClient) GetOrder(orderID string) (*models.Order, error) {
	row := d.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) GetOrderBySessionID(sessionID string) (*models.Order, error) {
	row := d.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE stripe_session_id = $1`, sessionID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListOrders(limit int) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

// MarkOrderPaid moves a processing order to paid and records the payment
// intent handle. The status guard keeps the transition forward-only, so a
// replayed webhook against a generating, completed or failed order matches
// zero rows.
func (d *DatabaseClient) MarkOrderPaid(sessionID, paymentIntentID string) (int64, error) {
	result, err := d.db.Exec(`
		UPDATE orders
		SET status = $1, stripe_payment_intent_id = $2, updated_at = NOW()
		WHERE stripe_session_id = $3 AND status = $4
	`, models.OrderStatusPaid, paymentIntentID, sessionID, models.OrderStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return result.RowsAffected()
}

// MarkOrderFailed marks the order for a failed payment intent. No-op when
// the order is already terminal.
func (d *DatabaseClient) MarkOrderFailed(paymentIntentID string) (int64, error) {
	result, err := d.db.Exec(`
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE stripe_payment_intent_id = $2 AND status NOT IN ($3, $4)
	`, models.OrderStatusFailed, paymentIntentID, models.OrderStatusCompleted, models.OrderStatusFailed)
	if err != nil {
		return 0, fmt.Errorf("failed to mark order failed: %w", err)
	}
	return result.RowsAffected()
}

// ClaimPaidOrders atomically claims up to limit paid orders for generation.
// SKIP LOCKED keeps concurrent workers from double-claiming.
func (d *DatabaseClient) ClaimPaidOrders(limit int) ([]models.Order, error) {
	rows, err := d.db.Query(`
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM orders
			WHERE status = $2
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+orderColumns,
		models.OrderStatusGenerating, models.OrderStatusPaid, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim paid orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

func (d *DatabaseClient) CompleteOrder(orderID, artifactURL string) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET status = $1, pdf_url = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.OrderStatusCompleted, artifactURL, orderID, models.OrderStatusGenerating)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}
	return nil
}

func (d *DatabaseClient) FailOrderGeneration(orderID, errorMsg string) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.OrderStatusFailed, errorMsg, orderID, models.OrderStatusGenerating)
	if err != nil {
		return fmt.Errorf("failed to record generation failure: %w", err)
	}
	return nil
}

// CreateSubscriber inserts an email subscriber. A duplicate address returns
// ErrDuplicateSubscriber so the caller can treat re-subscribing as success.
func (d *DatabaseClient) CreateSubscriber(email, source string) error {
	_, err := d.db.Exec(`
		INSERT INTO email_subscribers (email, source)
		VALUES ($1, $2)
	`, email, source)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSubscriber
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
