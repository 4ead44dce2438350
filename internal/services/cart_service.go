package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cursus-lms/cursus-be/internal/models"
)

// CartServiceProvider defines the interface for cart services.
type CartServiceProvider interface {
	GetCart(userID string) (models.Cart, error)
	AddItem(userID, courseID string, quantity int) (models.Cart, error)
	RemoveItem(userID, courseID string) (models.Cart, error)
	ClearCart(userID string) error
	ReconcileTotals() (int64, error)
}

// CartService provides business logic for the per-user shopping cart.
// The stored total is derived: every item mutation re-derives it from the
// live course prices inside the same transaction, so a concurrent mutation
// can never leave a stale sum behind.
type CartService struct {
	db *sql.DB
}

// NewCartService creates a new CartService.
func NewCartService(db *sql.DB) *CartService {
	return &CartService{db: db}
}

// recomputeTotalSQL re-derives a cart's total from its items and the
// current catalog prices.
const recomputeTotalSQL = `
	UPDATE carts SET total = (
		SELECT COALESCE(SUM(ci.quantity * c.price), 0)
		FROM cart_items ci
		JOIN courses c ON c.id = ci.course_id
		WHERE ci.cart_id = carts.id
	), updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`

// GetCart retrieves a user's cart with its items joined with course data.
func (s *CartService) GetCart(userID string) (models.Cart, error) {
	var cart models.Cart
	row := s.db.QueryRow("SELECT id, user_id, total, updated_at FROM carts WHERE user_id = ?", userID)
	err := row.Scan(&cart.ID, &cart.UserID, &cart.Total, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Cart{}, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return models.Cart{}, err
	}

	rows, err := s.db.Query(`
		SELECT ci.course_id, c.title, c.price, c.thumbnail, ci.quantity, ci.added_at
		FROM cart_items ci
		JOIN courses c ON c.id = ci.course_id
		WHERE ci.cart_id = ?
		ORDER BY ci.added_at`, cart.ID)
	if err != nil {
		return models.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		var thumbnail sql.NullString
		if err := rows.Scan(&item.CourseID, &item.Title, &item.Price, &thumbnail, &item.Quantity, &item.AddedAt); err != nil {
			return models.Cart{}, err
		}
		item.Thumbnail = thumbnail.String
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

// AddItem adds a course to the user's cart, creating the cart on first use.
// Adding a course already in the cart increases its quantity.
func (s *CartService) AddItem(userID, courseID string, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Cart{}, err
	}
	defer tx.Rollback()

	var price int64
	if err := tx.QueryRow("SELECT price FROM courses WHERE id = ?", courseID).Scan(&price); err != nil {
		if err == sql.ErrNoRows {
			return models.Cart{}, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
		}
		return models.Cart{}, err
	}

	cartID, err := ensureCart(tx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO cart_items(cart_id, course_id, quantity) VALUES(?, ?, ?)
		ON CONFLICT(cart_id, course_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
		cartID, courseID, quantity)
	if err != nil {
		return models.Cart{}, err
	}

	if _, err := tx.Exec(recomputeTotalSQL, cartID); err != nil {
		return models.Cart{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Cart{}, err
	}
	return s.GetCart(userID)
}

// RemoveItem removes a course line from the user's cart.
func (s *CartService) RemoveItem(userID, courseID string) (models.Cart, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Cart{}, err
	}
	defer tx.Rollback()

	var cartID string
	if err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID); err != nil {
		if err == sql.ErrNoRows {
			return models.Cart{}, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return models.Cart{}, err
	}

	res, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ? AND course_id = ?", cartID, courseID)
	if err != nil {
		return models.Cart{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Cart{}, fmt.Errorf("course %s not in cart: %w", courseID, ErrNotFound)
	}

	if _, err := tx.Exec(recomputeTotalSQL, cartID); err != nil {
		return models.Cart{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Cart{}, err
	}
	return s.GetCart(userID)
}

// ClearCart empties the user's cart after a successful checkout. Clearing a
// user with no cart is a no-op.
func (s *CartService) ClearCart(userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cartID string
	if err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(recomputeTotalSQL, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// ReconcileTotals re-derives every cart total that has drifted from the
// current catalog prices and reports how many carts were corrected.
func (s *CartService) ReconcileTotals() (int64, error) {
	res, err := s.db.Exec(`
		UPDATE carts SET total = (
			SELECT COALESCE(SUM(ci.quantity * c.price), 0)
			FROM cart_items ci
			JOIN courses c ON c.id = ci.course_id
			WHERE ci.cart_id = carts.id
		), updated_at = CURRENT_TIMESTAMP
		WHERE total != (
			SELECT COALESCE(SUM(ci.quantity * c.price), 0)
			FROM cart_items ci
			JOIN courses c ON c.id = ci.course_id
			WHERE ci.cart_id = carts.id
		)`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ensureCart returns the ID of the user's cart, creating it if absent.
func ensureCart(tx *sql.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	cartID = uuid.New().String()
	if _, err := tx.Exec("INSERT INTO carts(id, user_id, total) VALUES(?, ?, 0)", cartID, userID); err != nil {
		return "", err
	}
	return cartID, nil
}
