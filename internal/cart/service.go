package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopfront/shopfront/internal/catalog"
	"github.com/shopfront/shopfront/internal/users"
)

var (
	// ErrNotInCart is returned when updating a product the cart does not hold.
	ErrNotInCart = errors.New("product not in cart")
	// ErrInvalidQuantity is returned for negative quantities.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Line is a cart product joined with its quantity.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Service manages the cart embedded in the user record.
type Service struct {
	users    users.Repository
	products catalog.Repository
}

func NewService(userRepo users.Repository, products catalog.Repository) *Service {
	return &Service{users: userRepo, products: products}
}

// Lines returns the cart products in cart order. Products deleted from the
// catalog since they were added are skipped.
func (s *Service) Lines(ctx context.Context, userID string) ([]Line, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, user.CartItems)
}

// Add puts one unit of the product in the cart.
func (s *Service) Add(ctx context.Context, userID, productID string) ([]Line, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := user.CartItems
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, users.CartItem{ProductID: productID, Quantity: 1})
	}
	return s.save(ctx, userID, items)
}

// Remove drops one product, or empties the cart when productID is empty.
func (s *Service) Remove(ctx context.Context, userID, productID string) ([]Line, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if productID == "" {
		return s.save(ctx, userID, nil)
	}
	items := make([]users.CartItem, 0, len(user.CartItems))
	for _, item := range user.CartItems {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return s.save(ctx, userID, items)
}

// UpdateQuantity sets the quantity of a cart product. Zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) ([]Line, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]users.CartItem, 0, len(user.CartItems))
	found := false
	for _, item := range user.CartItems {
		if item.ProductID != productID {
			items = append(items, item)
			continue
		}
		found = true
		if quantity > 0 {
			item.Quantity = quantity
			items = append(items, item)
		}
	}
	if !found {
		return nil, ErrNotInCart
	}
	return s.save(ctx, userID, items)
}

func (s *Service) save(ctx context.Context, userID string, items []users.CartItem) ([]Line, error) {
	if err := s.users.UpdateCart(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return s.join(ctx, items)
}

func (s *Service) join(ctx context.Context, items []users.CartItem) ([]Line, error) {
	if len(items) == 0 {
		return []Line{}, nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if p, ok := byID[item.ProductID]; ok {
			lines = append(lines, Line{Product: p, Quantity: item.Quantity})
		}
	}
	return lines, nil
}
