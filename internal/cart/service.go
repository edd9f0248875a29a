package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

// Cart is the payload returned after every cart read or mutation.
type Cart struct {
	Items    types.CartLines `json:"items"`
	Subtotal int64           `json:"subtotal"`
}

// Quote extends the cart with delivery totals for checkout.
type Quote struct {
	Items        types.CartLines    `json:"items"`
	Subtotal     int64              `json:"subtotal"`
	Shipping     int64              `json:"envio"`
	Total        int64              `json:"total"`
	DeliveryMode enums.DeliveryMode `json:"modoEntrega"`
}

// AddItemInput carries a new line for the cart. Topping and filling are
// required; the product's name, price, and image are captured at add time.
type AddItemInput struct {
	ProductID int64
	Quantity  int
	Topping   string
	Filling   string
	Message   string
}

// Service exposes the per-user cart operations.
type Service interface {
	Load(ctx context.Context, owner uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, owner uuid.UUID, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, owner uuid.UUID, lineID uuid.UUID, delta int) (*Cart, error)
	RemoveItem(ctx context.Context, owner uuid.UUID, lineID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, owner uuid.UUID) error
	QuoteFor(ctx context.Context, owner uuid.UUID, mode enums.DeliveryMode) (*Quote, error)
}

type productReader interface {
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	store    *Store
	products productReader
	logg     *logger.Logger
	shipping int64
}

// NewService constructs a cart service instance.
func NewService(store *Store, products productReader, cfg config.CartConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:    store,
		products: products,
		logg:     logg,
		shipping: int64(cfg.ShippingSurcharge),
	}, nil
}

// Load returns the current cart. A corrupt payload resets to empty.
func (s *service) Load(ctx context.Context, owner uuid.UUID) (*Cart, error) {
	lines, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.toCart(lines), nil
}

// AddItem appends a new line unconditionally; identical selections never merge.
func (s *service) AddItem(ctx context.Context, owner uuid.UUID, input AddItemInput) (*Cart, error) {
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if strings.TrimSpace(input.Topping) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debes elegir un topping")
	}
	if strings.TrimSpace(input.Filling) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debes elegir un relleno")
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product for cart")
	}

	lines, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	lines = append(lines, types.CartLine{
		LineID:     uuid.New(),
		ProductID:  product.ID,
		Name:       product.Name,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		Customized: true,
		Topping:    strings.TrimSpace(input.Topping),
		Filling:    strings.TrimSpace(input.Filling),
		Message:    strings.TrimSpace(input.Message),
		ImageURL:   product.ImageURL,
	})

	s.persist(ctx, owner, lines)
	return s.toCart(lines), nil
}

// UpdateQuantity bumps a line by one in either direction, never below one.
func (s *service) UpdateQuantity(ctx context.Context, owner uuid.UUID, lineID uuid.UUID, delta int) (*Cart, error) {
	if delta != 1 && delta != -1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be +1 or -1")
	}

	lines, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].LineID != lineID {
			continue
		}
		found = true
		next := lines[i].Quantity + delta
		if next < 1 {
			next = 1
		}
		lines[i].Quantity = next
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	s.persist(ctx, owner, lines)
	return s.toCart(lines), nil
}

// RemoveItem drops the line with the given ID.
func (s *service) RemoveItem(ctx context.Context, owner uuid.UUID, lineID uuid.UUID) (*Cart, error) {
	lines, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	filtered := make(types.CartLines, 0, len(lines))
	found := false
	for _, line := range lines {
		if line.LineID == lineID {
			found = true
			continue
		}
		filtered = append(filtered, line)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	s.persist(ctx, owner, filtered)
	return s.toCart(filtered), nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, owner uuid.UUID) error {
	if err := s.store.Clear(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

// QuoteFor computes the checkout totals for the chosen delivery mode.
// Shipping adds a fixed surcharge only for envio.
func (s *service) QuoteFor(ctx context.Context, owner uuid.UUID, mode enums.DeliveryMode) (*Quote, error) {
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery mode")
	}

	lines, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	subtotal := lines.Subtotal()
	var shipping int64
	if mode == enums.DeliveryModeShipping {
		shipping = s.shipping
	}

	return &Quote{
		Items:        lines,
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal + shipping,
		DeliveryMode: mode,
	}, nil
}

func (s *service) load(ctx context.Context, owner uuid.UUID) (types.CartLines, error) {
	lines, err := s.store.Load(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrCorruptPayload) {
			ctx = s.logg.WithUserID(ctx, owner.String())
			s.logg.Warn(ctx, "cart payload corrupt, resetting to empty")
			return types.CartLines{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return lines, nil
}

// persist writes the cart back; on failure the mutation still stands in
// memory for this response, matching the storefront's best-effort writes.
func (s *service) persist(ctx context.Context, owner uuid.UUID, lines types.CartLines) {
	if err := s.store.Save(ctx, owner, lines); err != nil {
		ctx = s.logg.WithUserID(ctx, owner.String())
		s.logg.Error(ctx, "persisting cart failed", err)
	}
}

func (s *service) toCart(lines types.CartLines) *Cart {
	if lines == nil {
		lines = types.CartLines{}
	}
	return &Cart{
		Items:    lines,
		Subtotal: lines.Subtotal(),
	}
}
