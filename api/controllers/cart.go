package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/api/middleware"
	"github.com/divinobizcochito/storefront-backend/api/responses"
	"github.com/divinobizcochito/storefront-backend/api/validators"
	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Quantity  int    `json:"cantidad" validate:"omitempty,gt=0"`
	Topping   string `json:"topping" validate:"required"`
	Filling   string `json:"relleno" validate:"required"`
	Message   string `json:"mensajePersonalizado"`
}

type updateCartItemRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

// GetCart returns the authenticated user's cart.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		loaded, err := svc.Load(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, loaded)
	}
}

// AddCartItem appends a line to the cart.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.AddItem(r.Context(), owner, cart.AddItemInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Topping:   payload.Topping,
			Filling:   payload.Filling,
			Message:   payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, updated)
	}
}

// UpdateCartItem nudges a line's quantity by ±1.
func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateQuantity(r.Context(), owner, lineID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// RemoveCartItem drops a line from the cart.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.RemoveItem(r.Context(), owner, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ClearCart empties the cart.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

// QuoteCart totals the cart for the given delivery mode.
func QuoteCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		raw, err := validators.RequireQuery(r, "modoEntrega")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mode, err := enums.ParseDeliveryMode(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery mode"))
			return
		}

		quote, err := svc.QuoteFor(r.Context(), owner, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	owner := middleware.UserUUIDFromContext(r.Context())
	if owner == uuid.Nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	return owner, true
}

func lineIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "lineID")
	lineID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line id")
	}
	return lineID, nil
}
