package controllers

import (
	"net/http"

	"github.com/divinobizcochito/storefront-backend/api/responses"
	"github.com/divinobizcochito/storefront-backend/api/validators"
	"github.com/divinobizcochito/storefront-backend/internal/devices"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

// RegisterDevice records an Expo push token for the authenticated user.
func RegisterDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload devices.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Register(r.Context(), userID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"registered": true})
	}
}
