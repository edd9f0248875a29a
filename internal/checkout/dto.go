package checkout

import "github.com/google/uuid"

// CreateSessionRequest is the delivery form posted before redirecting to
// Webpay. Recipient, address, and email are enforced only for envio.
type CreateSessionRequest struct {
	DeliveryMode string `json:"modoEntrega" validate:"required"`
	Recipient    string `json:"destinatario"`
	Address      string `json:"direccion"`
	ContactEmail string `json:"email" validate:"omitempty,email"`
	Comments     string `json:"comentarios"`
}

// CreateSessionResponse carries the redirect target for the app's
// embedded web view.
type CreateSessionResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// CommitResult is the outcome of a Webpay commit callback.
type CommitResult struct {
	Success bool       `json:"success"`
	OrderID *uuid.UUID `json:"pedidoId,omitempty"`
}
