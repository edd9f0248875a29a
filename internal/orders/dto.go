package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

// OrderDTO is the pedido payload the app consumes.
type OrderDTO struct {
	ID           uuid.UUID          `json:"id"`
	Status       enums.OrderStatus  `json:"estado"`
	DeliveryMode enums.DeliveryMode `json:"modoEntrega"`
	Recipient    string             `json:"destinatario"`
	Address      string             `json:"direccion,omitempty"`
	Items        types.CartLines    `json:"items"`
	SubtotalCLP  int64              `json:"subtotal"`
	ShippingCLP  int64              `json:"envio"`
	TotalCLP     int64              `json:"total"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func toOrderDTO(order models.Order) OrderDTO {
	return OrderDTO{
		ID:           order.ID,
		Status:       order.Status,
		DeliveryMode: order.DeliveryMode,
		Recipient:    order.RecipientName,
		Address:      order.Address,
		Items:        order.Items,
		SubtotalCLP:  order.SubtotalCLP,
		ShippingCLP:  order.ShippingCLP,
		TotalCLP:     order.TotalCLP,
		CreatedAt:    order.CreatedAt,
	}
}
