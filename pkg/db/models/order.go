package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

// Order is a paid pedido created by a successful Webpay commit.
type Order struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Status            enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'pagado'"`
	DeliveryMode      enums.DeliveryMode `gorm:"column:delivery_mode;type:text;not null"`
	RecipientName     string             `gorm:"column:recipient_name;not null"`
	Address           string             `gorm:"column:address;not null;default:''"`
	ContactEmail      string             `gorm:"column:contact_email;not null"`
	Comments          string             `gorm:"column:comments;not null;default:''"`
	Items             types.CartLines    `gorm:"column:items;type:jsonb;not null;default:'[]'"`
	SubtotalCLP       int64              `gorm:"column:subtotal_clp;not null"`
	ShippingCLP       int64              `gorm:"column:shipping_clp;not null;default:0"`
	TotalCLP          int64              `gorm:"column:total_clp;not null"`
	BuyOrder          string             `gorm:"column:buy_order;not null;uniqueIndex"`
	AuthorizationCode *string            `gorm:"column:authorization_code"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Order) TableName() string {
	return "pedidos"
}
