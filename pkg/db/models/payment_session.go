package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

// PaymentSession tracks one Webpay transaction from creation to its
// single commit. Token is the token_ws issued by Webpay and CartSnapshot
// freezes the lines the amount was computed from.
type PaymentSession struct {
	Token             string                     `gorm:"column:token;primaryKey"`
	BuyOrder          string                     `gorm:"column:buy_order;not null;uniqueIndex"`
	UserID            uuid.UUID                  `gorm:"column:user_id;type:uuid;not null"`
	Status            enums.PaymentSessionStatus `gorm:"column:status;type:text;not null;default:'created'"`
	AmountCLP         int64                      `gorm:"column:amount_clp;not null"`
	DeliveryMode      enums.DeliveryMode         `gorm:"column:delivery_mode;type:text;not null"`
	RecipientName     string                     `gorm:"column:recipient_name;not null"`
	Address           string                     `gorm:"column:address;not null;default:''"`
	ContactEmail      string                     `gorm:"column:contact_email;not null"`
	Comments          string                     `gorm:"column:comments;not null;default:''"`
	CartSnapshot      types.CartLines            `gorm:"column:cart_snapshot;type:jsonb;not null;default:'[]'"`
	OrderID           *uuid.UUID                 `gorm:"column:order_id;type:uuid"`
	AuthorizationCode *string                    `gorm:"column:authorization_code"`
	ResponseCode      *int                       `gorm:"column:response_code"`
	CommittedAt       *time.Time                 `gorm:"column:committed_at"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
