package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CartLine is one entry in a customer's cart. Field names on the wire
// follow the storefront payload: prices are CLP integer amounts and a
// customized line carries its topping and filling choices.
type CartLine struct {
	LineID     uuid.UUID `json:"lineId"`
	ProductID  int64     `json:"id"`
	Name       string    `json:"nombre"`
	Quantity   int       `json:"cantidad"`
	UnitPrice  int64     `json:"precio"`
	Customized bool      `json:"modificado"`
	Topping    string    `json:"topping,omitempty"`
	Filling    string    `json:"relleno,omitempty"`
	Message    string    `json:"mensajePersonalizado,omitempty"`
	ImageURL   string    `json:"imagen,omitempty"`
}

// Total returns the line amount in CLP.
func (l CartLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// CartLines is a cart snapshot marshaled as JSONB.
type CartLines []CartLine

// Subtotal sums the line amounts in CLP.
func (c CartLines) Subtotal() int64 {
	var total int64
	for _, line := range c {
		total += line.Total()
	}
	return total
}

// Value serializes the lines to JSON.
func (c CartLines) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan decodes JSONB into the line slice.
func (c *CartLines) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded CartLines
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*c = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}
