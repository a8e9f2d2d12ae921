package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialUsage holds the dimensions of an area-based material usage. It is
// persisted as a JSON column on the accessory-material link; unit-based links
// leave it NULL.
type MaterialUsage struct {
	Width  decimal.Decimal `json:"width"`
	Length decimal.Decimal `json:"length"`
}

// Area returns width × length. Absent dimensions are zero, so an incomplete
// usage costs nothing rather than failing.
func (u *MaterialUsage) Area() decimal.Decimal {
	if u == nil {
		return decimal.Zero
	}
	return u.Width.Mul(u.Length)
}

// Value implements driver.Valuer, serializing the usage as JSON.
func (u MaterialUsage) Value() (driver.Value, error) {
	return json.Marshal(u)
}

// Scan implements sql.Scanner, deserializing the JSON usage column.
func (u *MaterialUsage) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported usage column type %T", value)
	}

	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, u)
}
