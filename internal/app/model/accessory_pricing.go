package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessoryPricing is the persisted aggregation result for one accessory:
// total materials cost and total sale price across the whole component
// subgraph. One row per accessory, upserted by the pricing aggregator. It is
// a memoization cache: parent aggregations and read APIs consume it as-is,
// and it is only refreshed by explicit recompute triggers.
type AccessoryPricing struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	AccessoryID         uint            `gorm:"not null;uniqueIndex" json:"accessory_id"`
	OwnerCompanyID      uint            `gorm:"not null;index" json:"owner_company_id"`
	TotalMaterialsPrice decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"total_materials_price"`
	MarkupPercentage    decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"markup_percentage"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"total_price"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (AccessoryPricing) TableName() string {
	return "accessory_pricings"
}
