package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessoryMaterial links a material usage to an accessory and caches the
// computed cost snapshot. ProportionalCost, ProfitPercentage and SalePrice are
// written when the link is created and refreshed only by explicit recompute
// triggers (material price edit, owner profit edit), never on read.
type AccessoryMaterial struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	AccessoryID      uint            `gorm:"not null;index" json:"accessory_id"`
	MaterialID       uint            `gorm:"not null;index" json:"material_id"`
	OwnerCompanyID   uint            `gorm:"not null;index" json:"owner_company_id"`
	Quantity         decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"quantity"`
	Usage            *MaterialUsage  `gorm:"type:text" json:"usage,omitempty"`
	ProportionalCost decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"proportional_cost"`
	ProfitPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"profit_percentage"`
	SalePrice        decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"sale_price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	Accessory    Accessory    `gorm:"foreignKey:AccessoryID" json:"-"`
	Material     Material     `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	OwnerCompany OwnerCompany `gorm:"foreignKey:OwnerCompanyID" json:"-"`
}

func (AccessoryMaterial) TableName() string {
	return "accessory_materials"
}
