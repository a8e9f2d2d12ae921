package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OwnerCompany is the tenant whose profit percentage parameterizes markup
// across all of its materials and accessories.
type OwnerCompany struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	Name             string          `gorm:"not null" json:"name"`
	ProfitPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"profit_percentage"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Accessories []Accessory `gorm:"foreignKey:OwnerCompanyID" json:"-"`
}

func (OwnerCompany) TableName() string {
	return "owner_companies"
}

// ProfitMultiplier returns 1 + profit_percentage/100.
func (o *OwnerCompany) ProfitMultiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(o.ProfitPercentage.Div(decimal.NewFromInt(100)))
}
