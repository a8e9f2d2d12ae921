package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Canonical material type names. The costing mode is decided by name, so
// renamed or imported types still work as long as area types mention "área".
const (
	MaterialTypeAreaName = "Por Área"
	MaterialTypeUnitName = "Por Unidad"
)

// MaterialType decides how a material usage is costed: area-based types are
// priced per width×length, everything else per unit quantity.
type MaterialType struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MaterialType) TableName() string {
	return "material_types"
}

// IsAreaBased reports whether the type name denotes area costing.
// Matching is case-insensitive and tolerates both "area" and "área".
func (t *MaterialType) IsAreaBased() bool {
	name := strings.ToLower(t.Name)
	return strings.Contains(name, "área") || strings.Contains(name, "area")
}

// Material is a raw, non-decomposable priced input.
type Material struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	PurchasePrice  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"purchase_price"`
	MaterialTypeID uint            `gorm:"not null;index" json:"material_type_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	MaterialType MaterialType        `gorm:"foreignKey:MaterialTypeID" json:"material_type,omitempty"`
	Links        []AccessoryMaterial `gorm:"foreignKey:MaterialID" json:"-"`
}

func (Material) TableName() string {
	return "materials"
}
