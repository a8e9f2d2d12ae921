package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessoryComponent is a directed edge in the component graph: the parent
// accessory contains Quantity units of the child accessory. The graph must
// stay acyclic; writes are validated against cycle closure.
type AccessoryComponent struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	ParentAccessoryID uint            `gorm:"not null;uniqueIndex:idx_component_edge" json:"parent_accessory_id"`
	ChildAccessoryID  uint            `gorm:"not null;uniqueIndex:idx_component_edge" json:"child_accessory_id"`
	Quantity          decimal.Decimal `gorm:"type:decimal(14,4);not null;default:1" json:"quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	Parent Accessory `gorm:"foreignKey:ParentAccessoryID" json:"-"`
	Child  Accessory `gorm:"foreignKey:ChildAccessoryID" json:"child,omitempty"`
}

func (AccessoryComponent) TableName() string {
	return "accessory_components"
}
