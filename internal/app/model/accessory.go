package model

import (
	"time"

	"gorm.io/gorm"
)

// Accessory is a composite sellable unit built from raw materials and/or
// other accessories (components).
type Accessory struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	OwnerCompanyID uint           `gorm:"not null;index" json:"owner_company_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	OwnerCompany OwnerCompany         `gorm:"foreignKey:OwnerCompanyID" json:"-"`
	Materials    []AccessoryMaterial  `gorm:"foreignKey:AccessoryID" json:"materials,omitempty"`
	Components   []AccessoryComponent `gorm:"foreignKey:ParentAccessoryID" json:"components,omitempty"`
	Pricing      *AccessoryPricing    `gorm:"foreignKey:AccessoryID" json:"pricing,omitempty"`
}

func (Accessory) TableName() string {
	return "accessories"
}
