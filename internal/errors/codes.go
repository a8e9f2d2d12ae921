package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to localized messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Owners (OWNER_) ====================
	OwnerNotFound      = "OWNER_NOT_FOUND"
	OwnerInvalidProfit = "OWNER_INVALID_PROFIT"

	// ==================== Materials (MATERIAL_) ====================
	MaterialNotFound     = "MATERIAL_NOT_FOUND"
	MaterialTypeNotFound = "MATERIAL_TYPE_NOT_FOUND"

	// ==================== Accessories (ACCESSORY_) ====================
	AccessoryNotFound     = "ACCESSORY_NOT_FOUND"
	AccessoryLinkNotFound = "ACCESSORY_LINK_NOT_FOUND"

	// ==================== Components (COMPONENT_) ====================
	ComponentNotFound      = "COMPONENT_NOT_FOUND"
	ComponentInvalid       = "COMPONENT_INVALID"
	ComponentSelfReference = "COMPONENT_SELF_REFERENCE"
	ComponentCycle         = "COMPONENT_CYCLE"

	// ==================== Pricing (PRICING_) ====================
	PricingNotFound       = "PRICING_NOT_FOUND"
	PricingCascadePartial = "PRICING_CASCADE_PARTIAL"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE"
)
