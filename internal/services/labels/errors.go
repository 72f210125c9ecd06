package labels

import "errors"

// Label generation errors
var (
	// Validation errors
	ErrEmptyInput       = errors.New("spreadsheet path cannot be empty")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrNoSKUs           = errors.New("at least one SKU is required")
	ErrEmptySKU         = errors.New("SKU cannot be empty")
	ErrEmptyProduct     = errors.New("product needs a SKU or a name")
	ErrDuplicateSKU     = errors.New("SKU already in spreadsheet")
)
