package models

// ============================================================================
// PAGE MODES
// ============================================================================

// Page modes for the generated PDF
const (
	// ModeSingle makes every page exactly one tag
	ModeSingle = "single"
	// ModeTiled places several tags on pages of a fixed width
	ModeTiled = "tiled"
)

// ============================================================================
// BARCODE SYMBOLOGIES
// ============================================================================

// Supported barcode symbologies
const (
	SymbologyCode128 = "code128"
	SymbologyEAN13   = "ean13"
)

// ============================================================================
// FONT FAMILIES
// ============================================================================

// Font families the renderer knows how to load
const (
	FontHelvetica = "helvetica"
	FontGo        = "go"
)

// DefaultStock is used when the stock cell is missing or unreadable
const DefaultStock = 1
