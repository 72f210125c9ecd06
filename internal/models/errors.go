package models

import "errors"

// Domain errors shared across packages
var (
	// ErrNoPrintableRows indicates the spreadsheet produced no tag at all
	ErrNoPrintableRows = errors.New("no printable rows found in spreadsheet")

	// ErrUnsupportedFormat indicates an input file type that cannot be read
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrEmptySheet indicates a sheet without a header row
	ErrEmptySheet = errors.New("spreadsheet has no header row")
)
