package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/etiquetas/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Tag         TagConfig         `yaml:"tag" json:"tag"`
	Page        PageConfig        `yaml:"page" json:"page"`
	Fonts       FontConfig        `yaml:"fonts" json:"fonts"`
	Barcode     BarcodeConfig     `yaml:"barcode" json:"barcode"`
	Price       PriceConfig       `yaml:"price" json:"price"`
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet" json:"spreadsheet"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Theme       ColorScheme       `yaml:"theme" json:"theme"`
}

// TagConfig describes one physical tag
type TagConfig struct {
	Width   Length `yaml:"width" json:"width"`
	Height  Length `yaml:"height" json:"height"`
	Padding Length `yaml:"padding" json:"padding"`
	Border  bool   `yaml:"border" json:"border"` // draw a thin cut line around each tag
}

// PageConfig controls how tags are placed on pages
type PageConfig struct {
	Mode    string `yaml:"mode" json:"mode"`       // single or tiled
	Width   Length `yaml:"width" json:"width"`     // fixed page width in tiled mode
	Columns int    `yaml:"columns" json:"columns"` // 0 = as many as fit
	Rows    int    `yaml:"rows" json:"rows"`
	Gap     Length `yaml:"gap" json:"gap"`
	Margin  Length `yaml:"margin" json:"margin"`
}

// FontConfig selects the font family and the smallest size text may shrink to
type FontConfig struct {
	Family  string  `yaml:"family" json:"family"`
	MinSize float64 `yaml:"min_size" json:"min_size"` // points
}

// BarcodeConfig controls barcode value derivation and drawing
type BarcodeConfig struct {
	Symbology string `yaml:"symbology" json:"symbology"`
	Digits    int    `yaml:"digits" json:"digits"`
	Seed      uint64 `yaml:"seed" json:"seed"`
	Height    Length `yaml:"height" json:"height"`
	QuietZone int    `yaml:"quiet_zone" json:"quiet_zone"` // modules on each side
}

// PriceConfig controls price formatting
type PriceConfig struct {
	Currency string `yaml:"currency" json:"currency"`
	Decimals int32  `yaml:"decimals" json:"decimals"`
}

// SpreadsheetConfig controls how the input sheet is read
type SpreadsheetConfig struct {
	Sheet         string `yaml:"sheet" json:"sheet"` // empty = first sheet
	BarcodeColumn string `yaml:"barcode_column" json:"barcode_column"`
}

// OutputConfig controls where files are written
type OutputConfig struct {
	Dir  string `yaml:"dir" json:"dir"`
	Name string `yaml:"name" json:"name"`
	Logo string `yaml:"logo" json:"logo"` // optional image drawn at the top of each tag
}

// Default returns the built-in configuration: 3.05 x 4 cm tags,
// three per row on a 10.02 cm roll.
func Default() *Config {
	return &Config{
		Tag: TagConfig{
			Width:   CM(3.05),
			Height:  CM(4),
			Padding: 1,
		},
		Page: PageConfig{
			Mode:  models.ModeTiled,
			Width: CM(10.02),
			Rows:  1,
			Gap:   3,
		},
		Fonts: FontConfig{
			Family:  models.FontHelvetica,
			MinSize: 4,
		},
		Barcode: BarcodeConfig{
			Symbology: models.SymbologyCode128,
			Digits:    12,
			Seed:      20240501,
			Height:    7.5,
			QuietZone: 10,
		},
		Price: PriceConfig{
			Currency: "S/",
			Decimals: 2,
		},
		Spreadsheet: SpreadsheetConfig{
			BarcodeColumn: "Código Barras",
		},
		Output: OutputConfig{
			Dir:  "output",
			Name: "etiquetas.pdf",
		},
		Theme: *DefaultColorScheme(),
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		// Return default config if we can't determine config path
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from an explicit path.
// A missing file yields the defaults.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Decode over the defaults so absent keys keep their default and
	// explicit zeros (gap: 0, seed: 0) survive. The theme is resolved
	// from its preset afterwards.
	config := Default()
	config.Theme = ColorScheme{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, configPath, err)
	}

	// Fill in values that cannot be zero
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the config to the given path, or the user's config directory when empty
func (c *Config) Save(configPath string) (string, error) {
	if configPath == "" {
		p, err := Path()
		if err != nil {
			return "", err
		}
		configPath = p
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", err
	}

	data, err := c.Marshal()
	if err != nil {
		return "", err
	}
	return configPath, os.WriteFile(configPath, data, 0o644)
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Path returns the path to the config file
func Path() (string, error) {
	if explicit := os.Getenv("ETIQUETAS_CONFIG"); explicit != "" {
		return explicit, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "etiquetas", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "etiquetas", "config.yaml"), nil
}

// applyDefaults restores defaults for values that are meaningless when zero
func (c *Config) applyDefaults() {
	d := Default()

	if c.Tag.Width == 0 {
		c.Tag.Width = d.Tag.Width
	}
	if c.Tag.Height == 0 {
		c.Tag.Height = d.Tag.Height
	}

	if c.Page.Mode == "" {
		c.Page.Mode = d.Page.Mode
	}
	if c.Page.Width == 0 {
		c.Page.Width = d.Page.Width
	}
	if c.Page.Rows == 0 {
		c.Page.Rows = d.Page.Rows
	}

	if c.Fonts.Family == "" {
		c.Fonts.Family = d.Fonts.Family
	}
	if c.Fonts.MinSize == 0 {
		c.Fonts.MinSize = d.Fonts.MinSize
	}

	if c.Barcode.Symbology == "" {
		c.Barcode.Symbology = d.Barcode.Symbology
	}
	if c.Barcode.Digits == 0 {
		c.Barcode.Digits = d.Barcode.Digits
	}
	if c.Barcode.Height == 0 {
		c.Barcode.Height = d.Barcode.Height
	}

	if c.Spreadsheet.BarcodeColumn == "" {
		c.Spreadsheet.BarcodeColumn = d.Spreadsheet.BarcodeColumn
	}

	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
	if c.Output.Name == "" {
		c.Output.Name = d.Output.Name
	}

	c.Theme.ApplyDefaults()
}

// Validate checks values that would make layout impossible
func (c *Config) Validate() error {
	switch c.Page.Mode {
	case models.ModeSingle, models.ModeTiled:
	default:
		return fmt.Errorf("%w: page mode %q (must be: single, tiled)", ErrInvalidConfig, c.Page.Mode)
	}

	switch c.Fonts.Family {
	case models.FontHelvetica, models.FontGo:
	default:
		return fmt.Errorf("%w: font family %q (must be: helvetica, go)", ErrInvalidConfig, c.Fonts.Family)
	}

	switch c.Barcode.Symbology {
	case models.SymbologyCode128:
	case models.SymbologyEAN13:
		if c.Barcode.Digits != 12 {
			return fmt.Errorf("%w: ean13 needs 12 barcode digits, got %d", ErrInvalidConfig, c.Barcode.Digits)
		}
	default:
		return fmt.Errorf("%w: barcode symbology %q (must be: code128, ean13)", ErrInvalidConfig, c.Barcode.Symbology)
	}

	if c.Barcode.Digits < 6 || c.Barcode.Digits > 18 {
		return fmt.Errorf("%w: barcode digits must be between 6 and 18, got %d", ErrInvalidConfig, c.Barcode.Digits)
	}
	if c.Tag.Padding*2 >= c.Tag.Width || c.Tag.Padding*2 >= c.Tag.Height {
		return fmt.Errorf("%w: tag padding %s leaves no room on a %s x %s tag",
			ErrInvalidConfig, c.Tag.Padding, c.Tag.Width, c.Tag.Height)
	}
	if c.Page.Mode == models.ModeTiled && c.Page.Width < c.Tag.Width+2*c.Page.Margin {
		return fmt.Errorf("%w: page width %s cannot hold a %s tag", ErrInvalidConfig, c.Page.Width, c.Tag.Width)
	}
	if c.Page.Columns < 0 || c.Page.Rows < 0 {
		return fmt.Errorf("%w: page columns and rows cannot be negative", ErrInvalidConfig)
	}
	if c.Fonts.MinSize <= 0 {
		return fmt.Errorf("%w: minimum font size must be positive", ErrInvalidConfig)
	}
	if c.Price.Decimals < 0 {
		return fmt.Errorf("%w: price decimals cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// OutputPath returns the default PDF path, with "_preview" before the
// extension for previews.
func (c *Config) OutputPath(preview bool) string {
	name := c.Output.Name
	if preview {
		ext := filepath.Ext(name)
		name = name[:len(name)-len(ext)] + "_preview" + ext
	}
	return filepath.Join(c.Output.Dir, name)
}
