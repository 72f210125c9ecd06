// Package handler provides flag parsing utilities
package handler

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/config"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// AddOutputFlags registers --json and --quiet.
// Agent-friendly flags (REQUIRED on all commands)
func AddOutputFlags(cmd *cobra.Command, quietHelp string) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, quietHelp)
}

// AddLayoutFlags registers the flags that override tag and page settings
func AddLayoutFlags(cmd *cobra.Command) {
	var tagWidth, tagHeight, pageWidth config.Length
	cmd.Flags().String("mode", "", "Page mode: single or tiled")
	cmd.Flags().Var(&tagWidth, "tag-width", "Tag width (e.g. 30.5mm, 3.05cm, 86pt)")
	cmd.Flags().Var(&tagHeight, "tag-height", "Tag height")
	cmd.Flags().Var(&pageWidth, "page-width", "Page width in tiled mode")
	cmd.Flags().String("font", "", "Font family: helvetica or go")
	AddSeedFlag(cmd)
}

// AddSeedFlag registers --seed
func AddSeedFlag(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "Barcode seed (defaults to the configured seed)")
}

// ParseString extracts a required string flag
func (p *FlagParser) ParseString(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", flagName)
	}
	return value, nil
}

// ParseStringOptional extracts an optional string flag
func (p *FlagParser) ParseStringOptional(flagName string) (string, error) {
	return p.cmd.Flags().GetString(flagName)
}

// ParseBool extracts a boolean flag
func (p *FlagParser) ParseBool(flagName string) (bool, error) {
	return p.cmd.Flags().GetBool(flagName)
}

// ParseQuantities extracts repeated SKU=N values
func (p *FlagParser) ParseQuantities(flagName string) (map[string]int, error) {
	values, err := p.cmd.Flags().GetStringArray(flagName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return cli.ParseQuantities(values)
}

// OutputFormats extracts JSON and Quiet output flags
func (p *FlagParser) OutputFormats() (jsonOutput bool, quietMode bool, err error) {
	jsonOutput, err = p.cmd.Flags().GetBool("json")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse json flag: %w", err)
	}

	quietMode, err = p.cmd.Flags().GetBool("quiet")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse quiet flag: %w", err)
	}

	return jsonOutput, quietMode, nil
}

// ApplyOverrides copies the layout flags that were set onto cfg and
// validates the result
func ApplyOverrides(cfg *config.Config, args *Arguments) error {
	if args.Has("mode") {
		cfg.Page.Mode = strings.ToLower(args.GetString("mode", cfg.Page.Mode))
	}
	if args.Has("font") {
		cfg.Fonts.Family = strings.ToLower(args.GetString("font", cfg.Fonts.Family))
	}
	cfg.Tag.Width = args.GetLength("tag-width", cfg.Tag.Width)
	cfg.Tag.Height = args.GetLength("tag-height", cfg.Tag.Height)
	cfg.Page.Width = args.GetLength("page-width", cfg.Page.Width)
	cfg.Barcode.Seed = args.GetUint64("seed", cfg.Barcode.Seed)
	return cfg.Validate()
}
