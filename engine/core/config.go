package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/text"
)

// DefaultDPI maps one point to one pixel.
const DefaultDPI = 72

// Config for the engine run.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	ClearColor colors.Color `yaml:"clear_color"` // RGBA
	// DPI is the point density at a content scale of one.
	DPI float32 `yaml:"dpi"`
	// AssetRoot holds the fonts, shaders and textures directories.
	AssetRoot string           `yaml:"asset_root"`
	Font      string           `yaml:"font"` // file under fonts/, empty for Go Regular
	FontSize  float32          `yaml:"font_size"`
	Atlas     text.AtlasConfig `yaml:"atlas"`
	LogLevel  string           `yaml:"log_level"`
}

// DefaultConfig returns the settings used for fields a config file omits.
func DefaultConfig() Config {
	return Config{
		Title:      "glint",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
		DPI:        DefaultDPI,
		AssetRoot:  "assets",
		FontSize:   16,
		Atlas:      text.DefaultAtlasConfig(),
		LogLevel:   "info",
	}
}

var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.DPI <= 0:
		return fmt.Errorf("%w: dpi %v", ErrInvalidConfig, c.DPI)
	case !(c.FontSize > 0):
		return fmt.Errorf("%w: font size %v", ErrInvalidConfig, c.FontSize)
	case c.Atlas.InitialSize > c.Atlas.MaxSize && c.Atlas.MaxSize > 0:
		return fmt.Errorf("%w: atlas initial size %d above max %d", ErrInvalidConfig, c.Atlas.InitialSize, c.Atlas.MaxSize)
	}
	return nil
}
