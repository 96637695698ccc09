package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/planktonviz/internal/deposition"
	"github.com/san-kum/planktonviz/internal/field"
	"github.com/san-kum/planktonviz/internal/history"
)

const (
	DefaultName   = "run"
	DefaultOrder  = "second"
	DefaultN      = 256
	DefaultLeft   = 0.0
	DefaultRight  = 10.0
	DefaultDt     = 0.01
	DefaultShape  = "soft_switch"
	DefaultMaxStr = 1.0
	DefaultWidth  = 6.0
	DefaultHeight = 4.0
	DefaultFPS    = 30
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name       string           `yaml:"name" json:"name"`
	Order      string           `yaml:"order" json:"order"`
	Grid       GridConfig       `yaml:"grid" json:"grid"`
	Dt         float64          `yaml:"dt" json:"dt"`
	D1         float64          `yaml:"d1" json:"d1"`
	D2         float64          `yaml:"d2" json:"d2"`
	Delta      float64          `yaml:"delta" json:"delta"`
	Deposition DepositionConfig `yaml:"deposition" json:"deposition"`
	Render     RenderConfig     `yaml:"render" json:"render"`
}

type GridConfig struct {
	N     int     `yaml:"n" json:"n"`
	Left  float64 `yaml:"left" json:"left"`
	Right float64 `yaml:"right" json:"right"`
}

type DepositionConfig struct {
	Shape           string  `yaml:"shape" json:"shape"`
	MaxStrength     float64 `yaml:"max_strength" json:"max_strength"`
	Threshold       float64 `yaml:"threshold" json:"threshold"`
	TransitionWidth float64 `yaml:"transition_width" json:"transition_width"`
}

// RenderConfig sizes exported figures (inches) and animations.
type RenderConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	FPS    int     `yaml:"fps" json:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:  DefaultName,
		Order: DefaultOrder,
		Grid: GridConfig{
			N:     DefaultN,
			Left:  DefaultLeft,
			Right: DefaultRight,
		},
		Dt: DefaultDt,
		Deposition: DepositionConfig{
			Shape:           DefaultShape,
			MaxStrength:     DefaultMaxStr,
			Threshold:       deposition.DefaultThreshold,
			TransitionWidth: deposition.DefaultTransitionWidth,
		},
		Render: RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if _, err := c.HistoryOrder(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.GridSpec().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if _, err := c.DepositionResponse(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %gx%g", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.Render.FPS)
	}
	return nil
}

func (c *Config) GridSpec() field.Grid {
	return field.Grid{N: c.Grid.N, Left: c.Grid.Left, Right: c.Grid.Right}
}

func (c *Config) Size() int                     { return c.Grid.N }
func (c *Config) Bounds() (left, right float64) { return c.Grid.Left, c.Grid.Right }

func (c *Config) HistoryOrder() (history.Order, error) {
	return history.ParseOrder(c.Order)
}

// ValidateName accepts run names that are a single path element, since run
// directories are named after them.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	case name == "." || name == "..":
		return fmt.Errorf("%w: name %q", ErrInvalidConfig, name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("%w: name %q contains a path separator", ErrInvalidConfig, name)
	}
	return nil
}

// DepositionResponse builds the configured response, rejecting parameters
// that would only produce NaN.
func (c *Config) DepositionResponse() (deposition.Response, error) {
	shape, err := deposition.ParseShape(c.Deposition.Shape)
	if err != nil {
		return deposition.Response{}, err
	}
	p := deposition.Params{
		MaxStrength:     c.Deposition.MaxStrength,
		Threshold:       c.Deposition.Threshold,
		TransitionWidth: c.Deposition.TransitionWidth,
	}
	if err := p.Validate(); err != nil {
		return deposition.Response{}, err
	}
	return deposition.NewResponse(shape, p)
}

// Title is the figure caption used by plots of this run.
func (c *Config) Title(t float64) string {
	return fmt.Sprintf("Time: %.2f, d1: %.2f, d2: %.2f, delta: %g, %s", t, c.D1, c.D2, c.Delta, c.Deposition.Shape)
}

// OrderLabel is "First Order" or "Second Order".
func (c *Config) OrderLabel() string {
	o, err := c.HistoryOrder()
	if err != nil {
		return c.Order
	}
	if o == history.FirstOrder {
		return "First Order"
	}
	return "Second Order"
}

// SeriesTitle captions a multiple-times plot of one field, e.g.
// "Plankton, First Order, d1: 0.20, d2: 1.00, delta: 0.001, soft_switch".
func (c *Config) SeriesTitle(fieldName string) string {
	return fmt.Sprintf("%s, %s, d1: %.2f, d2: %.2f, delta: %g, %s", fieldLabel(fieldName), c.OrderLabel(), c.D1, c.D2, c.Delta, c.Deposition.Shape)
}

// TotalsTitle captions the percentage-left plot.
func (c *Config) TotalsTitle() string {
	return "Total Plankton/Chemical Over Time, " + c.OrderLabel()
}

// AxisLabel is the y-axis label of a multiple-times plot of fieldName.
func AxisLabel(fieldName string) string {
	switch fieldName {
	case "chemical":
		return "Chemical Concentration"
	case "free":
		return "Free Plankton"
	case "attached":
		return "Attached Plankton"
	default:
		return "Total Plankton"
	}
}

func fieldLabel(fieldName string) string {
	switch fieldName {
	case "chemical":
		return "Chemical"
	case "free":
		return "Free Plankton"
	case "attached":
		return "Attached Plankton"
	default:
		return "Plankton"
	}
}
