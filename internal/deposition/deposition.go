package deposition

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	DefaultThreshold       = 0.08
	DefaultTransitionWidth = 1.0 / 250
)

var (
	ErrUnknownShape = errors.New("deposition: unknown response shape")
	ErrInvalidParam = errors.New("deposition: invalid parameter")
)

// Shape selects the response curve.
type Shape int

const (
	Constant Shape = iota
	SoftSwitch
	LinearSoftSwitch
)

var shapeNames = map[Shape]string{
	Constant:         "constant",
	SoftSwitch:       "soft_switch",
	LinearSoftSwitch: "linear_soft_switch",
}

// Shapes lists every supported shape in declaration order.
func Shapes() []Shape {
	return []Shape{Constant, SoftSwitch, LinearSoftSwitch}
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func (s Shape) Valid() bool {
	_, ok := shapeNames[s]
	return ok
}

// ParseShape accepts the canonical names plus a few spellings used in older
// run configs.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "constant", "const":
		return Constant, nil
	case "soft_switch", "softswitch", "switch", "atan":
		return SoftSwitch, nil
	case "linear_soft_switch", "linearsoftswitch", "linear_switch", "linatan":
		return LinearSoftSwitch, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Params are the deposition parameters shared by all shapes.
type Params struct {
	MaxStrength     float64 `json:"max_strength" yaml:"max_strength"`
	Threshold       float64 `json:"threshold" yaml:"threshold"`
	TransitionWidth float64 `json:"transition_width" yaml:"transition_width"`
}

// DefaultParams returns params with the default threshold and transition
// width.
func DefaultParams(maxStrength float64) Params {
	return Params{
		MaxStrength:     maxStrength,
		Threshold:       DefaultThreshold,
		TransitionWidth: DefaultTransitionWidth,
	}
}

// Validate reports parameters that would make evaluation produce NaN or Inf.
func (p Params) Validate() error {
	if math.IsNaN(p.MaxStrength) || math.IsInf(p.MaxStrength, 0) {
		return fmt.Errorf("%w: max_strength=%g", ErrInvalidParam, p.MaxStrength)
	}
	if p.Threshold == 0 || math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return fmt.Errorf("%w: threshold=%g", ErrInvalidParam, p.Threshold)
	}
	if !(p.TransitionWidth > 0) || math.IsInf(p.TransitionWidth, 0) {
		return fmt.Errorf("%w: transition_width=%g", ErrInvalidParam, p.TransitionWidth)
	}
	return nil
}

// Evaluate returns the deposition rate at concentration c.
// It panics on a shape outside the declared set.
func Evaluate(shape Shape, c float64, p Params) float64 {
	switch shape {
	case Constant:
		return p.MaxStrength
	case SoftSwitch:
		return p.MaxStrength / 2 * envelope(c, p)
	case LinearSoftSwitch:
		return p.MaxStrength * (c + 0.2*p.Threshold) / (2 * p.Threshold) * envelope(c, p)
	}
	panic(fmt.Sprintf("deposition: unknown shape %d", int(shape)))
}

// EvaluateSlice applies Evaluate elementwise. The result is freshly
// allocated and has the same length as c.
func EvaluateSlice(shape Shape, c []float64, p Params) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = Evaluate(shape, v, p)
	}
	return out
}

// envelope is tanh((threshold-c)/width)+1, ranging over (0, 2).
func envelope(c float64, p Params) float64 {
	return math.Tanh((p.Threshold-c)/p.TransitionWidth) + 1
}

// Response binds a shape to its parameters.
type Response struct {
	Shape  Shape  `json:"shape" yaml:"shape"`
	Params Params `json:"params" yaml:",inline"`
}

func NewResponse(shape Shape, p Params) (Response, error) {
	if !shape.Valid() {
		return Response{}, fmt.Errorf("%w: %d", ErrUnknownShape, int(shape))
	}
	return Response{Shape: shape, Params: p}, nil
}

func (r Response) Rate(c float64) float64 {
	return Evaluate(r.Shape, c, r.Params)
}

func (r Response) Rates(c []float64) []float64 {
	return EvaluateSlice(r.Shape, c, r.Params)
}

// Func returns the response as a plain scalar function for a forcing term.
func (r Response) Func() func(float64) float64 {
	return r.Rate
}

func (r Response) String() string {
	return fmt.Sprintf("%s(max=%g, threshold=%g, width=%g)", r.Shape, r.Params.MaxStrength, r.Params.Threshold, r.Params.TransitionWidth)
}
