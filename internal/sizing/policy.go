// Package sizing turns a requested size and hint into concrete window constraints.
package sizing

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidSize is returned for non-positive dimensions.
var ErrInvalidSize = errors.New("sizing: width and height must be positive")

// Hint selects how a requested size constrains the window.
type Hint int

const (
	// HintNone sets the current size; the user may resize freely.
	HintNone Hint = iota
	// HintMin sets the smallest size the window may take.
	HintMin
	// HintMax sets the largest size the window may take.
	HintMax
	// HintFixed sets the current size and disables user resizing.
	HintFixed
)

func (h Hint) String() string {
	switch h {
	case HintNone:
		return "none"
	case HintMin:
		return "min"
	case HintMax:
		return "max"
	case HintFixed:
		return "fixed"
	default:
		return fmt.Sprintf("hint(%d)", int(h))
	}
}

// ParseHint parses the lower-case name produced by Hint.String.
func ParseHint(s string) (Hint, error) {
	switch s {
	case "", "none":
		return HintNone, nil
	case "min":
		return HintMin, nil
	case "max":
		return HintMax, nil
	case "fixed":
		return HintFixed, nil
	default:
		return HintNone, fmt.Errorf("sizing: unknown hint %q", s)
	}
}

// Size is a content size in logical pixels. The zero Size means "unset".
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether s is unset.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Plan is what an adapter must apply to its native window.
type Plan struct {
	// Resize is true when the current content size must become Size.
	Resize bool
	Size   Size
	// Resizable is the user-resize affordance after the call.
	Resizable bool
	// Min and Max are the active bounds; a zero value means no bound.
	Min Size
	Max Size
	// Changed is false when the request repeats the last applied one.
	Changed bool
}

// Policy keeps the last applied hint state. It is safe for concurrent use.
type Policy struct {
	mu        sync.Mutex
	last      request
	applied   bool
	min       Size
	max       Size
	resizable bool
}

type request struct {
	size Size
	hint Hint
}

// NewPolicy returns a policy for a freely resizable window.
func NewPolicy() *Policy {
	return &Policy{resizable: true}
}

// Apply records a request and returns the plan to apply.
//
// MIN and MAX bounds are enforced together; the latest of each kind wins. A new
// bound that contradicts the other kind moves the other bound to the same
// value. NONE and FIXED sizes are clamped into the active bounds.
func (p *Policy) Apply(width, height int, hint Hint) (Plan, error) {
	if width <= 0 || height <= 0 {
		return Plan{}, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if hint < HintNone || hint > HintFixed {
		return Plan{}, fmt.Errorf("sizing: invalid hint %d", int(hint))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	req := request{size: Size{Width: width, Height: height}, hint: hint}
	changed := !p.applied || p.last != req
	p.last = req
	p.applied = true

	plan := Plan{Changed: changed}
	switch hint {
	case HintNone, HintFixed:
		p.resizable = hint != HintFixed
		plan.Resize = true
		plan.Size = p.clampLocked(req.size)
	case HintMin:
		p.resizable = true
		p.min = req.size
		if !p.max.IsZero() {
			p.max = Size{Width: max(p.max.Width, width), Height: max(p.max.Height, height)}
		}
	case HintMax:
		p.resizable = true
		p.max = req.size
		if !p.min.IsZero() {
			p.min = Size{Width: min(p.min.Width, width), Height: min(p.min.Height, height)}
		}
	}

	plan.Resizable = p.resizable
	plan.Min = p.min
	plan.Max = p.max
	return plan, nil
}

// Clamp returns s limited to the active bounds, as the native window would
// after a user resize.
func (p *Policy) Clamp(s Size) Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clampLocked(s)
}

func (p *Policy) clampLocked(s Size) Size {
	if !p.min.IsZero() {
		s.Width = max(s.Width, p.min.Width)
		s.Height = max(s.Height, p.min.Height)
	}
	if !p.max.IsZero() {
		s.Width = min(s.Width, p.max.Width)
		s.Height = min(s.Height, p.max.Height)
	}
	return s
}

// Bounds returns the active MIN and MAX bounds.
func (p *Policy) Bounds() (minSize, maxSize Size) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.min, p.max
}

// Resizable reports whether the user may resize the window.
func (p *Policy) Resizable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resizable
}
