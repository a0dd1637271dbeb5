package slider

import "math"

// Handle identifies one of the two thumbs of a range slider.
type Handle int

const (
	// Low is the lower-bound handle.
	Low Handle = iota
	// High is the upper-bound handle.
	High
)

func (h Handle) String() string {
	if h == High {
		return "high"
	}
	return "low"
}

// Range tracks a (low, high) pair driven by drag gestures on either handle.
// Ordering is enforced when a value is committed; while dragging the handles
// may visually cross. It is not safe for concurrent use.
type Range struct {
	cfg      Config
	thumbs   [2]thumb
	active   Handle
	state    State
	onChange func(low, high float64)
}

// NewRange validates cfg and returns a range slider. Initial values are
// quantized and swapped if given out of order. onChange may be nil.
func NewRange(cfg Config, low, high float64, onChange func(low, high float64)) (*Range, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	low, high = cfg.Quantize(low), cfg.Quantize(high)
	if low > high {
		low, high = high, low
	}
	r := &Range{cfg: cfg, onChange: onChange}
	r.thumbs[Low].commit(cfg, low)
	r.thumbs[High].commit(cfg, high)
	return r, nil
}

// Config returns the current configuration.
func (r *Range) Config() Config {
	return r.cfg
}

// Values returns the committed pair.
func (r *Range) Values() (low, high float64) {
	return r.thumbs[Low].committed, r.thumbs[High].committed
}

// VisualPositions returns where both handles should be drawn.
func (r *Range) VisualPositions() (low, high float64) {
	return r.thumbs[Low].visual, r.thumbs[High].visual
}

// State returns the gesture state.
func (r *Range) State() State {
	return r.state
}

// Active returns the handle of the current or most recent gesture.
func (r *Range) Active() Handle {
	return r.active
}

// SetTrackLength applies a new layout width and cancels any gesture.
func (r *Range) SetTrackLength(length float64) {
	r.cfg = r.cfg.WithTrackLength(length)
	r.Cancel()
}

// Nearest picks the handle closest to a track position. When the handles
// overlap, positions past them select High and the rest select Low.
func (r *Range) Nearest(position float64) Handle {
	lowPos := r.cfg.ValueToPosition(r.thumbs[Low].committed)
	highPos := r.cfg.ValueToPosition(r.thumbs[High].committed)
	dLow := math.Abs(position - lowPos)
	dHigh := math.Abs(position - highPos)
	switch {
	case dLow < dHigh:
		return Low
	case dHigh < dLow:
		return High
	case position > highPos:
		return High
	default:
		return Low
	}
}

// Begin starts a gesture on handle h.
func (r *Range) Begin(h Handle) {
	if h != High {
		h = Low
	}
	r.thumbs[Low].reset(r.cfg)
	r.thumbs[High].reset(r.cfg)
	r.active = h
	r.thumbs[h].begin(r.cfg)
	r.state = Dragging
}

// Move updates the active handle's visual position.
func (r *Range) Move(dx float64) {
	if r.state != Dragging {
		return
	}
	r.thumbs[r.active].move(r.cfg, dx)
}

// End commits the active handle, clamped against the other handle's
// committed value, and notifies once.
func (r *Range) End(dx float64) (low, high float64) {
	if r.state != Dragging {
		return r.Values()
	}
	value := r.thumbs[r.active].release(r.cfg, dx)
	r.commit(r.active, value)
	r.state = Idle
	r.notify()
	return r.Values()
}

// Cancel abandons the gesture and restores both handles.
func (r *Range) Cancel() {
	r.thumbs[Low].reset(r.cfg)
	r.thumbs[High].reset(r.cfg)
	r.state = Idle
}

// SetValue commits v to handle h, as keyboard input does, clamped to keep the
// pair ordered. The listener fires only when the pair changes.
func (r *Range) SetValue(h Handle, v float64) (low, high float64) {
	if r.state == Dragging {
		r.Cancel()
	}
	if h != High {
		h = Low
	}
	prevLow, prevHigh := r.Values()
	r.commit(h, r.cfg.Quantize(v))
	low, high = r.Values()
	if low != prevLow || high != prevHigh {
		r.notify()
	}
	return low, high
}

// Nudge moves handle h by n steps.
func (r *Range) Nudge(h Handle, n int) (low, high float64) {
	if h != High {
		h = Low
	}
	return r.SetValue(h, r.thumbs[h].committed+float64(n)*r.cfg.Step)
}

func (r *Range) commit(h Handle, value float64) {
	if h == Low {
		value = math.Min(value, r.thumbs[High].committed)
	} else {
		value = math.Max(value, r.thumbs[Low].committed)
	}
	r.thumbs[h].commit(r.cfg, value)
}

func (r *Range) notify() {
	if r.onChange != nil {
		low, high := r.Values()
		r.onChange(low, high)
	}
}
