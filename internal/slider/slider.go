package slider

// State is the gesture state of a slider.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Dragging means a gesture started and has not been released or cancelled.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// thumb keeps the committed value apart from the position drawn while dragging.
type thumb struct {
	committed float64
	visual    float64
	baseline  float64
}

func (t *thumb) begin(cfg Config) {
	t.baseline = cfg.ValueToPosition(t.committed)
	t.visual = t.baseline
}

func (t *thumb) move(cfg Config, dx float64) {
	t.visual = clamp(t.baseline+dx, 0, cfg.TrackLength)
}

func (t *thumb) release(cfg Config, dx float64) float64 {
	return cfg.PositionToValue(t.baseline + dx)
}

func (t *thumb) commit(cfg Config, value float64) {
	t.committed = value
	t.reset(cfg)
}

func (t *thumb) reset(cfg Config) {
	t.visual = cfg.ValueToPosition(t.committed)
	t.baseline = t.visual
}

// Slider tracks a single value driven by drag gestures. It is not safe for
// concurrent use.
type Slider struct {
	cfg      Config
	thumb    thumb
	state    State
	onChange func(float64)
}

// New validates cfg and returns a slider holding initial, quantized. onChange
// may be nil.
func New(cfg Config, initial float64, onChange func(float64)) (*Slider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Slider{cfg: cfg, onChange: onChange}
	s.thumb.commit(cfg, cfg.Quantize(initial))
	return s, nil
}

// Config returns the current configuration.
func (s *Slider) Config() Config {
	return s.cfg
}

// Value returns the committed value.
func (s *Slider) Value() float64 {
	return s.thumb.committed
}

// VisualPosition returns where the thumb should be drawn.
func (s *Slider) VisualPosition() float64 {
	return s.thumb.visual
}

// State returns the gesture state.
func (s *Slider) State() State {
	return s.state
}

// SetTrackLength applies a new layout width. An in-flight gesture is cancelled
// since its baseline no longer matches the track.
func (s *Slider) SetTrackLength(length float64) {
	s.cfg = s.cfg.WithTrackLength(length)
	s.state = Idle
	s.thumb.reset(s.cfg)
}

// Begin starts a gesture from the committed value.
func (s *Slider) Begin() {
	s.thumb.begin(s.cfg)
	s.state = Dragging
}

// Move updates the visual position for a cumulative delta since Begin.
func (s *Slider) Move(dx float64) {
	if s.state != Dragging {
		return
	}
	s.thumb.move(s.cfg, dx)
}

// End releases the gesture at cumulative delta dx, commits the quantized value
// and notifies the listener once. Outside a gesture it is a no-op.
func (s *Slider) End(dx float64) float64 {
	if s.state != Dragging {
		return s.thumb.committed
	}
	value := s.thumb.release(s.cfg, dx)
	s.thumb.commit(s.cfg, value)
	s.state = Idle
	s.notify()
	return value
}

// Cancel abandons the gesture and keeps the last committed value.
func (s *Slider) Cancel() {
	s.thumb.reset(s.cfg)
	s.state = Idle
}

// SetValue commits v directly, as keyboard input does. The listener fires
// only when the committed value changes.
func (s *Slider) SetValue(v float64) float64 {
	if s.state == Dragging {
		s.Cancel()
	}
	value := s.cfg.Quantize(v)
	changed := value != s.thumb.committed
	s.thumb.commit(s.cfg, value)
	if changed {
		s.notify()
	}
	return value
}

// Nudge moves the committed value by n steps.
func (s *Slider) Nudge(n int) float64 {
	return s.SetValue(s.thumb.committed + float64(n)*s.cfg.Step)
}

func (s *Slider) notify() {
	if s.onChange != nil {
		s.onChange(s.thumb.committed)
	}
}
