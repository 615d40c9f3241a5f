package gesture

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit; kept untyped for statekit.StateID compatibility.
const (
	StateIdle     = "idle"
	StateDragging = "dragging"
	StateSettling = "settling"
)

const (
	eventStart   = "start"
	eventCancel  = "cancel"
	eventRelease = "release"
	eventSettled = "settled"
)

type rowContext struct {
	Name string
}

// session lives for one continuous pointer interaction.
type session struct {
	originX     float64
	last        Sample
	startOffset float64
	diff        float64
	velocity    float64
}

// Row is one swipeable list row. It must only be driven by one pointer at a time.
type Row struct {
	cfg         Config
	interpreter *statekit.Interpreter[rowContext]
	session     *session
	offset      float64
}

func NewRow(name string, cfg Config) (*Row, error) {
	builder := statekit.NewMachine[rowContext]("swipe-row").
		WithInitial(StateIdle).
		WithContext(rowContext{Name: name})

	builder.State(StateIdle).
		On(eventStart).Target(StateDragging).
		Done()

	builder.State(StateDragging).
		On(eventRelease).Target(StateSettling).
		On(eventCancel).Target(StateIdle).
		Done()

	builder.State(StateSettling).
		On(eventSettled).Target(StateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build swipe machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Row{cfg: cfg, interpreter: interpreter}, nil
}

func (r *Row) send(event string) {
	r.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
}

// State returns the machine's current state.
func (r *Row) State() string {
	return string(r.interpreter.State().Value)
}

func (r *Row) Config() Config {
	return r.cfg
}

// Offset is the live reveal offset; 0 is fully closed.
func (r *Row) Offset() float64 {
	return r.offset
}

func (r *Row) IsOpen() bool {
	return r.offset > 0
}

func (r *Row) Dragging() bool {
	return r.State() == StateDragging
}

// SetConfig replaces the row's thresholds and widths. The live offset and any
// drag in progress are kept; the new values apply from the next sample.
func (r *Row) SetConfig(cfg Config) {
	r.cfg = cfg
}

// SetViewport updates the off-screen offset used by Primary.
func (r *Row) SetViewport(w float64) {
	r.cfg.ViewportWidth = w
}

// Velocity returns the instantaneous velocity of the live drag, or 0.
func (r *Row) Velocity() float64 {
	if r.session == nil {
		return 0
	}
	return r.session.velocity
}

// Start begins a drag at s. Any uncommitted drag is discarded first.
func (r *Row) Start(s Sample) {
	if r.Dragging() {
		r.send(eventCancel)
	}
	r.session = &session{
		originX:     s.X,
		last:        s,
		startOffset: r.offset,
	}
	r.send(eventStart)
}

// Move feeds the next sample and returns the live offset.
func (r *Row) Move(s Sample) float64 {
	if !r.Dragging() || r.session == nil {
		return r.offset
	}
	sess := r.session
	sess.velocity = Velocity(sess.last, s)
	sess.last = s
	sess.diff = sess.originX - s.X
	r.offset = RevealOffset(sess.diff, r.offset, r.cfg.ActionZoneWidth)
	return r.offset
}

// End releases the pointer. The row snaps open when the drag travelled far
// enough or was moving fast enough, and closed otherwise.
func (r *Row) End() Release {
	if !r.Dragging() || r.session == nil {
		return Release{}
	}
	sess := r.session
	r.send(eventRelease)

	open := sess.diff >= r.cfg.SwipeThreshold || sess.velocity >= r.cfg.VelocityThreshold
	if open {
		r.offset = r.cfg.ActionZoneWidth
	} else {
		r.offset = 0
	}

	r.session = nil
	r.send(eventSettled)
	return Release{Open: open}
}

// Cancel abandons a drag without release and restores the offset it started from.
func (r *Row) Cancel() {
	if !r.Dragging() {
		return
	}
	if r.session != nil {
		r.offset = r.session.startOffset
	}
	r.session = nil
	r.send(eventCancel)
}

// Tap closes an open row and reports that the tap was consumed. A closed row
// leaves the tap to the caller.
func (r *Row) Tap() (swallowed bool) {
	r.Cancel()
	if r.IsOpen() {
		r.offset = 0
		return true
	}
	return false
}

// Reveal opens the row fully without a drag.
func (r *Row) Reveal() {
	r.Cancel()
	r.offset = r.cfg.ActionZoneWidth
}

// Close snaps the row shut.
func (r *Row) Close() {
	r.Cancel()
	r.offset = 0
}

// Primary slides the row off-screen; the destructive callback should run after the delay.
func (r *Row) Primary() Commit {
	r.Cancel()
	r.offset = r.cfg.ViewportWidth
	return Commit{Action: ActionPrimary, Delay: PrimaryDelay}
}

// Secondary closes the row; the edit callback should run after the delay.
// It is a no-op for rows configured without a secondary action.
func (r *Row) Secondary() Commit {
	if !r.cfg.HasSecondaryAction {
		return Commit{Action: ActionNone}
	}
	r.Cancel()
	r.offset = 0
	return Commit{Action: ActionSecondary, Delay: SecondaryDelay}
}

// Outcome converts a commit into the outcome reported to the rendering layer.
func (c Commit) Outcome() Outcome {
	return Outcome{Committed: c.Action != ActionNone, Action: c.Action}
}
