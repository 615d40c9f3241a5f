// Package gesture interprets horizontal pointer drags on a list row as a
// swipe-to-reveal interaction with one or two actions behind the row.
package gesture

import (
	"math"
	"time"
)

// Offset arithmetic constants. The feel of the interaction depends on these.
const (
	closeDamping      = 0.5
	overscrollDamping = 0.2
	maxOverscroll     = 20
)

// Delays before an action callback fires, so the row animation is visible first.
const (
	PrimaryDelay   = 300 * time.Millisecond
	SecondaryDelay = 150 * time.Millisecond
)

// Action is what a swipe row committed to.
type Action int

const (
	ActionNone Action = iota
	ActionPrimary
	ActionSecondary
)

func (a Action) String() string {
	switch a {
	case ActionPrimary:
		return "primary"
	case ActionSecondary:
		return "secondary"
	}
	return "none"
}

// Config tunes one row. Positions are in arbitrary units; time is in milliseconds.
type Config struct {
	ActionZoneWidth    float64
	SwipeThreshold     float64
	VelocityThreshold  float64 // units per millisecond
	ViewportWidth      float64
	HasSecondaryAction bool
}

// DefaultConfig returns the standard thresholds; the action zone is wider with two actions.
func DefaultConfig(hasSecondary bool) Config {
	zone := 40.0
	if hasSecondary {
		zone = 80
	}
	return Config{
		ActionZoneWidth:    zone,
		SwipeThreshold:     50,
		VelocityThreshold:  0.3,
		ViewportWidth:      400,
		HasSecondaryAction: hasSecondary,
	}
}

// Sample is one pointer position.
type Sample struct {
	X    float64
	Time int64 // ms
}

// Release is where a released drag settled. Releasing never chooses an
// action: an open row waits for Primary or Secondary.
type Release struct {
	Open bool
}

// Outcome is the result of invoking an action on a row. Committed is false
// exactly when Action is ActionNone.
type Outcome struct {
	Committed bool
	Action    Action
}

// Commit asks the caller to run the action's callback after Delay.
type Commit struct {
	Action Action
	Delay  time.Duration
}

// RevealOffset maps the net travel in the reveal direction to the row's visual
// offset: damped from the previous offset when dragging back past closed, 1:1
// across the action zone, rubber-banded past it.
func RevealOffset(diff, prevOffset, zone float64) float64 {
	switch {
	case diff <= 0:
		return math.Max(0, prevOffset+diff*closeDamping)
	case diff <= zone:
		return diff
	default:
		return math.Min(zone+(diff-zone)*overscrollDamping, zone+maxOverscroll)
	}
}

// Velocity is the instantaneous speed between two samples in the reveal
// direction (leftwards is positive). Zero elapsed time yields zero.
func Velocity(prev, cur Sample) float64 {
	dt := cur.Time - prev.Time
	if dt <= 0 {
		return 0
	}
	return (prev.X - cur.X) / float64(dt)
}
