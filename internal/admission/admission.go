// Package admission decides whether a check-in request is recorded.
//
// Evaluate is pure: callers load the session, the records already stored for it
// and the active policy, then persist a new record only when the verdict is
// accepted.
package admission

import (
	"fmt"
	"math"
)

// Reason identifies why a check-in was rejected.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonSessionNotFound Reason = "session_not_found"
	ReasonSessionClosed   Reason = "session_closed"
	ReasonDuplicate       Reason = "duplicate"
	ReasonOutOfRange      Reason = "out_of_range"
)

// DuplicateMatch selects which identity fields collide with an existing record.
type DuplicateMatch string

const (
	// MatchIDOrName rejects when either the student id matches or the name
	// matches case-insensitively. Two different students sharing a name
	// collide under this mode.
	MatchIDOrName DuplicateMatch = "id_or_name"
	// MatchIDAndName requires both fields to match.
	MatchIDAndName DuplicateMatch = "id_and_name"
	// MatchIDOnly compares student ids only.
	MatchIDOnly DuplicateMatch = "id_only"
)

// Valid reports whether m is a known mode. The empty value is treated as MatchIDOrName.
func (m DuplicateMatch) Valid() bool {
	switch m {
	case "", MatchIDOrName, MatchIDAndName, MatchIDOnly:
		return true
	}
	return false
}

// Verdict is the outcome of Evaluate.
type Verdict struct {
	Accepted bool
	Reason   Reason
	// Distance is the computed distance in meters, set for ReasonOutOfRange.
	Distance float64
}

// Accept is the verdict for an admitted check-in.
func Accept() Verdict { return Verdict{Accepted: true} }

// Reject builds a rejection verdict.
func Reject(reason Reason) Verdict { return Verdict{Reason: reason} }

// RejectOutOfRange builds a geofence rejection carrying the measured distance.
func RejectOutOfRange(distance float64) Verdict {
	return Verdict{Reason: ReasonOutOfRange, Distance: distance}
}

// RoundedDistance is the distance rounded to whole meters for display.
func (v Verdict) RoundedDistance() int {
	return int(math.Round(v.Distance))
}

func (v Verdict) String() string {
	switch {
	case v.Accepted:
		return "accepted"
	case v.Reason == ReasonOutOfRange:
		return fmt.Sprintf("rejected(%s %dm)", v.Reason, v.RoundedDistance())
	default:
		return fmt.Sprintf("rejected(%s)", v.Reason)
	}
}

// Label is the short verdict name used for metrics and audit rows.
func (v Verdict) Label() string {
	if v.Accepted {
		return "accepted"
	}
	return string(v.Reason)
}
