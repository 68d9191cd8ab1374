package admission

import (
	"strings"

	"github.com/zaqqye/attendance_backend/internal/geo"
)

// Request is a student's check-in submission.
type Request struct {
	SessionPin  string
	StudentName string
	StudentID   string
	Location    *geo.Coordinate
}

// Session is the part of a stored session the engine needs.
type Session struct {
	ID     uint
	IsOpen bool
	Anchor *geo.Coordinate
}

// Record is an attendance entry already stored for the session.
type Record struct {
	StudentID   string
	StudentName string
}

// Policy is the active admission settings, passed on every call.
type Policy struct {
	LocationRadius   float64
	RequireLocation  bool
	PreventDuplicate bool
	DuplicateMatch   DuplicateMatch
}

// Input bundles everything a rule may inspect. Session is nil when no session
// matched the PIN.
type Input struct {
	Request  Request
	Session  *Session
	Existing []Record
	Policy   Policy
}

// Rule is one step of the admission order. Check returns a rejection and true
// when the step decides the outcome.
type Rule struct {
	Name  string
	Check func(in Input) (Verdict, bool)
}

var rules = []Rule{
	{Name: "lookup", Check: checkLookup},
	{Name: "open", Check: checkOpen},
	{Name: "duplicate", Check: checkDuplicate},
	{Name: "geofence", Check: checkGeofence},
}

// Rules returns the ordered admission rules. The first rule that matches wins.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Evaluate runs the rules in order and returns the first rejection, or Accept.
func Evaluate(req Request, session *Session, existing []Record, policy Policy) Verdict {
	in := Input{Request: req, Session: session, Existing: existing, Policy: policy}
	for _, r := range rules {
		if v, done := r.Check(in); done {
			return v
		}
	}
	return Accept()
}

func checkLookup(in Input) (Verdict, bool) {
	if in.Session == nil {
		return Reject(ReasonSessionNotFound), true
	}
	return Verdict{}, false
}

func checkOpen(in Input) (Verdict, bool) {
	if !in.Session.IsOpen {
		return Reject(ReasonSessionClosed), true
	}
	return Verdict{}, false
}

func checkDuplicate(in Input) (Verdict, bool) {
	if !in.Policy.PreventDuplicate {
		return Verdict{}, false
	}
	for _, rec := range in.Existing {
		if isDuplicate(in.Policy.DuplicateMatch, rec, in.Request) {
			return Reject(ReasonDuplicate), true
		}
	}
	return Verdict{}, false
}

func isDuplicate(mode DuplicateMatch, rec Record, req Request) bool {
	sameID := rec.StudentID == req.StudentID
	sameName := strings.EqualFold(rec.StudentName, req.StudentName)
	switch mode {
	case MatchIDAndName:
		return sameID && sameName
	case MatchIDOnly:
		return sameID
	default:
		return sameID || sameName
	}
}

// geofenceApplies holds when location is required, the session has an anchor
// and the request carries a location. Any missing piece skips the geofence.
func geofenceApplies(in Input) bool {
	return in.Policy.RequireLocation && in.Session.Anchor != nil && in.Request.Location != nil
}

func checkGeofence(in Input) (Verdict, bool) {
	if !geofenceApplies(in) {
		return Verdict{}, false
	}
	d := geo.Distance(*in.Session.Anchor, *in.Request.Location)
	if d > in.Policy.LocationRadius {
		return RejectOutOfRange(d), true
	}
	return Verdict{}, false
}
