// Package trace provides arrival-decision recording for charging station runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Outcome classifies what happened after an arrival trial succeeded.
type Outcome string

const (
	// OutcomeNoCharge is an arrival whose sampled demand was 0 km.
	OutcomeNoCharge Outcome = "no_charge"
	// OutcomeSession is an arrival that started a charging session.
	OutcomeSession Outcome = "session"
)

// ArrivalRecord captures a single successful arrival trial on an idle charger.
type ArrivalRecord struct {
	Tick       int
	Timestamp  string // "Day N, HH:MM"
	Hour       int
	ChargerID  int
	DistanceKm float64
	Outcome    Outcome
	SessionID  string // empty for OutcomeNoCharge
}
