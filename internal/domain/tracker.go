package domain

import "fmt"

// windPhase discriminates the four tracker states.
type windPhase uint8

const (
	phaseLow windPhase = iota
	phaseCandidate
	phaseHigh
	phaseCooldown
)

// WindState is the tracker's state: a phase plus, for the two transient
// phases, the number of consecutive steps spent in it so far. The count is
// only meaningful for Candidate and Cooldown and is always >= 1 there; the
// constructors below are the only way to build a valid state, which keeps
// the phase and its counter from drifting apart.
type WindState struct {
	phase windPhase
	count uint8
}

// Low is the quiescent state: wind below threshold or outside the sector.
func Low() WindState { return WindState{phase: phaseLow} }

// Candidate is the debounce state on the way up: i consecutive matching
// samples seen, not yet enough to confirm.
func Candidate(i uint8) WindState { return WindState{phase: phaseCandidate, count: i} }

// High is the confirmed sustained-wind state.
func High() WindState { return WindState{phase: phaseHigh} }

// Cooldown is the debounce state on the way down: i consecutive non-matching
// samples seen, not yet enough to clear.
func Cooldown(i uint8) WindState { return WindState{phase: phaseCooldown, count: i} }

// IsHigh reports whether sustained wind is currently confirmed. Cooldown
// still counts as high: the episode has not ended yet.
func (s WindState) IsHigh() bool { return s.phase == phaseHigh || s.phase == phaseCooldown }

func (s WindState) String() string {
	switch s.phase {
	case phaseLow:
		return "Low"
	case phaseCandidate:
		return fmt.Sprintf("Candidate(%d)", s.count)
	case phaseHigh:
		return "High"
	case phaseCooldown:
		return fmt.Sprintf("Cooldown(%d)", s.count)
	default:
		return fmt.Sprintf("WindState(%d,%d)", s.phase, s.count)
	}
}

// WindTracker is the hysteresis state machine. CandidateSteps consecutive
// matching observations are required to reach High from Low, and
// CooldownSteps consecutive non-matching observations to reset back to Low.
// Zero steps means no debounce in that direction: a single sample flips the
// state. The tracker holds no locks; drive it from one goroutine.
type WindTracker struct {
	state WindState

	Sector         Sector
	CandidateSteps uint8
	CooldownSteps  uint8
	SpeedThreshold float64
}

// NewWindTracker creates a tracker in the Low state.
func NewWindTracker(sector Sector, threshold float64, candidateSteps, cooldownSteps uint8) *WindTracker {
	return &WindTracker{
		state:          Low(),
		Sector:         sector,
		CandidateSteps: candidateSteps,
		CooldownSteps:  cooldownSteps,
		SpeedThreshold: threshold,
	}
}

// State returns the current state.
func (t *WindTracker) State() WindState { return t.state }

// Step advances the state machine by one observation and reports whether a
// rising edge fired. It returns true exactly on the Low→High and
// Candidate→High transitions; re-entering High from Cooldown is the same
// wind episode and does not fire.
func (t *WindTracker) Step(obs Observation) bool {
	before := t.state
	match := obs.AvgSpeed >= t.SpeedThreshold && t.Sector.Test(obs.Direction)

	if match {
		switch t.state.phase {
		case phaseHigh, phaseCooldown:
			t.state = High()
		case phaseLow:
			if t.CandidateSteps == 0 {
				t.state = High()
			} else {
				t.state = Candidate(1)
			}
		case phaseCandidate:
			if t.state.count >= t.CandidateSteps {
				t.state = High()
			} else {
				t.state = Candidate(t.state.count + 1)
			}
		}
	} else {
		switch t.state.phase {
		case phaseLow, phaseCandidate:
			t.state = Low()
		case phaseHigh:
			if t.CooldownSteps == 0 {
				t.state = Low()
			} else {
				t.state = Cooldown(1)
			}
		case phaseCooldown:
			if t.state.count >= t.CooldownSteps {
				t.state = Low()
			} else {
				t.state = Cooldown(t.state.count + 1)
			}
		}
	}

	return t.state.phase == phaseHigh &&
		(before.phase == phaseLow || before.phase == phaseCandidate)
}
