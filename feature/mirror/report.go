package mirror

import "time"

// Mode distinguishes the two reconciliation entry points.
type Mode string

const (
	// ModeFull mirrors the current calendar month.
	ModeFull Mode = "full"
	// ModeRolling mirrors the current month plus the lookahead horizon.
	ModeRolling Mode = "rolling"
)

// OutcomeKind classifies what happened to one identity during a run.
type OutcomeKind string

const (
	OutcomeCreated  OutcomeKind = "created"
	OutcomeUpdated  OutcomeKind = "updated"
	OutcomeArchived OutcomeKind = "archived"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome records the reconciliation result for one identity. Failed
// outcomes keep the error text; the run itself continues past them.
type Outcome struct {
	Identity string      `json:"identity"`
	Kind     OutcomeKind `json:"kind"`
	Error    string      `json:"error,omitempty"`
}

// Report summarizes one reconciliation run.
type Report struct {
	RunID       string    `json:"run_id"`
	Mode        Mode      `json:"mode"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	// Events is the number of calendar events the run processed.
	Events   int       `json:"events"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Archived int       `json:"archived"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// record appends an outcome and bumps the matching counter.
func (r *Report) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Kind {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeArchived:
		r.Archived++
	case OutcomeFailed:
		r.Failed++
	}
}
