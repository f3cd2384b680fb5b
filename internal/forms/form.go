// Package forms carries the generic form state shared by the login,
// registration, review and order dialogs.
package forms

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// State tracks field values, current violations and the submission
// lifecycle of one form. Violations are always replaced wholesale, never
// appended, so re-validation cannot accumulate stale messages.
type State struct {
	fields     map[string]string
	violations []string
	submitting bool
	outcome    Outcome
	message    string
}

func New() *State {
	return &State{fields: make(map[string]string)}
}

func (s *State) Set(name, value string) {
	s.fields[name] = value
}

func (s *State) Get(name string) string {
	return s.fields[name]
}

func (s *State) SetViolations(violations []string) {
	s.violations = violations
}

func (s *State) Violations() []string {
	return s.violations
}

// BeginSubmit refuses to start while a submission is in flight or local
// violations are outstanding.
func (s *State) BeginSubmit() bool {
	if s.submitting || len(s.violations) > 0 {
		return false
	}
	s.submitting = true
	s.outcome = OutcomeNone
	s.message = ""
	return true
}

func (s *State) Submitting() bool {
	return s.submitting
}

func (s *State) Succeed(message string) {
	s.submitting = false
	s.outcome = OutcomeSuccess
	s.message = message
}

func (s *State) Fail(message string) {
	s.submitting = false
	s.outcome = OutcomeFailure
	s.message = message
}

func (s *State) Outcome() (Outcome, string) {
	return s.outcome, s.message
}

// ClearOutcome drops the outcome banner without touching field values.
func (s *State) ClearOutcome() {
	s.outcome = OutcomeNone
	s.message = ""
}

// Reset returns the form to its pristine state; dialogs call it every time
// they are opened.
func (s *State) Reset() {
	s.fields = make(map[string]string)
	s.violations = nil
	s.submitting = false
	s.outcome = OutcomeNone
	s.message = ""
}
