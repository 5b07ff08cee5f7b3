package client

// State tracks one generation action through its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

// Session owns the last generated clip for the lifetime of the program.
// A new submission supersedes whatever the session holds: last write
// wins, there is no concurrent in-flight tracking.
type Session struct {
	state    State
	artifact []byte
	lastErr  error
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

func (s *Session) State() State { return s.state }

// Begin moves the session into Submitting, dropping any prior outcome.
func (s *Session) Begin() {
	s.state = StateSubmitting
	s.artifact = nil
	s.lastErr = nil
}

// Complete stores a generated artifact and moves to Ready.
func (s *Session) Complete(artifact []byte) {
	s.state = StateReady
	s.artifact = artifact
	s.lastErr = nil
}

// Fail records the error and moves to Failed.
func (s *Session) Fail(err error) {
	s.state = StateFailed
	s.artifact = nil
	s.lastErr = err
}

// Reset returns to Idle, e.g. when the user edits the input.
func (s *Session) Reset() {
	*s = Session{state: StateIdle}
}

func (s *Session) Artifact() []byte { return s.artifact }
func (s *Session) Err() error       { return s.lastErr }
