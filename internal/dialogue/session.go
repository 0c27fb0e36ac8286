package dialogue

import "newsvox/internal/nlu"

// Session is the conversational state of one listening session. Only the
// controller goroutine touches it.
type Session struct {
	Listening bool
	Paused    bool

	// AwaitingConfirmation and PendingConfirmation change together through
	// await and clearConfirmation.
	AwaitingConfirmation bool
	PendingConfirmation  string

	LanguageKey string
}

func (s *Session) await(payload string) {
	s.AwaitingConfirmation = true
	s.PendingConfirmation = payload
}

func (s *Session) clearConfirmation() {
	s.AwaitingConfirmation = false
	s.PendingConfirmation = ""
}

func (s *Session) classifierState() nlu.State {
	return nlu.State{
		Paused:               s.Paused,
		AwaitingConfirmation: s.AwaitingConfirmation,
		Language:             s.LanguageKey,
	}
}

// Mic mirrors the microphone badge of the UI.
func (s *Session) Mic() MicState {
	switch {
	case !s.Listening:
		return MicIdle
	case s.Paused:
		return MicPaused
	}
	return MicLive
}

type MicState string

const (
	MicIdle   MicState = "idle"
	MicLive   MicState = "live"
	MicPaused MicState = "paused"
)
