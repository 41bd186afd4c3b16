package transport

import "fmt"

// ReauthState is the re-authentication state of a session, derived from its retry count
type ReauthState int

const (
	// Fresh sessions have not needed to re-authenticate since their last success
	Fresh ReauthState = iota
	// Retrying sessions have made at least one login attempt with budget left
	Retrying
	// Exhausted sessions have used every attempt; the next 401 is terminal
	Exhausted
)

func stateOf(retryCount, maxRetries int) ReauthState {
	switch {
	case retryCount <= 0:
		return Fresh
	case retryCount < maxRetries:
		return Retrying
	default:
		return Exhausted
	}
}

func (s ReauthState) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Retrying:
		return "retrying"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("ReauthState(%d)", int(s))
	}
}

// State reports the re-authentication state of the current session
func (t *RESTTransport) State() ReauthState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return Fresh
	}
	return stateOf(t.session.RetryCount, t.maxRetries)
}
