package model

// SessionStatus is the authentication state of the client.
type SessionStatus int

const (
	// StatusInitializing means the persisted session has not been read yet.
	StatusInitializing SessionStatus = iota
	// StatusAuthenticated means a token and identity are present.
	StatusAuthenticated
	// StatusAnonymous means no token is present.
	StatusAnonymous
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Identity is the signed-in user.
type Identity struct {
	Email    string
	Username string
}

// SessionState is a consistent copy of the session.
type SessionState struct {
	Status   SessionStatus
	Token    string
	Identity *Identity
}

// GuardDecision tells a protected view what to do.
type GuardDecision int

const (
	// GuardBlock means the session is still initializing: show a loading
	// indicator and do not redirect.
	GuardBlock GuardDecision = iota
	// GuardRender means the view may render.
	GuardRender
	// GuardRedirect means the caller must send the user to the login entry point.
	GuardRedirect
)

// String returns a human-readable guard decision.
func (g GuardDecision) String() string {
	switch g {
	case GuardBlock:
		return "block"
	case GuardRender:
		return "render"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// AuthResult is the remote answer to a successful login or signup.
type AuthResult struct {
	Token    string
	Username string
}
