package session

// State is the single authoritative snapshot of the authentication
// lifecycle. It is a value; only Reduce produces new ones.
type State struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	User            *User  `json:"user,omitempty"`
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
	Initialized     bool   `json:"initialized"`
}

// NewState returns the empty, unauthenticated snapshot every
// application load starts from.
func NewState() State {
	return State{}
}

// Action is a request to transition the session state. The set is
// sealed: every mutation of State corresponds to exactly one of the
// types below.
type Action interface {
	isAction()
}

// SignInStarted marks a sign-in operation entering flight.
type SignInStarted struct{}

// SignInSucceeded installs the authenticated user.
type SignInSucceeded struct{ User *User }

// SignInFailed records the user-facing failure message.
type SignInFailed struct{ Message string }

// RegisterStarted marks a registration operation entering flight.
type RegisterStarted struct{}

// RegisterSucceeded installs the freshly registered user.
type RegisterSucceeded struct{ User *User }

// RegisterFailed records the user-facing failure message.
type RegisterFailed struct{ Message string }

// SignOutStarted marks a sign-out entering flight.
type SignOutStarted struct{}

// SignOutSucceeded clears the session wholesale.
type SignOutSucceeded struct{}

// CheckStarted marks the automatic session check entering flight.
type CheckStarted struct{}

// CheckSucceeded repopulates the session from the server profile.
type CheckSucceeded struct{ User *User }

// CheckFailed settles the session check without a visible error; a
// failed check just means there is no session to restore.
type CheckFailed struct{}

// ClearError drops the current error message, if any.
type ClearError struct{}

// SetCurrentUser synchronizes the session user from outside the auth
// operations (e.g. after a profile edit). A nil user de-authenticates.
type SetCurrentUser struct{ User *User }

func (SignInStarted) isAction()     {}
func (SignInSucceeded) isAction()   {}
func (SignInFailed) isAction()      {}
func (RegisterStarted) isAction()   {}
func (RegisterSucceeded) isAction() {}
func (RegisterFailed) isAction()    {}
func (SignOutStarted) isAction()    {}
func (SignOutSucceeded) isAction()  {}
func (CheckStarted) isAction()      {}
func (CheckSucceeded) isAction()    {}
func (CheckFailed) isAction()       {}
func (ClearError) isAction()        {}
func (SetCurrentUser) isAction()    {}

// Reduce is the pure transition function from (state, action) to the
// next state. It never mutates its input and has no side effects.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SignInStarted:
		s.Loading = true
		s.Error = ""
	case SignInSucceeded:
		s.Loading = false
		s.IsAuthenticated = true
		s.User = a.User
		s.Error = ""
	case SignInFailed:
		s.Loading = false
		s.IsAuthenticated = false
		s.User = nil
		s.Error = a.Message
	case RegisterStarted:
		s.Loading = true
		s.Error = ""
	case RegisterSucceeded:
		s.Loading = false
		s.IsAuthenticated = true
		s.User = a.User
		s.Error = ""
	case RegisterFailed:
		s.Loading = false
		s.IsAuthenticated = false
		s.User = nil
		s.Error = a.Message
	case SignOutStarted:
		s.Loading = true
	case SignOutSucceeded:
		s.Loading = false
		s.IsAuthenticated = false
		s.User = nil
		s.Error = ""
	case CheckStarted:
		s.Loading = true
	case CheckSucceeded:
		s.Loading = false
		s.IsAuthenticated = true
		s.User = a.User
		s.Error = ""
		s.Initialized = true
	case CheckFailed:
		// An anonymous first visit lands here; surfacing it as an
		// error would alarm users who simply are not signed in.
		s.Loading = false
		s.IsAuthenticated = false
		s.User = nil
		s.Error = ""
		s.Initialized = true
	case ClearError:
		s.Error = ""
	case SetCurrentUser:
		s.User = a.User
		s.IsAuthenticated = a.User != nil
	}
	return s
}
