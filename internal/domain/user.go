package domain

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// Actor is the caller identity passed explicitly into every gated operation.
// The zero value is the anonymous (unauthenticated) actor.
type Actor struct {
	UserID        int64
	Username      string
	IsAdmin       bool
	Authenticated bool
}

// Session is the server-side session state kept in the session store while
// an actor is logged in.
type Session struct {
	Token    string
	UserID   int64
	Username string
	IsAdmin  bool
}

func (s Session) Actor() Actor {
	return Actor{UserID: s.UserID, Username: s.Username, IsAdmin: s.IsAdmin, Authenticated: true}
}
