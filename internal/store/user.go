package store

import "time"

type Preferences struct {
	WorkDuration time.Duration
	TickInterval time.Duration
	AutoComplete bool
	Notify       bool
}

// UserState holds who is signed in and their session preferences.
type UserState struct {
	Name        string
	Email       string
	SignedIn    bool
	Preferences Preferences
}

type UserAction interface {
	userAction()
}

type SignIn struct {
	Name  string
	Email string
}

// SignOut clears the identity but keeps preferences.
type SignOut struct{}

type SetPreferences struct{ Preferences Preferences }

func (SignIn) userAction()         {}
func (SignOut) userAction()        {}
func (SetPreferences) userAction() {}

func ReduceUser(s UserState, a UserAction) (UserState, error) {
	switch a := a.(type) {
	case SignIn:
		s.Name = a.Name
		s.Email = a.Email
		s.SignedIn = true
	case SignOut:
		s.Name = ""
		s.Email = ""
		s.SignedIn = false
	case SetPreferences:
		s.Preferences = a.Preferences
	}
	return s, nil
}

type UserStore = Store[UserState, UserAction]

func NewUserStore(initial UserState) *UserStore {
	return New(initial, ReduceUser)
}
