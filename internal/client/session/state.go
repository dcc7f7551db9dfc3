package session

import "github.com/dsmirnova/taskcrew/internal/client/models"

// Status is the authentication phase of the session.
type Status string

const (
	StatusLoggedOut      Status = "logged_out"
	StatusAuthenticating Status = "authenticating"
	StatusLoggedIn       Status = "logged_in"
)

// State is the full session snapshot consumers read.
//
// LoginStatus is derived: the session is logged in iff a profile has been
// fetched successfully since the last logout.
type State struct {
	Status            Status
	User              models.User
	Projects          []models.Project
	Notifications     []models.Notification
	NotificationCount int
	Loading           bool
}

func (s State) IsLoggedIn() bool {
	return s.Status == StatusLoggedIn
}

func initialState() State {
	return State{Status: StatusLoggedOut, User: models.EmptyUser()}
}

// Action is a tagged union of session state transitions. Every mutation of
// session state flows through reduce, so the transition rules live in one
// place and stay pure.
type Action interface{ isAction() }

type bootstrapStarted struct{}
type bootstrapFinished struct{}
type authStarted struct{}
type profileLoaded struct{ user models.User }
type avatarUpdated struct{ value string }
type projectsLoaded struct{ projects []models.Project }
type notificationsLoaded struct{ notifications []models.Notification }
type loggedOut struct{}

func (bootstrapStarted) isAction()    {}
func (bootstrapFinished) isAction()   {}
func (authStarted) isAction()         {}
func (profileLoaded) isAction()       {}
func (avatarUpdated) isAction()       {}
func (projectsLoaded) isAction()      {}
func (notificationsLoaded) isAction() {}
func (loggedOut) isAction()           {}

// reduce applies one action to a state copy and returns the next state.
func reduce(s State, a Action) State {
	switch act := a.(type) {
	case bootstrapStarted:
		s.Loading = true

	case bootstrapFinished:
		s.Loading = false

	case authStarted:
		s.Status = StatusAuthenticating

	case profileLoaded:
		s.User = act.user
		s.Status = StatusLoggedIn

	case avatarUpdated:
		s.User.Avatar = act.value

	case projectsLoaded:
		s.Projects = act.projects

	case notificationsLoaded:
		s.Notifications = act.notifications
		s.NotificationCount = len(act.notifications)

	case loggedOut:
		// Projects survive logout on purpose: the stale list is harmless,
		// and the next login replaces it. Notifications and the badge
		// count reset immediately.
		s.Status = StatusLoggedOut
		s.User = models.EmptyUser()
		s.Notifications = nil
		s.NotificationCount = 0
	}
	return s
}
