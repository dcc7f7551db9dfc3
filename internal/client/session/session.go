// Package session owns the answer to "who is logged in".
//
// A single Manager is constructed at startup and injected into every consumer;
// there is no ambient global. The manager holds the in-memory session state,
// keeps it consistent with the persisted token, and mediates all state
// transitions through a pure reducer.
package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsmirnova/taskcrew/internal/client/api"
	"github.com/dsmirnova/taskcrew/internal/client/models"
	"github.com/dsmirnova/taskcrew/internal/client/repositories/tokens"
	"github.com/dsmirnova/taskcrew/internal/common"
	"github.com/dsmirnova/taskcrew/internal/logging"
)

// Manager is the single source of truth for session state.
//
// Locking rule: mu guards state and logoutOnce only and is never held across
// network or storage calls. All remote fetches happen first; the result is
// then folded in via dispatch.
type Manager struct {
	client api.Client
	tokens tokens.Repository
	log    logging.Logger

	mu           sync.Mutex
	state        State
	bootstrapped bool

	// logoutOnce collapses concurrent 401-triggered logouts into one
	// transition. It is replaced on every successful authentication, so each
	// session generation gets its own guard.
	logoutOnce *sync.Once
}

func NewManager(client api.Client, tokenRepo tokens.Repository, log logging.Logger) *Manager {
	return &Manager{
		client:     client,
		tokens:     tokenRepo,
		log:        log.With("component", "session"),
		state:      initialState(),
		logoutOnce: new(sync.Once),
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) dispatch(a Action) {
	m.mu.Lock()
	m.state = reduce(m.state, a)
	m.mu.Unlock()
}

func (m *Manager) resetLogoutGeneration() {
	m.mu.Lock()
	m.logoutOnce = new(sync.Once)
	m.mu.Unlock()
}

// HandleUnauthorized is wired into the HTTP transport's 401 callback. It
// forces a logout at most once per session generation, so several in-flight
// requests all hitting 401 produce a single transition.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	once := m.logoutOnce
	m.mu.Unlock()

	once.Do(func() {
		ctx := context.Background()
		m.log.Warn(ctx, "server rejected session, logging out")
		if err := m.Logout(ctx); err != nil {
			m.log.Error(ctx, "auto-logout failed", "error", err)
		}
	})
}

// Bootstrap restores a session from the persisted token. It runs once per
// process lifetime; repeat calls are no-ops.
//
// With a valid token present, the profile, notification and project fetches
// run concurrently. Notification and project failures are absorbed (their
// state slices keep the bootstrap default); a profile failure means the
// session cannot be trusted and ends in logout.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.bootstrapped {
		m.mu.Unlock()
		return nil
	}
	m.bootstrapped = true
	m.mu.Unlock()

	m.dispatch(bootstrapStarted{})
	defer m.dispatch(bootstrapFinished{})

	token, err := m.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read persisted token: %w", err)
	}
	if token == "" {
		return nil
	}
	if !ValidateToken(token) {
		m.log.Info(ctx, "persisted token is stale, clearing")
		if err := m.tokens.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear stale token", "error", err)
		}
		return nil
	}

	m.dispatch(authStarted{})

	var (
		g          errgroup.Group
		user       *models.User
		profileErr error
	)
	g.Go(func() error {
		user, profileErr = m.client.GetProfile(ctx)
		return nil
	})
	g.Go(func() error {
		m.RefreshNotifications(ctx)
		return nil
	})
	g.Go(func() error {
		m.RefreshProjects(ctx)
		return nil
	})
	_ = g.Wait()

	if profileErr != nil {
		m.log.Error(ctx, "bootstrap profile fetch failed", "error", profileErr)
		return m.Logout(ctx)
	}

	m.dispatch(profileLoaded{user: *user})
	m.resetLogoutGeneration()
	return nil
}

// SignIn exchanges credentials for a token and establishes the session.
// Credential errors are returned for inline display at the login screen.
func (m *Manager) SignIn(ctx context.Context, email string, password []byte) error {
	token, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return m.Login(ctx, token)
}

// Login persists the token and then fetches profile, notifications and
// projects in that order. The order matters only for short-circuiting: a
// persist or profile failure aborts the whole operation via logout. Later
// fetch failures are absorbed like any background refresh.
func (m *Manager) Login(ctx context.Context, token string) error {
	m.dispatch(authStarted{})

	if err := m.tokens.Save(ctx, token); err != nil {
		logoutErr := m.Logout(ctx)
		if logoutErr != nil {
			m.log.Error(ctx, "logout after failed login", "error", logoutErr)
		}
		return fmt.Errorf("failed to persist token: %w", err)
	}

	user, err := m.client.GetProfile(ctx)
	if err != nil {
		logoutErr := m.Logout(ctx)
		if logoutErr != nil {
			m.log.Error(ctx, "logout after failed login", "error", logoutErr)
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	m.dispatch(profileLoaded{user: *user})
	m.resetLogoutGeneration()

	m.RefreshNotifications(ctx)
	m.RefreshProjects(ctx)
	return nil
}

// Logout removes the persisted token and resets session state. Storage is
// cleared before the in-memory reset so a crash in between leaves the app
// logged out, never half-in.
func (m *Manager) Logout(ctx context.Context) error {
	clearErr := m.tokens.Clear(ctx)
	m.dispatch(loggedOut{})
	if clearErr != nil {
		return fmt.Errorf("failed to clear persisted token: %w", clearErr)
	}
	return nil
}

// RefetchProfile re-validates the persisted token and refreshes the profile.
// Any failure along the way ends the session: an unreadable profile means it
// cannot be trusted.
func (m *Manager) RefetchProfile(ctx context.Context) error {
	token, err := m.tokens.Get(ctx)
	if err != nil || token == "" || !ValidateToken(token) {
		return m.Logout(ctx)
	}

	user, err := m.client.GetProfile(ctx)
	if err != nil {
		m.log.Error(ctx, "profile refetch failed", "error", err)
		return m.Logout(ctx)
	}

	m.dispatch(profileLoaded{user: *user})
	return nil
}

// UpdateAvatar changes the avatar in local state only. Nothing is sent to the
// server; callers that want persistence follow up with SaveProfile.
func (m *Manager) UpdateAvatar(value string) {
	m.dispatch(avatarUpdated{value: value})
}

// SaveProfile pushes the current profile (including any locally updated
// avatar) to the server and folds the server's copy back into state.
func (m *Manager) SaveProfile(ctx context.Context) error {
	st := m.Snapshot()
	if !st.IsLoggedIn() {
		return common.ErrNotLoggedIn
	}

	updated, err := m.client.UpdateProfile(ctx, &st.User)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	m.dispatch(profileLoaded{user: *updated})
	return nil
}

// RefreshProjects re-fetches the joined project list. Failures are absorbed:
// the previous list stays visible and the error is only logged. Each project
// gets a fresh display color.
func (m *Manager) RefreshProjects(ctx context.Context) {
	projects, err := m.client.GetJoinedProjects(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to refresh projects", "error", err)
		return
	}
	for i := range projects {
		projects[i].Color = common.RandomProjectColor()
	}
	m.dispatch(projectsLoaded{projects: projects})
}

// RefreshNotifications re-fetches the notification list; failures are
// absorbed the same way as RefreshProjects.
func (m *Manager) RefreshNotifications(ctx context.Context) {
	notifications, err := m.client.GetNotifications(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to refresh notifications", "error", err)
		return
	}
	m.dispatch(notificationsLoaded{notifications: notifications})
}
