package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsmirnova/taskcrew/internal/client/models"
	"github.com/dsmirnova/taskcrew/internal/logging"
)

// ---- fakes ----

// fakeClient implements api.Client for Manager unit tests.
type fakeClient struct {
	mu sync.Mutex

	SignInToken string
	SignInErr   error

	ProfileRet   *models.User
	ProfileErr   error
	ProfileCalls int

	UpdateProfileRet  *models.User
	UpdateProfileErr  error
	LastUpdateProfile *models.User

	ProjectsRet []models.Project
	ProjectsErr error

	NotificationsRet []models.Notification
	NotificationsErr error

	UpdatesErr  error
	LastUpdates []models.TaskStatusUpdate

	TasksRet []models.Task
	TasksErr error
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SignIn(ctx context.Context, email string, password []byte) (string, error) {
	return f.SignInToken, f.SignInErr
}

func (f *fakeClient) GetProfile(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProfileCalls++
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	u := *f.ProfileRet
	return &u, nil
}

func (f *fakeClient) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.LastUpdateProfile = &u
	if f.UpdateProfileErr != nil {
		return nil, f.UpdateProfileErr
	}
	if f.UpdateProfileRet != nil {
		ret := *f.UpdateProfileRet
		return &ret, nil
	}
	return &u, nil
}

func (f *fakeClient) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	return f.NotificationsRet, f.NotificationsErr
}

func (f *fakeClient) GetJoinedProjects(ctx context.Context) ([]models.Project, error) {
	return f.ProjectsRet, f.ProjectsErr
}

func (f *fakeClient) GetProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	return f.TasksRet, f.TasksErr
}

func (f *fakeClient) UpdateTaskStatuses(ctx context.Context, updates []models.TaskStatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdates = updates
	return f.UpdatesErr
}

func (f *fakeClient) GetComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	return nil, nil
}

func (f *fakeClient) AddComment(ctx context.Context, taskID string, body string) (*models.Comment, error) {
	return nil, nil
}

// fakeTokenRepo is an in-memory tokens.Repository.
type fakeTokenRepo struct {
	mu sync.Mutex

	Token string

	GetErr   error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func (f *fakeTokenRepo) Get(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token, f.GetErr
}

func (f *fakeTokenRepo) Save(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SaveCalls++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Token = token
	return nil
}

func (f *fakeTokenRepo) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.Token = ""
	return nil
}

func (f *fakeTokenRepo) clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ClearCalls
}

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validTestToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func expiredTestToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestManager(client *fakeClient, repo *fakeTokenRepo) *Manager {
	return NewManager(client, repo, testLogger())
}

// ---- TESTS ----

func TestBootstrap_NoToken(t *testing.T) {
	client := &fakeClient{}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))

	st := m.Snapshot()
	assert.Equal(t, StatusLoggedOut, st.Status)
	assert.False(t, st.Loading)
	assert.Equal(t, 0, client.ProfileCalls)
}

func TestBootstrap_StaleTokenCleared(t *testing.T) {
	client := &fakeClient{}
	repo := &fakeTokenRepo{Token: expiredTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))

	st := m.Snapshot()
	assert.Equal(t, StatusLoggedOut, st.Status)
	assert.Equal(t, 1, repo.clears())
	assert.Equal(t, "", repo.Token)
	assert.Equal(t, 0, client.ProfileCalls)
}

func TestBootstrap_ValidToken(t *testing.T) {
	client := &fakeClient{
		ProfileRet:       &models.User{ID: "u1", Name: "Dina", Email: "d@x.io"},
		ProjectsRet:      []models.Project{{ID: "p1", Title: "Alpha"}, {ID: "p2", Title: "Beta"}},
		NotificationsRet: []models.Notification{{ID: "n1", Message: "hi"}},
	}
	repo := &fakeTokenRepo{Token: validTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))

	st := m.Snapshot()
	assert.True(t, st.IsLoggedIn())
	assert.Equal(t, "Dina", st.User.Name)
	assert.False(t, st.Loading)
	assert.Equal(t, 1, st.NotificationCount)
	require.Len(t, st.Projects, 2)
	for _, p := range st.Projects {
		assert.NotEmpty(t, p.Color, "projects get a display color on fetch")
	}
}

func TestBootstrap_ProjectFailureIsIsolated(t *testing.T) {
	client := &fakeClient{
		ProfileRet:       &models.User{ID: "u1", Name: "Dina"},
		ProjectsErr:      errors.New("boom"),
		NotificationsRet: []models.Notification{{ID: "n1"}},
	}
	repo := &fakeTokenRepo{Token: validTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))

	st := m.Snapshot()
	assert.True(t, st.IsLoggedIn())
	assert.Empty(t, st.Projects, "failed fetch leaves bootstrap default")
	assert.Equal(t, 1, st.NotificationCount)
}

func TestBootstrap_ProfileFailureLogsOut(t *testing.T) {
	client := &fakeClient{
		ProfileErr:       errors.New("boom"),
		ProjectsRet:      []models.Project{{ID: "p1"}},
		NotificationsRet: []models.Notification{{ID: "n1"}},
	}
	repo := &fakeTokenRepo{Token: validTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))

	st := m.Snapshot()
	assert.Equal(t, StatusLoggedOut, st.Status)
	assert.False(t, st.Loading)
	assert.Equal(t, "", repo.Token)
}

func TestBootstrap_RunsOnce(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{Token: validTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.Bootstrap(context.Background()))
	require.NoError(t, m.Bootstrap(context.Background()))

	assert.Equal(t, 1, client.ProfileCalls)
}

func TestLogin_Success(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1", Name: "Dina"}}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	tok := validTestToken(t)
	require.NoError(t, m.Login(context.Background(), tok))

	st := m.Snapshot()
	assert.True(t, st.IsLoggedIn())
	assert.False(t, st.User.IsEmpty())
	assert.Equal(t, tok, repo.Token, "token persisted before fetches")
}

func TestLogin_ProfileFailureAbortsViaLogout(t *testing.T) {
	client := &fakeClient{ProfileErr: errors.New("boom")}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	err := m.Login(context.Background(), validTestToken(t))
	require.Error(t, err)

	st := m.Snapshot()
	assert.Equal(t, StatusLoggedOut, st.Status)
	assert.Equal(t, "", repo.Token, "storage key removed")
}

func TestLogin_PersistFailureAborts(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{SaveErr: errors.New("disk full")}
	m := newTestManager(client, repo)

	err := m.Login(context.Background(), validTestToken(t))
	require.Error(t, err)

	assert.Equal(t, StatusLoggedOut, m.Snapshot().Status)
	assert.Equal(t, 0, client.ProfileCalls, "profile fetch short-circuited")
}

func TestLogout_ResetsStateButKeepsProjects(t *testing.T) {
	client := &fakeClient{
		ProfileRet:       &models.User{ID: "u1", Name: "Dina"},
		ProjectsRet:      []models.Project{{ID: "p1"}},
		NotificationsRet: []models.Notification{{ID: "n1"}},
	}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	require.NoError(t, m.Logout(context.Background()))

	st := m.Snapshot()
	assert.False(t, st.IsLoggedIn())
	assert.Equal(t, models.EmptyUser(), st.User)
	assert.Equal(t, "", repo.Token)
	assert.Nil(t, st.Notifications)
	assert.Equal(t, 0, st.NotificationCount)
	assert.Len(t, st.Projects, 1, "stale project list survives logout")
}

func TestRefetchProfile_ExpiredTokenLogsOut(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{Token: expiredTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.RefetchProfile(context.Background()))

	assert.Equal(t, StatusLoggedOut, m.Snapshot().Status)
	assert.Equal(t, "", repo.Token)
	assert.Equal(t, 0, client.ProfileCalls)
}

func TestRefetchProfile_ValidTokenRefreshes(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1", Name: "After"}}
	repo := &fakeTokenRepo{Token: validTestToken(t)}
	m := newTestManager(client, repo)

	require.NoError(t, m.RefetchProfile(context.Background()))

	st := m.Snapshot()
	assert.True(t, st.IsLoggedIn())
	assert.Equal(t, "After", st.User.Name)
}

func TestUpdateAvatar_LocalOnly(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	m.UpdateAvatar("http://img/av.png")

	assert.Equal(t, "http://img/av.png", m.Snapshot().User.Avatar)
	assert.Nil(t, client.LastUpdateProfile, "no network call")
}

func TestSaveProfile_PushesAvatar(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	m.UpdateAvatar("http://img/av.png")
	require.NoError(t, m.SaveProfile(context.Background()))

	require.NotNil(t, client.LastUpdateProfile)
	assert.Equal(t, "http://img/av.png", client.LastUpdateProfile.Avatar)
}

func TestSaveProfile_RequiresLogin(t *testing.T) {
	m := newTestManager(&fakeClient{}, &fakeTokenRepo{})
	assert.Error(t, m.SaveProfile(context.Background()))
}

func TestHandleUnauthorized_FiresOncePerGeneration(t *testing.T) {
	client := &fakeClient{ProfileRet: &models.User{ID: "u1"}}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	clearsAfterLogin := repo.clears()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.HandleUnauthorized()
		}()
	}
	wg.Wait()

	assert.Equal(t, StatusLoggedOut, m.Snapshot().Status)
	assert.Equal(t, clearsAfterLogin+1, repo.clears(), "concurrent 401s collapse into one logout")

	// a fresh login arms the guard again
	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	m.HandleUnauthorized()
	assert.Equal(t, StatusLoggedOut, m.Snapshot().Status)
}

func TestRefreshProjects_FailureKeepsPrevious(t *testing.T) {
	client := &fakeClient{
		ProfileRet:  &models.User{ID: "u1"},
		ProjectsRet: []models.Project{{ID: "p1", Title: "Alpha"}},
	}
	repo := &fakeTokenRepo{}
	m := newTestManager(client, repo)

	require.NoError(t, m.Login(context.Background(), validTestToken(t)))
	require.Len(t, m.Snapshot().Projects, 1)

	client.ProjectsErr = errors.New("boom")
	m.RefreshProjects(context.Background())

	assert.Len(t, m.Snapshot().Projects, 1, "stale cache stays visible")
}

func TestSignIn_BadCredentialsSurface(t *testing.T) {
	client := &fakeClient{SignInErr: errors.New("invalid credentials")}
	m := newTestManager(client, &fakeTokenRepo{})

	err := m.SignIn(context.Background(), "a@b.c", []byte("nope"))
	require.Error(t, err)
	assert.Equal(t, StatusLoggedOut, m.Snapshot().Status)
}
