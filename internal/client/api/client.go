package api

import (
	"context"

	"github.com/dsmirnova/taskcrew/internal/client/models"
)

// Client is the remote API surface the rest of the app talks to.
//
// All methods honor context cancellation. Implementations map transport and
// HTTP status failures to the sentinel errors in this package so callers can
// branch with errors.Is.
type Client interface {
	Close() error

	// SignIn exchanges credentials for a bearer token.
	SignIn(ctx context.Context, email string, password []byte) (string, error)

	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)

	GetNotifications(ctx context.Context) ([]models.Notification, error)
	GetJoinedProjects(ctx context.Context) ([]models.Project, error)
	GetProjectTasks(ctx context.Context, projectID string) ([]models.Task, error)

	// UpdateTaskStatuses submits a batch of task status changes in one request.
	UpdateTaskStatuses(ctx context.Context, updates []models.TaskStatusUpdate) error

	GetComments(ctx context.Context, taskID string) ([]models.Comment, error)
	AddComment(ctx context.Context, taskID string, body string) (*models.Comment, error)
}
