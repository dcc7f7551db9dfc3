package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dsmirnova/taskcrew/internal/client/api"
	"github.com/dsmirnova/taskcrew/internal/client/board"
	"github.com/dsmirnova/taskcrew/internal/client/config"
	"github.com/dsmirnova/taskcrew/internal/client/session"
	"github.com/dsmirnova/taskcrew/internal/client/storage"
	"github.com/dsmirnova/taskcrew/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Manager
	board   *board.Board
	client  *api.HTTPClient
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.BaseURL, repos.Tokens, c.RequestTimeout)
	sess := session.NewManager(apiClient, repos.Tokens, logger)

	// Any authenticated request bouncing with 401 ends the session centrally.
	apiClient.SetUnauthorizedHandler(sess.HandleUnauthorized)

	return &App{
		config:  c,
		session: sess,
		board:   board.New(apiClient, logger),
		client:  apiClient,
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	if err := a.session.Bootstrap(ctx); err != nil {
		a.log.Error(ctx, "bootstrap failed", "error", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsLoggedIn()
}
