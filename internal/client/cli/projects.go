package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) ListProjects(ctx context.Context) error {
	a.session.RefreshProjects(ctx)

	st := a.session.Snapshot()
	if len(st.Projects) == 0 {
		fmt.Println("No projects")
		return nil
	}

	for i, p := range st.Projects {
		fmt.Printf("%2d. %s  %s (%d members)\n", i+1, p.Color, p.Title, p.MemberCount)
	}
	return nil
}

// projectByIndex resolves a 1-based index from the last listing.
func (a *App) projectByIndex(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	st := a.session.Snapshot()
	if err != nil || n < 1 || n > len(st.Projects) {
		return "", false
	}
	return st.Projects[n-1].ID, true
}

func (a *App) ListNotifications(ctx context.Context) error {
	a.session.RefreshNotifications(ctx)

	st := a.session.Snapshot()
	if len(st.Notifications) == 0 {
		fmt.Println("No notifications")
		return nil
	}

	for _, n := range st.Notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
	}
	return nil
}

// Refresh re-fetches projects and notifications on demand (the pull-to-refresh
// path). Failures stay silent here; stale data remains visible.
func (a *App) Refresh(ctx context.Context) error {
	a.session.RefreshProjects(ctx)
	a.session.RefreshNotifications(ctx)
	fmt.Println("Refreshed")
	return nil
}
