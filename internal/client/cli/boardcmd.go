package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsmirnova/taskcrew/internal/client/board"
	"github.com/dsmirnova/taskcrew/internal/client/models"
)

var columnTitles = map[models.TaskStatus]string{
	models.StatusNotStarted: "Not Started",
	models.StatusInProgress: "In Progress",
	models.StatusCompleted:  "Completed",
}

// parseStatus accepts the column aliases users actually type.
func parseStatus(s string) (models.TaskStatus, bool) {
	switch s {
	case "todo", "notstarted", "not_started":
		return models.StatusNotStarted, true
	case "progress", "inprogress", "in_progress", "doing":
		return models.StatusInProgress, true
	case "done", "completed":
		return models.StatusCompleted, true
	}
	return "", false
}

// ListTasks prints a flat task list for the project at the given listing
// index.
func (a *App) ListTasks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: tasks <project number>")
		return nil
	}
	projectID, ok := a.projectByIndex(args[0])
	if !ok {
		fmt.Println("No such project; run 'projects' first")
		return nil
	}

	tasks, err := a.client.GetProjectTasks(ctx, projectID)
	if err != nil {
		fmt.Println("Could not load tasks:", err)
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return nil
	}
	for _, t := range tasks {
		fmt.Printf("[%s] %-12s %s\n", t.ID, columnTitles[t.Status], t.Title)
	}
	return nil
}

// OpenBoard loads the workflow board of the project at the given listing
// index.
func (a *App) OpenBoard(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: board <project number>")
		return nil
	}
	projectID, ok := a.projectByIndex(args[0])
	if !ok {
		fmt.Println("No such project; run 'projects' first")
		return nil
	}

	if err := a.board.Load(ctx, projectID); err != nil {
		fmt.Println("Could not load board:", err)
		return err
	}

	a.printBoard()
	return nil
}

func (a *App) printBoard() {
	for _, col := range board.Columns {
		fmt.Printf("== %s ==\n", columnTitles[col])
		tasks := a.board.Tasks(col)
		if len(tasks) == 0 {
			fmt.Println("  (empty)")
			continue
		}
		for _, t := range tasks {
			assignee := "unassigned"
			if t.AssignedTo != nil {
				assignee = *t.AssignedTo
			}
			fmt.Printf("  [%s] %s — %s\n", t.ID, t.Title, assignee)
		}
	}
	if n := len(a.board.Pending()); n > 0 {
		fmt.Printf("%d pending change(s); 'submit' to send\n", n)
	}
}

// MoveTask is the tap-to-change-status path: it records the same pending
// update a drag-and-drop would.
func (a *App) MoveTask(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: move <task id> todo|progress|done")
		return nil
	}

	status, ok := parseStatus(args[1])
	if !ok {
		fmt.Println("Unknown column:", args[1])
		return nil
	}

	if !a.board.Move(args[0], status) {
		fmt.Println("Nothing to do (unknown task or already there)")
		return nil
	}

	a.printBoard()
	return nil
}

// SubmitBoard flushes all pending status changes in one batch. On failure the
// pending set is kept, so running submit again retries the same changes.
func (a *App) SubmitBoard(ctx context.Context) error {
	n := len(a.board.Pending())
	if n == 0 {
		fmt.Println("Nothing to submit")
		return nil
	}

	if err := a.board.Submit(ctx); err != nil {
		fmt.Println("Submit failed, changes kept:", err)
		return err
	}

	fmt.Printf("Submitted %d change(s)\n", n)
	return nil
}

func (a *App) ListComments(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: comments <task id>")
		return nil
	}

	comments, err := a.client.GetComments(ctx, args[0])
	if err != nil {
		fmt.Println("Could not load comments:", err)
		return err
	}
	if len(comments) == 0 {
		fmt.Println("No comments")
		return nil
	}
	for _, c := range comments {
		fmt.Printf("%s %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Author, c.Body)
	}
	return nil
}

func (a *App) AddComment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: comment <task id> <text>")
		return nil
	}

	body := strings.Join(args[1:], " ")

	if _, err := a.client.AddComment(ctx, args[0], body); err != nil {
		fmt.Println("Could not add comment:", err)
		return err
	}
	fmt.Println("Comment added")
	return nil
}
