// Package board implements the drag-and-drop workflow board: three fixed
// status columns, pointer hit-testing against measured column rectangles, and
// a pending-updates buffer that is flushed to the server in one batch.
//
// All moves are optimistic. A card changes column locally the moment it is
// dropped; the server only hears about it on Submit.
package board

import (
	"context"
	"fmt"

	"github.com/dsmirnova/taskcrew/internal/client/api"
	"github.com/dsmirnova/taskcrew/internal/client/models"
	"github.com/dsmirnova/taskcrew/internal/logging"
)

// DropTolerance is the margin, in pixels, by which a drop point may miss a
// column rectangle and still count as a hit.
const DropTolerance = 24.0

// Columns is the fixed column order of the board.
var Columns = []models.TaskStatus{
	models.StatusNotStarted,
	models.StatusInProgress,
	models.StatusCompleted,
}

// Rect is a column's last-measured layout rectangle in screen coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) contains(x, y, tolerance float64) bool {
	return x >= r.X-tolerance && x <= r.X+r.Width+tolerance &&
		y >= r.Y-tolerance && y <= r.Y+r.Height+tolerance
}

// Board holds the local, optimistic view of one project's tasks.
//
// Board is not safe for concurrent use; it is driven from a single UI loop.
type Board struct {
	client api.Client
	log    logging.Logger

	projectID string
	rects     map[models.TaskStatus]Rect
	columns   map[models.TaskStatus][]models.Task
	pending   map[string]models.TaskStatus
}

func New(client api.Client, log logging.Logger) *Board {
	b := &Board{
		client: client,
		log:    log.With("component", "board"),
	}
	b.reset()
	return b
}

func (b *Board) reset() {
	b.rects = make(map[models.TaskStatus]Rect)
	b.columns = make(map[models.TaskStatus][]models.Task)
	for _, col := range Columns {
		b.columns[col] = nil
	}
	b.pending = make(map[string]models.TaskStatus)
}

// Load fetches the tasks of projectID and partitions them into columns.
// Any previously pending updates belong to the old view and are dropped.
func (b *Board) Load(ctx context.Context, projectID string) error {
	tasks, err := b.client.GetProjectTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load project tasks: %w", err)
	}

	b.reset()
	b.projectID = projectID
	for _, t := range tasks {
		status := t.Status
		if !status.Valid() {
			b.log.Warn(ctx, "task has unknown status, treating as not started",
				"task", t.ID, "status", t.Status)
			status = models.StatusNotStarted
			t.Status = status
		}
		b.columns[status] = append(b.columns[status], t)
	}
	return nil
}

// ProjectID returns the id of the currently loaded project ("" before Load).
func (b *Board) ProjectID() string {
	return b.projectID
}

// Tasks returns a copy of the given column's task list.
func (b *Board) Tasks(status models.TaskStatus) []models.Task {
	return append([]models.Task(nil), b.columns[status]...)
}

// Measure records the layout rectangle of a column. The UI calls this after
// every layout pass so Drop can resolve pointer coordinates.
func (b *Board) Measure(status models.TaskStatus, r Rect) {
	b.rects[status] = r
}

// ColumnAt resolves a pointer position to a column using the last-measured
// rectangles, with DropTolerance slack on every edge. Columns are tested in
// fixed order, so overlapping rectangles resolve deterministically.
func (b *Board) ColumnAt(x, y float64) (models.TaskStatus, bool) {
	for _, col := range Columns {
		r, ok := b.rects[col]
		if !ok {
			continue
		}
		if r.contains(x, y, DropTolerance) {
			return col, true
		}
	}
	return "", false
}

// Drop handles the end of a drag gesture: it resolves the pointer position to
// a column and applies the move. It reports whether anything changed.
func (b *Board) Drop(taskID string, x, y float64) bool {
	col, ok := b.ColumnAt(x, y)
	if !ok {
		return false
	}
	return b.Move(taskID, col)
}

// Move applies a status change locally and records it as pending. This is the
// shared path for drops and for the tap-to-change fallback.
//
// Moving a task to the column it is already in is a no-op and records
// nothing. Moving the same task again before Submit overwrites its pending
// entry, so at most one update per task id is ever sent.
func (b *Board) Move(taskID string, to models.TaskStatus) bool {
	if !to.Valid() {
		return false
	}

	from, idx, ok := b.find(taskID)
	if !ok || from == to {
		return false
	}

	task := b.columns[from][idx]
	b.columns[from] = append(b.columns[from][:idx], b.columns[from][idx+1:]...)
	task.Status = to
	b.columns[to] = append(b.columns[to], task)

	b.pending[taskID] = to
	return true
}

func (b *Board) find(taskID string) (models.TaskStatus, int, bool) {
	for _, col := range Columns {
		for i, t := range b.columns[col] {
			if t.ID == taskID {
				return col, i, true
			}
		}
	}
	return "", 0, false
}

// Pending returns a copy of the uncommitted status changes.
func (b *Board) Pending() map[string]models.TaskStatus {
	out := make(map[string]models.TaskStatus, len(b.pending))
	for id, status := range b.pending {
		out[id] = status
	}
	return out
}

// Submit sends all pending updates as a single batch request. On success the
// buffer is cleared; on failure it is retained untouched so a retry resubmits
// the same set.
func (b *Board) Submit(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}

	updates := make([]models.TaskStatusUpdate, 0, len(b.pending))
	for id, status := range b.pending {
		updates = append(updates, models.TaskStatusUpdate{ID: id, Status: status})
	}

	if err := b.client.UpdateTaskStatuses(ctx, updates); err != nil {
		return fmt.Errorf("failed to submit %d task updates: %w", len(updates), err)
	}

	b.pending = make(map[string]models.TaskStatus)
	return nil
}
