package models

// TaskStatus is one of the three fixed workflow columns.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a single unit of work inside a project.
//
// AssignedTo is a pointer because unassigned tasks come back without the
// field; "" would be indistinguishable from a user id that happens to be
// empty.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
}

// TaskStatusUpdate is one element of a batch status patch.
type TaskStatusUpdate struct {
	ID     string     `json:"id"`
	Status TaskStatus `json:"status"`
}
