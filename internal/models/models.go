package models

import "time"

// Status is the completion state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus returns the Status for s, or StatusNotStarted if s is not
// a recognized value.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return Status(s)
	}
	return StatusNotStarted
}

// Next cycles not_started -> in_progress -> completed -> not_started.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// Priority is the structured priority of a task.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityNone     Priority = "none"
)

// ParsePriority returns the Priority for s, or PriorityNone if s is not
// a recognized value.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return Priority(s)
	}
	return PriorityNone
}

// Project is the top-level container for a roadmap
type Project struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Block is a phase of a project. Its deadline is the source of the
// "overdue" state for every task underneath it.
type Block struct {
	ID        int64
	ProjectID int64
	UUID      string
	Title     string
	Number    int // display ordinal
	Deadline  *time.Time
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overdue reports whether the block deadline has passed as of now.
func (b Block) Overdue(now time.Time) bool {
	return b.Deadline != nil && b.Deadline.Before(now)
}

// Section is a sub-grouping of tasks within a block
type Section struct {
	ID        int64
	BlockID   int64
	UUID      string
	Title     string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag represents a label with a color, many-to-many with tasks
type Tag struct {
	ID        int64
	Name      string
	Color     string
	Kind      string // optional classification, "" when unset
	CreatedAt time.Time
}

// Comment represents a discussion entry on a task
type Comment struct {
	ID        int64
	TaskID    int64
	Content   string
	CreatedAt time.Time
}

// Task is the atomic unit of trackable work. A task with a non-nil
// ParentTaskID is a subtask.
type Task struct {
	ID           int64
	SectionID    int64
	ParentTaskID *int64
	UUID         string
	Title        string
	Notes        string
	Status       Status
	Priority     Priority
	Deadline     *time.Time
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Tags           []Tag // populated when loading tasks
	CommentCount   int
	UnreadComments int
}

// HasTag reports whether the task carries the tag with the given id.
func (t Task) HasTag(tagID int64) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}
