// Package filter turns a flat task collection plus UI filter state
// into the filtered and grouped view models the board renders.
// Everything here is a pure function over read-only snapshots: inputs
// are never mutated.
package filter

import "github.com/dkoval85/rdm/internal/models"

// Filter selects which status bucket the board shows.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterNotStarted Filter = "not_started"
	FilterInProgress Filter = "in_progress"
	FilterCompleted  Filter = "completed"
	FilterOverdue    Filter = "overdue"
)

// Next cycles through the filters in badge order.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterNotStarted
	case FilterNotStarted:
		return FilterInProgress
	case FilterInProgress:
		return FilterCompleted
	case FilterCompleted:
		return FilterOverdue
	default:
		return FilterAll
	}
}

// TagMode controls how multiple selected tags combine.
type TagMode string

const (
	TagAny TagMode = "any" // task carries at least one selected tag
	TagAll TagMode = "all" // task carries every selected tag
)

// Next toggles between the two combination modes.
func (m TagMode) Next() TagMode {
	if m == TagAny {
		return TagAll
	}
	return TagAny
}

// GroupBy selects the grouping applied to the filtered tasks.
type GroupBy string

const (
	GroupNone     GroupBy = "none"
	GroupByTag    GroupBy = "tag"
	GroupByStatus GroupBy = "status"
	GroupByPrio   GroupBy = "priority"
)

// ParseGroupBy returns the GroupBy for s, or GroupNone if s is not a
// recognized value.
func ParseGroupBy(s string) GroupBy {
	switch GroupBy(s) {
	case GroupByTag, GroupByStatus, GroupByPrio:
		return GroupBy(s)
	}
	return GroupNone
}

// Next cycles none -> tag -> status -> priority -> none.
func (g GroupBy) Next() GroupBy {
	switch g {
	case GroupNone:
		return GroupByTag
	case GroupByTag:
		return GroupByStatus
	case GroupByStatus:
		return GroupByPrio
	default:
		return GroupNone
	}
}

// State is the transient filter configuration for the board. It lives
// in the view and is never persisted server-side.
type State struct {
	Active       Filter
	SelectedTags map[int64]bool
	TagMode      TagMode
	GroupBy      GroupBy
}

// NewState returns the default state: everything visible, ungrouped.
func NewState() State {
	return State{
		Active:       FilterAll,
		SelectedTags: make(map[int64]bool),
		TagMode:      TagAny,
		GroupBy:      GroupNone,
	}
}

// matchesStatus applies the status half of the filter. Overdue is
// defined at the parent block level: a task is overdue when its block
// deadline has passed and the task itself is not completed. Task
// deadlines do not participate here.
func matchesStatus(t models.Task, f Filter, blockOverdue bool) bool {
	switch f {
	case FilterAll:
		return true
	case FilterNotStarted, FilterInProgress, FilterCompleted:
		return t.Status == models.Status(f)
	case FilterOverdue:
		return blockOverdue && t.Status != models.StatusCompleted
	}
	return true
}

// matchesTags applies the tag half of the filter. With no tags
// selected every task passes.
func matchesTags(t models.Task, selected map[int64]bool, mode TagMode) bool {
	if len(selected) == 0 {
		return true
	}
	if mode == TagAll {
		for id := range selected {
			if !t.HasTag(id) {
				return false
			}
		}
		return true
	}
	for id := range selected {
		if t.HasTag(id) {
			return true
		}
	}
	return false
}

// Tasks returns the tasks passing both the status and the tag
// predicate, in input order. blockOverdue reports whether a task's
// parent block deadline has passed; a nil func means no block is
// overdue.
func Tasks(tasks []models.Task, state State, blockOverdue func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		overdue := blockOverdue != nil && blockOverdue(t)
		if !matchesStatus(t, state.Active, overdue) {
			continue
		}
		if !matchesTags(t, state.SelectedTags, state.TagMode) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Counts holds the per-filter badge totals shown above the board.
type Counts struct {
	All        int
	NotStarted int
	InProgress int
	Completed  int
	Overdue    int
}

// Count tallies every task (subtasks included) in a single pass. Each
// task lands in exactly one status bucket; overdue increments
// independently of status.
func Count(tasks []models.Task, blockOverdue func(models.Task) bool) Counts {
	var c Counts
	for _, t := range tasks {
		c.All++
		switch t.Status {
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusCompleted:
			c.Completed++
		default:
			c.NotStarted++
		}
		if blockOverdue != nil && blockOverdue(t) && t.Status != models.StatusCompleted {
			c.Overdue++
		}
	}
	return c
}
