// Package order decides where a dragged task or section lands in the
// block -> section -> task hierarchy. All functions are pure: they
// compute the intended position and leave persistence to the caller,
// so a committed move maps to exactly one store mutation.
package order

import "github.com/dkoval85/rdm/internal/models"

// TaskMove is the computed destination for a moved task.
type TaskMove struct {
	SectionID int64
	SortOrder int
}

// SectionMove is the computed destination for a moved section.
type SectionMove struct {
	BlockID   int64
	SortOrder int
}

// DropTarget describes what a dragged task was released over. Exactly
// one of Task or Section should be set; when Section is set,
// SectionTaskCount must hold the number of tasks currently in it.
type DropTarget struct {
	Task             *models.Task
	Section          *models.Section
	SectionTaskCount int
}

// SectionDropTarget describes what a dragged section was released
// over, one level up from DropTarget.
type SectionDropTarget struct {
	Section           *models.Section
	Block             *models.Block
	BlockSectionCount int
}

// ComputeTaskMove returns the destination for dragged given the drop
// target. Dropping on a task inserts at that task's current sort
// order; dropping on a section header appends after its last task.
// The second return value is false when nothing should change: the
// target is unrecognized, or the computed position equals the current
// one. Callers must skip the store mutation in that case.
func ComputeTaskMove(dragged models.Task, target DropTarget) (TaskMove, bool) {
	var move TaskMove

	switch {
	case target.Task != nil:
		move = TaskMove{
			SectionID: target.Task.SectionID,
			SortOrder: target.Task.SortOrder,
		}
	case target.Section != nil:
		move = TaskMove{
			SectionID: target.Section.ID,
			SortOrder: target.SectionTaskCount + 1,
		}
	default:
		return TaskMove{}, false
	}

	if move.SectionID == dragged.SectionID && move.SortOrder == dragged.SortOrder {
		return TaskMove{}, false
	}
	return move, true
}

// ComputeSectionMove is ComputeTaskMove one level up: sections move
// within and between blocks.
func ComputeSectionMove(dragged models.Section, target SectionDropTarget) (SectionMove, bool) {
	var move SectionMove

	switch {
	case target.Section != nil:
		move = SectionMove{
			BlockID:   target.Section.BlockID,
			SortOrder: target.Section.SortOrder,
		}
	case target.Block != nil:
		move = SectionMove{
			BlockID:   target.Block.ID,
			SortOrder: target.BlockSectionCount + 1,
		}
	default:
		return SectionMove{}, false
	}

	if move.BlockID == dragged.BlockID && move.SortOrder == dragged.SortOrder {
		return SectionMove{}, false
	}
	return move, true
}

// Renumber returns the 1..n sort orders that reassign a sibling set to
// match its visual order. Used with the bulk reorder operations to
// keep sort orders unique and monotonic after keyboard moves.
func Renumber(n int) []int {
	orders := make([]int, n)
	for i := range orders {
		orders[i] = i + 1
	}
	return orders
}

// TaskIDs extracts ids in slice order, the shape the bulk reorder
// store operation takes.
func TaskIDs(tasks []models.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// SectionIDs extracts ids in slice order.
func SectionIDs(sections []models.Section) []int64 {
	ids := make([]int64, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}
