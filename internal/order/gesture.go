package order

import "github.com/dkoval85/rdm/internal/models"

// GestureState tracks where a drag gesture is in its lifecycle.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureCommitted
	GestureCancelled
)

// Gesture is the per-drag state machine:
//
//	idle -> dragging -> over* -> committed | cancelled
//
// A gesture over no valid target ends cancelled with no side effect;
// a gesture with a recorded target computes exactly one move on Drop.
// Gestures are single-use: start a new one for the next drag.
type Gesture struct {
	state   GestureState
	task    *models.Task
	section *models.Section

	taskTarget    DropTarget
	sectionTarget SectionDropTarget
	hasTarget     bool
}

// StartTaskDrag begins a gesture for a task.
func StartTaskDrag(t models.Task) *Gesture {
	return &Gesture{state: GestureDragging, task: &t}
}

// StartSectionDrag begins a gesture for a section.
func StartSectionDrag(s models.Section) *Gesture {
	return &Gesture{state: GestureDragging, section: &s}
}

// State returns the current lifecycle state.
func (g *Gesture) State() GestureState { return g.state }

// TaskID returns the dragged task's id, or 0 for section drags.
func (g *Gesture) TaskID() int64 {
	if g.task == nil {
		return 0
	}
	return g.task.ID
}

// SectionID returns the dragged section's id, or 0 for task drags.
func (g *Gesture) SectionID() int64 {
	if g.section == nil {
		return 0
	}
	return g.section.ID
}

// OverTask records the current hover target for a task drag. Ignored
// once the gesture has ended or for section drags.
func (g *Gesture) OverTask(t DropTarget) {
	if g.state != GestureDragging || g.task == nil {
		return
	}
	g.taskTarget = t
	g.hasTarget = true
}

// OverSection records the current hover target for a section drag.
func (g *Gesture) OverSection(t SectionDropTarget) {
	if g.state != GestureDragging || g.section == nil {
		return
	}
	g.sectionTarget = t
	g.hasTarget = true
}

// DropTask ends a task gesture. It returns the computed move and true
// when the caller should persist it; otherwise the gesture is
// cancelled (no target) or committed as a no-op (position unchanged)
// and no mutation may be issued.
func (g *Gesture) DropTask() (TaskMove, bool) {
	if g.state != GestureDragging || g.task == nil {
		return TaskMove{}, false
	}
	if !g.hasTarget {
		g.state = GestureCancelled
		return TaskMove{}, false
	}
	move, ok := ComputeTaskMove(*g.task, g.taskTarget)
	g.state = GestureCommitted
	if !ok {
		return TaskMove{}, false
	}
	return move, true
}

// DropSection ends a section gesture, symmetric to DropTask.
func (g *Gesture) DropSection() (SectionMove, bool) {
	if g.state != GestureDragging || g.section == nil {
		return SectionMove{}, false
	}
	if !g.hasTarget {
		g.state = GestureCancelled
		return SectionMove{}, false
	}
	move, ok := ComputeSectionMove(*g.section, g.sectionTarget)
	g.state = GestureCommitted
	if !ok {
		return SectionMove{}, false
	}
	return move, true
}

// Cancel ends the gesture with no observable side effect.
func (g *Gesture) Cancel() {
	if g.state == GestureDragging {
		g.state = GestureCancelled
	}
}
