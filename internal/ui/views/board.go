package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dkoval85/rdm/internal/collapse"
	"github.com/dkoval85/rdm/internal/db"
	"github.com/dkoval85/rdm/internal/filter"
	"github.com/dkoval85/rdm/internal/models"
	"github.com/dkoval85/rdm/internal/order"
	"github.com/dkoval85/rdm/internal/ui/keys"
	"github.com/dkoval85/rdm/internal/ui/styles"
)

type rowKind int

const (
	rowBlock rowKind = iota
	rowSection
	rowTask
	rowGroup
)

// row is one visible line of the flattened board tree. key is the
// collapse key for header rows and empty for task rows.
type row struct {
	kind    rowKind
	block   models.Block
	section models.Section
	task    models.Task
	group   filter.Group
	depth   int
	key     string
}

type promptKind int

const (
	promptNone promptKind = iota
	promptNewBlock
	promptNewSection
	promptNewTask
	promptNewSubtask
	promptEditTitle
	promptDeadline
	promptNewTag
	promptRenameTag
)

type boardDataMsg struct {
	blocks   []models.Block
	sections map[int64][]models.Section
	tasks    map[int64][]models.Task
	subtasks map[int64][]models.Task
	all      []models.Task
	tags     []models.Tag
}

type commentsMsg struct {
	task     models.Task
	comments []models.Comment
}

type boardErrMsg struct{ err error }

// BoardView renders a project's blocks, sections and tasks as a single
// scrollable tree with filtering, grouping and move support.
type BoardView struct {
	db        *db.DB
	project   models.Project
	collapsed *collapse.Store
	styles    *styles.Styles
	keys      keys.KeyMap

	width   int
	height  int
	cursor  int
	scrollY int

	state filter.State

	blocks         []models.Block
	sections       map[int64][]models.Section
	tasks          map[int64][]models.Task
	subtasks       map[int64][]models.Task
	all            []models.Task
	tags           []models.Tag
	blockBySection map[int64]models.Block

	rows []row

	gesture       *order.Gesture
	movingSection bool

	tagDropdownOpen bool
	tagCursor       int

	assigningTags bool
	assignTask    models.Task

	prompt       promptKind
	promptInput  textinput.Model
	promptTarget row
	promptTag    models.Tag

	viewing       bool
	viewTask      models.Task
	comments      []models.Comment
	commentCursor int
	commentInput  textarea.Model

	confirmingDelete bool
	deleteRow        row

	statusMsg string
}

// NewBoardView builds the board for a project. The previously active
// status filter is restored from settings when present, and groupBy
// seeds the initial grouping.
func NewBoardView(database *db.DB, project models.Project, store *collapse.Store, s *styles.Styles, km keys.KeyMap, groupBy filter.GroupBy, width, height int) *BoardView {
	ti := textinput.New()
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Write a comment..."
	ta.SetHeight(3)

	state := filter.NewState()
	state.GroupBy = groupBy
	if saved, err := database.GetSetting("last_filter"); err == nil && saved != "" {
		state.Active = filter.Filter(saved)
	}

	return &BoardView{
		db:           database,
		project:      project,
		collapsed:    store,
		styles:       s,
		keys:         km,
		width:        width,
		height:       height,
		state:        state,
		promptInput:  ti,
		commentInput: ta,
	}
}

func (v *BoardView) Init() tea.Cmd {
	return v.loadData()
}

func (v *BoardView) loadData() tea.Cmd {
	return func() tea.Msg {
		blocks, err := v.db.ListBlocks(v.project.ID)
		if err != nil {
			return boardErrMsg{err}
		}
		sections := make(map[int64][]models.Section)
		tasks := make(map[int64][]models.Task)
		subtasks := make(map[int64][]models.Task)
		for _, b := range blocks {
			secs, err := v.db.ListSections(b.ID)
			if err != nil {
				return boardErrMsg{err}
			}
			sections[b.ID] = secs
			for _, s := range secs {
				ts, err := v.db.ListTasks(s.ID)
				if err != nil {
					return boardErrMsg{err}
				}
				tasks[s.ID] = ts
				for _, t := range ts {
					subs, err := v.db.ListSubtasks(t.ID)
					if err != nil {
						return boardErrMsg{err}
					}
					if len(subs) > 0 {
						subtasks[t.ID] = subs
					}
				}
			}
		}
		all, err := v.db.ListProjectTasks(v.project.ID)
		if err != nil {
			return boardErrMsg{err}
		}
		tags, err := v.db.ListTags()
		if err != nil {
			return boardErrMsg{err}
		}
		return boardDataMsg{
			blocks:   blocks,
			sections: sections,
			tasks:    tasks,
			subtasks: subtasks,
			all:      all,
			tags:     tags,
		}
	}
}

func (v *BoardView) loadComments(task models.Task) tea.Cmd {
	return func() tea.Msg {
		if err := v.db.MarkTaskViewed(task.ID); err != nil {
			return boardErrMsg{err}
		}
		comments, err := v.db.ListComments(task.ID)
		if err != nil {
			return boardErrMsg{err}
		}
		return commentsMsg{task: task, comments: comments}
	}
}

// overdueFn reports whether a task's containing block has a passed
// deadline. Overdue is a block-level property surfaced on tasks.
func (v *BoardView) overdueFn() func(models.Task) bool {
	now := time.Now()
	return func(t models.Task) bool {
		b, ok := v.blockBySection[t.SectionID]
		if !ok {
			return false
		}
		return b.Overdue(now) && t.Status != models.StatusCompleted
	}
}

func (v *BoardView) buildRows() {
	v.rows = v.rows[:0]
	overdue := v.overdueFn()

	if v.state.GroupBy != filter.GroupNone {
		filtered := filter.Tasks(v.all, v.state, overdue)
		for _, g := range filter.Groups(filtered, v.state.GroupBy) {
			key := "group:" + g.Key
			v.rows = append(v.rows, row{kind: rowGroup, group: g, key: key})
			if v.collapsed.IsCollapsed(key) {
				continue
			}
			for _, t := range g.Tasks {
				v.rows = append(v.rows, row{kind: rowTask, task: t, depth: 1})
			}
		}
	} else {
		for _, b := range v.blocks {
			bkey := fmt.Sprintf("block:%d", b.ID)
			v.rows = append(v.rows, row{kind: rowBlock, block: b, key: bkey})
			if v.collapsed.IsCollapsed(bkey) {
				continue
			}
			for _, s := range v.sections[b.ID] {
				skey := fmt.Sprintf("section:%d", s.ID)
				v.rows = append(v.rows, row{kind: rowSection, section: s, block: b, depth: 1, key: skey})
				if v.collapsed.IsCollapsed(skey) {
					continue
				}
				for _, t := range filter.Tasks(v.tasks[s.ID], v.state, overdue) {
					v.rows = append(v.rows, row{kind: rowTask, task: t, section: s, depth: 2})
					for _, st := range filter.Tasks(v.subtasks[t.ID], v.state, overdue) {
						v.rows = append(v.rows, row{kind: rowTask, task: st, section: s, depth: 3})
					}
				}
			}
		}
	}

	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *BoardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *BoardView) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case boardDataMsg:
		v.blocks = msg.blocks
		v.sections = msg.sections
		v.tasks = msg.tasks
		v.subtasks = msg.subtasks
		v.all = msg.all
		v.tags = msg.tags
		v.blockBySection = make(map[int64]models.Block)
		for _, b := range v.blocks {
			for _, s := range v.sections[b.ID] {
				v.blockBySection[s.ID] = b
			}
		}
		v.buildRows()
		return nil, false

	case commentsMsg:
		v.viewing = true
		v.viewTask = msg.task
		v.comments = msg.comments
		if v.commentCursor >= len(v.comments) {
			v.commentCursor = len(v.comments) - 1
		}
		if v.commentCursor < 0 {
			v.commentCursor = 0
		}
		v.commentInput.Reset()
		return nil, false

	case boardErrMsg:
		v.statusMsg = msg.err.Error()
		return nil, false

	case tea.KeyMsg:
		switch {
		case v.viewing:
			return v.updateDetail(msg)
		case v.prompt != promptNone:
			return v.updatePrompt(msg)
		case v.confirmingDelete:
			return v.updateConfirmDelete(msg)
		case v.tagDropdownOpen:
			return v.updateTagDropdown(msg)
		case v.assigningTags:
			return v.updateAssignTags(msg)
		case v.gesture != nil:
			return v.updateMoving(msg)
		default:
			return v.updateNormal(msg)
		}
	}
	return nil, false
}

func (v *BoardView) currentRow() (row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return row{}, false
	}
	return v.rows[v.cursor], true
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Cmd, bool) {
	v.statusMsg = ""
	switch {
	case key.Matches(msg, v.keys.Quit):
		return tea.Quit, false

	case key.Matches(msg, v.keys.Back):
		return nil, true

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}

	case key.Matches(msg, v.keys.Toggle):
		if r, ok := v.currentRow(); ok && r.key != "" {
			if err := v.collapsed.Toggle(r.key); err != nil {
				v.statusMsg = err.Error()
			}
			v.buildRows()
		}

	case key.Matches(msg, v.keys.ExpandAll):
		if err := v.collapsed.ExpandAll(); err != nil {
			v.statusMsg = err.Error()
		}
		v.buildRows()

	case key.Matches(msg, v.keys.CollapseAll):
		var ks []string
		for _, r := range v.rows {
			if r.key != "" {
				ks = append(ks, r.key)
			}
		}
		if err := v.collapsed.CollapseAll(ks); err != nil {
			v.statusMsg = err.Error()
		}
		v.buildRows()

	case key.Matches(msg, v.keys.Filter):
		v.state.Active = v.state.Active.Next()
		if err := v.db.SetSetting("last_filter", string(v.state.Active)); err != nil {
			v.statusMsg = err.Error()
		}
		v.buildRows()

	case key.Matches(msg, v.keys.Group):
		v.state.GroupBy = v.state.GroupBy.Next()
		v.cursor = 0
		v.buildRows()

	case key.Matches(msg, v.keys.TagFilter):
		v.tagDropdownOpen = true
		v.tagCursor = 0

	case key.Matches(msg, v.keys.Status):
		if r, ok := v.currentRow(); ok && r.kind == rowTask {
			return v.cmdAfter(v.db.SetTaskStatus(r.task.ID, r.task.Status.Next())), false
		}

	case msg.String() == "p":
		if r, ok := v.currentRow(); ok && r.kind == rowTask {
			t := r.task
			return v.cmdAfter(v.db.UpdateTask(t.ID, t.Title, t.Notes, nextPriority(t.Priority), t.Deadline)), false
		}

	case key.Matches(msg, v.keys.Move):
		return v.startMove(), false

	case key.Matches(msg, v.keys.MoveUp):
		return v.nudge(-1), false

	case key.Matches(msg, v.keys.MoveDown):
		return v.nudge(1), false

	case key.Matches(msg, v.keys.Enter):
		if r, ok := v.currentRow(); ok {
			if r.kind == rowTask {
				return v.loadComments(r.task), false
			}
			if r.key != "" {
				if err := v.collapsed.Toggle(r.key); err != nil {
					v.statusMsg = err.Error()
				}
				v.buildRows()
			}
		}

	case key.Matches(msg, v.keys.New):
		r, _ := v.currentRow()
		return v.openPrompt(promptNewTask, r, "Task title"), false

	case msg.String() == "S":
		r, _ := v.currentRow()
		return v.openPrompt(promptNewSection, r, "Section name"), false

	case msg.String() == "B":
		return v.openPrompt(promptNewBlock, row{}, "Block name"), false

	case msg.String() == "+":
		if r, ok := v.currentRow(); ok && r.kind == rowTask && r.task.ParentTaskID == nil {
			return v.openPrompt(promptNewSubtask, r, "Subtask title"), false
		}

	case key.Matches(msg, v.keys.Edit):
		if r, ok := v.currentRow(); ok && r.kind != rowGroup {
			cmd := v.openPrompt(promptEditTitle, r, "Title")
			switch r.kind {
			case rowBlock:
				v.promptInput.SetValue(r.block.Title)
			case rowSection:
				v.promptInput.SetValue(r.section.Title)
			case rowTask:
				v.promptInput.SetValue(r.task.Title)
			}
			return cmd, false
		}

	case msg.String() == "D":
		if r, ok := v.currentRow(); ok && (r.kind == rowBlock || r.kind == rowTask) {
			cmd := v.openPrompt(promptDeadline, r, "Deadline (YYYY-MM-DD, empty to clear)")
			return cmd, false
		}

	case msg.String() == "t":
		if r, ok := v.currentRow(); ok && r.kind == rowTask {
			v.assigningTags = true
			v.assignTask = r.task
			v.tagCursor = 0
		}

	case key.Matches(msg, v.keys.Delete):
		if r, ok := v.currentRow(); ok && r.kind != rowGroup {
			v.confirmingDelete = true
			v.deleteRow = r
		}
	}
	return nil, false
}

// cmdAfter wraps a mutation result: reload on success, surface the
// error otherwise.
func (v *BoardView) cmdAfter(err error) tea.Cmd {
	if err != nil {
		v.statusMsg = err.Error()
		return nil
	}
	return v.loadData()
}

func nextPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityNone:
		return models.PriorityLow
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	case models.PriorityHigh:
		return models.PriorityCritical
	default:
		return models.PriorityNone
	}
}

// startMove begins a move gesture from the cursor row. Grouped views
// are virtual orderings, so moves only apply in the tree view.
func (v *BoardView) startMove() tea.Cmd {
	if v.state.GroupBy != filter.GroupNone {
		v.statusMsg = "moving is disabled while grouped"
		return nil
	}
	r, ok := v.currentRow()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowTask:
		if r.task.ParentTaskID != nil {
			v.statusMsg = "subtasks follow their parent"
			return nil
		}
		v.gesture = order.StartTaskDrag(r.task)
		v.movingSection = false
	case rowSection:
		v.gesture = order.StartSectionDrag(r.section)
		v.movingSection = true
	}
	return nil
}

func (v *BoardView) updateMoving(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		v.hoverCurrent()

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		v.hoverCurrent()

	case key.Matches(msg, v.keys.Enter):
		return v.commitMove(), false

	case key.Matches(msg, v.keys.Back):
		v.gesture.Cancel()
		v.gesture = nil
	}
	return nil, false
}

func (v *BoardView) hoverCurrent() {
	r, ok := v.currentRow()
	if !ok {
		return
	}
	if v.movingSection {
		switch r.kind {
		case rowSection:
			v.gesture.OverSection(order.SectionDropTarget{Section: &r.section})
		case rowBlock:
			b := r.block
			v.gesture.OverSection(order.SectionDropTarget{
				Block:             &b,
				BlockSectionCount: len(v.sections[b.ID]),
			})
		}
		return
	}
	switch r.kind {
	case rowTask:
		if r.task.ParentTaskID == nil {
			t := r.task
			v.gesture.OverTask(order.DropTarget{Task: &t})
		}
	case rowSection:
		s := r.section
		v.gesture.OverTask(order.DropTarget{
			Section:          &s,
			SectionTaskCount: len(v.tasks[s.ID]),
		})
	}
}

func (v *BoardView) commitMove() tea.Cmd {
	g := v.gesture
	v.gesture = nil
	if v.movingSection {
		move, ok := g.DropSection()
		if !ok {
			return nil
		}
		return v.cmdAfter(v.db.MoveSection(g.SectionID(), move.BlockID, move.SortOrder))
	}
	move, ok := g.DropTask()
	if !ok {
		return nil
	}
	return v.cmdAfter(v.db.MoveTask(g.TaskID(), move.SectionID, move.SortOrder))
}

// nudge swaps the cursor row with its neighboring sibling and persists
// the renumbered ordering.
func (v *BoardView) nudge(delta int) tea.Cmd {
	if v.state.GroupBy != filter.GroupNone {
		return nil
	}
	r, ok := v.currentRow()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowTask:
		if r.task.ParentTaskID != nil {
			return nil
		}
		siblings := append([]models.Task(nil), v.tasks[r.task.SectionID]...)
		i := taskIndex(siblings, r.task.ID)
		j := i + delta
		if i < 0 || j < 0 || j >= len(siblings) {
			return nil
		}
		siblings[i], siblings[j] = siblings[j], siblings[i]
		return v.cmdAfter(v.db.ReorderTasks(r.task.SectionID, order.TaskIDs(siblings)))
	case rowSection:
		siblings := append([]models.Section(nil), v.sections[r.section.BlockID]...)
		i := sectionIndex(siblings, r.section.ID)
		j := i + delta
		if i < 0 || j < 0 || j >= len(siblings) {
			return nil
		}
		siblings[i], siblings[j] = siblings[j], siblings[i]
		return v.cmdAfter(v.db.ReorderSections(r.section.BlockID, order.SectionIDs(siblings)))
	}
	return nil
}

func taskIndex(tasks []models.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func sectionIndex(sections []models.Section, id int64) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (v *BoardView) openPrompt(kind promptKind, target row, placeholder string) tea.Cmd {
	if kind == promptNewTask && target.kind != rowTask && target.kind != rowSection {
		v.statusMsg = "select a section or task first"
		return nil
	}
	if kind == promptNewSection && target.kind == rowGroup {
		return nil
	}
	v.prompt = kind
	v.promptTarget = target
	v.promptInput.Placeholder = placeholder
	v.promptInput.SetValue("")
	v.promptInput.Focus()
	return textinput.Blink
}

func (v *BoardView) updatePrompt(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.prompt = promptNone
		v.promptInput.Blur()
		return nil, false
	case key.Matches(msg, v.keys.Enter):
		cmd := v.submitPrompt(strings.TrimSpace(v.promptInput.Value()))
		v.prompt = promptNone
		v.promptInput.Blur()
		return cmd, false
	}
	var cmd tea.Cmd
	v.promptInput, cmd = v.promptInput.Update(msg)
	return cmd, false
}

func (v *BoardView) submitPrompt(value string) tea.Cmd {
	target := v.promptTarget
	switch v.prompt {
	case promptNewBlock:
		if value == "" {
			return nil
		}
		_, err := v.db.CreateBlock(v.project.ID, value)
		return v.cmdAfter(err)

	case promptNewSection:
		if value == "" {
			return nil
		}
		blockID := target.block.ID
		if target.kind == rowTask {
			blockID = v.blockBySection[target.task.SectionID].ID
		} else if target.kind == rowSection {
			blockID = target.section.BlockID
		}
		if blockID == 0 {
			v.statusMsg = "select a block first"
			return nil
		}
		_, err := v.db.CreateSection(blockID, value)
		return v.cmdAfter(err)

	case promptNewTask:
		if value == "" {
			return nil
		}
		sectionID := target.section.ID
		if target.kind == rowTask {
			sectionID = target.task.SectionID
		}
		_, err := v.db.CreateTask(sectionID, value, models.PriorityNone)
		return v.cmdAfter(err)

	case promptNewSubtask:
		if value == "" {
			return nil
		}
		_, err := v.db.CreateSubtask(target.task.ID, value)
		return v.cmdAfter(err)

	case promptEditTitle:
		if value == "" {
			return nil
		}
		switch target.kind {
		case rowBlock:
			return v.cmdAfter(v.db.UpdateBlock(target.block.ID, value))
		case rowSection:
			return v.cmdAfter(v.db.UpdateSection(target.section.ID, value))
		case rowTask:
			t := target.task
			return v.cmdAfter(v.db.UpdateTask(t.ID, value, t.Notes, t.Priority, t.Deadline))
		}

	case promptDeadline:
		var deadline *time.Time
		if value != "" {
			parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
			if err != nil {
				v.statusMsg = "invalid date, expected YYYY-MM-DD"
				return nil
			}
			deadline = &parsed
		}
		switch target.kind {
		case rowBlock:
			return v.cmdAfter(v.db.SetBlockDeadline(target.block.ID, deadline))
		case rowTask:
			t := target.task
			return v.cmdAfter(v.db.UpdateTask(t.ID, t.Title, t.Notes, t.Priority, deadline))
		}

	case promptNewTag:
		if value == "" {
			return nil
		}
		tag, err := v.ensureTag(value)
		if err != nil {
			v.statusMsg = err.Error()
			return nil
		}
		if v.assigningTags {
			if err := v.db.AddTagToTask(v.assignTask.ID, tag.ID); err != nil {
				v.statusMsg = err.Error()
				return nil
			}
			if t, err := v.db.GetTask(v.assignTask.ID); err == nil {
				v.assignTask = *t
			}
		}
		return v.loadData()

	case promptRenameTag:
		if value == "" {
			return nil
		}
		tg := v.promptTag
		if err := v.db.UpdateTag(tg.ID, value, tg.Color, tg.Kind); err != nil {
			v.statusMsg = err.Error()
			return nil
		}
		if t, err := v.db.GetTask(v.assignTask.ID); err == nil {
			v.assignTask = *t
		}
		return v.loadData()
	}
	return nil
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		r := v.deleteRow
		switch r.kind {
		case rowBlock:
			return v.cmdAfter(v.db.DeleteBlock(r.block.ID)), false
		case rowSection:
			return v.cmdAfter(v.db.DeleteSection(r.section.ID)), false
		case rowTask:
			return v.cmdAfter(v.db.DeleteTask(r.task.ID)), false
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil, false
}

func (v *BoardView) updateTagDropdown(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.TagFilter):
		v.tagDropdownOpen = false
		v.buildRows()
	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.tags)-1 {
			v.tagCursor++
		}
	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if v.tagCursor < len(v.tags) {
			id := v.tags[v.tagCursor].ID
			if v.state.SelectedTags[id] {
				delete(v.state.SelectedTags, id)
			} else {
				v.state.SelectedTags[id] = true
			}
			v.buildRows()
		}
	case msg.String() == "a":
		v.state.TagMode = v.state.TagMode.Next()
		v.buildRows()
	case msg.String() == "x":
		v.state.SelectedTags = make(map[int64]bool)
		v.buildRows()
	}
	return nil, false
}

func (v *BoardView) updateAssignTags(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.assigningTags = false
		return v.loadData(), false
	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.tags)-1 {
			v.tagCursor++
		}
	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if v.tagCursor < len(v.tags) {
			tag := v.tags[v.tagCursor]
			var err error
			if v.assignTask.HasTag(tag.ID) {
				err = v.db.RemoveTagFromTask(v.assignTask.ID, tag.ID)
			} else {
				err = v.db.AddTagToTask(v.assignTask.ID, tag.ID)
			}
			if err != nil {
				v.statusMsg = err.Error()
				return nil, false
			}
			// refresh the working copy so repeated toggles see current state
			if t, err := v.db.GetTask(v.assignTask.ID); err == nil {
				v.assignTask = *t
			}
		}

	case msg.String() == "n":
		return v.openTagPrompt(promptNewTag, models.Tag{}, "New tag name", ""), false

	case msg.String() == "r":
		if v.tagCursor < len(v.tags) {
			tag := v.tags[v.tagCursor]
			return v.openTagPrompt(promptRenameTag, tag, "Tag name", tag.Name), false
		}

	case msg.String() == "x":
		if v.tagCursor < len(v.tags) {
			if err := v.db.DeleteTag(v.tags[v.tagCursor].ID); err != nil {
				v.statusMsg = err.Error()
				return nil, false
			}
			if t, err := v.db.GetTask(v.assignTask.ID); err == nil {
				v.assignTask = *t
			}
			return v.loadData(), false
		}
	}
	return nil, false
}

func (v *BoardView) openTagPrompt(kind promptKind, tag models.Tag, placeholder, initial string) tea.Cmd {
	v.prompt = kind
	v.promptTag = tag
	v.promptInput.Placeholder = placeholder
	v.promptInput.SetValue(initial)
	v.promptInput.Focus()
	return textinput.Blink
}

// tagPalette cycles new tags through the theme accent colors.
var tagPalette = []string{"#7aa2f7", "#9ece6a", "#e0af68", "#f7768e", "#bb9af7", "#7dcfff"}

// ensureTag reuses an existing tag by name (case-insensitive) or
// creates one with the next palette color.
func (v *BoardView) ensureTag(name string) (*models.Tag, error) {
	if tag, err := v.db.GetTagByName(name); err == nil {
		return tag, nil
	}
	return v.db.CreateTag(name, tagPalette[len(v.tags)%len(tagPalette)], "")
}

func (v *BoardView) updateDetail(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if v.commentInput.Focused() {
			v.commentInput.Blur()
			return nil, false
		}
		v.viewing = false
		return v.loadData(), false
	case "c":
		if !v.commentInput.Focused() {
			return v.commentInput.Focus(), false
		}
	case "ctrl+s":
		body := strings.TrimSpace(v.commentInput.Value())
		if body == "" {
			return nil, false
		}
		if _, err := v.db.CreateComment(v.viewTask.ID, body); err != nil {
			v.statusMsg = err.Error()
			return nil, false
		}
		v.commentInput.Reset()
		v.commentInput.Blur()
		return v.loadComments(v.viewTask), false
	}
	if v.commentInput.Focused() {
		var cmd tea.Cmd
		v.commentInput, cmd = v.commentInput.Update(msg)
		return cmd, false
	}
	switch msg.String() {
	case "up", "k":
		if v.commentCursor > 0 {
			v.commentCursor--
		}
	case "down", "j":
		if v.commentCursor < len(v.comments)-1 {
			v.commentCursor++
		}
	case "x":
		if v.commentCursor < len(v.comments) {
			if err := v.db.DeleteComment(v.comments[v.commentCursor].ID); err != nil {
				v.statusMsg = err.Error()
				return nil, false
			}
			return v.loadComments(v.viewTask), false
		}
	}
	return nil, false
}

func (v *BoardView) View() string {
	if v.viewing {
		return v.renderDetail()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n")

	visible := v.height - 6
	if visible < 1 {
		visible = 1
	}
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}

	if len(v.rows) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("No rows. B adds a block, S a section, n a task."))
		b.WriteString("\n")
	}
	end := v.scrollY + visible
	if end > len(v.rows) {
		end = len(v.rows)
	}
	overdue := v.overdueFn()
	for i := v.scrollY; i < end; i++ {
		b.WriteString(v.renderRow(v.rows[i], i == v.cursor, overdue))
		b.WriteString("\n")
	}

	if v.tagDropdownOpen {
		b.WriteString(v.renderTagPicker("Filter by tag (a: any/all, x: clear)", func(t models.Tag) bool {
			return v.state.SelectedTags[t.ID]
		}))
	}
	if v.assigningTags {
		b.WriteString(v.renderTagPicker("Tags for "+v.assignTask.Title, func(t models.Tag) bool {
			return v.assignTask.HasTag(t.ID)
		}))
	}
	if v.prompt != promptNone {
		b.WriteString(v.styles.Popup.Render(v.promptInput.View()))
		b.WriteString("\n")
	}
	if v.confirmingDelete {
		b.WriteString(v.styles.Popup.Render("Delete " + deleteLabel(v.deleteRow) + "? (y/n)"))
		b.WriteString("\n")
	}
	b.WriteString(v.renderStatusBar())
	return b.String()
}

func deleteLabel(r row) string {
	switch r.kind {
	case rowBlock:
		return "block \"" + r.block.Title + "\" and everything in it"
	case rowSection:
		return "section \"" + r.section.Title + "\" and its tasks"
	default:
		return "task \"" + r.task.Title + "\""
	}
}

func (v *BoardView) renderHeader() string {
	counts := filter.Count(v.all, v.overdueFn())
	badge := func(label string, n int, f filter.Filter) string {
		s := v.styles.Badge
		if v.state.Active == f {
			s = v.styles.BadgeActive
		}
		return s.Render(fmt.Sprintf("%s %d", label, n))
	}
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badge("all", counts.All, filter.FilterAll), " ",
		badge("todo", counts.NotStarted, filter.FilterNotStarted), " ",
		badge("doing", counts.InProgress, filter.FilterInProgress), " ",
		badge("done", counts.Completed, filter.FilterCompleted), " ",
		badge("overdue", counts.Overdue, filter.FilterOverdue),
	)
	title := v.styles.Title.Render(v.project.Title)
	if v.state.GroupBy != filter.GroupNone {
		title += v.styles.TitleMuted.Render("  grouped by " + string(v.state.GroupBy))
	}
	if len(v.state.SelectedTags) > 0 {
		title += v.styles.TitleMuted.Render(fmt.Sprintf("  tags:%d (%s)", len(v.state.SelectedTags), v.state.TagMode))
	}
	return title + "\n" + badges
}

func (v *BoardView) renderRow(r row, selected bool, overdue func(models.Task) bool) string {
	indent := strings.Repeat("  ", r.depth)
	cursor := "  "
	if selected {
		cursor = "> "
	}
	switch r.kind {
	case rowBlock:
		marker := v.collapseMarker(r.key)
		label := fmt.Sprintf("%s%s%s %d. %s", cursor, indent, marker, r.block.Number, r.block.Title)
		if r.block.Deadline != nil {
			due := "due " + humanize.Time(*r.block.Deadline)
			if r.block.Overdue(time.Now()) {
				label += " " + v.styles.Overdue.Render(due)
			} else {
				label += " " + v.styles.TitleMuted.Render(due)
			}
		}
		style := v.styles.BlockHeader
		if selected && v.gesture == nil {
			style = v.styles.ListSelected
		}
		return style.Render(label)

	case rowSection:
		marker := v.collapseMarker(r.key)
		label := fmt.Sprintf("%s%s%s %s (%d)", cursor, indent, marker, r.section.Title, len(v.tasks[r.section.ID]))
		style := v.styles.SectionHeader
		switch {
		case v.gesture != nil && v.movingSection && v.gesture.SectionID() == r.section.ID:
			style = v.styles.MoveSource
		case v.gesture != nil && selected:
			style = v.styles.MoveTarget
		case selected:
			style = v.styles.ListSelected
		}
		return style.Render(label)

	case rowGroup:
		marker := v.collapseMarker(r.key)
		label := fmt.Sprintf("%s%s %s (%d)", cursor, marker, r.group.Label, len(r.group.Tasks))
		style := v.styles.SectionHeader
		if r.group.Color != "" {
			style = style.Foreground(lipgloss.Color(r.group.Color))
		}
		if selected {
			style = v.styles.ListSelected
		}
		return style.Render(label)

	default:
		return v.renderTaskRow(r, cursor, indent, selected, overdue)
	}
}

func (v *BoardView) renderTaskRow(r row, cursor, indent string, selected bool, overdue func(models.Task) bool) string {
	t := r.task
	check := "[ ]"
	switch t.Status {
	case models.StatusInProgress:
		check = "[~]"
	case models.StatusCompleted:
		check = "[x]"
	}
	label := fmt.Sprintf("%s%s%s %s", cursor, indent, check, t.Title)
	for _, tag := range t.Tags {
		label += " " + v.styles.Badge.Foreground(lipgloss.Color(tag.Color)).Render("#"+tag.Name)
	}
	if t.CommentCount > 0 {
		c := fmt.Sprintf("(%d)", t.CommentCount)
		if t.UnreadComments > 0 {
			c = fmt.Sprintf("(%d new)", t.UnreadComments)
		}
		label += " " + v.styles.TitleMuted.Render(c)
	}

	style := v.styles.ListItem
	switch {
	case v.gesture != nil && v.gesture.TaskID() == t.ID:
		style = v.styles.MoveSource
	case v.gesture != nil && selected:
		style = v.styles.MoveTarget
	case selected:
		style = v.styles.ListSelected
	case t.Status == models.StatusCompleted:
		style = v.styles.TaskDone
	case overdue(t):
		style = v.styles.Overdue
	}
	return style.Render(label)
}

func (v *BoardView) collapseMarker(key string) string {
	if v.collapsed.IsCollapsed(key) {
		return "▸"
	}
	return "▾"
}

func (v *BoardView) renderTagPicker(title string, selected func(models.Tag) bool) string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	if len(v.tags) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("no tags yet"))
		b.WriteString("\n")
	}
	for i, t := range v.tags {
		mark := "[ ]"
		if selected(t) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, t.Name)
		if i == v.tagCursor {
			line = "> " + line
			b.WriteString(v.styles.ListSelected.Render(line))
		} else {
			b.WriteString(v.styles.ListItem.Foreground(lipgloss.Color(t.Color)).Render("  " + line))
		}
		b.WriteString("\n")
	}
	return v.styles.Popup.Render(b.String()) + "\n"
}

func (v *BoardView) renderDetail() string {
	t := v.viewTask
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(t.Title))
	b.WriteString("\n")
	meta := fmt.Sprintf("status: %s   priority: %s", t.Status, t.Priority)
	if t.Deadline != nil {
		meta += "   due " + humanize.Time(*t.Deadline)
	}
	b.WriteString(v.styles.TitleMuted.Render(meta))
	b.WriteString("\n")
	if len(t.Tags) > 0 {
		var parts []string
		for _, tag := range t.Tags {
			parts = append(parts, v.styles.Badge.Foreground(lipgloss.Color(tag.Color)).Render("#"+tag.Name))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	if t.Notes != "" {
		b.WriteString("\n")
		b.WriteString(t.Notes)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.SectionHeader.Render(fmt.Sprintf("Discussion (%d)", len(v.comments))))
	b.WriteString("\n")
	if len(v.comments) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("no comments yet"))
		b.WriteString("\n")
	}
	for i, c := range v.comments {
		when := humanize.Time(c.CreatedAt)
		if i == v.commentCursor && !v.commentInput.Focused() {
			b.WriteString(v.styles.ListSelected.Render("> " + when))
		} else {
			b.WriteString(v.styles.TitleMuted.Render(when))
		}
		b.WriteString("\n")
		b.WriteString(c.Content)
		b.WriteString("\n\n")
	}
	b.WriteString(v.commentInput.View())
	b.WriteString("\n")
	help := "j/k: select  x: delete  c: comment  ctrl+s: save  esc: back"
	b.WriteString(v.styles.Help.Render(help))
	return v.styles.Popup.Width(min(v.width-2, 80)).Render(b.String())
}

func (v *BoardView) renderStatusBar() string {
	if v.statusMsg != "" {
		return v.styles.StatusBar.Render(v.statusMsg)
	}
	var help string
	switch {
	case v.gesture != nil:
		help = "↑/↓: pick target  enter: drop  esc: cancel"
	case v.assigningTags:
		help = "↑/↓: move  space: toggle  n: new  r: rename  x: delete tag  esc: close"
	case v.tagDropdownOpen:
		help = "↑/↓: move  space: toggle  a: any/all  x: clear  esc: close"
	default:
		help = "space: fold  m: move  s: status  f/F/g: filter/tags/group  n/S/B/+: new  e: edit  D: deadline  t: tags  d: delete  esc: back"
	}
	return v.styles.Help.Render(help)
}
