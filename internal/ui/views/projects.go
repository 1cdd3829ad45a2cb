package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoval85/rdm/internal/db"
	"github.com/dkoval85/rdm/internal/models"
	"github.com/dkoval85/rdm/internal/ui/keys"
	"github.com/dkoval85/rdm/internal/ui/styles"
)

type projectItem struct {
	project models.Project
}

func (i projectItem) Title() string       { return i.project.Title }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Title }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(p.Title())
	desc := descStyle.Render(p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// ProjectListView is the landing screen: pick a roadmap or create one.
type ProjectListView struct {
	db               *db.DB
	list             list.Model
	delegate         *projectDelegate
	styles           *styles.Styles
	keys             keys.KeyMap
	width            int
	height           int
	creating         bool
	editingID        int64 // non-zero while the form edits an existing roadmap
	loaded           bool
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
	newName          textinput.Model
	newDesc          textinput.Model
	focusIdx         int // 0=name, 1=desc, 2=confirm
}

func NewProjectListView(database *db.DB, s *styles.Styles, km keys.KeyMap) *ProjectListView {
	newName := textinput.New()
	newName.Placeholder = "Roadmap name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Roadmaps"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		db:       database,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     km,
		newName:  newName,
		newDesc:  newDesc,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects, err := v.db.ListProjects()
	if err != nil {
		return err
	}
	return projectsLoadedMsg{projects: projects}
}

type projectsLoadedMsg struct {
	projects []models.Project
}

// SelectedProject is emitted when the user opens a roadmap.
type SelectedProject struct {
	Project models.Project
}

func (v *ProjectListView) SetSize(width, height int) {
	v.width = width
	v.height = height
	contentWidth := styles.ContentWidth(width)
	v.delegate.width = contentWidth
	v.list.SetSize(contentWidth-4, height-6)
}

func (v *ProjectListView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		v.loaded = true
		return nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return tea.Quit
		case key.Matches(msg, v.keys.Back):
			// only q quits from the landing screen
			return nil
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.editingID = 0
			v.focusIdx = 0
			v.newName.Reset()
			v.newDesc.Reset()
			v.newName.Focus()
			return textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.creating = true
				v.editingID = item.project.ID
				v.focusIdx = 0
				v.newName.SetValue(item.project.Title)
				v.newDesc.SetValue(item.project.Description)
				v.newName.Focus()
				return textinput.Blink
			}
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Title
				return nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.db.DeleteProject(v.deleteTargetID); err == nil {
			return v.loadProjects
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.editingID = 0
		return nil

	case msg.String() == "ctrl+s":
		return v.submitCreate()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return nil
		}
		return v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return cmd
}

func (v *ProjectListView) submitCreate() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		return nil
	}
	desc := strings.TrimSpace(v.newDesc.Value())

	if v.editingID != 0 {
		if err := v.db.UpdateProject(v.editingID, name, desc); err != nil {
			return nil
		}
		v.creating = false
		v.editingID = 0
		return v.loadProjects
	}

	project, err := v.db.CreateProject(name, desc)
	if err != nil {
		return nil
	}
	v.creating = false
	return func() tea.Msg {
		return SelectedProject{Project: *project}
	}
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *ProjectListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating {
		return v.renderCreateForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}
	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Roadmaps"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first roadmap"),
		"",
		s.ButtonPrimary.Render(" New Roadmap "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Roadmap"
	button := " Create "
	if v.editingID != 0 {
		formTitle = "Edit Roadmap"
		button = " Save "
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(button),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Roadmap?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and everything in it will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
