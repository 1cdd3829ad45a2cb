package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoval85/rdm/internal/collapse"
	"github.com/dkoval85/rdm/internal/db"
	"github.com/dkoval85/rdm/internal/filter"
	"github.com/dkoval85/rdm/internal/models"
	"github.com/dkoval85/rdm/internal/ui/keys"
	"github.com/dkoval85/rdm/internal/ui/styles"
	"github.com/dkoval85/rdm/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewBoard
)

type App struct {
	db          *db.DB
	collapsed   *collapse.Store
	styles      *styles.Styles
	keys        keys.KeyMap
	groupBy     filter.GroupBy
	currentView View
	projectList *views.ProjectListView
	board       *views.BoardView
	width       int
	height      int
}

// NewApp wires the root bubbletea model. groupBy is the initial
// grouping applied when a board opens.
func NewApp(database *db.DB, store *collapse.Store, groupBy filter.GroupBy) *App {
	s := styles.NewStyles()
	km := keys.DefaultKeyMap()
	return &App{
		db:          database,
		collapsed:   store,
		styles:      s,
		keys:        km,
		groupBy:     groupBy,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(database, s, km),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last viewed roadmap when there is one
	lastProjectID, err := a.db.GetSetting("last_project_id")
	if err == nil && lastProjectID != "" {
		id, err := strconv.ParseInt(lastProjectID, 10, 64)
		if err == nil {
			project, err := a.db.GetProject(id)
			if err == nil {
				return tea.Batch(a.projectList.Init(), a.openProject(*project))
			}
		}
	}

	return a.projectList.Init()
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.db, project, a.collapsed, a.styles, a.keys, a.groupBy, a.width, a.height)
	a.db.SetSetting("last_project_id", strconv.FormatInt(project.ID, 10))
	return a.board.Init()
}

func (a *App) closeBoard() tea.Cmd {
	a.currentView = ViewProjects
	a.board = nil
	a.db.SetSetting("last_project_id", "")
	return a.projectList.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projectList.SetSize(msg.Width, msg.Height)
		if a.board != nil {
			a.board.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case views.SelectedProject:
		return a, a.openProject(msg.Project)
	}

	switch a.currentView {
	case ViewBoard:
		cmd, back := a.board.Update(msg)
		if back {
			return a, a.closeBoard()
		}
		return a, cmd
	default:
		return a, a.projectList.Update(msg)
	}
}

func (a *App) View() string {
	if a.currentView == ViewBoard && a.board != nil {
		return a.board.View()
	}
	return a.projectList.View()
}
