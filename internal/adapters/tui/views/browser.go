package views

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	NewNote   key.Binding
	NewFolder key.Binding
	Blank     key.Binding
	Rename    key.Binding
	Move      key.Binding
	Delete    key.Binding
	Search    key.Binding
	Quick     key.Binding
	External  key.Binding
	Reveal    key.Binding
	Open      key.Binding
	Commit    key.Binding
	Refresh   key.Binding
	Editor    key.Binding
	Settings  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open/toggle"),
	),
	NewNote: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	NewFolder: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new folder"),
	),
	Blank: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "blank document"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Quick: key.NewBinding(
		key.WithKeys("p", "ctrl+p"),
		key.WithHelp("p", "quick open"),
	),
	External: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "external editor"),
	),
	Reveal: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "reveal"),
	),
	Open: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "open with default app"),
	),
	Commit: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "git commit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	Editor: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "editor"),
	),
	Settings: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the workspace tree view
type BrowserModel struct {
	ViewState
	repo      ports.WorkspaceRepository
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	paginator *Paginator
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(repo ports.WorkspaceRepository) *BrowserModel {
	return &BrowserModel{
		repo:      repo,
		paginator: NewPaginator(20),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree(nil)
}

// loadTree builds the tree and loads the given folders so they show
// expanded again
func (m *BrowserModel) loadTree(expanded []string) tea.Cmd {
	return func() tea.Msg {
		root, err := m.repo.BuildTree()
		if err != nil {
			return errMsg{err}
		}
		for _, path := range expanded {
			node := root.Find(path)
			if node == nil || !node.IsDir() {
				continue
			}
			if err := m.repo.LoadChildren(node); err == nil {
				node.Expand()
			}
		}
		return treeLoadedMsg{root}
	}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

type childrenLoadedMsg struct {
	node *domain.TreeNode
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.setRoot(msg.root)
		return m, nil

	case childrenLoadedMsg:
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case StatusMsg:
		if msg.Err != nil {
			m.SetError(msg.Err)
		} else {
			m.SetMessage(msg.Message, false)
		}
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	node := m.SelectedNode()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, BrowserKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, BrowserKeys.Left):
		if node == nil {
			return nil
		}
		if node.IsDir() && node.IsExpanded {
			node.Collapse()
			m.refreshFlatNodes()
		} else if node.Parent != nil && node.Parent.Kind != domain.KindRoot {
			m.selectNode(node.Parent)
		}

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		if node == nil {
			return nil
		}
		if !node.IsDir() {
			if key.Matches(msg, BrowserKeys.Enter) && domain.IsMarkdown(node.Name) {
				return switchTo(OpenDocumentMsg{Path: node.Path})
			}
			return nil
		}
		if !node.IsExpanded {
			node.Expand()
			return m.loadNodeChildren(node)
		}
		if key.Matches(msg, BrowserKeys.Enter) {
			node.Collapse()
			m.refreshFlatNodes()
		}

	case key.Matches(msg, BrowserKeys.NewNote):
		return switchTo(SwitchToCreateMsg{ParentDir: m.targetDir()})

	case key.Matches(msg, BrowserKeys.NewFolder):
		return switchTo(SwitchToCreateMsg{ParentDir: m.targetDir(), Folder: true})

	case key.Matches(msg, BrowserKeys.Blank):
		return switchTo(NewBlankMsg{})

	case key.Matches(msg, BrowserKeys.Rename):
		if node != nil {
			return switchTo(SwitchToRenameMsg{Node: node})
		}

	case key.Matches(msg, BrowserKeys.Move):
		if node != nil {
			return switchTo(SwitchToMoveMsg{Node: node})
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if node != nil {
			return switchTo(SwitchToDeleteMsg{Node: node})
		}

	case key.Matches(msg, BrowserKeys.Search):
		return switchTo(SwitchToSearchMsg{Mode: SearchFullText})

	case key.Matches(msg, BrowserKeys.Quick):
		return switchTo(SwitchToSearchMsg{Mode: SearchFiles})

	case key.Matches(msg, BrowserKeys.External):
		if node != nil && !node.IsDir() {
			return switchTo(OpenExternalMsg{Path: node.Path})
		}

	case key.Matches(msg, BrowserKeys.Reveal):
		if node != nil {
			return switchTo(RevealMsg{Path: node.Path})
		}

	case key.Matches(msg, BrowserKeys.Open):
		if node != nil && !node.IsDir() {
			return switchTo(RevealMsg{Path: node.Path, Default: true})
		}

	case key.Matches(msg, BrowserKeys.Commit):
		return switchTo(CommitMsg{})

	case key.Matches(msg, BrowserKeys.Refresh):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Editor):
		return switchTo(SwitchToEditorMsg{})

	case key.Matches(msg, BrowserKeys.Settings):
		return switchTo(SwitchToSettingsMsg{})

	case key.Matches(msg, BrowserKeys.Help):
		return switchTo(SwitchToHelpMsg{})
	}

	return nil
}

// NewBlankMsg asks for a new untitled document
type NewBlankMsg struct{}

func (m *BrowserModel) loadNodeChildren(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		if err := m.repo.LoadChildren(node); err != nil {
			return errMsg{err}
		}
		return childrenLoadedMsg{node}
	}
}

// targetDir is the folder new entries go to: the selected folder, or the
// folder of the selected file
func (m *BrowserModel) targetDir() string {
	node := m.SelectedNode()
	switch {
	case node == nil:
		return m.repo.Root()
	case node.IsDir():
		return node.Path
	default:
		return filepath.Dir(node.Path)
	}
}

// SelectedNode returns the node under the cursor
func (m *BrowserModel) SelectedNode() *domain.TreeNode {
	cursor := m.paginator.Cursor()
	if cursor >= 0 && cursor < len(m.flatNodes) {
		return m.flatNodes[cursor]
	}
	return nil
}

func (m *BrowserModel) selectNode(target *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == target {
			m.paginator.SetCursor(i)
			return
		}
	}
}

// setRoot swaps in a freshly loaded tree, keeping the cursor on the same
// path when it still exists
func (m *BrowserModel) setRoot(root *domain.TreeNode) {
	var selected string
	if node := m.SelectedNode(); node != nil {
		selected = node.Path
	}

	m.root = root
	m.refreshFlatNodes()

	if selected != "" {
		if node := root.Find(selected); node != nil {
			m.selectNode(node)
		}
	}
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	m.paginator.SetTotal(len(m.flatNodes))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		if m.Message != "" {
			return styles.App.Render(RenderMessage(m.Message, m.MessageErr))
		}
		return "Loading..."
	}

	v := NewViewBuilder().
		Title("CogniText").
		Subtitle(m.root.Path)

	if len(m.flatNodes) == 0 {
		v.Muted("Empty workspace. Press n to create a note.")
	}

	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flatNodes[i], i == m.paginator.Cursor()))
	}

	if m.Message != "" {
		v.BlankLine().Raw(RenderMessage(m.Message, m.MessageErr)).BlankLine()
	}

	return v.BlankLine().
		Help(BrowserKeys.Enter, BrowserKeys.NewNote, BrowserKeys.Search, BrowserKeys.Quick, BrowserKeys.Editor, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", max(node.Depth()-1, 0))

	prefix := styles.TreeLeaf
	if node.IsDir() {
		prefix = styles.TreeCollapsed
		if node.IsExpanded {
			prefix = styles.TreeExpanded
		}
	}

	text := node.Name
	if !node.IsDir() && domain.IsMarkdown(node.Name) {
		text = domain.FileNameWithoutExtension(node.Name)
	}

	var styled string
	switch {
	case selected:
		styled = styles.NodeSelected.Render(text)
	case node.IsDir():
		styled = styles.NodeFolder.Render(text)
	case domain.IsMarkdown(node.Name):
		styled = styles.NodeFile.Render(text)
	default:
		styled = styles.NodeOther.Render(text)
	}

	return indent + styles.TreeBranch.Render(prefix) + styled
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// Title, subtitle, message and help take about ten lines
	m.paginator.SetPageSize(max(height-10, 5))
}

// Reload reads the tree from disk again, keeping expanded folders open
func (m *BrowserModel) Reload() tea.Cmd {
	return m.loadTree(m.expandedPaths())
}

// expandedPaths lists the expanded folders, parents before children
func (m *BrowserModel) expandedPaths() []string {
	if m.root == nil {
		return nil
	}
	var paths []string
	for _, n := range m.root.Flatten() {
		if n.Kind == domain.KindFolder && n.IsExpanded {
			paths = append(paths, n.Path)
		}
	}
	return paths
}

// Root returns the loaded tree, nil before the first load
func (m *BrowserModel) Root() *domain.TreeNode {
	return m.root
}
