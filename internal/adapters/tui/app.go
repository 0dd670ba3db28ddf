package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cognitext/internal/adapters/markdown"
	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/adapters/tui/views"
	"cognitext/internal/application"
	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewEditor
	ViewPreview
	ViewTOC
	ViewSearch
	ViewCreate
	ViewRename
	ViewMove
	ViewDelete
	ViewSaveDialog
	ViewSettings
	ViewChat
	ViewHelp
)

// inboxSize bounds the bus events waiting for the UI loop
const inboxSize = 256

// Options holds the optional collaborators of the App
type Options struct {
	Editor   ports.EditorOpener   // External editor, optional
	Revealer ports.Revealer       // Optional
	VCS      ports.VersionControl // Optional
	Renderer *markdown.Renderer   // Optional, preview is disabled without it
	Logger   *zap.Logger
}

// App is the main TUI application model
type App struct {
	session  *application.Session
	editorOp ports.EditorOpener
	revealer ports.Revealer
	vcs      ports.VersionControl
	renderer *markdown.Renderer
	logger   *zap.Logger

	inbox     chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
	subs      []*events.Subscription

	state      ViewState
	quitArmed  bool
	browser    *views.BrowserModel
	editor     *views.EditorModel
	preview    *views.PreviewModel
	toc        *views.TOCModel
	search     *views.SearchModel
	create     *views.CreateModel
	rename     *views.RenameModel
	move       *views.MoveModel
	delete     *views.DeleteModel
	saveDialog *views.SaveDialogModel
	settings   *views.SettingsModel
	chat       *views.ChatModel
	help       *views.HelpModel

	width  int
	height int
}

// busMsg carries a bus event into the UI loop
type busMsg struct {
	event events.Event
}

type openedMsg struct {
	message string
	err     error
}

type externalDoneMsg struct {
	path string
	err  error
}

// NewApp creates a new TUI application over a started session
func NewApp(session *application.Session, opts Options) *App {
	repo, index := session.Repo, session.Index

	a := &App{
		session:    session,
		editorOp:   opts.Editor,
		revealer:   opts.Revealer,
		vcs:        opts.VCS,
		renderer:   opts.Renderer,
		logger:     logger.OrNop(opts.Logger).Named("tui"),
		inbox:      make(chan tea.Msg, inboxSize),
		done:       make(chan struct{}),
		state:      ViewBrowser,
		browser:    views.NewBrowserModel(repo),
		editor:     views.NewEditorModel(session.Tabs),
		toc:        views.NewTOCModel(),
		search:     views.NewSearchModel(repo, index),
		create:     views.NewCreateModel(repo, index),
		rename:     views.NewRenameModel(repo, index),
		move:       views.NewMoveModel(repo, index),
		delete:     views.NewDeleteModel(repo, index),
		saveDialog: views.NewSaveDialogModel(session.Tabs, repo),
		settings:   views.NewSettingsModel(session.Settings),
		chat:       views.NewChatModel(session.Chat),
		help:       views.NewHelpModel(),
	}
	if opts.Renderer != nil {
		a.preview = views.NewPreviewModel(session.Tabs, opts.Renderer)
	}

	current := session.Settings.Current()
	a.applyTheme(current.ColorTheme)
	a.editor.SetTabSize(current.Editor.TabSize)

	for _, kind := range []events.Kind{
		events.KindActiveTabChanged,
		events.KindTabClosed,
		events.KindSaveConfirmationRequested,
		events.KindFileTOC,
		events.KindFileSaved,
		events.KindThemeChanged,
		events.KindSettingsUpdated,
		events.KindWorkspaceChanged,
	} {
		a.subs = append(a.subs, session.Bus.Subscribe(kind, a.forward))
	}
	return a
}

// Close detaches the App from the bus
func (a *App) Close() {
	a.closeOnce.Do(func() { close(a.done) })
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	a.subs = nil
}

// forward runs on the publishing goroutine and must not block it
func (a *App) forward(e events.Event) error {
	msg := busMsg{event: e}
	if e.Kind() == events.KindSaveConfirmationRequested {
		// The tab waits in PendingSaveConfirmation until the dialog answers
		a.postEventually(msg)
		return nil
	}
	a.post(msg)
	return nil
}

func (a *App) post(msg tea.Msg) {
	select {
	case a.inbox <- msg:
	default:
		a.logger.Warn("ui inbox full, dropping message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// postEventually delivers msg even when the inbox is full, by waiting on
// a separate goroutine until the UI loop makes room or the App closes
func (a *App) postEventually(msg tea.Msg) {
	select {
	case a.inbox <- msg:
		return
	default:
	}
	a.logger.Debug("ui inbox full, delivering later", zap.String("type", fmt.Sprintf("%T", msg)))
	go func() {
		select {
		case a.inbox <- msg:
		case <-a.done:
		}
	}()
}

// listen waits for the next message posted from outside the UI loop
func (a *App) listen() tea.Msg {
	return <-a.inbox
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.browser.Init(), a.editor.Init(), a.listen}
	if a.session.Settings.Current().ActionOnStartup.Action == domain.StartupBlankFile {
		cmds = append(cmds, a.newBlank())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case busMsg:
		return a, tea.Batch(a.handleEvent(msg.event), a.listen)

	case views.ChatProgressMsg:
		_, cmd := a.chat.Update(msg)
		return a, tea.Batch(cmd, a.listen)

	case views.ChatDoneMsg:
		if msg.Err == nil && msg.Generated != "" {
			a.editor.Sync(true)
		}
		_, cmd := a.chat.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if cmd, handled := a.guardQuit(msg); handled {
			return a, cmd
		}

	// View switching messages
	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.SwitchToEditorMsg:
		a.state = ViewEditor
		a.editor.Sync(false)
		return a, nil

	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.SetParent(msg.ParentDir, msg.Folder)
		return a, a.create.Init()

	case views.SwitchToRenameMsg:
		a.state = ViewRename
		a.rename.SetSource(msg.Node)
		return a, a.rename.Init()

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetSource(msg.Node)
		return a, a.move.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Node)
		return a, nil

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		a.search.SetMode(msg.Mode)
		return a, a.search.Init()

	case views.SwitchToPreviewMsg:
		if a.preview == nil {
			a.editor.SetMessage("Preview is not available", true)
			return a, nil
		}
		a.state = ViewPreview
		a.preview.Refresh()
		return a, nil

	case views.SwitchToTOCMsg:
		a.state = ViewTOC
		a.toc.Show(a.editor.ActiveID())
		return a, nil

	case views.SwitchToSettingsMsg:
		a.state = ViewSettings
		a.settings.Load()
		return a, a.settings.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	// Requests from the views
	case views.NewBlankMsg:
		return a, a.newBlank()

	case views.OpenDocumentMsg:
		return a, a.open(msg.Path, msg.Message)

	case openedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
			a.state = ViewBrowser
			return a, nil
		}
		a.editor.Sync(false)
		a.state = ViewEditor
		if msg.message != "" {
			a.editor.SetMessage(msg.message, false)
		}
		return a, a.browser.Reload()

	case views.OpenExternalMsg:
		return a, a.openExternal(msg.Path)

	case externalDoneMsg:
		return a, a.externalDone(msg)

	case views.RevealMsg:
		return a, a.reveal(msg)

	case views.CommitMsg:
		return a, a.commit()

	case views.ContinueWritingMsg:
		return a, a.continueWriting()

	case views.WorkspaceUpdatedMsg:
		if msg.Old != "" && msg.New != "" {
			a.followMove(msg.Old, msg.New)
		}
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload()

	case views.SaveResolvedMsg:
		a.state = ViewEditor
		a.editor.Sync(false)
		a.editor.SetMessage(msg.Message, false)
		if msg.Saved {
			return a, a.browser.Reload()
		}
		return a, nil

	}

	// Delegate to current view
	_, cmd := a.currentView().Update(msg)
	return a, cmd
}

func (a *App) currentView() tea.Model {
	switch a.state {
	case ViewEditor:
		return a.editor
	case ViewPreview:
		if a.preview != nil {
			return a.preview
		}
	case ViewTOC:
		return a.toc
	case ViewSearch:
		return a.search
	case ViewCreate:
		return a.create
	case ViewRename:
		return a.rename
	case ViewMove:
		return a.move
	case ViewDelete:
		return a.delete
	case ViewSaveDialog:
		return a.saveDialog
	case ViewSettings:
		return a.settings
	case ViewChat:
		return a.chat
	case ViewHelp:
		return a.help
	}
	return a.browser
}

func (a *App) resize() {
	w, h := a.width, a.height
	a.browser.SetSize(w, h)
	a.editor.SetSize(w, h)
	if a.preview != nil {
		a.preview.SetSize(w, h)
	}
	a.toc.SetSize(w, h)
	a.search.SetSize(w, h)
	a.create.SetSize(w, h)
	a.rename.SetSize(w, h)
	a.move.SetSize(w, h)
	a.delete.SetSize(w, h)
	a.saveDialog.SetSize(w, h)
	a.settings.SetSize(w, h)
	a.chat.SetSize(w, h)
	a.help.SetSize(w, h)
}

// guardQuit asks for a second quit while documents have unsaved changes
func (a *App) guardQuit(msg tea.KeyMsg) (tea.Cmd, bool) {
	quitting := (a.state == ViewBrowser && msg.String() == "q") || msg.String() == "ctrl+c"
	if a.state == ViewChat && a.chat.Running() {
		quitting = false
	}
	if !quitting {
		a.quitArmed = false
		return nil, false
	}
	if a.quitArmed || !a.session.Tabs.HasDirty() {
		return tea.Quit, true
	}
	a.quitArmed = true
	warning := "Unsaved changes. Press " + msg.String() + " again to quit anyway."
	if a.state == ViewEditor {
		a.editor.SetMessage(warning, true)
	} else {
		a.state = ViewBrowser
		a.browser.SetMessage(warning, true)
	}
	return nil, true
}

// handleEvent applies a bus event to the views
func (a *App) handleEvent(e events.Event) tea.Cmd {
	switch e := e.(type) {
	case events.ActiveTabChanged:
		a.editor.Sync(false)
		if a.state == ViewPreview && a.preview != nil {
			a.preview.Refresh()
		}

	case events.TabClosed:
		a.toc.Forget(e.TabID)
		a.editor.Sync(false)

	case events.SaveConfirmationRequested:
		a.saveDialog.SetRequest(e)
		a.state = ViewSaveDialog
		return a.saveDialog.Init()

	case events.FileTOC:
		a.toc.SetEntries(e.TabID, e.Entries)

	case events.FileSaved:
		if e.WasNew {
			return a.browser.Reload()
		}

	case events.ThemeChanged:
		a.applyTheme(e.Theme)

	case events.SettingsUpdated:
		a.editor.SetTabSize(e.Settings.Editor.TabSize)
		if e.FromDisk && a.state == ViewSettings {
			a.settings.Load()
		}

	case events.WorkspaceChanged:
		return a.browser.Reload()
	}
	return nil
}

func (a *App) applyTheme(theme string) {
	styles.Apply(strings.Contains(strings.ToLower(theme), "dark"))
	if a.renderer != nil {
		a.renderer.SetTheme(styles.GlamourStyle())
	}
}

// newBlank goes through the bus so every new-file trigger behaves the same
func (a *App) newBlank() tea.Cmd {
	bus := a.session.Bus
	return func() tea.Msg {
		bus.Publish(events.NewFile{})
		return views.SwitchToEditorMsg{}
	}
}

func (a *App) open(path, message string) tea.Cmd {
	tabs := a.session.Tabs
	return func() tea.Msg {
		if _, err := tabs.Open(path); err != nil {
			return openedMsg{err: err}
		}
		return openedMsg{message: message}
	}
}

func (a *App) openExternal(path string) tea.Cmd {
	if a.editorOp == nil {
		return views.Status("", errors.New("no external editor configured"))
	}
	for _, doc := range a.session.Tabs.Tabs() {
		if doc.Dirty && domain.IsSamePath(doc.Path, path) {
			return views.Status("", fmt.Errorf("save %s before editing it elsewhere", doc.Label))
		}
	}

	cmd, err := a.editorOp.Command(path)
	if err != nil {
		return views.Status("", err)
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalDoneMsg{path: path, err: err}
	})
}

// externalDone refreshes the index and any open tab after an external edit
func (a *App) externalDone(msg externalDoneMsg) tea.Cmd {
	if msg.err != nil {
		return views.Status("", fmt.Errorf("editor failed: %w", msg.err))
	}

	if index := a.session.Index; index != nil && domain.IsMarkdown(msg.path) {
		if err := index.Reindex(msg.path); err != nil {
			a.logger.Warn("failed to reindex after external edit", zap.String("path", msg.path), zap.Error(err))
		}
	}
	for _, doc := range a.session.Tabs.Tabs() {
		if !domain.IsSamePath(doc.Path, msg.path) {
			continue
		}
		if _, err := a.session.Tabs.Reload(doc.ID); err != nil {
			return views.Status("", err)
		}
		if doc.ID == a.editor.ActiveID() {
			a.editor.Sync(true)
		}
	}
	return tea.Batch(a.browser.Reload(), views.Status("Edited "+filepath.Base(msg.path), nil))
}

func (a *App) reveal(msg views.RevealMsg) tea.Cmd {
	revealer := a.revealer
	if revealer == nil {
		return views.Status("", errors.New("revealing files is not supported here"))
	}
	return func() tea.Msg {
		var err error
		if msg.Default {
			err = revealer.OpenDefault(msg.Path)
		} else {
			err = revealer.Reveal(msg.Path)
		}
		if err != nil {
			return views.StatusMsg{Err: err}
		}
		return views.StatusMsg{Message: "Opened " + filepath.Base(msg.Path)}
	}
}

func (a *App) commit() tea.Cmd {
	vcs := a.vcs
	if vcs == nil {
		return views.Status("", errors.New("git is not available"))
	}
	return func() tea.Msg {
		result, err := commands.NewCommitCommand(vcs, "").Execute(context.Background())
		if err != nil {
			return views.StatusMsg{Err: err}
		}
		return views.StatusMsg{Message: result.Message}
	}
}

// continueWriting streams a completion for the active tab. Progress is
// posted to the inbox while the request runs on its own goroutine.
func (a *App) continueWriting() tea.Cmd {
	if a.chat.Running() || a.session.Chat.Running() {
		return nil
	}
	a.state = ViewChat
	chat := a.session.Chat
	run := func() tea.Msg {
		generated, err := chat.ContinueActive(context.Background(), func(p application.ChatProgress) {
			a.post(views.ChatProgressMsg{Progress: p})
		})
		return views.ChatDoneMsg{Generated: generated, Err: err}
	}
	return tea.Batch(a.chat.Start(), run)
}

// followMove rebinds open tabs after a file or folder changed place
func (a *App) followMove(oldPath, newPath string) {
	tabs := a.session.Tabs
	for _, doc := range tabs.Tabs() {
		if domain.IsSamePath(doc.Path, oldPath) {
			tabs.PathMoved(doc.Path, newPath)
			continue
		}
		rel, err := filepath.Rel(oldPath, doc.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		tabs.PathMoved(doc.Path, filepath.Join(newPath, rel))
	}
}

// View renders the current view
func (a *App) View() string {
	return a.currentView().View()
}
