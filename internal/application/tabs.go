package application

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

const blankDocument = "# "

// CloseChoice answers a pending save confirmation
type CloseChoice interface {
	closeChoice()
}

// SaveChoice saves the document to Path. An empty Path means the user
// cancelled the location step.
type SaveChoice struct {
	Path string
}

// DiscardChoice closes the document without saving
type DiscardChoice struct{}

// CancelChoice keeps the document open
type CancelChoice struct{}

func (SaveChoice) closeChoice()    {}
func (DiscardChoice) closeChoice() {}
func (CancelChoice) closeChoice()  {}

type tab struct {
	doc        domain.Document
	closeAfter bool // Pending confirmation came from a close request
}

// TabManager owns the open documents, the active tab and the
// save-before-close flow. Events are published after the internal lock
// is released, so handlers may call back into the manager.
type TabManager struct {
	mu       sync.Mutex
	store    ports.DocumentStore
	parser   ports.MarkdownParser
	bus      *events.Bus
	logger   *zap.Logger
	tabs     []*tab
	activeID string
	untitled int
	subs     []*events.Subscription
}

// NewTabManager creates a tab manager. parser may be nil, in which case no
// table of contents is published.
func NewTabManager(store ports.DocumentStore, parser ports.MarkdownParser, bus *events.Bus, log *zap.Logger) *TabManager {
	return &TabManager{
		store:    store,
		parser:   parser,
		bus:      bus,
		logger:   logger.OrNop(log).Named("tabs"),
		untitled: 1,
	}
}

// Wire subscribes the manager to the menu and file events of the bus
func (m *TabManager) Wire() {
	m.subs = append(m.subs,
		events.On(m.bus, func(events.MenuSave) error {
			return m.SaveActive()
		}),
		events.On(m.bus, func(events.NewFile) error {
			_, err := m.NewBlank()
			return err
		}),
		events.On(m.bus, func(e events.SaveFile) error {
			if e.Path == "" {
				return m.Save(e.TabID)
			}
			return m.SaveAs(e.TabID, e.Path)
		}),
	)
}

// Unwire removes the bus subscriptions made by Wire
func (m *TabManager) Unwire() {
	for _, s := range m.subs {
		s.Unsubscribe()
	}
	m.subs = nil
}

// Open opens path in a new tab, or re-activates the tab already showing it
func (m *TabManager) Open(path string) (domain.Document, error) {
	m.mu.Lock()
	if t := m.findByPath(path); t != nil {
		evs := m.activate(t.doc.ID)
		doc := t.doc
		m.mu.Unlock()
		m.publish(evs...)
		return doc, nil
	}
	m.mu.Unlock()

	content, err := m.store.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	m.mu.Lock()
	// Another caller may have opened it while the file was read
	if t := m.findByPath(path); t != nil {
		evs := m.activate(t.doc.ID)
		doc := t.doc
		m.mu.Unlock()
		m.publish(evs...)
		return doc, nil
	}
	t := &tab{doc: domain.Document{
		ID:      uuid.NewString(),
		Path:    path,
		Label:   domain.FileNameWithoutExtension(path),
		Content: content,
		State:   domain.StateClean,
	}}
	m.tabs = append(m.tabs, t)
	evs := m.activate(t.doc.ID)
	doc := t.doc
	m.mu.Unlock()

	m.logger.Info("document opened", zap.String("path", path), zap.String("tab", doc.ID))
	m.publish(evs...)
	m.publishTOC(doc)
	return doc, nil
}

// NewBlank creates an untitled document backed by a file in the backups
// directory and makes it active
func (m *TabManager) NewBlank() (domain.Document, error) {
	path, err := m.store.CreateBackup(blankDocument)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to create backup file: %w", err)
	}

	m.mu.Lock()
	t := &tab{doc: domain.Document{
		ID:      uuid.NewString(),
		Path:    path,
		Label:   fmt.Sprintf("Untitled %d", m.untitled),
		Content: blankDocument,
		IsNew:   true,
		State:   domain.StateClean,
	}}
	m.untitled++
	m.tabs = append(m.tabs, t)
	evs := m.activate(t.doc.ID)
	doc := t.doc
	m.mu.Unlock()

	m.logger.Info("blank document created", zap.String("backup", path), zap.String("tab", doc.ID))
	m.publish(evs...)
	return doc, nil
}

// Reload re-reads a clean document from disk after it was changed by
// another program. Documents with unsaved changes are left alone.
func (m *TabManager) Reload(id string) (domain.Document, error) {
	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return domain.Document{}, fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	if t.doc.Dirty || t.doc.IsNew {
		doc := t.doc
		m.mu.Unlock()
		return doc, nil
	}
	path := t.doc.Path
	m.mu.Unlock()

	content, err := m.store.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to reload %s: %w", path, err)
	}

	m.mu.Lock()
	t = m.find(id)
	if t == nil || t.doc.Dirty {
		m.mu.Unlock()
		return domain.Document{}, fmt.Errorf("tab %s changed while reloading", id)
	}
	t.doc.Content = content
	doc := t.doc
	m.mu.Unlock()

	m.publishTOC(doc)
	return doc, nil
}

// Edit replaces the content of a document and marks it dirty
func (m *TabManager) Edit(id, content string) error {
	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	if t.doc.Content == content {
		m.mu.Unlock()
		return nil
	}
	t.doc.Content = content
	t.doc.Dirty = true
	if t.doc.State == domain.StateClean {
		t.doc.State = domain.StateDirty
	}
	m.mu.Unlock()

	m.publish(events.FileChanged{TabID: id})
	return nil
}

// Save writes a document to its own path. New documents are written to
// their backup file and stay new.
func (m *TabManager) Save(id string) error {
	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	path, content := t.doc.Path, t.doc.Content
	m.mu.Unlock()

	if err := m.store.WriteFile(path, content); err != nil {
		m.logger.Error("save failed", zap.String("path", path), zap.Error(err))
		return &SaveError{Path: path, Err: err}
	}

	m.mu.Lock()
	t = m.find(id)
	if t == nil {
		m.mu.Unlock()
		return nil
	}
	if t.doc.Content == content {
		t.doc.Dirty = false
		if t.doc.State != domain.StatePendingSaveConfirmation {
			t.doc.State = domain.StateClean
		}
	}
	doc := t.doc
	m.mu.Unlock()

	m.logger.Info("document saved", zap.String("path", path))
	m.publish(events.FileSaved{TabID: id, Path: path, Content: content})
	m.publishTOC(doc)
	return nil
}

// SaveActive saves the active document. A new document cannot be saved
// in place, so a save location is requested instead.
func (m *TabManager) SaveActive() error {
	m.mu.Lock()
	t := m.find(m.activeID)
	if t == nil {
		m.mu.Unlock()
		return ErrNoActiveTab
	}
	if !t.doc.IsNew {
		id := t.doc.ID
		m.mu.Unlock()
		return m.Save(id)
	}
	if t.doc.State != domain.StatePendingSaveConfirmation {
		t.doc.State = domain.StatePendingSaveConfirmation
		t.closeAfter = false
	}
	ev := events.SaveConfirmationRequested{TabID: t.doc.ID, Label: t.doc.Label, Closing: t.closeAfter}
	m.mu.Unlock()

	m.publish(ev)
	return nil
}

// SaveAs writes a document to path and rebinds the tab to it
func (m *TabManager) SaveAs(id, path string) error {
	if err := ValidateRequired("path", path); err != nil {
		return err
	}

	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	if other := m.findByPath(path); other != nil && other.doc.ID != id {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", path, ErrAlreadyOpen)
	}
	content, wasNew, oldPath := t.doc.Content, t.doc.IsNew, t.doc.Path
	m.mu.Unlock()

	if err := m.store.WriteFile(path, content); err != nil {
		m.logger.Error("save as failed", zap.String("path", path), zap.Error(err))
		return &SaveError{Path: path, Err: err}
	}

	m.mu.Lock()
	t = m.find(id)
	if t == nil {
		m.mu.Unlock()
		return nil
	}
	t.doc.Path = path
	t.doc.Label = domain.FileNameWithoutExtension(path)
	t.doc.IsNew = false
	if t.doc.Content == content {
		t.doc.Dirty = false
	}
	if t.doc.State != domain.StatePendingSaveConfirmation {
		if t.doc.Dirty {
			t.doc.State = domain.StateDirty
		} else {
			t.doc.State = domain.StateClean
		}
	}
	doc := t.doc
	m.mu.Unlock()

	if wasNew && !domain.IsSamePath(oldPath, path) {
		if err := m.store.Remove(oldPath); err != nil {
			m.logger.Warn("failed to remove backup", zap.String("path", oldPath), zap.Error(err))
		}
	}

	m.logger.Info("document saved as", zap.String("path", path), zap.Bool("was_new", wasNew))
	m.publish(events.FileSaved{TabID: id, Path: path, Content: content, WasNew: wasNew})
	m.publishTOC(doc)
	return nil
}

// RequestClose closes a tab, or asks for confirmation first when it holds
// unsaved changes of a new document. Dirty documents with a real path are
// saved before closing. It reports whether the tab was closed.
func (m *TabManager) RequestClose(id string) (bool, error) {
	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return false, fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}

	switch {
	case t.doc.State == domain.StatePendingSaveConfirmation:
		t.closeAfter = true
		ev := events.SaveConfirmationRequested{TabID: id, Label: t.doc.Label, Closing: true}
		m.mu.Unlock()
		m.publish(ev)
		return false, nil

	case t.doc.IsNew && t.doc.Dirty:
		t.doc.State = domain.StatePendingSaveConfirmation
		t.closeAfter = true
		ev := events.SaveConfirmationRequested{TabID: id, Label: t.doc.Label, Closing: true}
		m.mu.Unlock()
		m.publish(ev)
		return false, nil

	case t.doc.Dirty:
		m.mu.Unlock()
		if err := m.Save(id); err != nil {
			return false, err
		}

	default:
		m.mu.Unlock()
	}

	m.close(id, false)
	return true, nil
}

// ResolvePending answers the confirmation requested for a tab
func (m *TabManager) ResolvePending(id string, choice CloseChoice) error {
	m.mu.Lock()
	t := m.find(id)
	if t == nil {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	if t.doc.State != domain.StatePendingSaveConfirmation {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotPending)
	}
	closeAfter := t.closeAfter
	m.mu.Unlock()

	switch c := choice.(type) {
	case SaveChoice:
		if strings.TrimSpace(c.Path) == "" {
			m.logger.Debug("save location step cancelled", zap.String("tab", id))
			m.backToDirty(id)
			return nil
		}
		if err := m.SaveAs(id, c.Path); err != nil {
			m.backToDirty(id)
			return err
		}
		if closeAfter {
			m.close(id, false)
		} else {
			m.backToDirty(id)
		}
		return nil

	case DiscardChoice:
		if !closeAfter {
			m.backToDirty(id)
			return nil
		}
		m.close(id, true)
		return nil

	case CancelChoice:
		m.backToDirty(id)
		return nil

	default:
		return &ValidationError{Field: "choice", Message: fmt.Sprintf("unknown choice %T", choice)}
	}
}

// backToDirty leaves the pending state, settling on Dirty or Clean
func (m *TabManager) backToDirty(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(id)
	if t == nil {
		return
	}
	t.closeAfter = false
	if t.doc.Dirty {
		t.doc.State = domain.StateDirty
	} else {
		t.doc.State = domain.StateClean
	}
}

// close removes a tab and selects the previous tab when it was active
func (m *TabManager) close(id string, discard bool) {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	t := m.tabs[idx]
	t.doc.State = domain.StateClosed
	m.tabs = append(m.tabs[:idx:idx], m.tabs[idx+1:]...)
	if t.doc.IsNew {
		m.untitled--
	}

	evs := []events.Event{events.TabClosed{TabID: id}}
	if m.activeID == id {
		next := ""
		if len(m.tabs) > 0 {
			next = m.tabs[max(idx-1, 0)].doc.ID
		}
		m.activeID = next
		evs = append(evs, events.ActiveTabChanged{TabID: next})
	}
	backup := ""
	if discard && t.doc.IsNew {
		backup = t.doc.Path
	}
	m.mu.Unlock()

	if backup != "" {
		if err := m.store.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("failed to remove backup", zap.String("path", backup), zap.Error(err))
		}
	}
	m.logger.Info("tab closed", zap.String("tab", id), zap.Bool("discarded", discard))
	m.publish(evs...)
}

// Activate makes a tab the active one
func (m *TabManager) Activate(id string) error {
	m.mu.Lock()
	if m.find(id) == nil {
		m.mu.Unlock()
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	evs := m.activate(id)
	m.mu.Unlock()

	m.publish(evs...)
	return nil
}

// Active returns the active document
func (m *TabManager) Active() (domain.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.find(m.activeID); t != nil {
		return t.doc, true
	}
	return domain.Document{}, false
}

// Tabs returns the open documents in tab order
func (m *TabManager) Tabs() []domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]domain.Document, len(m.tabs))
	for i, t := range m.tabs {
		docs[i] = t.doc
	}
	return docs
}

// Get returns the document of a tab
func (m *TabManager) Get(id string) (domain.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.find(id); t != nil {
		return t.doc, true
	}
	return domain.Document{}, false
}

// HasDirty reports whether any open document has unsaved changes
func (m *TabManager) HasDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tabs {
		if t.doc.Dirty {
			return true
		}
	}
	return false
}

// PathMoved rebinds an open tab after its file was renamed on disk
func (m *TabManager) PathMoved(oldPath, newPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.findByPath(oldPath); t != nil {
		t.doc.Path = newPath
		t.doc.Label = domain.FileNameWithoutExtension(newPath)
	}
}

func (m *TabManager) activate(id string) []events.Event {
	if m.activeID == id {
		return nil
	}
	m.activeID = id
	return []events.Event{events.ActiveTabChanged{TabID: id}}
}

func (m *TabManager) find(id string) *tab {
	if id == "" {
		return nil
	}
	for _, t := range m.tabs {
		if t.doc.ID == id {
			return t
		}
	}
	return nil
}

func (m *TabManager) findByPath(path string) *tab {
	for _, t := range m.tabs {
		if domain.IsSamePath(t.doc.Path, path) {
			return t
		}
	}
	return nil
}

func (m *TabManager) indexOf(id string) int {
	for i, t := range m.tabs {
		if t.doc.ID == id {
			return i
		}
	}
	return -1
}

func (m *TabManager) publish(evs ...events.Event) {
	for _, ev := range evs {
		m.bus.Publish(ev)
	}
}

func (m *TabManager) publishTOC(doc domain.Document) {
	if m.parser == nil {
		return
	}
	m.bus.Publish(events.FileTOC{TabID: doc.ID, Entries: m.parser.Headings(doc.Content)})
}
