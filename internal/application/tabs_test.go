package application

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognitext/internal/domain"
	"cognitext/internal/events"
)

type memoryStore struct {
	mu        sync.Mutex
	files     map[string]string
	backups   int
	failWrite error
}

func newMemoryStore(files map[string]string) *memoryStore {
	if files == nil {
		files = map[string]string{}
	}
	return &memoryStore{files: files}
}

func (s *memoryStore) ReadFile(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	return content, nil
}

func (s *memoryStore) WriteFile(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.files[path] = content
	return nil
}

func (s *memoryStore) CreateBackup(content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups++
	path := fmt.Sprintf("/config/Backups/%d.md", s.backups)
	s.files[path] = content
	return path, nil
}

func (s *memoryStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(s.files, path)
	return nil
}

func (s *memoryStore) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

type headingStub struct{}

func (headingStub) Headings(source string) []domain.HeadingEntry {
	return []domain.HeadingEntry{{Key: "heading-0", Text: source, Level: 1}}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) record(bus *events.Bus, kinds ...events.Kind) {
	for _, k := range kinds {
		bus.Subscribe(k, func(e events.Event) error {
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
			return nil
		})
	}
}

func (r *recorder) ofKind(kind events.Kind) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func setupTabs(t *testing.T, files map[string]string) (*TabManager, *memoryStore, *events.Bus, *recorder) {
	t.Helper()
	store := newMemoryStore(files)
	bus := events.NewBus(nil)
	rec := &recorder{}
	rec.record(bus,
		events.KindFileSaved, events.KindFileTOC, events.KindFileChanged,
		events.KindActiveTabChanged, events.KindTabClosed, events.KindSaveConfirmationRequested,
	)
	m := NewTabManager(store, headingStub{}, bus, nil)
	m.Wire()
	t.Cleanup(m.Unwire)
	return m, store, bus, rec
}

func TestOpen_ReactivatesExistingTab(t *testing.T) {
	m, _, _, _ := setupTabs(t, map[string]string{
		"/notes/a.md": "# A",
		"/notes/b.md": "# B",
	})

	first, err := m.Open("/notes/a.md")
	require.NoError(t, err)
	_, err = m.Open("/notes/b.md")
	require.NoError(t, err)

	again, err := m.Open("/notes/sub/../a.md")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, m.Tabs(), 2)
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)
}

func TestOpen_SetsLabelAndPublishesTOC(t *testing.T) {
	m, _, _, rec := setupTabs(t, map[string]string{"/notes/Plan.v2.md": "# Plan"})

	doc, err := m.Open("/notes/Plan.v2.md")
	require.NoError(t, err)

	assert.Equal(t, "Plan.v2", doc.Label)
	assert.Equal(t, domain.StateClean, doc.State)
	assert.False(t, doc.IsNew)
	require.Len(t, rec.ofKind(events.KindFileTOC), 1)
	assert.Len(t, rec.ofKind(events.KindActiveTabChanged), 1)
}

func TestOpen_MissingFile(t *testing.T) {
	m, _, _, _ := setupTabs(t, nil)

	_, err := m.Open("/notes/missing.md")

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, m.Tabs())
}

func TestNewBlank_LabelsAndBackup(t *testing.T) {
	m, store, _, _ := setupTabs(t, nil)

	d1, err := m.NewBlank()
	require.NoError(t, err)
	d2, err := m.NewBlank()
	require.NoError(t, err)

	assert.Equal(t, "Untitled 1", d1.Label)
	assert.Equal(t, "Untitled 2", d2.Label)
	assert.True(t, d1.IsNew)
	assert.Equal(t, "# ", d1.Content)
	assert.True(t, store.has(d1.Path))

	closed, err := m.RequestClose(d2.ID)
	require.NoError(t, err)
	require.True(t, closed)

	d3, err := m.NewBlank()
	require.NoError(t, err)
	assert.Equal(t, "Untitled 2", d3.Label, "closing a new tab frees its number")
}

func TestEdit_MarksDirty(t *testing.T) {
	m, _, _, rec := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	doc, _ := m.Open("/notes/a.md")

	require.NoError(t, m.Edit(doc.ID, "# A"))
	assert.Empty(t, rec.ofKind(events.KindFileChanged), "unchanged content is a no-op")

	require.NoError(t, m.Edit(doc.ID, "# A changed"))
	got, _ := m.Get(doc.ID)
	assert.True(t, got.Dirty)
	assert.Equal(t, domain.StateDirty, got.State)
	assert.Len(t, rec.ofKind(events.KindFileChanged), 1)

	assert.ErrorIs(t, m.Edit("nope", "x"), ErrNotFound)
}

func TestReload(t *testing.T) {
	m, store, _, rec := setupTabs(t, map[string]string{
		"/notes/a.md": "# A",
		"/notes/b.md": "# B",
	})
	a, _ := m.Open("/notes/a.md")
	b, _ := m.Open("/notes/b.md")
	require.NoError(t, m.Edit(b.ID, "# B local"))

	require.NoError(t, store.WriteFile("/notes/a.md", "# A outside"))
	require.NoError(t, store.WriteFile("/notes/b.md", "# B outside"))

	got, err := m.Reload(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "# A outside", got.Content)
	assert.False(t, got.Dirty)
	assert.Len(t, rec.ofKind(events.KindFileTOC), 3, "two opens and one reload")

	got, err = m.Reload(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "# B local", got.Content, "unsaved changes win")

	_, err = m.Reload("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_WritesAndCleans(t *testing.T) {
	m, store, _, rec := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	doc, _ := m.Open("/notes/a.md")
	require.NoError(t, m.Edit(doc.ID, "# A2"))

	require.NoError(t, m.Save(doc.ID))

	content, _ := store.ReadFile("/notes/a.md")
	assert.Equal(t, "# A2", content)
	got, _ := m.Get(doc.ID)
	assert.False(t, got.Dirty)
	assert.Equal(t, domain.StateClean, got.State)

	saved := rec.ofKind(events.KindFileSaved)
	require.Len(t, saved, 1)
	assert.Equal(t, events.FileSaved{TabID: doc.ID, Path: "/notes/a.md", Content: "# A2"}, saved[0])
}

func TestSave_WriteFailureKeepsDirty(t *testing.T) {
	m, store, _, _ := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	doc, _ := m.Open("/notes/a.md")
	require.NoError(t, m.Edit(doc.ID, "# A2"))
	store.failWrite = errors.New("disk full")

	err := m.Save(doc.ID)

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "/notes/a.md", saveErr.Path)
	got, _ := m.Get(doc.ID)
	assert.True(t, got.Dirty)
}

func TestSaveAs_RebindsNewDocument(t *testing.T) {
	m, store, _, rec := setupTabs(t, nil)
	doc, _ := m.NewBlank()
	require.NoError(t, m.Edit(doc.ID, "# Ideas"))

	require.NoError(t, m.SaveAs(doc.ID, "/notes/Ideas.md"))

	got, _ := m.Get(doc.ID)
	assert.Equal(t, "/notes/Ideas.md", got.Path)
	assert.Equal(t, "Ideas", got.Label)
	assert.False(t, got.IsNew)
	assert.Equal(t, domain.StateClean, got.State)
	assert.False(t, store.has(doc.Path), "backup is removed once saved elsewhere")

	saved := rec.ofKind(events.KindFileSaved)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].(events.FileSaved).WasNew)
}

func TestSaveAs_RefusesPathOpenElsewhere(t *testing.T) {
	m, _, _, _ := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	_, _ = m.Open("/notes/a.md")
	doc, _ := m.NewBlank()

	err := m.SaveAs(doc.ID, "/notes/a.md")

	assert.ErrorIs(t, err, ErrAlreadyOpen)
	assert.Len(t, m.Tabs(), 2)
}

func TestRequestClose_NewDirtyNeedsConfirmation(t *testing.T) {
	m, _, _, rec := setupTabs(t, nil)
	doc, _ := m.NewBlank()
	require.NoError(t, m.Edit(doc.ID, "# draft"))

	closed, err := m.RequestClose(doc.ID)

	require.NoError(t, err)
	assert.False(t, closed)
	got, ok := m.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatePendingSaveConfirmation, got.State)

	reqs := rec.ofKind(events.KindSaveConfirmationRequested)
	require.Len(t, reqs, 1)
	assert.Equal(t, events.SaveConfirmationRequested{TabID: doc.ID, Label: "Untitled 1", Closing: true}, reqs[0])
}

func TestRequestClose_CleanNewClosesImmediately(t *testing.T) {
	m, _, _, _ := setupTabs(t, nil)
	doc, _ := m.NewBlank()

	closed, err := m.RequestClose(doc.ID)

	require.NoError(t, err)
	assert.True(t, closed)
	assert.Empty(t, m.Tabs())
}

func TestRequestClose_DirtyExistingAutoSaves(t *testing.T) {
	m, store, _, _ := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	doc, _ := m.Open("/notes/a.md")
	require.NoError(t, m.Edit(doc.ID, "# A2"))

	closed, err := m.RequestClose(doc.ID)

	require.NoError(t, err)
	assert.True(t, closed)
	content, _ := store.ReadFile("/notes/a.md")
	assert.Equal(t, "# A2", content)
}

func TestResolvePending(t *testing.T) {
	tests := []struct {
		name       string
		choice     CloseChoice
		wantClosed bool
		wantState  domain.DocState
		wantBackup bool
	}{
		{"save to path", SaveChoice{Path: "/notes/saved.md"}, true, domain.StateClosed, false},
		{"save location cancelled", SaveChoice{}, false, domain.StateDirty, true},
		{"discard", DiscardChoice{}, true, domain.StateClosed, false},
		{"cancel", CancelChoice{}, false, domain.StateDirty, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, _, _ := setupTabs(t, nil)
			doc, _ := m.NewBlank()
			require.NoError(t, m.Edit(doc.ID, "# draft"))
			_, err := m.RequestClose(doc.ID)
			require.NoError(t, err)

			require.NoError(t, m.ResolvePending(doc.ID, tt.choice))

			got, open := m.Get(doc.ID)
			assert.Equal(t, !tt.wantClosed, open)
			if open {
				assert.Equal(t, tt.wantState, got.State)
			}
			assert.Equal(t, tt.wantBackup, store.has(doc.Path))
		})
	}
}

func TestResolvePending_NotPending(t *testing.T) {
	m, _, _, _ := setupTabs(t, map[string]string{"/notes/a.md": "# A"})
	doc, _ := m.Open("/notes/a.md")

	assert.ErrorIs(t, m.ResolvePending(doc.ID, CancelChoice{}), ErrNotPending)
}

func TestClose_SelectsPreviousTab(t *testing.T) {
	files := map[string]string{"/a.md": "a", "/b.md": "b", "/c.md": "c"}

	t.Run("middle active tab", func(t *testing.T) {
		m, _, _, _ := setupTabs(t, files)
		a, _ := m.Open("/a.md")
		b, _ := m.Open("/b.md")
		_, _ = m.Open("/c.md")
		require.NoError(t, m.Activate(b.ID))

		_, err := m.RequestClose(b.ID)
		require.NoError(t, err)

		active, _ := m.Active()
		assert.Equal(t, a.ID, active.ID)
	})

	t.Run("first active tab", func(t *testing.T) {
		m, _, _, _ := setupTabs(t, files)
		a, _ := m.Open("/a.md")
		b, _ := m.Open("/b.md")
		require.NoError(t, m.Activate(a.ID))

		_, err := m.RequestClose(a.ID)
		require.NoError(t, err)

		active, _ := m.Active()
		assert.Equal(t, b.ID, active.ID)
	})

	t.Run("inactive tab keeps active", func(t *testing.T) {
		m, _, _, _ := setupTabs(t, files)
		a, _ := m.Open("/a.md")
		c, _ := m.Open("/c.md")

		_, err := m.RequestClose(a.ID)
		require.NoError(t, err)

		active, _ := m.Active()
		assert.Equal(t, c.ID, active.ID)
	})

	t.Run("last tab leaves none", func(t *testing.T) {
		m, _, _, rec := setupTabs(t, files)
		a, _ := m.Open("/a.md")

		_, err := m.RequestClose(a.ID)
		require.NoError(t, err)

		_, ok := m.Active()
		assert.False(t, ok)
		changes := rec.ofKind(events.KindActiveTabChanged)
		assert.Equal(t, events.ActiveTabChanged{TabID: ""}, changes[len(changes)-1])
		assert.Len(t, rec.ofKind(events.KindTabClosed), 1)
	})
}

func TestBusWiring(t *testing.T) {
	m, store, bus, rec := setupTabs(t, map[string]string{"/notes/a.md": "# A"})

	bus.Publish(events.NewFile{})
	require.Len(t, m.Tabs(), 1)
	blank, _ := m.Active()

	bus.Publish(events.MenuSave{})
	got, _ := m.Get(blank.ID)
	assert.Equal(t, domain.StatePendingSaveConfirmation, got.State)
	reqs := rec.ofKind(events.KindSaveConfirmationRequested)
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].(events.SaveConfirmationRequested).Closing)

	require.NoError(t, m.ResolvePending(blank.ID, SaveChoice{Path: "/notes/new.md"}))
	got, ok := m.Get(blank.ID)
	require.True(t, ok, "saving from the menu keeps the tab open")
	assert.Equal(t, domain.StateClean, got.State)

	doc, _ := m.Open("/notes/a.md")
	require.NoError(t, m.Edit(doc.ID, "# A menu"))
	bus.Publish(events.MenuSave{})
	content, _ := store.ReadFile("/notes/a.md")
	assert.Equal(t, "# A menu", content)

	require.NoError(t, m.Edit(doc.ID, "# A event"))
	bus.Publish(events.SaveFile{TabID: doc.ID})
	content, _ = store.ReadFile("/notes/a.md")
	assert.Equal(t, "# A event", content)
}

func TestSaveActive_NoTab(t *testing.T) {
	m, _, _, _ := setupTabs(t, nil)
	assert.ErrorIs(t, m.SaveActive(), ErrNoActiveTab)
}

func TestTabs_NeverDuplicatePaths(t *testing.T) {
	files := map[string]string{"/a.md": "a", "/b.md": "b"}
	m, _, _, _ := setupTabs(t, files)

	ops := []string{"/a.md", "/b.md", "/./a.md", "/b.md", "/x/../a.md"}
	for _, p := range ops {
		_, err := m.Open(p)
		require.NoError(t, err)
	}
	first := m.Tabs()[0]
	_, err := m.RequestClose(first.ID)
	require.NoError(t, err)
	_, err = m.Open("/a.md")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, d := range m.Tabs() {
		key := domain.NormalizePath(d.Path)
		assert.False(t, seen[key], "duplicate tab for %s", key)
		seen[key] = true
	}
	assert.Len(t, m.Tabs(), 2)
}
