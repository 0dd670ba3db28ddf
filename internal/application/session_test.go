package application

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognitext/internal/adapters/filesystem"
	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/ports"
)

type spyIndex struct {
	mu        sync.Mutex
	opened    string
	rebuild   bool
	full      int
	synced    int
	reindexed []string
	closed    bool
}

func (s *spyIndex) Open(root string) error { s.opened = root; return nil }
func (s *spyIndex) Close() error           { s.closed = true; return nil }
func (s *spyIndex) IndexDirectory(ctx context.Context) (*domain.SyncStats, error) {
	s.full++
	return &domain.SyncStats{Added: 1}, nil
}
func (s *spyIndex) SyncIncremental(ctx context.Context) (*domain.SyncStats, error) {
	s.synced++
	return &domain.SyncStats{}, nil
}
func (s *spyIndex) NeedsFullRebuild() bool { return s.rebuild }
func (s *spyIndex) Search(query string, limit int) ([]domain.SearchResult, error) {
	return nil, nil
}
func (s *spyIndex) Reindex(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reindexed = append(s.reindexed, path)
	return nil
}
func (s *spyIndex) Remove(path string) error { return nil }

type namedProvider struct {
	scriptedProvider
	config domain.ChatSettings
}

func setupSession(t *testing.T, index *spyIndex) (*Session, string, *[]domain.ChatSettings) {
	t.Helper()

	root := t.TempDir()
	repo := filesystem.NewRepository(root, filepath.Join(t.TempDir(), "Backups"))
	var built []domain.ChatSettings

	cfg := SessionConfig{
		SettingsStore: &memorySettingsStore{},
		Repo:          repo,
		Parser:        headingStub{},
		NewProvider: func(c domain.ChatSettings) ports.ChatProvider {
			built = append(built, c)
			return &namedProvider{scriptedProvider: scriptedProvider{available: true}, config: c}
		},
	}
	if index != nil {
		cfg.Index = index
	}

	s := NewSession(cfg)
	t.Cleanup(func() { s.Close() })
	return s, root, &built
}

func TestSession_StartRebuildsIndex(t *testing.T) {
	index := &spyIndex{rebuild: true}
	s, root, built := setupSession(t, index)

	stats, err := s.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Added)
	assert.Equal(t, root, index.opened)
	assert.Equal(t, 1, index.full)
	assert.Zero(t, index.synced)
	require.Len(t, *built, 1)
	assert.Equal(t, domain.ProviderDeepSeek, (*built)[0].Provider)
}

func TestSession_StartSyncsIncrementally(t *testing.T) {
	index := &spyIndex{}
	s, _, _ := setupSession(t, index)

	_, err := s.Start(context.Background())

	require.NoError(t, err)
	assert.Zero(t, index.full)
	assert.Equal(t, 1, index.synced)
}

func TestSession_SavedFileIsReindexed(t *testing.T) {
	index := &spyIndex{}
	s, root, _ := setupSession(t, index)
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	path := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("# A"), 0o644))
	doc, err := s.Tabs.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Tabs.Edit(doc.ID, "# A\nmore"))

	s.Bus.Publish(events.MenuSave{})

	assert.Equal(t, []string{path}, index.reindexed)
}

func TestSession_SaveOutsideWorkspaceIsNotIndexed(t *testing.T) {
	index := &spyIndex{}
	s, _, _ := setupSession(t, index)
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	doc, err := s.Tabs.NewBlank()
	require.NoError(t, err)
	require.NoError(t, s.Tabs.Edit(doc.ID, "# zebracorn"))

	// The backup of a new document stays out of the index
	require.NoError(t, s.Tabs.Save(doc.ID))

	elsewhere := filepath.Join(t.TempDir(), "elsewhere.md")
	require.NoError(t, s.Tabs.SaveAs(doc.ID, elsewhere))

	assert.Empty(t, index.reindexed)
}

func TestSession_ChatProviderFollowsSettings(t *testing.T) {
	s, _, built := setupSession(t, nil)
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	// Unrelated change keeps the provider
	s.Settings.Update(func(st *domain.Settings) { st.ColorTheme = "dark" })
	assert.Len(t, *built, 1)

	s.Settings.Update(func(st *domain.Settings) { st.Chat.Model = "deepseek-reasoner" })
	require.Len(t, *built, 2)
	assert.Equal(t, "deepseek-reasoner", (*built)[1].Model)
}

func TestSession_ExternalChanges(t *testing.T) {
	index := &spyIndex{}
	s, root, _ := setupSession(t, index)
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	var changed []string
	events.On(s.Bus, func(e events.WorkspaceChanged) error {
		changed = append(changed, e.Path)
		return nil
	})

	note := filepath.Join(root, "b.md")
	s.HandleExternalChange(context.Background(), note)
	s.HandleExternalChange(context.Background(), filepath.Join(root, "folder"))
	s.HandleExternalChange(context.Background(), "/config/settings.json")

	assert.Equal(t, []string{note}, index.reindexed)
	assert.Equal(t, 2, index.synced) // Start plus the folder change
	assert.Equal(t, []string{note, filepath.Join(root, "folder")}, changed)

	s.HandleExternalChange(context.Background(), filepath.Join(t.TempDir(), "c.md"))
	assert.Equal(t, []string{note}, index.reindexed)
	assert.Len(t, changed, 2)
}

func TestResolveWorkspace(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.ActionOnStartup.Dir = "/notes"

	assert.Equal(t, "/override", ResolveWorkspace("/override", settings))
	assert.Equal(t, "/notes", ResolveWorkspace("", settings))

	settings.ActionOnStartup.Action = domain.StartupBlankFile
	wd, _ := os.Getwd()
	assert.Equal(t, wd, ResolveWorkspace("", settings))
}
