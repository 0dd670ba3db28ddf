package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"cognitext/internal/config"
	"cognitext/internal/domain"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

const schemaVersion = "1"

const (
	defaultLimit   = 50
	resultsTTL     = 5 * time.Minute
	snippetTokens  = 12
	snippetMarkOn  = "["
	snippetMarkOff = "]"
)

// Index implements ports.SearchIndex using SQLite full-text search
type Index struct {
	db       *sql.DB
	rootPath string
	dbPath   string
	results  *cache.Cache
	logger   *zap.Logger
}

// Ensure Index implements SearchIndex
var _ ports.SearchIndex = (*Index)(nil)

// Option configures an Index
type Option func(*Index)

// WithDatabasePath stores the index at path instead of the data directory
func WithDatabasePath(path string) Option {
	return func(idx *Index) {
		idx.dbPath = path
	}
}

// WithLogger sets the logger used for skipped files
func WithLogger(l *zap.Logger) Option {
	return func(idx *Index) {
		idx.logger = l
	}
}

// NewIndex creates a new SQLite index
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		results: cache.New(resultsTTL, 2*resultsTTL),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = logger.OrNop(idx.logger).Named("index")
	return idx
}

// Open initializes the index for the given workspace root
func (idx *Index) Open(rootPath string) error {
	rootPath = config.ExpandHome(rootPath)
	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}

	idx.rootPath = rootPath
	if idx.dbPath == "" {
		idx.dbPath = databasePath(rootPath)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts4(
			title,
			content,
			tokenize=unicode61
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	idx.logger.Debug("index opened", zap.String("root", rootPath), zap.String("db", idx.dbPath))
	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	idx.results.Flush()
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, rootHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'root_path_hash'").Scan(&rootHash)

	return version != schemaVersion || rootHash != hashRootPath(idx.rootPath)
}

// databasePath returns the path for the SQLite database
func databasePath(rootPath string) string {
	return filepath.Join(config.DataDir(), hashRootPath(rootPath)+".db")
}

// hashRootPath returns a short hash of the workspace path
func hashRootPath(rootPath string) string {
	h := sha256.Sum256([]byte(rootPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version, root hash and sync time
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('root_path_hash', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?);
	`, schemaVersion, hashRootPath(idx.rootPath), strconv.FormatInt(time.Now().Unix(), 10))
	return err
}

// Search returns documents whose title or content contain every word of
// query as a prefix. Results are cached until the index changes.
func (idx *Index) Search(query string, limit int) ([]domain.SearchResult, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	key := strings.Join(terms, " ") + "|" + strconv.Itoa(limit)
	if cached, ok := idx.results.Get(key); ok {
		return slices.Clone(cached.([]domain.SearchResult)), nil
	}

	rows, err := idx.db.Query(`
		SELECT d.path, d.title, snippet(documents_fts, ?, ?, '…', -1, ?)
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.docid
		WHERE documents_fts MATCH ?
	`, snippetMarkOn, snippetMarkOff, snippetTokens, matchExpression(terms))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		r.Score = titleScore(r.Title, terms)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Title hits first, then by path for stable output
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})
	if len(results) > limit {
		results = results[:limit]
	}

	idx.results.Set(key, results, cache.DefaultExpiration)
	return slices.Clone(results), nil
}

// Reindex reads a single markdown file and replaces its index entry
func (idx *Index) Reindex(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return idx.Remove(path)
	}
	if err != nil {
		return err
	}

	doc, err := readDocument(path, info)
	if err != nil {
		return err
	}

	tx, err := idx.beginTx()
	if err != nil {
		return err
	}
	if err := tx.upsertDocument(doc); err != nil {
		tx.rollback()
		return err
	}
	if err := tx.commit(); err != nil {
		return err
	}

	idx.results.Flush()
	return nil
}

// Remove drops a document from the index
func (idx *Index) Remove(path string) error {
	tx, err := idx.beginTx()
	if err != nil {
		return err
	}
	if err := tx.deleteDocument(path); err != nil {
		tx.rollback()
		return err
	}
	if err := tx.commit(); err != nil {
		return err
	}

	idx.results.Flush()
	return nil
}

// Count returns the number of indexed documents
func (idx *Index) Count() (int, error) {
	var n int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// tokenize splits a query into lower case words
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchExpression builds an FTS query where every term must match as a
// prefix
func matchExpression(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"*`
	}
	return strings.Join(quoted, " ")
}

func titleScore(title string, terms []string) int {
	words := tokenize(title)
	score := 1
	for _, term := range terms {
		for _, w := range words {
			if strings.HasPrefix(w, term) {
				score += 10
				break
			}
		}
	}
	return score
}
