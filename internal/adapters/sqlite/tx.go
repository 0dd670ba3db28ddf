package sqlite

import (
	"database/sql"
	"errors"

	"cognitext/internal/domain"
)

// indexTx groups document writes so a sync is applied atomically
type indexTx struct {
	tx *sql.Tx
}

func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

// upsertDocument inserts or replaces a document and its full-text row
func (t *indexTx) upsertDocument(doc *domain.SearchDocument) error {
	var id int64
	err := t.tx.QueryRow(`SELECT id FROM documents WHERE path = ?`, doc.Path).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := t.tx.Exec(`
			INSERT INTO documents (path, title, mtime) VALUES (?, ?, ?)
		`, doc.Path, doc.Title, doc.ModTime.Unix())
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		_, err = t.tx.Exec(`
			INSERT INTO documents_fts (docid, title, content) VALUES (?, ?, ?)
		`, id, doc.Title, doc.Content)
		return err

	case err != nil:
		return err
	}

	if _, err := t.tx.Exec(`
		UPDATE documents SET title = ?, mtime = ? WHERE id = ?
	`, doc.Title, doc.ModTime.Unix(), id); err != nil {
		return err
	}
	_, err = t.tx.Exec(`
		UPDATE documents_fts SET title = ?, content = ? WHERE docid = ?
	`, doc.Title, doc.Content, id)
	return err
}

// deleteDocument removes a document by path
func (t *indexTx) deleteDocument(path string) error {
	if _, err := t.tx.Exec(`
		DELETE FROM documents_fts WHERE docid = (SELECT id FROM documents WHERE path = ?)
	`, path); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM documents WHERE path = ?`, path)
	return err
}

// clear removes every document
func (t *indexTx) clear() error {
	if _, err := t.tx.Exec(`DELETE FROM documents_fts`); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM documents`)
	return err
}

func (t *indexTx) commit() error {
	return t.tx.Commit()
}

func (t *indexTx) rollback() {
	_ = t.tx.Rollback()
}
