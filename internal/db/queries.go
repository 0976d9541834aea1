package db

import (
	"database/sql"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// InsertCapture stores the records produced for one capture atomically:
// either the primary entry plus its children, or the split entries from an
// env-var block. searchText is the decoded primary content indexed for
// full-text search (split entries index their own content).
func InsertCapture(database *sql.DB, primary *clip.Entry, children []clip.Entry, splits []clip.Entry, searchText string) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if len(splits) > 0 {
		for i := range splits {
			if err := insertTx(tx, &splits[i], splits[i].Content); err != nil {
				return err
			}
		}
	} else {
		if searchText == "" {
			searchText = primary.Content
		}
		if err := insertTx(tx, primary, searchText); err != nil {
			return err
		}
		for i := range children {
			if err := insertTx(tx, &children[i], children[i].Content); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// insertTx inserts one entry and its FTS row inside a transaction.
func insertTx(tx *sql.Tx, e *clip.Entry, searchText string) error {
	parent := toNullString(e.ParentEntryID)
	sourceApp := sql.NullString{String: e.SourceApp, Valid: e.SourceApp != ""}
	meta := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}

	_, err := tx.Exec(`
		INSERT INTO entries (id, content, type, confidence, source_app, parent_entry_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Content, string(e.Type), e.Confidence, sourceApp, parent, meta, e.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewInvalidRequest("duplicate entry id: " + e.ID)
		}
		return errors.NewInternal(err)
	}

	// Image and screenshot entries carry no text; keep them out of the
	// full-text index.
	if e.Type.IsBinary() {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO entries_fts (id, text) VALUES (?, ?)`, e.ID, searchText); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const entryColumns = `id, content, type, confidence, source_app, parent_entry_id, metadata, created_at`

// GetByID retrieves an entry by its ULID.
func GetByID(database *sql.DB, id string) (*clip.Entry, error) {
	row := database.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// GetChildren retrieves the child entries extracted from a parent entry,
// in insertion order.
func GetChildren(database *sql.DB, parentID string) ([]clip.Entry, error) {
	rows, err := database.Query(
		`SELECT `+entryColumns+` FROM entries WHERE parent_entry_id = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListFilter narrows List results.
type ListFilter struct {
	Type     clip.ContentType // empty: all types
	TopLevel bool             // exclude child entries
	Limit    int
	Offset   int
}

// List retrieves entries newest-first.
func List(database *sql.DB, filter ListFilter) ([]clip.Entry, int, error) {
	where := []string{"1=1"}
	var args []any
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.TopLevel {
		where = append(where, "parent_entry_id IS NULL")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := database.QueryRow(`SELECT COUNT(*) FROM entries WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + entryColumns + ` FROM entries WHERE ` + cond +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := database.Query(query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// MaxSearchQueryChars bounds full-text query length.
const MaxSearchQueryChars = 500

// Search runs a full-text query over the indexed (decoded) content,
// ranked by BM25 relevance.
func Search(database *sql.DB, query string, limit, offset int) ([]clip.Entry, error) {
	rows, err := database.Query(`
		SELECT `+prefixedEntryColumns("e")+`
		FROM entries_fts f
		JOIN entries e ON e.id = f.id
		WHERE entries_fts MATCH ?
		ORDER BY bm25(entries_fts)
		LIMIT ? OFFSET ?`,
		ftsQuote(query), limit, offset,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ftsQuote wraps each term in double quotes so user input is treated as
// plain terms, not FTS5 query syntax.
func ftsQuote(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func prefixedEntryColumns(alias string) string {
	cols := strings.Split(entryColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// Delete removes an entry and its FTS row. Children are left in place;
// deletion policy for extracted children belongs to the caller.
func Delete(database *sql.DB, id string) error {
	res, err := database.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}
	if _, err := database.Exec(`DELETE FROM entries_fts WHERE id = ?`, id); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Purge removes entries older than the cutoff (Unix seconds), returning
// how many were removed.
func Purge(database *sql.DB, cutoff int64) (int, error) {
	res, err := database.Exec(`DELETE FROM entries WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	if _, err := database.Exec(
		`DELETE FROM entries_fts WHERE id NOT IN (SELECT id FROM entries)`); err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(affected), nil
}

// scanner abstracts sql.Row and sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*clip.Entry, error) {
	var e clip.Entry
	var typ string
	var sourceApp, parent, meta sql.NullString
	if err := s.Scan(&e.ID, &e.Content, &typ, &e.Confidence, &sourceApp, &parent, &meta, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = clip.ContentType(typ)
	e.SourceApp = sourceApp.String
	e.Metadata = meta.String
	if parent.Valid {
		p := parent.String
		e.ParentEntryID = &p
	}
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]clip.Entry, error) {
	var entries []clip.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
