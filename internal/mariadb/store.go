// Package mariadb implements a candidate source over a MySQL/MariaDB
// table that carries precomputed normalized-name and compact-key columns.
// The store is read-only: it probes the schema once at construction and
// afterwards only issues SELECTs.
package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	gocache "github.com/patrickmn/go-cache"

	"namecheck/matcher"
)

// Options names the table and columns the store queries. Zero values fall
// back to the reference schema.
type Options struct {
	Table      string
	IDColumn   string
	NameColumn string
	NormColumn string
	KeyColumn  string
	// DeletedColumn, when set, soft-delete-filters every query with
	// (<col> IS NULL OR <col> = 0). Leave empty for tables without the flag.
	DeletedColumn string
	// ExactCacheTTL enables memoization of exact lookups. Zero disables it.
	ExactCacheTTL time.Duration
	// QueryTimeout bounds each statement when set. Zero leaves deadlines
	// to the caller's context.
	QueryTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.Table == "" {
		o.Table = "T_WC_T2S_PERSON"
	}
	if o.IDColumn == "" {
		o.IDColumn = "ID_PERSON"
	}
	if o.NameColumn == "" {
		o.NameColumn = "PERSON_NAME"
	}
	if o.NormColumn == "" {
		o.NormColumn = "PERSON_NAME_NORM"
	}
	if o.KeyColumn == "" {
		o.KeyColumn = "PERSON_NAME_KEY"
	}
}

// Store is a matcher.CandidateSource backed by one directory table. It
// also implements matcher.FullTextSource and reports the capability only
// when a FULLTEXT index actually exists on the normalized column.
type Store struct {
	db         *sql.DB
	opts       Options
	fulltext   bool
	exactCache *gocache.Cache

	selectCols string
	deleted    string
}

// Open connects with the given DSN and verifies the schema. The returned
// error is a *matcher.ConfigError when the table lacks the generated
// columns, a *matcher.StoreError for connectivity failures.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &matcher.StoreError{Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &matcher.StoreError{Op: "ping", Err: err}
	}
	store, err := New(ctx, db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New builds a store over an existing database handle (the handle's
// lifecycle stays with the caller when constructed this way via tests;
// stores built through Open own it). The schema probe runs here.
func New(ctx context.Context, db *sql.DB, opts Options) (*Store, error) {
	opts.applyDefaults()
	s := &Store{db: db, opts: opts}
	s.selectCols = fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		opts.IDColumn, opts.NameColumn, opts.NormColumn, opts.Table)
	if opts.DeletedColumn != "" {
		s.deleted = fmt.Sprintf(" AND (%s IS NULL OR %s = 0)", opts.DeletedColumn, opts.DeletedColumn)
	}
	if err := s.verifyColumns(ctx); err != nil {
		return nil, err
	}
	fulltext, err := s.probeFullText(ctx)
	if err != nil {
		return nil, err
	}
	s.fulltext = fulltext
	if opts.ExactCacheTTL > 0 {
		s.exactCache = gocache.New(opts.ExactCacheTTL, 2*opts.ExactCacheTTL)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Capabilities implements matcher.CapabilityReporter from the probe taken
// at construction.
func (s *Store) Capabilities(context.Context) (matcher.Capabilities, error) {
	return matcher.Capabilities{FullText: s.fulltext}, nil
}

func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.QueryTimeout)
	}
	return ctx, func() {}
}

// verifyColumns checks that the generated comparison columns exist; the
// matcher is useless against a table that was never backfilled.
func (s *Store) verifyColumns(ctx context.Context) error {
	const q = `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME IN (?, ?)`
	var count int
	if err := s.db.QueryRowContext(ctx, q, s.opts.Table, s.opts.NormColumn, s.opts.KeyColumn).Scan(&count); err != nil {
		return &matcher.StoreError{Op: "schema probe", Err: err}
	}
	if count != 2 {
		return &matcher.ConfigError{Reason: fmt.Sprintf(
			"table %s is missing generated columns %s/%s",
			s.opts.Table, s.opts.NormColumn, s.opts.KeyColumn)}
	}
	return nil
}

// probeFullText reports whether a FULLTEXT index covers the normalized
// column.
func (s *Store) probeFullText(ctx context.Context) (bool, error) {
	q := fmt.Sprintf("SHOW INDEX FROM %s WHERE Index_type = 'FULLTEXT' AND Column_name = '%s'",
		s.opts.Table, s.opts.NormColumn)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return false, &matcher.StoreError{Op: "fulltext probe", Err: err}
	}
	defer rows.Close()
	has := rows.Next()
	if err := rows.Err(); err != nil {
		return false, &matcher.StoreError{Op: "fulltext probe", Err: err}
	}
	return has, nil
}

// ExactLookup returns the directory entry whose normalized name equals the
// query, or nil. Hits are memoized when the cache is enabled; directory
// rows are immutable from the matcher's point of view, so a short TTL only
// bounds staleness after out-of-band edits.
func (s *Store) ExactLookup(ctx context.Context, normalizedText string) (*matcher.CandidateRecord, error) {
	if s.exactCache != nil {
		if v, ok := s.exactCache.Get(normalizedText); ok {
			rec := v.(matcher.CandidateRecord)
			return &rec, nil
		}
	}
	q := fmt.Sprintf("%s WHERE %s = ?%s LIMIT 1", s.selectCols, s.opts.NormColumn, s.deleted)
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	var rec matcher.CandidateRecord
	err := s.db.QueryRowContext(qctx, q, normalizedText).Scan(&rec.ID, &rec.DisplayName, &rec.NormalizedName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &matcher.StoreError{Op: "exact lookup", Err: err}
	}
	if s.exactCache != nil {
		s.exactCache.Set(normalizedText, rec, gocache.DefaultExpiration)
	}
	return &rec, nil
}

// PrefixLookup returns entries whose compact key starts with prefix.
func (s *Store) PrefixLookup(ctx context.Context, prefix string, limit int) ([]matcher.CandidateRecord, error) {
	q := fmt.Sprintf("%s WHERE %s LIKE CONCAT(?, '%%')%s LIMIT ?",
		s.selectCols, s.opts.KeyColumn, s.deleted)
	return s.queryRecords(ctx, "prefix lookup", q, prefix, limit)
}

// FullTextLookup runs the boolean-mode query against the normalized
// column. The matcher's boolean IR matches MariaDB syntax directly.
func (s *Store) FullTextLookup(ctx context.Context, booleanQuery string, limit int) ([]matcher.CandidateRecord, error) {
	q := fmt.Sprintf("%s WHERE MATCH(%s) AGAINST (? IN BOOLEAN MODE)%s LIMIT ?",
		s.selectCols, s.opts.NormColumn, s.deleted)
	return s.queryRecords(ctx, "full-text lookup", q, booleanQuery, limit)
}

// SubstringLookup returns entries whose normalized name contains token.
func (s *Store) SubstringLookup(ctx context.Context, token string, limit int) ([]matcher.CandidateRecord, error) {
	q := fmt.Sprintf("%s WHERE %s LIKE CONCAT('%%', ?, '%%')%s LIMIT ?",
		s.selectCols, s.opts.NormColumn, s.deleted)
	return s.queryRecords(ctx, "substring lookup", q, token, limit)
}

func (s *Store) queryRecords(ctx context.Context, op, query string, arg any, limit int) ([]matcher.CandidateRecord, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(qctx, query, arg, limit)
	if err != nil {
		return nil, &matcher.StoreError{Op: op, Err: err}
	}
	defer rows.Close()
	var out []matcher.CandidateRecord
	for rows.Next() {
		var rec matcher.CandidateRecord
		if err := rows.Scan(&rec.ID, &rec.DisplayName, &rec.NormalizedName); err != nil {
			return nil, &matcher.StoreError{Op: op, Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &matcher.StoreError{Op: op, Err: err}
	}
	return out, nil
}
