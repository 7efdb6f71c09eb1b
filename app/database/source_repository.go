package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var _ SourceRepository = (*SourceRepo)(nil)

type SourceRepo struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

func sourceSelect() sq.SelectBuilder {
	return sq.Select(
		"name", "type", "url", "enabled", "article_count", "category_count",
		"last_synced_at", "last_error", "last_error_at", "next_sync_at", "created_at", "updated_at",
	).From("sources")
}

func scanSource(row sq.RowScanner) (Source, error) {
	var (
		s                                     Source
		lastSyncedAt, lastErrorAt, nextSyncAt sql.NullTime
	)

	err := row.Scan(
		&s.Name, &s.Type, &s.URL, &s.Enabled, &s.ArticleCount, &s.CategoryCount,
		&lastSyncedAt, &s.LastError, &lastErrorAt, &nextSyncAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}

	s.LastSyncedAt = nullTimePtr(lastSyncedAt)
	s.LastErrorAt = nullTimePtr(lastErrorAt)
	s.NextSyncAt = nullTimePtr(nextSyncAt)

	return s, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (r *SourceRepo) GetSource(name string) (*Source, error) {
	row := sourceSelect().Where(sq.Eq{"name": name}).RunWith(r.db.DB).QueryRow()

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &source, nil
}

func (r *SourceRepo) GetSources() ([]Source, error) {
	rows, err := sourceSelect().OrderBy("name").RunWith(r.db.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	sources := make([]Source, 0)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

func (r *SourceRepo) GetSourceNames() ([]string, error) {
	rows, err := sq.Select("name").From("sources").OrderBy("name").RunWith(r.db.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to get source names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan source name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// UpsertSource registers a configured source or refreshes its definition.
// Changing the URL or type forces a sync on the next tick.
func (r *SourceRepo) UpsertSource(name, sourceType, url string, enabled bool) error {
	now := dbNow()

	_, err := sq.Insert("sources").
		Columns("name", "type", "url", "enabled", "created_at", "updated_at").
		Values(name, sourceType, url, enabled, now, now).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			next_sync_at = CASE WHEN sources.url <> excluded.url OR sources.type <> excluded.type THEN NULL ELSE sources.next_sync_at END,
			type = excluded.type,
			url = excluded.url,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`).
		RunWith(r.db.DB).Exec()
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

func (r *SourceRepo) DeleteSource(name string) error {
	if _, err := sq.Delete("sources").Where(sq.Eq{"name": name}).RunWith(r.db.DB).Exec(); err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return nil
}

// RecordSync stores the outcome of a successful sync and clears the last error.
func (r *SourceRepo) RecordSync(name string, articleCount, categoryCount int, nextSyncAt time.Time) error {
	now := dbNow()

	result, err := sq.Update("sources").
		Set("article_count", articleCount).
		Set("category_count", categoryCount).
		Set("last_synced_at", now).
		Set("last_error", "").
		Set("last_error_at", nil).
		Set("next_sync_at", nextSyncAt.UTC().Truncate(time.Second)).
		Set("updated_at", now).
		Where(sq.Eq{"name": name}).
		RunWith(r.db.DB).Exec()
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	return requireRow(result, name)
}

// RecordFailure keeps the previous snapshot counts and stores the error.
func (r *SourceRepo) RecordFailure(name string, message string, nextSyncAt time.Time) error {
	now := dbNow()

	result, err := sq.Update("sources").
		Set("last_error", message).
		Set("last_error_at", now).
		Set("next_sync_at", nextSyncAt.UTC().Truncate(time.Second)).
		Set("updated_at", now).
		Where(sq.Eq{"name": name}).
		RunWith(r.db.DB).Exec()
	if err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}

	return requireRow(result, name)
}

func requireRow(result sql.Result, name string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source '%s' not found", name)
	}
	return nil
}
