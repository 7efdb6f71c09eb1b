package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/lysyi3m/newsdesk/app/curation"
)

// insertBatchSize keeps multi-row inserts below SQLite's bound parameter limit.
const insertBatchSize = 50

var _ ArticleRepository = (*ArticleRepo)(nil)

type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// ReplaceSnapshot swaps the stored articles and categories of one source in a
// single transaction. Readers see either the old or the new snapshot.
func (r *ArticleRepo) ReplaceSnapshot(source string, articles []curation.Article, categories []curation.Category) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSnapshot(tx, source); err != nil {
		return err
	}

	for start := 0; start < len(articles); start += insertBatchSize {
		end := min(start+insertBatchSize, len(articles))

		insert := sq.Insert("articles").
			Columns("source", "position", "id", "title", "content", "category", "author", "author_id", "image", "created_at", "link")
		for i, a := range articles[start:end] {
			insert = insert.Values(source, start+i, a.ID, a.Title, a.Content, a.Category, a.Author, a.AuthorID, a.Image, a.CreatedAt, a.Link)
		}

		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert articles: %w", err)
		}
	}

	for start := 0; start < len(categories); start += insertBatchSize {
		end := min(start+insertBatchSize, len(categories))

		insert := sq.Insert("categories").Columns("source", "position", "id", "name")
		for i, c := range categories[start:end] {
			insert = insert.Values(source, start+i, c.ID, c.Name)
		}

		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert categories: %w", err)
		}
	}

	// extracted bodies of articles that left the snapshot are dropped
	_, err = sq.Delete("extracted_content").
		Where(sq.Eq{"source": source}).
		Where("article_id NOT IN (SELECT id FROM articles WHERE source = ?)", source).
		RunWith(tx).Exec()
	if err != nil {
		return fmt.Errorf("failed to prune extracted content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

func (r *ArticleRepo) DeleteSnapshot(source string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSnapshot(tx, source); err != nil {
		return err
	}

	if _, err := sq.Delete("extracted_content").Where(sq.Eq{"source": source}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to delete extracted content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot deletion: %w", err)
	}
	return nil
}

func deleteSnapshot(tx *sql.Tx, source string) error {
	if _, err := sq.Delete("articles").Where(sq.Eq{"source": source}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}
	if _, err := sq.Delete("categories").Where(sq.Eq{"source": source}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}

// articleSelect fills empty content from a successful extraction.
func articleSelect() sq.SelectBuilder {
	return sq.Select(
		"a.id", "a.title",
		"CASE WHEN a.content = '' AND e.status = 'success' THEN e.content ELSE a.content END",
		"a.category", "a.author", "a.author_id", "a.image", "a.created_at", "a.source", "a.link",
	).
		From("articles a").
		LeftJoin("extracted_content e ON e.source = a.source AND e.article_id = a.id").
		OrderBy("a.source", "a.position")
}

func scanArticle(row sq.RowScanner) (curation.Article, error) {
	var a curation.Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.Author, &a.AuthorID, &a.Image, &a.CreatedAt, &a.Source, &a.Link)
	return a, err
}

// GetArticles returns every stored article ordered by source then upstream position.
func (r *ArticleRepo) GetArticles() ([]curation.Article, error) {
	rows, err := articleSelect().RunWith(r.db.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	articles := make([]curation.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// GetArticle returns the stored article with the given id, or nil. Ids are
// only unique within a source; with an empty source the first match in
// (source, position) order wins.
func (r *ArticleRepo) GetArticle(source, id string) (*curation.Article, error) {
	query := articleSelect().Where(sq.Eq{"a.id": id})
	if source != "" {
		query = query.Where(sq.Eq{"a.source": source})
	}

	row := query.Limit(1).RunWith(r.db.DB).QueryRow()

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return &article, nil
}

func (r *ArticleRepo) GetCategories() ([]curation.Category, error) {
	rows, err := sq.Select("id", "name").
		From("categories").
		OrderBy("source", "position").
		RunWith(r.db.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	categories := make([]curation.Category, 0)
	for rows.Next() {
		var c curation.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := sq.Select("COUNT(*)").From("articles").RunWith(r.db.DB).QueryRow().Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetArticlesForExtraction lists articles of a source whose content is empty
// and whose page has not been extracted yet (or failed fewer than
// MaxExtractionAttempts times).
func (r *ArticleRepo) GetArticlesForExtraction(source string, limit int) ([]ArticleForExtraction, error) {
	query := sq.Select("a.id", "a.link").
		From("articles a").
		LeftJoin("extracted_content e ON e.source = a.source AND e.article_id = a.id").
		Where(sq.Eq{"a.source": source, "a.content": ""}).
		Where(sq.NotEq{"a.link": ""}).
		Where(sq.Or{
			sq.Expr("e.article_id IS NULL"),
			sq.And{sq.Eq{"e.status": string(ExtractionFailed)}, sq.Lt{"e.attempts": MaxExtractionAttempts}},
		}).
		OrderBy("a.position")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(r.db.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for extraction: %w", err)
	}
	defer rows.Close()

	var items []ArticleForExtraction
	for rows.Next() {
		var item ArticleForExtraction
		if err := rows.Scan(&item.ID, &item.Link); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction rows: %w", err)
	}

	return items, nil
}

func (r *ArticleRepo) SaveExtraction(source, articleID string, status ExtractionStatus, content, errorMsg string) error {
	now := time.Now().UTC().Truncate(time.Second)

	_, err := sq.Insert("extracted_content").
		Columns("source", "article_id", "status", "content", "error", "attempts", "extracted_at").
		Values(source, articleID, string(status), content, errorMsg, 1, now).
		Suffix(`ON CONFLICT (source, article_id) DO UPDATE SET
			status = excluded.status,
			content = excluded.content,
			error = excluded.error,
			attempts = extracted_content.attempts + 1,
			extracted_at = excluded.extracted_at`).
		RunWith(r.db.DB).Exec()
	if err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}

	return nil
}
