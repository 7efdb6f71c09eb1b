package curation

// Article is a single published news item as delivered by an upstream source.
// The curation code treats it as read-only.
type Article struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	AuthorID  string `json:"author_id"` // empty when the author is unknown
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"created_at"`

	// Ingestion metadata, ignored by the curation functions
	Source string `json:"source,omitempty"`
	Link   string `json:"link,omitempty"`
}

// Category is a named grouping record. Name may carry stray line breaks
// from the upstream editor; use CleanCategory before display.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AllCategories is the category selector that disables category filtering.
const AllCategories = "All"

// FilterState is the dashboard's current category selector and search text.
type FilterState struct {
	Category string `json:"category" form:"category"`
	Query    string `json:"query" form:"q"`
}

type Stats struct {
	Total               int            `json:"total"`
	RecentCount         int            `json:"recent_count"`
	ByCategory          map[string]int `json:"by_category"`
	Uncategorized       int            `json:"uncategorized"`
	DistinctAuthorCount int            `json:"distinct_author_count"`
	LastCreatedAt       string         `json:"last_created_at,omitempty"`
	CategoryCount       int            `json:"category_count"`
}

// ViewModel is everything the dashboard renders for one snapshot and filter state.
// It is rebuilt from scratch on every DeriveView call.
type ViewModel struct {
	Categories       []string    `json:"categories"`
	CategoryRecords  []Category  `json:"category_records"`
	Filter           FilterState `json:"filter"`
	FilteredArticles []Article   `json:"filtered_articles"`
	Stats            Stats       `json:"stats"`
	Featured         *Article    `json:"featured"`
	Latest           []Article   `json:"latest"`
}

// ArticleCard is the display-ready form of a single article.
type ArticleCard struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Age       string `json:"age"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source,omitempty"`
}
