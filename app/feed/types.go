package feed

import (
	"github.com/lysyi3m/newsdesk/app/curation"
)

// Channel describes the generated feed itself.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
	Language    string
	Generator   string
}

// Carder renders articles into their display form.
type Carder interface {
	Card(article curation.Article) curation.ArticleCard
}

var _ Carder = (*curation.Engine)(nil)
