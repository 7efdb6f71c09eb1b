package curation

import (
	"testing"
)

func TestPickFeatured_Empty(t *testing.T) {
	if featured := PickFeatured(nil); featured != nil {
		t.Errorf("Expected nil for empty collection, got %+v", featured)
	}
}

func TestPickFeatured_MostRecent(t *testing.T) {
	featured := PickFeatured(sampleArticles())
	if featured == nil || featured.ID != "2" {
		t.Fatalf("Expected article 2 to be featured, got %+v", featured)
	}
}

func TestPickFeatured_IsAtLeastAsRecentAsEveryArticle(t *testing.T) {
	articles := []Article{
		{ID: "1", CreatedAt: "2024-02-01"},
		{ID: "2", CreatedAt: "bogus"},
		{ID: "3", CreatedAt: "2024-03-01T08:00:00Z"},
		{ID: "4", CreatedAt: ""},
		{ID: "5", CreatedAt: "2023-12-31"},
	}

	featured := PickFeatured(articles)
	at := createdAt(*featured)
	for _, a := range articles {
		if createdAt(a).After(at) {
			t.Errorf("Featured %s is older than %s", featured.ID, a.ID)
		}
	}
	if featured.ID != "3" {
		t.Errorf("Expected article 3, got %s", featured.ID)
	}
}

func TestPickFeatured_TieKeepsInputOrder(t *testing.T) {
	articles := []Article{
		{ID: "1", CreatedAt: "2024-01-01"},
		{ID: "2", CreatedAt: "2024-01-09"},
		{ID: "3", CreatedAt: "2024-01-09"},
	}

	if featured := PickFeatured(articles); featured.ID != "2" {
		t.Errorf("Expected first of tied articles, got %s", featured.ID)
	}
}

func TestPickFeatured_ReturnsCopy(t *testing.T) {
	articles := sampleArticles()
	featured := PickFeatured(articles)
	featured.Title = "changed"

	if articles[1].Title != "B" {
		t.Error("Expected featured article to be a copy")
	}
}

func TestLatest(t *testing.T) {
	articles := []Article{
		{ID: "1", CreatedAt: "2024-01-01"},
		{ID: "2", CreatedAt: "2024-01-04"},
		{ID: "3", CreatedAt: "2024-01-03"},
		{ID: "4", CreatedAt: "2024-01-02"},
	}

	got := ids(Latest(articles, 3))
	if !equalIDs(got, []string{"2", "3", "4"}) {
		t.Errorf("Expected [2 3 4], got %v", got)
	}

	if got := Latest(articles, 10); len(got) != 4 {
		t.Errorf("Expected all 4 articles, got %d", len(got))
	}
	if got := Latest(articles, -1); len(got) != 0 {
		t.Errorf("Expected no articles for negative count, got %d", len(got))
	}
	if !equalIDs(ids(articles), []string{"1", "2", "3", "4"}) {
		t.Error("Expected input order to be untouched")
	}
}
