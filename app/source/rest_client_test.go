package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const articlesJSON = `[
  {"id": 1, "title": "A", "content": "<p>Tech news</p>", "category": "Tech\n", "author": "Ann", "author_id": 7, "image": "a.png", "created_at": "2024-01-01T10:00:00.000Z"},
  {"id": "b-2", "title": "B", "content": "", "category": null, "author_id": null, "image": null, "created_at": "2024-01-05"},
  {"id": 3, "title": "C", "category_name": "Sports", "author_name": "Cy", "author_id": "12"}
]`

const categoriesJSON = `[{"id": 1, "name": "Tech\r\n"}, {"id": 2, "name": "Sports"}]`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(DefaultArticlesPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected user agent 'test-agent', got '%s'", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(articlesJSON))
	})
	mux.HandleFunc(DefaultCategoriesPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(categoriesJSON))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func restConfig(url string) *Config {
	return &Config{
		Name: "newsroom",
		Type: TypeREST,
		URL:  url + "/",
		Settings: Settings{
			Enabled:        true,
			ArticlesPath:   DefaultArticlesPath,
			CategoriesPath: DefaultCategoriesPath,
		},
	}
}

func TestRESTClient_Fetch(t *testing.T) {
	server := newUpstream(t)
	client := NewRESTClient(NewFetcher(server.Client(), "test-agent"))

	snapshot, err := client.Fetch(context.Background(), restConfig(server.URL))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(snapshot.Articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(snapshot.Articles))
	}
	if len(snapshot.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(snapshot.Categories))
	}

	first := snapshot.Articles[0]
	if first.ID != "1" || first.AuthorID != "7" {
		t.Errorf("Expected numeric ids rendered as strings, got id=%q author_id=%q", first.ID, first.AuthorID)
	}
	if first.Category != "Tech\n" {
		t.Errorf("Expected raw category to be preserved, got %q", first.Category)
	}
	if first.Source != "newsroom" {
		t.Errorf("Expected source 'newsroom', got '%s'", first.Source)
	}

	second := snapshot.Articles[1]
	if second.ID != "b-2" || second.Category != "" || second.AuthorID != "" || second.Image != "" {
		t.Errorf("Expected nulls to decode as empty strings, got %+v", second)
	}

	third := snapshot.Articles[2]
	if third.Category != "Sports" || third.Author != "Cy" || third.AuthorID != "12" {
		t.Errorf("Expected fallback field names to be used, got %+v", third)
	}
	if third.CreatedAt != "" {
		t.Errorf("Expected missing created_at to stay empty, got %q", third.CreatedAt)
	}

	if snapshot.Categories[0].ID != "1" || snapshot.Categories[0].Name != "Tech\r\n" {
		t.Errorf("Unexpected first category %+v", snapshot.Categories[0])
	}
}

func TestRESTClient_FetchRespectsMaxItems(t *testing.T) {
	server := newUpstream(t)
	client := NewRESTClient(NewFetcher(server.Client(), "test-agent"))

	config := restConfig(server.URL)
	config.Settings.MaxItems = 2

	snapshot, err := client.Fetch(context.Background(), config)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Articles) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(snapshot.Articles))
	}
}

func TestRESTClient_FetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRESTClient(NewFetcher(server.Client(), "test-agent"))
	if _, err := client.Fetch(context.Background(), restConfig(server.URL)); err == nil {
		t.Error("Expected error for upstream failure")
	}
}

func TestDecodeArticles_InvalidJSON(t *testing.T) {
	if _, err := DecodeArticles([]byte(`{"not": "a list"}`), "x"); err == nil {
		t.Error("Expected error for non-array payload")
	}
	if _, err := DecodeArticles([]byte(`[{"id": [1, 2]}]`), "x"); err == nil {
		t.Error("Expected error for array id")
	}
}

func TestDecodeArticles_CategoryObject(t *testing.T) {
	articles, err := DecodeArticles([]byte(`[{"id": 1, "category": {"id": 4, "name": "World"}}]`), "x")
	if err != nil {
		t.Fatal(err)
	}
	if articles[0].Category != "World" {
		t.Errorf("Expected category name from object, got %q", articles[0].Category)
	}
}
