package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/repository/sqlrepo"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers every Elasticsearch call with a canned response.
type fakeTransport struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req.Method+" "+req.URL.Path)
	f.mu.Unlock()

	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func newFakeES(t *testing.T, tr *fakeTransport) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: tr,
	})
	require.NoError(t, err)
	return client
}

func seedBlogs(t *testing.T, svc *ContentService[models.Blog, *models.Blog]) {
	t.Helper()
	for _, b := range []models.Blog{
		{Title: "Concurrency in Go", Category: "go", Excerpt: "goroutines", Content: "channels", Published: true},
		{Title: "Draft about Go", Category: "go", Excerpt: "wip", Content: "todo", Published: false},
		{Title: "React hooks", Category: "frontend", Excerpt: "state", Content: "useEffect", Published: true},
	} {
		b := b
		_, err := svc.Create(context.Background(), func(p *models.Blog) error {
			*p = b
			return nil
		})
		require.NoError(t, err)
	}
}

func TestSearchService_FallsBackToStore(t *testing.T) {
	db := newTestDB(t)
	repo := sqlrepo.NewStore[models.Blog](db)
	seedBlogs(t, NewContentService[models.Blog, *models.Blog]("blog", repo, nil))

	tests := []struct {
		name      string
		es        *fakeTransport
		q         string
		published bool
		want      int
	}{
		{"no cluster", nil, "GO", true, 1},
		{"drafts included", nil, "go", false, 2},
		{"cluster error", &fakeTransport{status: 500, body: `{"error":"boom"}`}, "hooks", true, 1},
		{"content match", nil, "useeffect", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var client *elasticsearch.Client
			if tt.es != nil {
				client = newFakeES(t, tt.es)
			}
			svc := NewSearchService(client, repo)
			blogs, err := svc.Search(context.Background(), tt.q, tt.published)
			require.NoError(t, err)
			assert.Len(t, blogs, tt.want)
		})
	}
}

func TestSearchService_UsesIndex(t *testing.T) {
	tr := &fakeTransport{status: 200, body: `{"hits":{"hits":[{"_source":{"id":"b1","title":"Concurrency in Go","published":true}}]}}`}
	svc := NewSearchService(newFakeES(t, tr), nil)

	blogs, err := svc.Search(context.Background(), "go", true)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "b1", blogs[0].ID)
	assert.Equal(t, "Concurrency in Go", blogs[0].Title)

	blog := &models.Blog{Base: models.Base{ID: "b1"}, Title: "Concurrency in Go"}
	svc.Saved(context.Background(), blog)
	svc.Deleted(context.Background(), "b1")

	assert.Equal(t, []string{"POST /blogs/_search", "PUT /blogs/_doc/b1", "DELETE /blogs/_doc/b1"}, tr.requests)
}
