package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/elastic/go-elasticsearch/v8"
	log "github.com/sirupsen/logrus"
)

const blogIndex = "blogs"

var blogSearchFields = []string{"title", "excerpt", "content", "category"}

// SearchService does full-text blog search on Elasticsearch and keeps the
// index in sync as a content observer. Without a client, or when the cluster
// fails, it falls back to a substring search on the store.
type SearchService struct {
	esClient *elasticsearch.Client
	blogs    repository.Repository[models.Blog]
}

func NewSearchService(esClient *elasticsearch.Client, blogs repository.Repository[models.Blog]) *SearchService {
	return &SearchService{esClient: esClient, blogs: blogs}
}

// NewElasticsearchClient returns nil when url is empty.
func NewElasticsearchClient(url string) (*elasticsearch.Client, error) {
	if url == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}

// Saved indexes the blog.
func (s *SearchService) Saved(ctx context.Context, blog *models.Blog) {
	if s.esClient == nil {
		return
	}
	body, err := json.Marshal(blog)
	if err != nil {
		log.Printf("[SearchService.Saved] marshal error: %v", err)
		return
	}
	res, err := s.esClient.Index(blogIndex, bytes.NewReader(body),
		s.esClient.Index.WithDocumentID(blog.ID),
		s.esClient.Index.WithContext(ctx),
	)
	if err != nil {
		log.Printf("[SearchService.Saved] index request failed for %s: %v", blog.ID, err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("[SearchService.Saved] index failed for %s: %s", blog.ID, res.String())
	}
}

// Deleted removes the blog from the index.
func (s *SearchService) Deleted(ctx context.Context, id string) {
	if s.esClient == nil {
		return
	}
	res, err := s.esClient.Delete(blogIndex, id, s.esClient.Delete.WithContext(ctx))
	if err != nil {
		log.Printf("[SearchService.Deleted] delete request failed for %s: %v", id, err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		log.Printf("[SearchService.Deleted] delete failed for %s: %s", id, res.String())
	}
}

// Search finds blogs matching q. publishedOnly hides drafts.
func (s *SearchService) Search(ctx context.Context, q string, publishedOnly bool) ([]models.Blog, error) {
	q = strings.TrimSpace(q)
	if s.esClient != nil {
		blogs, err := s.searchIndex(ctx, q, publishedOnly)
		if err == nil {
			return blogs, nil
		}
		log.Warnf("[SearchService.Search] falling back to store search: %v", err)
	}

	f := query.Where().ContainsAny(blogSearchFields, q)
	if publishedOnly {
		f = f.Eq("published", true)
	}
	blogs, err := s.blogs.List(ctx, query.Query{Filter: f, Sort: []query.SortKey{query.Desc("created_at")}})
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}
	return blogs, nil
}

func (s *SearchService) searchIndex(ctx context.Context, q string, publishedOnly bool) ([]models.Blog, error) {
	must := []map[string]interface{}{}
	if q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"title^3", "excerpt^2", "content", "category"},
			},
		})
	}
	filter := []map[string]interface{}{}
	if publishedOnly {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"published": true}})
	}
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must, "filter": filter},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(blogIndex),
		s.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Blog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	blogs := make([]models.Blog, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		blogs = append(blogs, hit.Source)
	}
	return blogs, nil
}
