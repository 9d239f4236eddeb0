package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
)

// CourseDoc is what gets stored in the course index.
type CourseDoc struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Instructor  string  `json:"instructor"`
	Price       float64 `json:"price"`
}

type Index interface {
	IndexCourse(ctx context.Context, doc CourseDoc) error
	DeleteCourse(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{es: es, index: index}
}

func BuildQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}
}

func (i *ESIndex) IndexCourse(ctx context.Context, doc CourseDoc) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("index course: %w", err)
	}

	res, err := i.es.Index(i.index, &buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(doc.ID),
		i.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index course", res.StatusCode, res.Body)
	}
	return nil
}

func (i *ESIndex) DeleteCourse(ctx context.Context, id string) error {
	res, err := i.es.Delete(i.index, id,
		i.es.Delete.WithContext(ctx),
		i.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete course", res.StatusCode, res.Body)
	}
	return nil
}

// Search returns the total hit count and the matching course ids in score
// order.
func (i *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildQuery(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string    `json:"_id"`
				Source CourseDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id := hit.Source.ID
		if id == "" {
			id = hit.ID
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(op string, status int, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("%s: elasticsearch status %d: %s", op, status, b)
}

var _ Index = (*ESIndex)(nil)
