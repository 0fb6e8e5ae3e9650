// Package search keeps an Elasticsearch index of recipes for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
)

type Config struct {
	URL      string
	User     string
	Password string
	Index    string

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

type RecipeDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Text        string   `json:"text"`
	AuthorID    string   `json:"author_id"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
}

type Results struct {
	Total int64
	IDs   []uuid.UUID
}

type Index struct {
	client *elasticsearch.Client
	index  string
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "author_id":   {"type": "keyword"},
      "name":        {"type": "text"},
      "text":        {"type": "text"},
      "tags":        {"type": "text"},
      "ingredients": {"type": "text"}
    }
  }
}`

func NewIndex(cfg Config) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "recipes"
	}
	return &Index{client: client, index: index}, nil
}

// Ping checks the cluster is reachable.
func (i *Index) Ping(ctx context.Context) error {
	res, err := i.client.Info(i.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("info", res.StatusCode, res.Body)
	}
	return nil
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.client.Indices.Create(i.index,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res.StatusCode, res.Body)
	}
	return nil
}

func (i *Index) IndexRecipe(ctx context.Context, doc RecipeDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal recipe document: %w", err)
	}
	res, err := i.client.Index(i.index, bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.StatusCode, res.Body)
	}
	return nil
}

// DeleteRecipe removes the document; a missing document is not an error.
func (i *Index) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res, err := i.client.Delete(i.index, id.String(), i.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.StatusCode, res.Body)
	}
	return nil
}

func searchBody(q string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "tags^2", "ingredients", "text"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
	})
}

func (i *Index) SearchRecipes(ctx context.Context, q string, offset, limit int) (Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Results{}, nil
	}

	body, err := searchBody(q)
	if err != nil {
		return Results{}, err
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
		i.client.Search.WithFrom(offset),
		i.client.Search.WithSize(limit),
		i.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return Results{}, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, responseError("search", res.StatusCode, res.Body)
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Results{}, fmt.Errorf("decode search response: %w", err)
	}

	out := Results{Total: parsed.Hits.Total.Value, IDs: make([]uuid.UUID, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		out.IDs = append(out.IDs, id)
	}
	return out, nil
}

func responseError(op string, status int, body io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("elasticsearch %s: status %d: %s", op, status, strings.TrimSpace(string(raw)))
}
