package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/teamshift/internal/models"
)

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// CompanyIndex keeps the company directory in Elasticsearch.
type CompanyIndex struct {
	es    *elasticsearch.Client
	index string
}

type companyDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type hit struct {
	Source companyDoc `json:"_source"`
}

func NewClient(ctx context.Context, cfg Config) (*CompanyIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &CompanyIndex{es: client, index: cfg.Index}, nil
}

func (ix *CompanyIndex) IndexCompany(ctx context.Context, c *models.Company) error {
	body, err := json.Marshal(companyDoc{ID: c.ID.String(), Name: c.Name})
	if err != nil {
		return err
	}
	res, err := ix.es.Index(ix.index, bytes.NewReader(body),
		ix.es.Index.WithContext(ctx),
		ix.es.Index.WithDocumentID(c.ID.String()),
		ix.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index company: %w", err)
	}
	return checkResponse(res, "index company")
}

func (ix *CompanyIndex) DeleteCompany(ctx context.Context, id string) error {
	res, err := ix.es.Delete(ix.index, id, ix.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete company")
}

// SearchCompanies returns the total hit count and the matching company ids in score order.
func (ix *CompanyIndex) SearchCompanies(ctx context.Context, query string, from, size int) (int64, []string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("search companies: %w", err)
	}

	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search companies: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search companies: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []hit                 `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}

func buildQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     strings.TrimSpace(query),
				"fields":    []string{"name^2"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: %s: %s", op, res.Status(), body)
	}
	return nil
}
