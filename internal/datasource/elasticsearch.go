// internal/datasource/elasticsearch.go
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
)

const (
	defaultPageSize = 1000
	scrollKeepAlive = time.Minute
)

// ElasticsearchSource scrolls through an index in _doc order, which keeps
// the snapshot in indexing order.
type ElasticsearchSource struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, pageSize int) *ElasticsearchSource {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ElasticsearchSource{client: client, index: index, pageSize: pageSize}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch:" + s.index }

type scrollPage struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]models.Procedure, error) {
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithSize(s.pageSize),
		s.client.Search.WithSort("_doc"),
		s.client.Search.WithScroll(scrollKeepAlive),
	)
	page, err := s.readPage(res, err)
	if err != nil {
		return nil, err
	}

	procs := make([]models.Procedure, 0, len(page.Hits.Hits))
	scrollID := page.ScrollID
	defer func() { s.clearScroll(scrollID) }()

	for len(page.Hits.Hits) > 0 {
		for _, hit := range page.Hits.Hits {
			var p models.Procedure
			if err := json.Unmarshal(hit.Source, &p); err != nil {
				return nil, apperrors.NewSourceInvalidError(s.Name(), err.Error())
			}
			procs = append(procs, p)
		}
		if len(page.Hits.Hits) < s.pageSize || scrollID == "" {
			break
		}

		res, err := s.client.Scroll(
			s.client.Scroll.WithContext(ctx),
			s.client.Scroll.WithScrollID(scrollID),
			s.client.Scroll.WithScroll(scrollKeepAlive),
		)
		if page, err = s.readPage(res, err); err != nil {
			return nil, err
		}
		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
	}

	return procs, nil
}

func (s *ElasticsearchSource) readPage(res *esapi.Response, err error) (*scrollPage, error) {
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.Name(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, apperrors.NewSourceUnavailableError(s.Name(),
			fmt.Errorf("%s: %s", res.Status(), body))
	}

	var page scrollPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, apperrors.NewSourceInvalidError(s.Name(), err.Error())
	}
	return &page, nil
}

func (s *ElasticsearchSource) clearScroll(id string) {
	if id == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.client.ClearScroll(
		s.client.ClearScroll.WithContext(ctx),
		s.client.ClearScroll.WithScrollID(id),
	)
	if err == nil {
		res.Body.Close()
	}
}
