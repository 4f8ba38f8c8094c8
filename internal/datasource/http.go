// internal/datasource/http.go
package datasource

import (
	"context"

	apperrors "procurement-workers/internal/common/errors"
	apphttp "procurement-workers/internal/common/http"
	"procurement-workers/internal/models"
)

// HTTPSource downloads the published JSON snapshot.
type HTTPSource struct {
	url    string
	client *apphttp.Client
}

func NewHTTPSource(url string, client *apphttp.Client) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Name() string { return "http:" + s.url }

func (s *HTTPSource) Load(ctx context.Context) ([]models.Procedure, error) {
	doc, err := s.client.GetBytes(ctx, s.url)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.Name(), err)
	}
	return decodeDataset(s.Name(), doc)
}
