// Package overlay loads the accessibility dataset and builds it from raw
// postal code and point-of-interest files.
package overlay

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
)

// Source yields the accessibility entries.
type Source interface {
	Load(ctx context.Context) ([]overlayDomain.Entry, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise.
func NewSource(location string, timeout time.Duration, logger *zap.Logger) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout, logger)
	}
	return NewFileSource(location, logger)
}

// HTTPSource fetches the dataset over HTTP on every load.
type HTTPSource struct {
	url    string
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{url: url, client: resty.New().SetTimeout(timeout), logger: logger}
}

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context) ([]overlayDomain.Entry, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to fetch %s: status %d", s.url, resp.StatusCode())
	}
	return ParseEntries(bytes.NewReader(resp.Body()), s.logger)
}

// FileSource reads the dataset from disk on every load.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a source for path.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]overlayDomain.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseEntries(f, s.logger)
}

// StaticSource serves a fixed set of entries.
type StaticSource []overlayDomain.Entry

// Load implements Source.
func (s StaticSource) Load(_ context.Context) ([]overlayDomain.Entry, error) {
	return append([]overlayDomain.Entry(nil), s...), nil
}

