package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
)

var (
	ErrInvalidRoot      = errors.New("dataset root is not a JSON array")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// maxDatasetSize bounds the number of bytes read from a remote dataset.
const maxDatasetSize = 32 << 20

// DatasetRepository loads the dua dataset from a local file or an HTTP URL.
type DatasetRepository struct {
	path   string
	url    string
	client *http.Client
}

// NewFileDatasetRepository reads the dataset from path on every Load.
func NewFileDatasetRepository(path string) *DatasetRepository {
	return &DatasetRepository{path: path}
}

// NewHTTPDatasetRepository fetches the dataset from url on every Load,
// bypassing intermediate caches.
func NewHTTPDatasetRepository(url string, client *http.Client) *DatasetRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &DatasetRepository{url: url, client: client}
}

// Location returns the file path or URL the dataset is read from.
func (r *DatasetRepository) Location() string {
	if r.url != "" {
		return r.url
	}
	return r.path
}

// Path returns the local file path, empty for HTTP datasets.
func (r *DatasetRepository) Path() string {
	return r.path
}

// Load reads and decodes the dataset.
func (r *DatasetRepository) Load(ctx context.Context) ([]entities.Dua, error) {
	var (
		data []byte
		err  error
	)

	if r.url != "" {
		data, err = r.fetch(ctx)
	} else {
		data, err = os.ReadFile(r.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return DecodeDataset(data)
}

func (r *DatasetRepository) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// DecodeDataset decodes a JSON array of duas.
func DecodeDataset(data []byte) ([]entities.Dua, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to unmarshal dataset JSON: invalid JSON")
		}
		return nil, ErrInvalidRoot
	}

	var duas []entities.Dua
	if err := json.Unmarshal(trimmed, &duas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset JSON: %w", err)
	}

	return duas, nil
}
