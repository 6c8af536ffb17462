package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"cutoffrank/adapters/excel"
	"cutoffrank/domain/cutoff"
	"cutoffrank/internal"
	"cutoffrank/internal/config"
	"cutoffrank/internal/errors"
	"cutoffrank/ports"

	"golang.org/x/sync/singleflight"
)

// maxSourceBytes caps how much of a source is read into memory
const maxSourceBytes = 64 << 20

// Config describes where the dataset lives and how to interpret it
type Config struct {
	Source             string // http(s) URL, file:// URL or local path
	Sheet              string
	Timeout            time.Duration
	IdentifyingColumns []string
}

// Loader fetches and parses the cutoff spreadsheet once. Concurrent callers
// share a single fetch; a successful dataset is cached, failures are not.
type Loader struct {
	config Config
	client *http.Client
	group  singleflight.Group

	mu      sync.RWMutex
	dataset *cutoff.Dataset
}

var _ ports.DatasetLoader = (*Loader)(nil)

// NewLoader creates a loader using the default HTTP transport
func NewLoader(config Config) *Loader {
	return NewLoaderWithClient(config, &http.Client{})
}

// NewLoaderWithClient creates a loader with a caller supplied HTTP client
func NewLoaderWithClient(config Config, client *http.Client) *Loader {
	return &Loader{config: config, client: client}
}

// LoadDataset returns the cached dataset or loads it
func (l *Loader) LoadDataset(ctx context.Context) (*cutoff.Dataset, error) {
	l.mu.RLock()
	ds := l.dataset
	l.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, shared := l.group.Do(l.config.Source, func() (interface{}, error) {
		return l.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		internal.DefaultLogger.Debug("[Loader] Shared in-flight load of %s", l.config.Source)
	}
	return v.(*cutoff.Dataset), nil
}

func (l *Loader) load(ctx context.Context) (*cutoff.Dataset, error) {
	l.mu.RLock()
	cached := l.dataset
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	source := l.config.Source
	if strings.TrimSpace(source) == "" {
		return nil, errors.LoadError("<empty source>", fmt.Errorf("no dataset source configured"))
	}

	startTime := time.Now()
	content, contentType, err := l.fetch(ctx, source)
	if err != nil {
		internal.DefaultLogger.Error("[Loader] Fetch of %s failed: %v", source, err)
		return nil, errors.LoadError(source, err)
	}

	format := excel.DetectFormat(source, contentType)
	data, err := excel.NewDataReader(format, l.config.Sheet).ReadData(content)
	if err != nil {
		internal.DefaultLogger.Error("[Loader] Parse of %s failed: %v", source, err)
		return nil, errors.LoadError(source, err)
	}

	ds, err := cutoff.NewDataset(cutoff.NewSchema(l.config.IdentifyingColumns), data.Headers, data.Records())
	if err != nil {
		internal.DefaultLogger.Error("[Loader] Dataset from %s rejected: %v", source, err)
		return nil, errors.LoadError(source, err)
	}

	internal.DefaultLogger.Info("[Loader] Loaded %d rows, %d colleges, %d categories from %s in %s",
		ds.Len(), len(ds.Colleges()), len(ds.Categories()), source, time.Since(startTime).Round(time.Millisecond))

	l.mu.Lock()
	l.dataset = ds
	l.mu.Unlock()
	return ds, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		content, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read dataset file: %w", err)
		}
		return content, "", nil
	}

	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(content) > maxSourceBytes {
		return nil, "", fmt.Errorf("dataset larger than %d bytes", maxSourceBytes)
	}

	return content, resp.Header.Get("Content-Type"), nil
}

// FromDatasetConfig maps application configuration onto a loader config
func FromDatasetConfig(c config.DatasetConfig) Config {
	return Config{
		Source:             c.URL,
		Sheet:              c.Sheet,
		Timeout:            c.FetchTimeout,
		IdentifyingColumns: c.IdentifyingColumns,
	}
}
