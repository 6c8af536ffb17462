package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/internal/config"
	"cutoffrank/internal/errors"
	"cutoffrank/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(source string) Config {
	return Config{
		Source:             source,
		Timeout:            2 * time.Second,
		IdentifyingColumns: config.DefaultIdentifyingColumns,
	}
}

func serve(t *testing.T, hits *int32, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadXLSXOverHTTP(t *testing.T) {
	var hits int32
	srv := serve(t, &hits, "application/octet-stream", testkit.XLSX(t, ""))

	ds, err := NewLoader(testConfig(srv.URL + "/cet_colg_data1.xlsx")).LoadDataset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(testkit.Records()), ds.Len())
	assert.Equal(t, testkit.Categories(), ds.Categories())
	assert.Equal(t, []string{testkit.BMS, testkit.PES, testkit.RVCE}, ds.Colleges())

	rank, err := ds.Cutoff("GM", testkit.RVCE, testkit.CSE)
	require.NoError(t, err)
	assert.Equal(t, "300", rank.String())
}

func TestLoadCSVByContentType(t *testing.T) {
	var hits int32
	srv := serve(t, &hits, "text/csv", testkit.CSV(t))

	ds, err := NewLoader(testConfig(srv.URL + "/export")).LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(testkit.Records()), ds.Len())
}

func TestLoadCachesDataset(t *testing.T) {
	var hits int32
	srv := serve(t, &hits, "", testkit.XLSX(t, ""))
	loader := NewLoader(testConfig(srv.URL + "/data.xlsx"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.LoadDataset(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	first, err := loader.LoadDataset(context.Background())
	require.NoError(t, err)
	second, err := loader.LoadDataset(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLoadFailureIsNotCached(t *testing.T) {
	var hits int32
	body := testkit.XLSX(t, "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "try later", http.StatusBadGateway)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()
	loader := NewLoader(testConfig(srv.URL + "/data.xlsx"))

	_, err := loader.LoadDataset(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "unexpected status 502")

	ds, err := loader.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds)
}

func TestLoadUnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/data.xlsx"
	srv.Close()

	ds, err := NewLoader(testConfig(url)).LoadDataset(context.Background())
	assert.Nil(t, ds)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.Classify(err))
}

func TestLoadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL + "/slow.xlsx")
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewLoader(cfg).LoadDataset(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadRejectsBadContent(t *testing.T) {
	cases := map[string]struct {
		name string
		body []byte
		is   error
	}{
		"html error page": {"data.xlsx", []byte("<html>rate limited</html>"), nil},
		"schema drift":    {"data.csv", []byte("Institute,Course,GM\nA,X,1\n"), core.ErrSchemaDrift},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var hits int32
			srv := serve(t, &hits, "", tc.body)

			_, err := NewLoader(testConfig(srv.URL + "/" + tc.name)).LoadDataset(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutoffs.csv")
	require.NoError(t, os.WriteFile(path, testkit.CSV(t), 0o644))

	for _, source := range []string{path, "file://" + path} {
		ds, err := NewLoader(testConfig(source)).LoadDataset(context.Background())
		require.NoError(t, err, source)
		assert.Equal(t, len(testkit.Records()), ds.Len())
	}

	_, err := NewLoader(testConfig(filepath.Join(dir, "missing.xlsx"))).LoadDataset(context.Background())
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))

	_, err = NewLoader(testConfig("  ")).LoadDataset(context.Background())
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestFromDatasetConfig(t *testing.T) {
	cfg := FromDatasetConfig(config.DatasetConfig{
		URL:                "file:///tmp/cutoffs.xlsx",
		Sheet:              "Round 1",
		FetchTimeout:       5 * time.Second,
		IdentifyingColumns: []string{"College Name", "Branch"},
	})

	assert.Equal(t, "file:///tmp/cutoffs.xlsx", cfg.Source)
	assert.Equal(t, "Round 1", cfg.Sheet)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"College Name", "Branch"}, cfg.IdentifyingColumns)
}
