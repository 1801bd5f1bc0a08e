package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

const header = "U_Marca;U_Silueta;Stock_Actual;Bodega;U_Liga;U_Segmento\n"

var exports = map[string]string{
	catalog.Guatemala: header + "NEW ERA;950;500;Oakland Mall;MLB;HEADWEAR\n",
	catalog.Honduras:  header + "NEW ERA;940;90;City Mall Tegucigalpa;NBA;HEADWEAR\n",
	catalog.CostaRica: header + "NEW ERA;;12;Multiplaza Escazú;F1;APPAREL\n",
}

func memoryJob(country string) CountryJob {
	return CountryJob{
		Country: country,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(exports[country])), nil
		},
	}
}

func TestRunConsolidatesEveryCountry(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int64{}
	sink := func(_ context.Context, job CountryJob, res *consolidation.Result) error {
		mu.Lock()
		defer mu.Unlock()
		seen[res.Country] = res.Table.TotalRow().TotalGeneral
		return nil
	}

	o := NewOrchestrator(consolidation.NewEngine(catalog.Default()), Config{WorkerCount: 2}, sink)
	summary, err := o.Run(context.Background(), []CountryJob{
		memoryJob(catalog.Guatemala),
		memoryJob(catalog.Honduras),
		memoryJob(catalog.CostaRica),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, 3, summary.Completed)
	assert.Equal(t, map[string]int64{"GT": 500, "HN": 90, "CR": 12}, seen)
	for i, c := range []string{"GT", "HN", "CR"} {
		assert.Equal(t, c, summary.Jobs[i].Country)
		assert.Equal(t, JobStatusCompleted, summary.Jobs[i].Status)
		assert.Equal(t, 1, summary.Jobs[i].RowsRetained)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	o := NewOrchestrator(consolidation.NewEngine(catalog.Default()), DefaultConfig(), nil)

	summary, err := o.Run(context.Background(), []CountryJob{
		memoryJob(catalog.Guatemala),
		{Country: "MX", Open: memoryJob(catalog.Guatemala).Open},
		{Country: catalog.Panama, Path: filepath.Join(t.TempDir(), "missing.csv"), Category: "ALL"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, consolidation.ErrUnknownCountry)
	assert.ErrorIs(t, err, consolidation.ErrInputParse)

	assert.Equal(t, StatusPartial, summary.Status)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, JobStatusCompleted, summary.Jobs[0].Status)
	assert.Equal(t, JobStatusFailed, summary.Jobs[1].Status)
	assert.Equal(t, 1, summary.Jobs[1].Attempts)
	assert.Equal(t, JobStatusFailed, summary.Jobs[2].Status)
	assert.Equal(t, 2, summary.Jobs[2].Attempts)
}

func TestRunRetriesStreamFailures(t *testing.T) {
	calls := 0
	job := CountryJob{
		Country: catalog.Honduras,
		Open: func() (io.ReadCloser, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			return io.NopCloser(strings.NewReader(exports[catalog.Honduras])), nil
		},
	}

	o := NewOrchestrator(consolidation.NewEngine(catalog.Default()), Config{WorkerCount: 1, RetryAttempts: 3}, nil)
	summary, err := o.Run(context.Background(), []CountryJob{job})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Jobs[0].Attempts)
	assert.Equal(t, 2, calls)
}

func TestRunSinkErrorFailsJob(t *testing.T) {
	sink := func(context.Context, CountryJob, *consolidation.Result) error { return errors.New("disk full") }
	o := NewOrchestrator(consolidation.NewEngine(catalog.Default()), DefaultConfig(), sink)

	summary, err := o.Run(context.Background(), []CountryJob{memoryJob(catalog.Guatemala)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StatusFailed, summary.Status)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(consolidation.NewEngine(catalog.Default()), DefaultConfig(), nil)
	summary, err := o.Run(ctx, []CountryJob{memoryJob(catalog.Guatemala)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, JobStatusFailed, summary.Jobs[0].Status)
}

func TestDiscoverJobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"GT_2024-05.csv", "el_salvador.csv", "costa-rica stock.CSV", "notes.csv", "HN.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header), 0o644))
	}

	jobs, err := DiscoverJobs(dir, catalog.Default(), "NBA")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "GT", jobs[0].Country)
	assert.Equal(t, "SV", jobs[1].Country)
	assert.Equal(t, "CR", jobs[2].Country)
	assert.Equal(t, "NBA", jobs[0].Category)
	assert.Equal(t, filepath.Join(dir, "el_salvador.csv"), jobs[1].Path)
}

func TestDiscoverJobsRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"GT_a.csv", "guatemala.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header), 0o644))
	}
	_, err := DiscoverJobs(dir, catalog.Default(), "")
	assert.Error(t, err)
}

func TestCountryFromFileName(t *testing.T) {
	cat := catalog.Default()
	for name, want := range map[string]string{
		"PA.csv":                "PA",
		"panama_inventario.csv": "PA",
		"El-Salvador-2024.csv":  "SV",
		"hn.stock.csv":          "HN",
	} {
		got, ok := CountryFromFileName(name, cat)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := CountryFromFileName("mexico.csv", cat)
	assert.False(t, ok)
}
