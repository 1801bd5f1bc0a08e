package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/drive"
	"github.com/andresuchdata/stockdash/internal/exporter"
	"github.com/andresuchdata/stockdash/internal/pipeline"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/service"
	"github.com/andresuchdata/stockdash/pkg/logger"
)

func runBatch(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	dir := c.String("dir")
	if folderID := c.String("drive-folder"); folderID != "" {
		if err := downloadFromDrive(ctx, cfg.Drive.CredentialsJSON, folderID, dir); err != nil {
			return err
		}
	}

	engine := service.NewEngine(cfg)
	jobs, err := pipeline.DiscoverJobs(dir, engine.Catalog(), c.String("category"))
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logger.Log.Warn().Str("dir", dir).Msg("no country exports found; nothing to consolidate")
		return nil
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.WorkerCount = c.Int("workers")

	orchestrator := pipeline.NewOrchestrator(engine, pcfg, outputSink(outDir, c.Bool("csv")))
	summary, runErr := orchestrator.Run(ctx, jobs)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, job := range summary.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d rows\t%s\t%s\n",
			job.Country, job.Status, job.RowsRetained, job.RowsRead, job.Latency.Round(time.Millisecond), job.ErrorMessage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d completed, %d failed\n", summary.Status, summary.Completed, summary.Failed)

	if runErr != nil {
		return fmt.Errorf("batch %s: %w", summary.Status, runErr)
	}
	return nil
}

// outputSink writes each result as a workbook, plus a CSV view when asked.
func outputSink(dir string, withCSV bool) pipeline.Sink {
	return func(_ context.Context, _ pipeline.CountryJob, res *consolidation.Result) error {
		name := service.ExportFileName(res)
		if err := writeWorkbook(filepath.Join(dir, name), res); err != nil {
			return err
		}
		if !withCSV {
			return nil
		}

		f, err := os.Create(filepath.Join(dir, strings.TrimSuffix(name, ".xlsx")+".csv"))
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		if err := exporter.WriteCSV(f, res); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

func downloadFromDrive(ctx context.Context, credentialsJSON, folderID, dir string) error {
	if strings.TrimSpace(credentialsJSON) == "" {
		return fmt.Errorf("GOOGLE_DRIVE_CREDENTIALS_JSON env is required to read from Drive")
	}
	svc, err := drive.NewService(ctx, credentialsJSON)
	if err != nil {
		return fmt.Errorf("failed to create Drive service: %w", err)
	}

	logger.Log.Info().Str("folder", folderID).Str("dir", dir).Msg("downloading exports from Drive")
	paths, err := drive.NewDownloader(svc).DownloadFolderCSV(ctx, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: dir,
	})
	if err != nil {
		return fmt.Errorf("failed to download files from Drive: %w", err)
	}
	logger.Log.Info().Int("files", len(paths)).Msg("drive download complete")
	return nil
}
