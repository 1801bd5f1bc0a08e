package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DownloadOptions controls how files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader wraps a Source to download files from a specific folder.
type Downloader struct {
	source Source
}

// NewDownloader creates a new Downloader.
func NewDownloader(s Source) *Downloader {
	return &Downloader{source: s}
}

// DownloadFolderCSV downloads all CSV and XLSX files from the given Drive
// folder into DownloadDir and returns local CSV paths. XLSX files are
// converted to semicolon CSV on the way.
func (d *Downloader) DownloadFolderCSV(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := d.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !f.IsCSV() && !f.IsXLSX() {
			continue
		}

		csvName := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name)) + ".csv"
		csvPath := filepath.Join(opts.DownloadDir, csvName)
		if err := d.download(ctx, f, csvPath); err != nil {
			return nil, err
		}
		log.Info().Str("file", f.Name).Str("path", csvPath).Msg("drive: downloaded")
		localPaths = append(localPaths, csvPath)
	}

	return localPaths, nil
}

func (d *Downloader) download(ctx context.Context, f *File, csvPath string) error {
	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", csvPath, err)
	}

	if f.IsXLSX() {
		tmp, err := os.CreateTemp(filepath.Dir(csvPath), "*.xlsx")
		if err != nil {
			out.Close()
			return fmt.Errorf("failed to create temp xlsx: %w", err)
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()

		if err := d.source.DownloadFile(ctx, f.ID, tmp); err != nil {
			out.Close()
			return fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
		if _, err := tmp.Seek(0, 0); err != nil {
			out.Close()
			return err
		}
		if err := ConvertXLSX(tmp, out); err != nil {
			out.Close()
			return fmt.Errorf("failed to convert %s to csv: %w", f.Name, err)
		}
		return out.Close()
	}

	if err := d.source.DownloadFile(ctx, f.ID, out); err != nil {
		out.Close()
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return out.Close()
}
