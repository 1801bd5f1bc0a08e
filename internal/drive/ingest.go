package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/pipeline"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/service"
)

// IngestRequest names a Drive file to consolidate. Country may be left
// empty when the file name starts with the country.
type IngestRequest struct {
	FileID   string
	Country  string
	Category string
}

// IngestService feeds Drive files to the dashboard service.
type IngestService struct {
	source    Source
	dashboard *service.DashboardService
}

func NewIngestService(source Source, dashboard *service.DashboardService) *IngestService {
	return &IngestService{
		source:    source,
		dashboard: dashboard,
	}
}

// Consolidate downloads the file and returns its dashboard.
func (s *IngestService) Consolidate(ctx context.Context, req IngestRequest) (*consolidation.Result, error) {
	creq, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.dashboard.Consolidate(ctx, creq)
}

// Export downloads the file and renders its workbook.
func (s *IngestService) Export(ctx context.Context, req IngestRequest) (*service.Export, error) {
	creq, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.dashboard.Export(ctx, creq)
}

func (s *IngestService) fetch(ctx context.Context, req IngestRequest) (service.ConsolidateRequest, error) {
	file, err := s.source.GetFile(ctx, req.FileID)
	if err != nil {
		return service.ConsolidateRequest{}, err
	}

	country := req.Country
	if country == "" {
		code, ok := pipeline.CountryFromFileName(file.Name, s.dashboard.Catalog())
		if !ok {
			return service.ConsolidateRequest{}, fmt.Errorf("%w: cannot infer country from %q", consolidation.ErrUnknownCountry, file.Name)
		}
		country = code
	}

	// Download file from Drive
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.source.DownloadFile(ctx, file.ID, pw))
	}()
	defer pr.Close()

	var buf bytes.Buffer
	if file.IsXLSX() {
		err = ConvertXLSX(pr, &buf)
	} else {
		_, err = io.Copy(&buf, pr)
	}
	if err != nil {
		return service.ConsolidateRequest{}, &consolidation.InputParseError{Country: country, Err: err}
	}

	log.Info().Str("file", file.Name).Str("country", country).Int("bytes", buf.Len()).Msg("drive: file fetched")

	name := file.Name
	if file.IsXLSX() {
		name += ".csv"
	}
	return service.ConsolidateRequest{
		Country:  country,
		Category: req.Category,
		FileName: name,
		Data:     buf.Bytes(),
	}, nil
}
