package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/drive"
	"github.com/andresuchdata/stockdash/internal/exporter"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/service"
)

func runConsolidate(c *cli.Context) error {
	res, err := consolidateFile(c.String("file"), c.String("country"), c.String("category"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(c.App.Writer, res)
}

func runExport(c *cli.Context) error {
	res, err := consolidateFile(c.String("file"), c.String("country"), c.String("category"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = service.ExportFileName(res)
	}
	if err := writeWorkbook(out, res); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	return nil
}

func runCatalog(c *cli.Context) error {
	cat := service.NewEngine(config.Load()).Catalog()

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, country := range cat.Countries() {
		fmt.Fprintf(tw, "%s\t%s\t%d stores\tcapacity %s\n",
			country.Code, country.Name, len(country.Stores()), consolidation.FormatCount(country.TotalCapacity()))
		for _, s := range country.Stores() {
			note := consolidation.FormatCount(s.Capacity)
			if s.Central {
				note = "central warehouse"
			} else if s.Capacity == 0 {
				note = "untracked"
			}
			fmt.Fprintf(tw, "\t%s\t%s\t\n", s.Name, note)
		}
	}
	return tw.Flush()
}

// consolidateFile runs the engine over a CSV or XLSX export on disk.
func consolidateFile(path, country, category string) (*consolidation.Result, error) {
	in, err := openExport(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return service.NewEngine(config.Load()).ConsolidateCategory(in, country, category)
}

// openExport opens a POS export, converting XLSX to semicolon CSV in memory.
func openExport(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return f, nil
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := drive.ConvertXLSX(f, &buf); err != nil {
		return nil, fmt.Errorf("convert %s: %w", filepath.Base(path), err)
	}
	return io.NopCloser(&buf), nil
}

func writeWorkbook(path string, res *consolidation.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := exporter.WriteXLSX(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printResult writes the consolidated view, the alert list and the
// performance strip as aligned text.
func printResult(w io.Writer, res *consolidation.Result) error {
	view := res.Table.Render()

	fmt.Fprintf(w, "%s (%s) - %s\n\n", res.CountryName, res.Country, res.Category)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	header := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		header[i] = exporter.HeaderLabel(col)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, row := range view.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Alerts) > 0 {
		fmt.Fprintln(w, "\nAlerts")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, a := range res.Alerts {
			fmt.Fprintf(tw, "  %s\t%s\t%s / %s\t-%s (%.2f%%)\n", a.Severity, a.Store,
				consolidation.FormatCount(a.Stock), consolidation.FormatCount(a.Capacity),
				consolidation.FormatCount(a.Shortfall), a.ShortfallPct)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	p := res.Performance
	fmt.Fprintf(w, "\n%s\n", p.Legend)
	if p.TopStore == nil {
		fmt.Fprintln(w, "  no stores to rank")
		return nil
	}
	fmt.Fprintf(w, "  top:    %s (%s)\n", p.TopStore.Store, consolidation.FormatCount(p.TopStore.Stock))
	fmt.Fprintf(w, "  bottom: %s (%s)\n", p.BottomStore.Store, consolidation.FormatCount(p.BottomStore.Stock))
	fmt.Fprintf(w, "  mean:   %.2f over %d stores\n", p.MeanStock, p.StoreCount)
	return nil
}
