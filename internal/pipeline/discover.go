package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/stockdash/internal/catalog"
)

// DiscoverJobs builds one job per CSV export in dir whose file name starts
// with a country code or name, e.g. "GT_stock.csv" or "costa-rica.csv".
// Files that match no country are ignored; two files for one country are an
// error.
func DiscoverJobs(dir string, cat *catalog.Catalog, category string) ([]CountryJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	byCountry := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		country, ok := CountryFromFileName(e.Name(), cat)
		if !ok {
			continue
		}
		if prev, dup := byCountry[country]; dup {
			return nil, fmt.Errorf("two exports for %s: %s and %s", country, prev, e.Name())
		}
		byCountry[country] = e.Name()
	}

	jobs := make([]CountryJob, 0, len(byCountry))
	for _, c := range cat.Countries() {
		name, ok := byCountry[c.Code]
		if !ok {
			continue
		}
		jobs = append(jobs, CountryJob{Country: c.Code, Category: category, Path: filepath.Join(dir, name)})
	}
	return jobs, nil
}

// CountryFromFileName resolves the country a file name is prefixed with.
// The longest matching prefix wins so "el_salvador" is not read as "el".
func CountryFromFileName(name string, cat *catalog.Catalog) (string, bool) {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	words := strings.Fields(stem)

	for i := len(words); i > 0; i-- {
		if country, ok := cat.LookupCountry(strings.Join(words[:i], " ")); ok {
			return country.Code, true
		}
	}
	return "", false
}
