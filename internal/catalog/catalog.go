// Package catalog holds the static reference data the consolidation engine
// resolves stores, capacities, league codes and silhouettes against.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andresuchdata/stockdash/internal/domain"
)

// StoreSpec declares a store and its target headwear capacity.
// A capacity of 0 means the store's capacity is not tracked.
type StoreSpec struct {
	Name     string
	Capacity int64
	Central  bool
}

// CountrySpec declares a country and its stores in display order.
type CountrySpec struct {
	Code   string
	Name   string
	Stores []StoreSpec
}

// Country is the read-only view of a catalog country.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`

	stores   []StoreSpec
	index    map[string]int // upper-cased store name -> position
	capacity int64
}

// StoreRef identifies a store inside a country.
type StoreRef struct {
	Country string `json:"country"`
	Store   string `json:"store"`
}

// Catalog is immutable once built; share it by pointer.
type Catalog struct {
	countries   []*Country
	byCode      map[string]*Country
	byName      map[string]*Country
	leagueCodes map[domain.LeagueCategory][]string
	leagueIndex map[string]domain.LeagueCategory
	silhouettes map[string]domain.SilhouetteFamily
}

// New validates the country declarations and builds a catalog. League codes and silhouette
// codes are matched case-insensitively.
func New(countries []CountrySpec, leagues map[domain.LeagueCategory][]string, flat, curved []string) (*Catalog, error) {
	c := &Catalog{
		byCode:      make(map[string]*Country, len(countries)),
		byName:      make(map[string]*Country, len(countries)),
		leagueCodes: make(map[domain.LeagueCategory][]string, len(leagues)),
		leagueIndex: make(map[string]domain.LeagueCategory),
		silhouettes: make(map[string]domain.SilhouetteFamily, len(flat)+len(curved)),
	}

	for _, def := range countries {
		code := strings.ToUpper(strings.TrimSpace(def.Code))
		if code == "" {
			return nil, fmt.Errorf("country %q has no code", def.Name)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate country code %s", code)
		}
		country := &Country{
			Code:  code,
			Name:  def.Name,
			index: make(map[string]int, len(def.Stores)),
		}
		for _, s := range def.Stores {
			name := strings.TrimSpace(s.Name)
			key := strings.ToUpper(name)
			if name == "" {
				return nil, fmt.Errorf("country %s has a store with an empty name", code)
			}
			if _, dup := country.index[key]; dup {
				return nil, fmt.Errorf("duplicate store %q in country %s", name, code)
			}
			if s.Capacity < 0 {
				return nil, fmt.Errorf("store %q in country %s has negative capacity", name, code)
			}
			country.index[key] = len(country.stores)
			country.stores = append(country.stores, StoreSpec{Name: name, Capacity: s.Capacity, Central: s.Central})
			if s.Capacity > 0 {
				country.capacity += s.Capacity
			}
		}
		c.countries = append(c.countries, country)
		c.byCode[code] = country
		c.byName[normalizeCountryTag(def.Name)] = country
	}

	for _, category := range domain.Categories() {
		for _, raw := range leagues[category] {
			code := normalizeCode(raw)
			if code == "" {
				continue
			}
			if prev, dup := c.leagueIndex[code]; dup && prev != category {
				return nil, fmt.Errorf("league code %s assigned to both %s and %s", code, prev, category)
			}
			c.leagueIndex[code] = category
			c.leagueCodes[category] = append(c.leagueCodes[category], code)
		}
	}
	for category := range leagues {
		if _, ok := domain.ParseCategory(string(category)); !ok {
			return nil, fmt.Errorf("unknown league category %q", category)
		}
	}

	for _, raw := range flat {
		c.silhouettes[normalizeCode(raw)] = domain.FamilyFlat
	}
	for _, raw := range curved {
		code := normalizeCode(raw)
		if c.silhouettes[code] == domain.FamilyFlat {
			return nil, fmt.Errorf("silhouette %s listed as both flat and curved", code)
		}
		c.silhouettes[code] = domain.FamilyCurved
	}

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog shipped with the application.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(shippedCountries, shippedLeagues, shippedFlatSilhouettes, shippedCurvedSilhouettes)
		if err != nil {
			panic(fmt.Sprintf("catalog: shipped data is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Countries returns every country in declaration order.
func (c *Catalog) Countries() []*Country {
	out := make([]*Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// LookupCountry resolves a country by code ("GT") or display name
// ("Guatemala", "el_salvador"), case-insensitively.
func (c *Catalog) LookupCountry(tag string) (*Country, bool) {
	if country, ok := c.byCode[strings.ToUpper(strings.TrimSpace(tag))]; ok {
		return country, true
	}
	country, ok := c.byName[normalizeCountryTag(tag)]
	return country, ok
}

// Stores returns the store names of a country in catalog order. Unknown
// countries yield an empty list.
func (c *Catalog) Stores(country string) []string {
	ct, ok := c.LookupCountry(country)
	if !ok {
		return []string{}
	}
	return ct.StoreNames()
}

// Capacity returns the target capacity of a store; unknown stores are untracked (0).
func (c *Catalog) Capacity(country, store string) int64 {
	ct, ok := c.LookupCountry(country)
	if !ok {
		return 0
	}
	return ct.Capacity(store)
}

// TotalCapacity is the sum of the positive store capacities of a country.
func (c *Catalog) TotalCapacity(country string) int64 {
	ct, ok := c.LookupCountry(country)
	if !ok {
		return 0
	}
	return ct.capacity
}

// CentralWarehouses lists the central warehouses of every country.
func (c *Catalog) CentralWarehouses() []StoreRef {
	var refs []StoreRef
	for _, ct := range c.countries {
		for _, name := range ct.CentralWarehouses() {
			refs = append(refs, StoreRef{Country: ct.Code, Store: name})
		}
	}
	return refs
}

// CentralWarehousesFor lists the central warehouses of one country.
func (c *Catalog) CentralWarehousesFor(country string) []string {
	ct, ok := c.LookupCountry(country)
	if !ok {
		return []string{}
	}
	return ct.CentralWarehouses()
}

// IsCentral reports whether the store is a central warehouse of the country.
func (c *Catalog) IsCentral(country, store string) bool {
	ct, ok := c.LookupCountry(country)
	if !ok {
		return false
	}
	return ct.IsCentral(store)
}

// LeagueCodes returns the accepted raw league codes of a category, upper-cased.
func (c *Catalog) LeagueCodes(category domain.LeagueCategory) []string {
	codes := c.leagueCodes[category]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// CategoryOf maps a raw league code to its category.
func (c *Catalog) CategoryOf(leagueCode string) (domain.LeagueCategory, bool) {
	category, ok := c.leagueIndex[normalizeCode(leagueCode)]
	return category, ok
}

// SilhouetteFamily classifies a silhouette code; anything unknown is FamilyNone.
func (c *Catalog) SilhouetteFamily(code string) domain.SilhouetteFamily {
	return c.silhouettes[normalizeCode(code)]
}

// StoreNames returns the store names in catalog order.
func (ct *Country) StoreNames() []string {
	names := make([]string, len(ct.stores))
	for i, s := range ct.stores {
		names[i] = s.Name
	}
	return names
}

// Stores returns a copy of the store specs in catalog order.
func (ct *Country) Stores() []StoreSpec {
	out := make([]StoreSpec, len(ct.stores))
	copy(out, ct.stores)
	return out
}

// CanonicalStore maps a raw store name to the catalog spelling.
func (ct *Country) CanonicalStore(raw string) (string, bool) {
	i, ok := ct.index[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return "", false
	}
	return ct.stores[i].Name, true
}

// StoreOrder returns the declaration position of a store, or -1.
func (ct *Country) StoreOrder(store string) int {
	i, ok := ct.index[strings.ToUpper(strings.TrimSpace(store))]
	if !ok {
		return -1
	}
	return i
}

func (ct *Country) Capacity(store string) int64 {
	i := ct.StoreOrder(store)
	if i < 0 {
		return 0
	}
	return ct.stores[i].Capacity
}

func (ct *Country) TotalCapacity() int64 {
	return ct.capacity
}

func (ct *Country) IsCentral(store string) bool {
	i := ct.StoreOrder(store)
	return i >= 0 && ct.stores[i].Central
}

func (ct *Country) CentralWarehouses() []string {
	var names []string
	for _, s := range ct.stores {
		if s.Central {
			names = append(names, s.Name)
		}
	}
	return names
}

func normalizeCode(code string) string {
	return strings.Join(strings.Fields(strings.ToUpper(code)), " ")
}

var countryTagSanitizer = strings.NewReplacer("_", " ", "-", " ")

func normalizeCountryTag(tag string) string {
	return strings.Join(strings.Fields(strings.ToUpper(countryTagSanitizer.Replace(tag))), " ")
}
