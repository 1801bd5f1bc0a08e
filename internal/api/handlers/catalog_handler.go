package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type countryResponse struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	StoreCount    int      `json:"store_count"`
	TotalCapacity int64    `json:"total_capacity"`
	Central       []string `json:"central_warehouses"`
}

type storeResponse struct {
	Name     string `json:"name"`
	Capacity int64  `json:"capacity"`
	Central  bool   `json:"central"`
}

type categoryResponse struct {
	Name        string   `json:"name"`
	LeagueCodes []string `json:"league_codes"`
}

// ListCountries returns the catalog countries in declaration order.
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries := h.catalog.Countries()
	out := make([]countryResponse, 0, len(countries))
	for _, ct := range countries {
		central := ct.CentralWarehouses()
		if central == nil {
			central = []string{}
		}
		out = append(out, countryResponse{
			Code:          ct.Code,
			Name:          ct.Name,
			StoreCount:    len(ct.Stores()),
			TotalCapacity: ct.TotalCapacity(),
			Central:       central,
		})
	}
	c.JSON(http.StatusOK, gin.H{"countries": out})
}

// ListStores returns the stores of a country with their capacities.
func (h *CatalogHandler) ListStores(c *gin.Context) {
	tag := c.Param("country")
	ct, ok := h.catalog.LookupCountry(tag)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "unknown country",
			"details": tag,
			"kind":    "unknown_country",
		})
		return
	}

	stores := ct.Stores()
	out := make([]storeResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, storeResponse{Name: s.Name, Capacity: s.Capacity, Central: s.Central})
	}
	c.JSON(http.StatusOK, gin.H{
		"country":        ct.Code,
		"name":           ct.Name,
		"total_capacity": ct.TotalCapacity(),
		"stores":         out,
	})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories := domain.Categories()
	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryResponse{
			Name:        string(cat),
			LeagueCodes: h.catalog.LeagueCodes(cat),
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}
