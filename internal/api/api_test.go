package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockdash/internal/api/handlers"
	"github.com/andresuchdata/stockdash/internal/cache"
	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/service"
	"github.com/andresuchdata/stockdash/internal/storage"
)

const panamaExport = "U_Marca;U_Silueta;Stock_Actual;Bodega;U_Liga;U_Segmento\n" +
	"NEW ERA;950;300;Albrook Mall;MLB;HEADWEAR\n" +
	"NEW ERA;9FORTY;120;Multiplaza Pacific;NBA;HEADWEAR\n" +
	"NEW ERA;TEE;40;Metromall;NBA;APPAREL\n" +
	"OTHER;950;999;Albrook Mall;MLB;HEADWEAR\n"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, maxUpload int64) *gin.Engine {
	t.Helper()
	archive, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	engine := consolidation.NewEngine(catalog.Default())
	svc := service.NewDashboardService(engine, cache.NewNoopDashboardCache(), archive)
	return NewRouter(&Services{Dashboard: svc, MaxUploadBytes: maxUpload}, nil)
}

func uploadRequest(t *testing.T, target, fileName, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCatalogCountries(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/countries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Countries []struct {
			Code          string   `json:"code"`
			StoreCount    int      `json:"store_count"`
			TotalCapacity int64    `json:"total_capacity"`
			Central       []string `json:"central_warehouses"`
		} `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Countries, 5)

	pa := body.Countries[4]
	assert.Equal(t, "PA", pa.Code)
	assert.Equal(t, 6, pa.StoreCount)
	assert.EqualValues(t, 7000, pa.TotalCapacity)
	assert.Equal(t, []string{"Bodega Central Albrook", "Almacén general"}, pa.Central)
}

func TestCatalogStores(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/countries/panama/stores", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "PA", body["country"])
	stores := body["stores"].([]any)
	require.Len(t, stores, 6)
	first := stores[0].(map[string]any)
	assert.Equal(t, "Albrook Mall", first["name"])
	assert.EqualValues(t, 2400, first["capacity"])

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/countries/XX/stores", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_country", decode(t, rec)["kind"])
}

func TestCatalogCategories(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	categories := decode(t, rec)["categories"].([]any)
	require.Len(t, categories, 5)
	mlb := categories[0].(map[string]any)
	assert.Equal(t, "MLB", mlb["name"])
	assert.Contains(t, mlb["league_codes"], "MLB")
}

func TestDashboardConsolidate(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, uploadRequest(t, "/api/v1/dashboard/PA", "stock.csv", panamaExport))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "PA", body["country"])

	view := body["view"].(map[string]any)
	rows := view["rows"].([]any)
	require.Len(t, rows, 7)
	assert.Equal(t, "Albrook Mall", rows[0].([]any)[0])
	assert.Equal(t, "TOTAL", rows[6].([]any)[0])

	alerts := body["alerts"].([]any)
	require.NotEmpty(t, alerts)
	for _, a := range alerts {
		store := a.(map[string]any)["store"]
		assert.NotEqual(t, "Bodega Central Albrook", store)
		assert.NotEqual(t, "Almacén general", store)
	}
}

func TestDashboardConsolidateCategory(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, uploadRequest(t, "/api/v1/dashboard/PA?category=nba", "stock.csv", panamaExport))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "NBA", body["category"])
	assert.Empty(t, body["alerts"])

	view := body["view"].(map[string]any)
	assert.Len(t, view["columns"], 7)
	rows := view["rows"].([]any)
	assert.Equal(t, "Multiplaza Pacific", rows[0].([]any)[0])
}

func TestDashboardErrors(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		name   string
		target string
		file   string
		body   string
		status int
		kind   string
	}{
		{"unknown country", "/api/v1/dashboard/MX", "stock.csv", panamaExport, http.StatusBadRequest, "unknown_country"},
		{"unknown category", "/api/v1/dashboard/PA?category=NHL", "stock.csv", panamaExport, http.StatusBadRequest, "unknown_category"},
		{"missing column", "/api/v1/dashboard/PA", "stock.csv", "U_Marca;Bodega\nNEW ERA;Albrook Mall\n", http.StatusBadRequest, "input_schema"},
		{"no house brand rows", "/api/v1/dashboard/PA", "stock.csv", "U_Marca;U_Silueta;Stock_Actual;Bodega;U_Liga;U_Segmento\nOTHER;950;5;Albrook Mall;MLB;HEADWEAR\n", http.StatusUnprocessableEntity, "empty_result"},
		{"missing file", "/api/v1/dashboard/PA", "", "", http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, uploadRequest(t, tt.target, tt.file, tt.body))
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.kind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDashboardUploadLimit(t *testing.T) {
	router := newTestRouter(t, 16)
	rec := serve(router, uploadRequest(t, "/api/v1/dashboard/PA", "stock.csv", panamaExport))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDashboardExport(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, uploadRequest(t, "/api/v1/dashboard/PA/export", "stock.csv", panamaExport))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, handlers.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "consolidado_PA.xlsx")
	assert.Contains(t, rec.Header().Get("X-Archive-Key"), "exports/PA/")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Consolidado Panama", "Alertas"}, f.GetSheetList())
}

func TestDashboardArchiveAndInvalidate(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := serve(router, uploadRequest(t, "/api/v1/dashboard/PA", "stock.csv", panamaExport))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/archive?prefix=uploads/PA", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["objects"], 1)

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/dashboard/cache?country=PA", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/dashboard/cache?country=XX", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
