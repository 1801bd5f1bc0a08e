package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/service"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errUploadTooLarge = errors.New("upload exceeds size limit")

type DashboardHandler struct {
	dashboard *service.DashboardService
	maxUpload int64
}

// NewDashboardHandler serves dashboards for uploaded POS exports. maxUpload
// of 0 disables the size check.
func NewDashboardHandler(dashboard *service.DashboardService, maxUpload int64) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, maxUpload: maxUpload}
}

type dashboardResponse struct {
	*consolidation.Result
	View consolidation.RenderedTable `json:"view"`
}

// Consolidate handles POST /dashboard/:country?category=
func (h *DashboardHandler) Consolidate(c *gin.Context) {
	req, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.dashboard.Consolidate(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{Result: result, View: result.Table.Render()})
}

// Export handles POST /dashboard/:country/export?category= and streams the
// workbook back as an attachment.
func (h *DashboardHandler) Export(c *gin.Context) {
	req, ok := h.readUpload(c)
	if !ok {
		return
	}

	export, err := h.dashboard.Export(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	if export.ArchiveKey != "" {
		c.Header("X-Archive-Key", export.ArchiveKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, XLSXContentType, export.Data)
}

// Invalidate drops cached dashboards, for one country when ?country= is set.
func (h *DashboardHandler) Invalidate(c *gin.Context) {
	country := c.Query("country")
	if err := h.dashboard.Invalidate(c.Request.Context(), country); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invalidated", "country": country})
}

func (h *DashboardHandler) ListArchive(c *gin.Context) {
	objects, err := h.dashboard.ListArchive(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": objects})
}

func (h *DashboardHandler) readUpload(c *gin.Context) (service.ConsolidateRequest, bool) {
	req := service.ConsolidateRequest{
		Country:  c.Param("country"),
		Category: c.Query("category"),
	}

	header, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing multipart field \"file\"", err.Error(), "invalid_request")
		return req, false
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		errorResponse(c, http.StatusRequestEntityTooLarge, errUploadTooLarge.Error(),
			fmt.Sprintf("%d bytes, limit %d", header.Size, h.maxUpload), "invalid_request")
		return req, false
	}

	f, err := header.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "unreadable upload", err.Error(), "invalid_request")
		return req, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "unreadable upload", err.Error(), "invalid_request")
		return req, false
	}

	req.FileName = header.Filename
	req.Data = data
	return req, true
}

func serviceError(c *gin.Context, err error) {
	status := service.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("dashboard request failed")
		errorResponse(c, status, "internal error", err.Error(), service.ErrorKind(err))
		return
	}
	_ = c.Error(err)
	errorResponse(c, status, http.StatusText(status), err.Error(), service.ErrorKind(err))
}

func errorResponse(c *gin.Context, statusCode int, message, details, kind string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":   message,
		"details": details,
		"kind":    kind,
	})
}
