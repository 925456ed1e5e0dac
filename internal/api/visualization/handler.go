package visualization

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rube11/Mo-Data-builder-project/internal/model"
	"github.com/rube11/Mo-Data-builder-project/internal/service"
)

// Handler serves the report record endpoints.
type Handler struct {
	blobs    service.BlobStore
	records  service.RecordStore
	exporter service.Exporter
	browser  *service.Browser
	timeout  time.Duration
}

// New creates a visualization handler.
func New(blobs service.BlobStore, records service.RecordStore, exporter service.Exporter, browser *service.Browser, timeout time.Duration) *Handler {
	return &Handler{
		blobs:    blobs,
		records:  records,
		exporter: exporter,
		browser:  browser,
		timeout:  timeout,
	}
}

// List returns all reports, most recent first. A fetch failure still
// responds 200 with an empty list plus an error field, so clients can
// show the failure instead of a silently empty screen.
func (h *Handler) List(c *gin.Context) {
	visualizations, err := h.browser.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"visualizations": visualizations,
			"error":          err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"visualizations": visualizations})
}

// Create runs the report wizard over a multipart submission: title,
// chart_type and description fields plus the spreadsheet file.
func (h *Handler) Create(c *gin.Context) {
	wizard := service.NewWizard(h.blobs, h.records, h.exporter, h.timeout)

	wizard.SetTitle(c.PostForm("title"))
	if chartType := c.PostForm("chart_type"); chartType != "" {
		if err := wizard.SetChartType(chartType); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	}

	if err := wizard.Next(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "File is required"})
		return
	}
	if err := wizard.AttachFile(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := wizard.Next(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	wizard.SetDescription(c.PostForm("description"))

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer src.Close()

	result, err := wizard.Submit(c.Request.Context(), src, file.Size)
	if err != nil {
		switch model.KindOf(err) {
		case model.KindValidation:
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		case model.KindUploadFailed:
			c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	response := gin.H{"visualization": result.Record}
	if result.ExportErr != nil {
		response["export_error"] = result.ExportErr.Error()
	} else {
		response["export"] = result.Export
	}

	c.JSON(http.StatusCreated, response)
}

// Delete removes a report by id: blob first, then the row. Deleting an
// id that is already gone succeeds.
func (h *Handler) Delete(c *gin.Context) {
	var id int64
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid report ID"})
		return
	}

	if err := h.browser.Delete(c.Request.Context(), id); err != nil {
		if err == service.ErrInFlight {
			c.JSON(http.StatusConflict, gin.H{"detail": "Delete already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
