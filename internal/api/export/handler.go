package export

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/export"
	"github.com/rube11/Mo-Data-builder-project/internal/model"
)

// Handler serves the standalone save-json endpoint.
type Handler struct {
	sink *export.Sink
}

// New creates an export handler over sink.
func New(sink *export.Sink) *Handler {
	return &Handler{sink: sink}
}

// SaveJSON accepts a submission payload and writes it to the export
// directory, responding with the stored file name and path.
func (h *Handler) SaveJSON(c *gin.Context) {
	var payload model.ExportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid JSON payload",
		})
		return
	}

	result, err := h.sink.Save(payload)
	if err != nil {
		zap.L().Error("Error saving JSON file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to save JSON file",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "JSON file saved successfully",
		"fileName": result.FileName,
		"path":     result.Path,
	})
}
