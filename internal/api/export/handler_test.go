package export

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rube11/Mo-Data-builder-project/internal/export"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := New(export.NewSink(t.TempDir()))
	r := gin.New()
	r.POST("/api/save-json", handler.SaveJSON)
	return r
}

func TestSaveJSON(t *testing.T) {
	r := newTestRouter(t)

	payload := `{
		"title": "Q1 Sales",
		"chart_type": "line",
		"uploaded_file_url": "http://host/excel-files/1_sales.xlsx",
		"uploaded_file_name": "sales.xlsx",
		"description": null
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/save-json", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success  bool   `json:"success"`
		FileName string `json:"fileName"`
		Path     string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.FileName, "Q1_Sales_"))
	assert.True(t, strings.HasSuffix(resp.Path, resp.FileName))
}

func TestSaveJSONInvalidBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/save-json", strings.NewReader("not-json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
