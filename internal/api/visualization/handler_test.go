package visualization

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rube11/Mo-Data-builder-project/internal/export"
	"github.com/rube11/Mo-Data-builder-project/internal/model"
	"github.com/rube11/Mo-Data-builder-project/internal/service"
)

type mockBlobs struct {
	uploadErr error
	deleteErr error
	deleted   []string
}

func (m *mockBlobs) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.uploadErr
}

func (m *mockBlobs) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockBlobs) PublicURL(key string) string {
	return "http://blobs.local/excel-files/" + key
}

type mockRecords struct {
	createErr error
	listErr   error
	deleteErr error
	nextID    int64
	stored    []model.Visualization
}

func (m *mockRecords) Create(v *model.VisualizationCreate) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.stored = append([]model.Visualization{{
		ID:                m.nextID,
		Title:             v.Title,
		UploadedImageURL:  v.UploadedImageURL,
		ChartType:         string(v.ChartType),
		GeneratedChartURL: v.GeneratedChartURL,
		BlobKey:           v.BlobKey,
		Description:       v.Description,
	}}, m.stored...)
	return m.nextID, nil
}

func (m *mockRecords) List() ([]model.Visualization, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.stored, nil
}

func (m *mockRecords) GetByID(id int64) (*model.Visualization, error) {
	for _, v := range m.stored {
		if v.ID == id {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (m *mockRecords) Delete(id int64) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	for i, v := range m.stored {
		if v.ID == id {
			m.stored = append(m.stored[:i], m.stored[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockExporter struct {
	err error
}

func (m *mockExporter) Save(payload model.ExportPayload) (*export.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &export.Result{FileName: "out.json", Path: "data/exports/out.json"}, nil
}

func newTestRouter(t *testing.T, blobs *mockBlobs, records *mockRecords, exporter *mockExporter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard := service.NewInFlightGuard(time.Minute)
	browser := service.NewBrowser(blobs, records, guard, time.Second)
	handler := New(blobs, records, exporter, browser, time.Second)

	r := gin.New()
	r.GET("/api/visualizations", handler.List)
	r.POST("/api/visualizations", handler.Create)
	r.DELETE("/api/visualizations/:id", handler.Delete)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("spreadsheet-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestListVisualizations(t *testing.T) {
	records := &mockRecords{stored: []model.Visualization{
		{ID: 2, Title: "newer"},
		{ID: 1, Title: "older"},
	}}
	r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visualizations", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Visualizations []model.Visualization `json:"visualizations"`
		Error          string                `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Visualizations, 2)
	assert.Equal(t, int64(2), resp.Visualizations[0].ID)
	assert.Empty(t, resp.Error)
}

func TestListVisualizationsFetchFailure(t *testing.T) {
	records := &mockRecords{listErr: errors.New("backend down")}
	r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visualizations", nil))

	// Degrades to an empty list but the failure is visible.
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Visualizations []model.Visualization `json:"visualizations"`
		Error          string                `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Visualizations)
	assert.Empty(t, resp.Visualizations)
	assert.NotEmpty(t, resp.Error)
}

func TestCreateVisualization(t *testing.T) {
	records := &mockRecords{}
	r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{})

	body, contentType := multipartBody(t, map[string]string{
		"title":      "Q1 Sales",
		"chart_type": "line",
	}, "file", "sales.xlsx")

	req := httptest.NewRequest(http.MethodPost, "/api/visualizations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Visualization model.Visualization `json:"visualization"`
		Export        *export.Result      `json:"export"`
		ExportError   string              `json:"export_error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Q1 Sales", resp.Visualization.Title)
	assert.Equal(t, "line", resp.Visualization.ChartType)
	assert.Equal(t, "/linegraph.jpg", resp.Visualization.GeneratedChartURL)
	assert.Nil(t, resp.Visualization.Description)
	require.NotNil(t, resp.Export)
	assert.Empty(t, resp.ExportError)
	assert.Len(t, records.stored, 1)
}

func TestCreateVisualizationValidation(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		fileName string
	}{
		{"missing title", map[string]string{"chart_type": "bar"}, "sales.xlsx"},
		{"invalid chart type", map[string]string{"title": "x", "chart_type": "scatter"}, "sales.xlsx"},
		{"missing file", map[string]string{"title": "x", "chart_type": "bar"}, ""},
		{"csv rejected", map[string]string{"title": "x", "chart_type": "bar"}, "report.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &mockRecords{}
			r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{})

			body, contentType := multipartBody(t, tt.fields, "file", tt.fileName)
			req := httptest.NewRequest(http.MethodPost, "/api/visualizations", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			// Nothing reached the stores.
			assert.Empty(t, records.stored)
		})
	}
}

func TestCreateVisualizationUploadFailure(t *testing.T) {
	blobs := &mockBlobs{uploadErr: errors.New("bucket unavailable")}
	records := &mockRecords{}
	r := newTestRouter(t, blobs, records, &mockExporter{})

	body, contentType := multipartBody(t, map[string]string{
		"title": "Q1 Sales", "chart_type": "bar",
	}, "file", "sales.xlsx")
	req := httptest.NewRequest(http.MethodPost, "/api/visualizations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, records.stored)
}

func TestCreateVisualizationExportFailureStillSucceeds(t *testing.T) {
	records := &mockRecords{}
	r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{err: errors.New("disk full")})

	body, contentType := multipartBody(t, map[string]string{
		"title": "Q1 Sales", "chart_type": "pie",
	}, "file", "sales.xlsx")
	req := httptest.NewRequest(http.MethodPost, "/api/visualizations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "export_error")
	assert.Len(t, records.stored, 1)
}

func TestDeleteVisualization(t *testing.T) {
	blobs := &mockBlobs{}
	records := &mockRecords{stored: []model.Visualization{{ID: 7, BlobKey: "1_sales.xlsx"}}}
	r := newTestRouter(t, blobs, records, &mockExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/visualizations/7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1_sales.xlsx"}, blobs.deleted)
	assert.Empty(t, records.stored)

	// Deleting the same id again still succeeds.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/visualizations/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteVisualizationInvalidID(t *testing.T) {
	r := newTestRouter(t, &mockBlobs{}, &mockRecords{}, &mockExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/visualizations/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteVisualizationRecordFailure(t *testing.T) {
	records := &mockRecords{
		deleteErr: errors.New("db locked"),
		stored:    []model.Visualization{{ID: 7, BlobKey: "k"}},
	}
	r := newTestRouter(t, &mockBlobs{}, records, &mockExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/visualizations/7", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, records.stored, 1)
}
