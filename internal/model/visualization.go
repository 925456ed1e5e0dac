package model

import "fmt"

// ChartType is the closed set of supported chart kinds.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// ChartTypes lists all valid chart types in display order.
var ChartTypes = []ChartType{ChartBar, ChartLine, ChartPie}

// Valid reports whether c is one of the supported chart types.
func (c ChartType) Valid() bool {
	switch c {
	case ChartBar, ChartLine, ChartPie:
		return true
	}
	return false
}

// ParseChartType validates a raw chart type string.
func ParseChartType(s string) (ChartType, error) {
	c := ChartType(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid chart type %q, must be one of bar, line, pie", s)
	}
	return c, nil
}

// Visualization represents a stored report record
type Visualization struct {
	ID                int64   `json:"id" db:"id"`
	Title             string  `json:"title" db:"title"`
	UploadedImageURL  string  `json:"uploaded_image_url" db:"uploaded_image_url"`
	ChartType         string  `json:"chart_type" db:"chart_type"`
	GeneratedChartURL string  `json:"generated_chart_url" db:"generated_chart_url"`
	BlobKey           string  `json:"blob_key,omitempty" db:"blob_key"`
	Description       *string `json:"description" db:"description"`
	CreatedAt         string  `json:"created_at" db:"created_at"`
}

// VisualizationCreate represents the fields of a new report record. The id
// is assigned by the store on insert.
type VisualizationCreate struct {
	Title             string    `json:"title"`
	ChartType         ChartType `json:"chart_type"`
	UploadedImageURL  string    `json:"uploaded_image_url"`
	GeneratedChartURL string    `json:"generated_chart_url"`
	BlobKey           string    `json:"blob_key"`
	Description       *string   `json:"description"`
}

// ExportPayload is the JSON document mirrored to the export sink on
// submission.
type ExportPayload struct {
	Title            string  `json:"title"`
	ChartType        string  `json:"chart_type"`
	UploadedFileURL  string  `json:"uploaded_file_url"`
	UploadedFileName string  `json:"uploaded_file_name"`
	Description      *string `json:"description"`
}
