package service

import (
	"context"
	"io"

	"github.com/rube11/Mo-Data-builder-project/internal/export"
	"github.com/rube11/Mo-Data-builder-project/internal/model"
	"github.com/rube11/Mo-Data-builder-project/internal/repository"
)

// BlobStore is the slice of the blob store client the services need.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// RecordStore is the report record table.
type RecordStore interface {
	Create(v *model.VisualizationCreate) (int64, error)
	List() ([]model.Visualization, error)
	GetByID(id int64) (*model.Visualization, error)
	Delete(id int64) (bool, error)
}

// Exporter mirrors submissions to the export sink.
type Exporter interface {
	Save(payload model.ExportPayload) (*export.Result, error)
}

// SQLiteRecords adapts the repository package to RecordStore.
type SQLiteRecords struct{}

func (SQLiteRecords) Create(v *model.VisualizationCreate) (int64, error) {
	return repository.CreateVisualization(v)
}

func (SQLiteRecords) List() ([]model.Visualization, error) {
	return repository.GetVisualizations()
}

func (SQLiteRecords) GetByID(id int64) (*model.Visualization, error) {
	return repository.GetVisualizationByID(id)
}

func (SQLiteRecords) Delete(id int64) (bool, error) {
	return repository.DeleteVisualization(id)
}
