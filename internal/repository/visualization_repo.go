package repository

import (
	"database/sql"
	"time"

	"github.com/rube11/Mo-Data-builder-project/internal/model"
)

// CreateVisualization inserts a new report record and returns its id
func CreateVisualization(v *model.VisualizationCreate) (int64, error) {
	now := time.Now().Format(time.RFC3339)

	query := `
		INSERT INTO visualizations (title, uploaded_image_url, chart_type, generated_chart_url, blob_key, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query,
		v.Title, v.UploadedImageURL, string(v.ChartType),
		v.GeneratedChartURL, v.BlobKey, v.Description, now)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// GetVisualizations returns all report records, most recent first
func GetVisualizations() ([]model.Visualization, error) {
	query := `
		SELECT id, title, uploaded_image_url, chart_type, generated_chart_url, blob_key, description, created_at
		FROM visualizations ORDER BY id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visualizations []model.Visualization
	for rows.Next() {
		v, err := scanVisualization(rows.Scan)
		if err != nil {
			return nil, err
		}
		visualizations = append(visualizations, *v)
	}

	return visualizations, rows.Err()
}

// GetVisualizationByID returns a record by id, or nil when absent
func GetVisualizationByID(id int64) (*model.Visualization, error) {
	query := `
		SELECT id, title, uploaded_image_url, chart_type, generated_chart_url, blob_key, description, created_at
		FROM visualizations WHERE id = ?
	`

	v, err := scanVisualization(db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return v, nil
}

// DeleteVisualization removes a record by id. Returns false without error
// when no row matched, so deleting an already-removed id is not a failure.
func DeleteVisualization(id int64) (bool, error) {
	result, err := db.Exec(`DELETE FROM visualizations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func scanVisualization(scan func(dest ...any) error) (*model.Visualization, error) {
	v := &model.Visualization{}
	var blobKey, description sql.NullString

	err := scan(
		&v.ID, &v.Title, &v.UploadedImageURL, &v.ChartType,
		&v.GeneratedChartURL, &blobKey, &description, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if blobKey.Valid {
		v.BlobKey = blobKey.String
	}
	if description.Valid {
		v.Description = &description.String
	}

	return v, nil
}
