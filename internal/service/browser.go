package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/model"
	"github.com/rube11/Mo-Data-builder-project/internal/storage"
)

// Browser serves the report listing and deletion flows.
type Browser struct {
	blobs   BlobStore
	records RecordStore
	guard   *InFlightGuard
	timeout time.Duration
	log     *zap.Logger
}

// NewBrowser creates a browser service.
func NewBrowser(blobs BlobStore, records RecordStore, guard *InFlightGuard, timeout time.Duration) *Browser {
	return &Browser{
		blobs:   blobs,
		records: records,
		guard:   guard,
		timeout: timeout,
		log:     zap.L().With(zap.String("component", "browser")),
	}
}

// List returns all report records, most recent first. On a backend error
// it returns an empty list alongside a fetch error so callers can tell
// "no records" from "fetch failed".
func (b *Browser) List(ctx context.Context) ([]model.Visualization, error) {
	visualizations, err := b.records.List()
	if err != nil {
		b.log.Error("Failed to fetch visualizations", zap.Error(err))
		return []model.Visualization{}, model.NewError(model.KindFetchFailed,
			"failed to fetch reports", err)
	}

	if visualizations == nil {
		visualizations = []model.Visualization{}
	}

	return visualizations, nil
}

// Delete removes a report: blob first (best-effort), then the record row
// (authoritative). A missing row is treated as already deleted. At most
// one delete per id runs at a time; unrelated ids proceed concurrently.
func (b *Browser) Delete(ctx context.Context, id int64) error {
	key := fmt.Sprintf("delete:%d", id)
	if !b.guard.TryAcquire(key) {
		return ErrInFlight
	}
	defer b.guard.Release(key)

	record, err := b.records.GetByID(id)
	if err != nil {
		return model.NewError(model.KindDeleteFailed, "failed to load report", err)
	}
	if record == nil {
		return nil
	}

	blobKey := record.BlobKey
	if blobKey == "" {
		// Rows created before blob_key was stored: fall back to parsing
		// the public URL.
		blobKey = storage.BlobName(record.UploadedImageURL)
	}

	if blobKey != "" {
		blobCtx, cancel := b.callCtx(ctx)
		if err := b.blobs.Delete(blobCtx, blobKey); err != nil {
			// Best-effort: an orphaned blob is accepted residual state.
			b.log.Warn("Failed to delete blob, continuing with record delete",
				zap.Int64("id", id),
				zap.String("blob_key", blobKey),
				zap.Error(err))
		}
		cancel()
	}

	deleted, err := b.records.Delete(id)
	if err != nil {
		return model.NewError(model.KindDeleteFailed, "failed to delete report", err)
	}
	if !deleted {
		b.log.Debug("Report row already removed", zap.Int64("id", id))
	}

	return nil
}

func (b *Browser) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}
