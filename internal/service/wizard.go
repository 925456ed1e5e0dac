package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/export"
	"github.com/rube11/Mo-Data-builder-project/internal/model"
	"github.com/rube11/Mo-Data-builder-project/internal/placeholder"
	"github.com/rube11/Mo-Data-builder-project/internal/storage"
)

// WizardState names the states of the report creation flow.
type WizardState int

const (
	StateDetails WizardState = iota + 1
	StateUpload
	StateGenerate
	StateSubmitting
	StateSubmitted
)

func (s WizardState) String() string {
	switch s {
	case StateDetails:
		return "details"
	case StateUpload:
		return "upload"
	case StateGenerate:
		return "generate"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Draft holds the wizard's in-progress, unpersisted input. It survives
// backward navigation and failed submissions; it is discarded only on
// success.
type Draft struct {
	Title       string
	ChartType   model.ChartType
	FileName    string
	Description string
}

// SubmitResult reports a completed submission. ExportErr is set when the
// mirror write failed; the submission itself still succeeded.
type SubmitResult struct {
	Record    *model.Visualization
	Export    *export.Result
	ExportErr error
}

// Wizard drives the three-step report creation flow: details, upload,
// generate. Transitions are guarded, strictly linear, and submission runs
// the backend calls in a fixed order.
type Wizard struct {
	blobs    BlobStore
	records  RecordStore
	exporter Exporter
	timeout  time.Duration
	log      *zap.Logger

	mu    sync.Mutex
	state WizardState
	draft Draft
}

// NewWizard creates a wizard in the details state with the bar chart type
// preselected.
func NewWizard(blobs BlobStore, records RecordStore, exporter Exporter, timeout time.Duration) *Wizard {
	return &Wizard{
		blobs:    blobs,
		records:  records,
		exporter: exporter,
		timeout:  timeout,
		log:      zap.L().With(zap.String("component", "wizard")),
		state:    StateDetails,
		draft:    Draft{ChartType: model.ChartBar},
	}
}

// State returns the current wizard state.
func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// SetTitle updates the draft title.
func (w *Wizard) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Title = title
}

// SetChartType updates the draft chart type, rejecting values outside the
// closed set.
func (w *Wizard) SetChartType(chartType string) error {
	ct, err := model.ParseChartType(chartType)
	if err != nil {
		return model.NewError(model.KindValidation, "invalid chart type", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ChartType = ct
	return nil
}

// SetDescription updates the draft description.
func (w *Wizard) SetDescription(description string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Description = description
}

// AttachFile records the uploaded file on the draft. Only .xlsx and .xls
// names are accepted (extension check is case sensitive, matching the
// upload contract); rejection clears any previous attachment, so the
// upload step cannot be left with a stale file.
func (w *Wizard) AttachFile(filename string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !strings.HasSuffix(filename, ".xlsx") && !strings.HasSuffix(filename, ".xls") {
		w.draft.FileName = ""
		return model.NewError(model.KindValidation,
			"please upload an Excel file (.xlsx or .xls)", nil)
	}
	w.draft.FileName = filename
	return nil
}

// CanProceed reports whether the guard out of the given state passes. It
// is a pure function of the draft.
func (w *Wizard) CanProceed(from WizardState) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return canProceed(from, w.draft)
}

func canProceed(from WizardState, draft Draft) bool {
	switch from {
	case StateDetails:
		return strings.TrimSpace(draft.Title) != ""
	case StateUpload:
		return draft.FileName != ""
	}
	return false
}

// Next advances one step, enforcing the step guard.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateDetails:
		if !canProceed(StateDetails, w.draft) {
			return model.NewError(model.KindValidation, "report title is required", nil)
		}
		w.state = StateUpload
	case StateUpload:
		if !canProceed(StateUpload, w.draft) {
			return model.NewError(model.KindValidation, "an Excel file must be uploaded first", nil)
		}
		w.state = StateGenerate
	default:
		return model.NewError(model.KindValidation, "cannot advance from "+w.state.String(), nil)
	}
	return nil
}

// Back steps backward one state. The draft is never cleared by backward
// navigation.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateUpload:
		w.state = StateDetails
	case StateGenerate:
		w.state = StateUpload
	}
}

// Submit runs the submission sequence from the generate step: upload the
// blob, insert the record, mirror to the export sink, strictly in that
// order. Blob and record failures abort the submission and return the
// wizard to the generate step with the draft intact. An export failure is
// logged and reported on the result but does not fail the submission.
func (w *Wizard) Submit(ctx context.Context, content io.Reader, size int64) (*SubmitResult, error) {
	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, ErrInFlight
	}
	if w.state != StateGenerate {
		w.mu.Unlock()
		return nil, model.NewError(model.KindValidation,
			"submission is only possible from the generate step", nil)
	}
	w.state = StateSubmitting
	draft := w.draft
	w.mu.Unlock()

	key := storage.ObjectKey(draft.FileName, time.Now())

	uploadCtx, cancel := w.callCtx(ctx)
	err := w.blobs.Upload(uploadCtx, key, content, size, storage.ContentTypeFor(draft.FileName))
	cancel()
	if err != nil {
		w.setState(StateGenerate)
		return nil, model.NewError(model.KindUploadFailed, "failed to upload file", err)
	}

	fileURL := w.blobs.PublicURL(key)

	var description *string
	if draft.Description != "" {
		description = &draft.Description
	}

	create := &model.VisualizationCreate{
		Title:             draft.Title,
		ChartType:         draft.ChartType,
		UploadedImageURL:  fileURL,
		GeneratedChartURL: placeholder.Resolve(draft.ChartType),
		BlobKey:           key,
		Description:       description,
	}

	id, err := w.records.Create(create)
	if err != nil {
		w.setState(StateGenerate)
		return nil, model.NewError(model.KindPersistFailed, "failed to save report", err)
	}

	record := &model.Visualization{
		ID:                id,
		Title:             create.Title,
		UploadedImageURL:  create.UploadedImageURL,
		ChartType:         string(create.ChartType),
		GeneratedChartURL: create.GeneratedChartURL,
		BlobKey:           create.BlobKey,
		Description:       create.Description,
	}

	result := &SubmitResult{Record: record}

	exported, err := w.exporter.Save(model.ExportPayload{
		Title:            draft.Title,
		ChartType:        string(draft.ChartType),
		UploadedFileURL:  fileURL,
		UploadedFileName: draft.FileName,
		Description:      description,
	})
	if err != nil {
		// The record is already persisted; the mirror is best-effort.
		w.log.Error("Failed to save export file",
			zap.Int64("id", id),
			zap.Error(err))
		result.ExportErr = model.NewError(model.KindExportFailed, "failed to save export file", err)
	} else {
		result.Export = exported
	}

	w.mu.Lock()
	w.state = StateSubmitted
	w.draft = Draft{ChartType: model.ChartBar}
	w.mu.Unlock()

	return result, nil
}

func (w *Wizard) setState(s WizardState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Wizard) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, w.timeout)
}
