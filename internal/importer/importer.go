// Package importer runs the statement-import pipeline: decode, sniff, parse,
// classify inline and persist. It also hosts the retroactive bulk
// classification pass over a user's uncategorized transactions.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"kakeibo/internal/categorizer"
	"kakeibo/internal/factory"
	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parsererror"
	"kakeibo/internal/sniffer"
	"kakeibo/internal/store"
	"kakeibo/internal/textencoding"
)

// Zero-result messages of AutoAssign.
const (
	MsgNoCategories        = "no categories found"
	MsgNoKeywordCategories = "no categories with keywords"
	MsgNoUncategorized     = "no uncategorized transactions"
)

// Decoder turns raw upload bytes into text.
type Decoder interface {
	Normalize(r io.Reader) (textencoding.Result, error)
}

// Classifier picks at most one category for a description.
type Classifier interface {
	Match(description string, categories []models.Category) (string, bool)
}

// Recorder observes pipeline outcomes. The zero Service uses a no-op.
type Recorder interface {
	ObserveUpload(result models.UploadResult, elapsed time.Duration)
	ObserveRejection(reason string)
	ObserveAssign(result models.AssignResult)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpload(models.UploadResult, time.Duration) {}
func (nopRecorder) ObserveRejection(string)                          {}
func (nopRecorder) ObserveAssign(models.AssignResult)                {}

// Service wires the pipeline stages to a store.
type Service struct {
	decoder    Decoder
	classifier Classifier
	store      store.Store
	recorder   Recorder
	logger     logging.Logger
}

// New creates a Service.
func New(st store.Store, decoder Decoder, classifier Classifier, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Service{
		decoder:    decoder,
		classifier: classifier,
		store:      st,
		recorder:   nopRecorder{},
		logger:     logger,
	}
}

// WithRecorder sets the metrics recorder and returns the Service.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Inspection is what Inspect learns about a file without parsing it.
type Inspection struct {
	Encoding  string        `json:"encoding"`
	Detected  bool          `json:"detected"`
	Vendor    models.Vendor `json:"vendor"`
	FirstLine string        `json:"first_line"`
}

// Inspect decodes r and identifies its vendor.
func (s *Service) Inspect(r io.Reader) (Inspection, error) {
	decoded, err := s.decoder.Normalize(r)
	if err != nil {
		return Inspection{}, err
	}
	return Inspection{
		Encoding:  decoded.Encoding,
		Detected:  decoded.Detected,
		Vendor:    sniffer.Detect(decoded.Text),
		FirstLine: sniffer.FirstLine(decoded.Text),
	}, nil
}

// Upload imports one statement for ownerID. Fatal errors (unreadable,
// empty, unrecognized or row-less files) are returned before anything is
// persisted. Per-row persistence failures only affect the tally.
func (s *Service) Upload(ctx context.Context, ownerID string, r io.Reader) (*models.UploadResult, error) {
	start := time.Now()
	logger := s.logger.WithField(logging.FieldOwner, ownerID)

	candidates, result, err := s.prepare(ownerID, r, logger)
	if err != nil {
		s.recorder.ObserveRejection(rejectionReason(err))
		logger.WithError(err).Warn("Upload rejected")
		return nil, err
	}

	categories := s.inlineCategories(ctx, ownerID, logger)

	for _, c := range candidates {
		var categoryID *string
		if id, ok := s.classifier.Match(c.Description, categories); ok {
			categoryID = &id
		}

		_, err := s.store.InsertTransaction(ctx, models.FromCandidate(ownerID, result.Vendor, c, categoryID))
		switch {
		case err == nil:
			result = result.Record(models.RowInserted, c.Description, nil)
		case errors.Is(err, store.ErrDuplicate):
			result = result.Record(models.RowDuplicate, c.Description, nil)
		default:
			logger.WithError(err).Warn("Failed to insert transaction",
				logging.F(logging.FieldDescription, c.Description),
				logging.F(logging.FieldExternalID, c.ExternalID))
			result = result.Record(models.RowFailed, c.Description, err)
		}
	}

	result.LogSummary(logger)
	s.recorder.ObserveUpload(result, time.Since(start))
	return &result, nil
}

// prepare runs every stage that can reject the whole upload.
func (s *Service) prepare(ownerID string, r io.Reader, logger logging.Logger) ([]models.Candidate, models.UploadResult, error) {
	result := models.UploadResult{Errors: []string{}}
	if strings.TrimSpace(ownerID) == "" {
		return nil, result, &parsererror.ValidationError{Field: "owner_id", Reason: "must not be empty"}
	}

	decoded, err := s.decoder.Normalize(r)
	if err != nil {
		return nil, result, err
	}
	if strings.TrimSpace(decoded.Text) == "" {
		return nil, result, &parsererror.EmptyFileError{}
	}
	result.Encoding = decoded.Encoding

	vendor := sniffer.Detect(decoded.Text)
	if vendor == models.VendorUnknown {
		supported := make([]string, 0, len(models.SupportedVendors))
		for _, v := range models.SupportedVendors {
			supported = append(supported, string(v))
		}
		return nil, result, &parsererror.UnrecognizedFormatError{
			Supported: supported,
			Snippet:   sniffer.FirstLine(decoded.Text),
		}
	}
	result.Vendor = vendor

	p, err := factory.GetParser(vendor, logger)
	if err != nil {
		return nil, result, err
	}
	candidates, err := p.Parse(strings.NewReader(decoded.Text))
	if err != nil {
		return nil, result, err
	}

	logger.Info("Parsed statement",
		logging.F(logging.FieldVendor, vendor),
		logging.F(logging.FieldEncoding, decoded.Encoding),
		logging.F(logging.FieldCount, len(candidates)))
	return candidates, result, nil
}

// inlineCategories loads the expense categories used at upload time.
// Statement rows are always treated as expenses here. A lookup failure
// disables classification instead of failing the upload.
func (s *Service) inlineCategories(ctx context.Context, ownerID string, logger logging.Logger) []models.Category {
	expense := models.CategoryExpense
	categories, err := s.store.ListCategories(ctx, ownerID, &expense)
	if err != nil {
		logger.WithError(err).Warn("Failed to load categories, importing without classification")
		return nil
	}
	return categorizer.WithKeywords(categories)
}

// AutoAssign classifies every uncategorized transaction of ownerID. The
// candidate categories for each transaction follow the sign of its amount.
func (s *Service) AutoAssign(ctx context.Context, ownerID string) (*models.AssignResult, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, &parsererror.ValidationError{Field: "owner_id", Reason: "must not be empty"}
	}
	logger := s.logger.WithField(logging.FieldOwner, ownerID)

	categories, err := s.store.ListCategories(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return s.finishAssign(logger, models.AssignResult{Message: MsgNoCategories}), nil
	}
	byType := categorizer.PartitionByType(categories)
	if len(byType) == 0 {
		return s.finishAssign(logger, models.AssignResult{Message: MsgNoKeywordCategories}), nil
	}

	pending, err := s.store.ListUncategorized(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}
	if len(pending) == 0 {
		return s.finishAssign(logger, models.AssignResult{Message: MsgNoUncategorized}), nil
	}

	result := models.AssignResult{Total: len(pending)}
	for _, tx := range pending {
		id, ok := s.classifier.Match(tx.Description, byType.For(tx))
		if !ok {
			continue
		}
		if err := s.store.UpdateTransactionCategory(ctx, ownerID, tx.ID, &id); err != nil {
			logger.WithError(err).Warn("Failed to assign category",
				logging.F(logging.FieldTransactionID, tx.ID),
				logging.F(logging.FieldCategory, id))
			continue
		}
		result.Assigned++
	}
	result.Message = fmt.Sprintf("assigned categories to %d of %d transactions", result.Assigned, result.Total)
	return s.finishAssign(logger, result), nil
}

func (s *Service) finishAssign(logger logging.Logger, result models.AssignResult) *models.AssignResult {
	result.LogSummary(logger)
	s.recorder.ObserveAssign(result)
	return &result
}

// rejectionReason labels a fatal upload error for metrics.
func rejectionReason(err error) string {
	var (
		readErr    *parsererror.FileReadError
		emptyErr   *parsererror.EmptyFileError
		formatErr  *parsererror.UnrecognizedFormatError
		noRowsErr  *parsererror.NoValidTransactionsError
		invalidErr *parsererror.ValidationError
	)
	switch {
	case errors.As(err, &readErr):
		return "read"
	case errors.As(err, &emptyErr):
		return "empty"
	case errors.As(err, &formatErr):
		return "format"
	case errors.As(err, &noRowsErr):
		return "no_rows"
	case errors.As(err, &invalidErr):
		return "validation"
	default:
		return "other"
	}
}
