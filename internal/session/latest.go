package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/ports"
)

// Blob keys of the latest published report.
const (
	LatestWorkbookKey = "latest.xlsx"
	LatestDocumentKey = "latest.json"
)

// LatestStore keeps the most recently published document in memory, backed by
// latest.xlsx and latest.json in a blob store. It implements
// ports.DocumentStore.
//
// latest.json is the source of truth: the cached document is replaced
// whenever the file on disk is newer than the copy in memory, so a document
// written by another process (the extract command, say) is picked up.
type LatestStore struct {
	blobs     BlobStore
	extractor ports.WorkbookExtractor
	seedDir   string
	logger    *zap.Logger

	mu      sync.RWMutex
	doc     *report.Document
	modTime time.Time

	loads singleflight.Group
}

// NewLatestStore creates a store over blobs. When neither latest file exists,
// the first *.xlsx in seedDir (if seedDir is non-empty) is copied in as
// latest.xlsx and extracted.
func NewLatestStore(blobs BlobStore, extractor ports.WorkbookExtractor, seedDir string, logger *zap.Logger) *LatestStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LatestStore{
		blobs:     blobs,
		extractor: extractor,
		seedDir:   seedDir,
		logger:    logger,
	}
}

// Current returns the latest document. Concurrent callers that miss the
// cache share one load.
func (s *LatestStore) Current(ctx context.Context) (*report.Document, error) {
	if doc, ok := s.fresh(ctx); ok {
		return doc, nil
	}

	v, err, _ := s.loads.Do(LatestDocumentKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*report.Document), nil
}

// Publish stores the workbook and its document as the new latest report.
func (s *LatestStore) Publish(ctx context.Context, workbook []byte, doc *report.Document) error {
	body, err := doc.EncodeIndent()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.StoreBlob(ctx, LatestWorkbookKey, workbook); err != nil {
		return err
	}
	if err := s.blobs.StoreBlob(ctx, LatestDocumentKey, body); err != nil {
		return err
	}

	meta, err := s.blobs.GetBlobMetadata(ctx, LatestDocumentKey)
	if err != nil {
		return err
	}
	s.doc = doc
	s.modTime = meta.LastModified
	return nil
}

// Bootstrap loads whatever is on disk so the first request does not pay for
// extraction. Having nothing to load is not an error.
func (s *LatestStore) Bootstrap(ctx context.Context) error {
	doc, err := s.Current(ctx)
	if errors.Is(err, core.ErrNoDocument) {
		s.logger.Info("no report on disk yet")
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("loaded latest report",
		zap.String("filename", doc.Source.Filename),
		zap.Int("rows", len(doc.Dataset.Rows)),
		zap.String("generated_at", doc.GeneratedAt))
	return nil
}

// fresh returns the cached document when latest.json has not changed since
// it was read.
func (s *LatestStore) fresh(ctx context.Context) (*report.Document, bool) {
	meta, err := s.blobs.GetBlobMetadata(ctx, LatestDocumentKey)
	if err != nil {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil || meta.LastModified.After(s.modTime) {
		return nil, false
	}
	return s.doc, true
}

func (s *LatestStore) load(ctx context.Context) (*report.Document, error) {
	exists, err := s.blobs.BlobExists(ctx, LatestDocumentKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := s.materialize(ctx); err != nil {
			return nil, err
		}
	}

	meta, err := s.blobs.GetBlobMetadata(ctx, LatestDocumentKey)
	if err != nil {
		return nil, err
	}
	body, err := s.blobs.ReadBlob(ctx, LatestDocumentKey)
	if err != nil {
		return nil, err
	}

	var doc report.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", LatestDocumentKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a Publish that landed while we were reading wins
	if s.doc != nil && s.modTime.After(meta.LastModified) {
		return s.doc, nil
	}
	s.doc = &doc
	s.modTime = meta.LastModified
	return &doc, nil
}

// materialize produces latest.json from latest.xlsx, seeding latest.xlsx
// first when it is missing.
func (s *LatestStore) materialize(ctx context.Context) error {
	exists, err := s.blobs.BlobExists(ctx, LatestWorkbookKey)
	if err != nil {
		return err
	}
	if !exists {
		seeded, err := s.seed(ctx)
		if err != nil {
			return err
		}
		if !seeded {
			return core.ErrNoDocument
		}
	}

	data, err := s.blobs.ReadBlob(ctx, LatestWorkbookKey)
	if err != nil {
		return err
	}
	doc, err := s.extractor.Extract(ctx, data, LatestWorkbookKey)
	if err != nil {
		return err
	}
	body, err := doc.EncodeIndent()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return s.blobs.StoreBlob(ctx, LatestDocumentKey, body)
}

// seed copies the first workbook found in seedDir to latest.xlsx.
func (s *LatestStore) seed(ctx context.Context) (bool, error) {
	if s.seedDir == "" {
		return false, nil
	}
	entries, err := os.ReadDir(s.seedDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to scan %s: %w", s.seedDir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xlsx") {
			continue
		}
		src := filepath.Join(s.seedDir, e.Name())
		data, err := os.ReadFile(src)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", src, err)
		}
		if err := s.blobs.StoreBlob(ctx, LatestWorkbookKey, data); err != nil {
			return false, err
		}
		s.logger.Info("seeded latest workbook", zap.String("source", src))
		return true, nil
	}
	return false, nil
}
