package receiving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"materials-manager/core/storage"
	"materials-manager/feature/receiving/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReportStore is the document-store-backed GoodsReceiptStore. Unloading
// reports are JSON objects under a prefix, one per report; queries decode
// the full index and filter in memory, since an installation accumulates at
// most a few thousand reports.
//
// An optional TTL cache keeps the decoded index between queries. Zero TTL
// disables it; ingestion invalidates it.
type ReportStore struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger

	cacheTTL time.Duration

	mu     sync.RWMutex
	cached []reconcile.Report
	built  time.Time
	sf     singleflight.Group
}

// NewReportStore creates a report store over the given bucket and prefix.
func NewReportStore(client storage.Client, bucket, prefix string, cacheTTL time.Duration, logger *zap.Logger) *ReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStore{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// QueryByOrderNumber returns every report carrying any of the given order
// number variants, sorted by fill date then id so aggregation order is
// deterministic across calls.
func (s *ReportStore) QueryByOrderNumber(ctx context.Context, variants []string) ([]reconcile.Report, error) {
	if len(variants) == 0 {
		return nil, nil
	}

	reports, err := s.index(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		wanted[v] = struct{}{}
	}

	var matched []reconcile.Report
	for _, report := range reports {
		for _, number := range report.OrderNumbers {
			if _, ok := wanted[number]; ok {
				matched = append(matched, report)
				break
			}
		}
	}
	return matched, nil
}

// ListReports returns the full decoded report index, sorted by fill date
// then id. Used by the audit feature.
func (s *ReportStore) ListReports(ctx context.Context) ([]reconcile.Report, error) {
	return s.index(ctx)
}

// SaveReport persists a report as a JSON document and invalidates the
// index cache.
func (s *ReportStore) SaveReport(ctx context.Context, report reconcile.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
	}

	objectName := s.objectName(report.ID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to store report %s: %w", report.ID, err)
	}

	s.Invalidate()
	return nil
}

// Invalidate drops the cached index so the next query re-lists the bucket.
func (s *ReportStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *ReportStore) objectName(reportID string) string {
	return s.prefix + reportID + ".json"
}

// index returns the decoded report index, from cache when fresh. A
// singleflight group prevents concurrent reconciliations from listing the
// bucket in parallel.
func (s *ReportStore) index(ctx context.Context) ([]reconcile.Report, error) {
	if s.cacheTTL > 0 {
		s.mu.RLock()
		cached, built := s.cached, s.built
		s.mu.RUnlock()
		if cached != nil && time.Since(built) <= s.cacheTTL {
			return cached, nil
		}
	}

	result, err, _ := s.sf.Do("index", func() (any, error) {
		reports, err := s.loadIndex(ctx)
		if err != nil {
			return nil, err
		}
		if s.cacheTTL > 0 {
			s.mu.Lock()
			s.cached = reports
			s.built = time.Now()
			s.mu.Unlock()
		}
		return reports, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]reconcile.Report), nil
}

// loadIndex lists and decodes every report document under the prefix.
// Malformed documents are logged and skipped so one corrupt upload never
// blocks reconciliation of the rest.
func (s *ReportStore) loadIndex(ctx context.Context) ([]reconcile.Report, error) {
	var reports []reconcile.Report

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	})

	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", object.Err)
		}
		if !strings.HasSuffix(object.Key, ".json") {
			continue
		}

		report, err := s.fetchReport(ctx, object.Key)
		if err != nil {
			s.logger.Warn("Skipping unreadable report document",
				zap.String("object", object.Key),
				zap.Error(err))
			continue
		}
		reports = append(reports, *report)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].FilledAt.Equal(reports[j].FilledAt) {
			return reports[i].FilledAt.Before(reports[j].FilledAt)
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}

func (s *ReportStore) fetchReport(ctx context.Context, objectName string) (*reconcile.Report, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}

	var report reconcile.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	if report.ID == "" {
		// Old documents lack the embedded id; derive it from the key.
		report.ID = strings.TrimSuffix(strings.TrimPrefix(objectName, s.prefix), ".json")
	}
	return &report, nil
}
