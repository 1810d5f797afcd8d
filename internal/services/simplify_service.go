package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/dataset"
	"github.com/soltixdb/rdplines/internal/events"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/report"
	"github.com/soltixdb/rdplines/internal/simplify"
	"github.com/soltixdb/rdplines/internal/stats"
	"github.com/soltixdb/rdplines/internal/store"
	"github.com/soltixdb/rdplines/internal/utils"
)

// CSVContentType is the content type of stored simplified files
const CSVContentType = "text/csv"

// SimplifyService runs uploads through parsing, simplification, storage,
// the comparison report and event publishing
type SimplifyService struct {
	logger    *logging.Logger
	store     store.Store
	publisher events.Publisher
	cfg       config.SimplifyConfig
	ttl       time.Duration
	subject   string
	now       func() time.Time
}

// NewSimplifyService creates a new SimplifyService
func NewSimplifyService(
	logger *logging.Logger,
	artifacts store.Store,
	publisher events.Publisher,
	cfg config.SimplifyConfig,
	ttl time.Duration,
	subject string,
) *SimplifyService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &SimplifyService{
		logger:    logger,
		store:     artifacts,
		publisher: publisher,
		cfg:       cfg,
		ttl:       ttl,
		subject:   subject,
		now:       time.Now,
	}
}

// SimplifyRequest is one uploaded CSV file
type SimplifyRequest struct {
	Filename string
	Data     []byte
	Epsilon  *float64 // nil derives epsilon from the data
}

// SimplifyResult describes a finished simplification
type SimplifyResult struct {
	ID          string
	Dataset     *dataset.Dataset
	Rows        []int // retained data rows, ascending
	Epsilon     float64
	AutoEpsilon bool

	OriginalPoints   int
	SimplifiedPoints int

	FileSize     int64
	NewFilename  string
	NewFileSize  int64
	DiffFileSize int64

	SequentialTime time.Duration
	ParallelTime   time.Duration

	Report    *report.ComparisonReport
	ExpiresAt time.Time
}

// Simplify parses req, simplifies the series and stores the simplified CSV
func (s *SimplifyService) Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResult, error) {
	logger := s.logger.WithContext(ctx)

	ds, err := dataset.Parse(bytes.NewReader(req.Data))
	if err != nil {
		if errors.Is(err, dataset.ErrEmptyCSV) {
			return nil, NewServiceError(CodeEmptyCSV, "CSV file is empty!")
		}
		return nil, NewServiceError(CodeInvalidCSV, err.Error())
	}

	points, rows := ds.Points()
	if err := s.checkSize(len(points)); err != nil {
		return nil, err
	}

	epsilon, auto, err := s.resolveEpsilon(points, req.Epsilon)
	if err != nil {
		return nil, err
	}

	indices, seqTime, parTime, err := s.run(ctx, points, epsilon)
	if err != nil {
		return nil, err
	}

	retained := make([]int, len(indices))
	for i, idx := range indices {
		retained[i] = rows[idx]
	}

	simplified := ds.Subset(retained)
	var buf bytes.Buffer
	if err := dataset.Write(&buf, simplified); err != nil {
		return nil, NewServiceError(CodeInternalError, "failed to write simplified CSV: "+err.Error())
	}

	_, alignedValues := ds.Aligned(retained)
	rep, err := report.Compare(ds.Values, alignedValues, s.cfg.ConfidenceLevel)
	if err != nil {
		return nil, NewServiceError(CodeInsufficientData, err.Error())
	}

	now := s.now().UTC()
	res := &SimplifyResult{
		ID:               uuid.New().String(),
		Dataset:          ds,
		Rows:             retained,
		Epsilon:          epsilon,
		AutoEpsilon:      auto,
		OriginalPoints:   len(points),
		SimplifiedPoints: len(retained),
		FileSize:         int64(len(req.Data)),
		NewFilename:      dataset.SimplifiedFilename(req.Filename),
		NewFileSize:      int64(buf.Len()),
		SequentialTime:   seqTime,
		ParallelTime:     parTime,
		Report:           rep,
		ExpiresAt:        now.Add(s.ttl),
	}
	res.DiffFileSize = res.FileSize - res.NewFileSize

	storeCtx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	err = s.store.Put(storeCtx, &store.Artifact{
		ID:           res.ID,
		Filename:     res.NewFilename,
		ContentType:  CSVContentType,
		Data:         buf.Bytes(),
		OriginalSize: res.FileSize,
		CreatedAt:    now,
		ExpiresAt:    res.ExpiresAt,
	})
	if err != nil {
		logger.Error("Failed to store simplified file", "error", err, "id", res.ID)
		return nil, NewServiceError(CodeStorageError, "failed to store simplified file")
	}

	logger.Info("Series simplified",
		"id", res.ID,
		"filename", req.Filename,
		"original_points", res.OriginalPoints,
		"simplified_points", res.SimplifiedPoints,
		"epsilon", epsilon,
		"auto_epsilon", auto,
		"sequential", seqTime,
		"parallel", parTime,
	)

	s.publish(ctx, events.SimplificationCompleted{
		ID:               res.ID,
		Filename:         req.Filename,
		OriginalPoints:   res.OriginalPoints,
		SimplifiedPoints: res.SimplifiedPoints,
		Epsilon:          epsilon,
		DurationMs:       float64(parTime.Microseconds()) / 1000,
		CreatedAt:        now,
	})

	return res, nil
}

func (s *SimplifyService) checkSize(n int) error {
	if n < 2 {
		return NewServiceError(CodeInsufficientData,
			fmt.Sprintf("at least 2 numeric values are required, got %d", n))
	}
	return s.checkLimit(n)
}

func (s *SimplifyService) checkLimit(n int) error {
	if n > s.cfg.MaxPoints {
		return NewServiceErrorWithDetails(CodeTooManyPoints,
			fmt.Sprintf("series has %d points, the limit is %d", n, s.cfg.MaxPoints),
			map[string]interface{}{"points": n, "limit": s.cfg.MaxPoints})
	}
	return nil
}

// resolveEpsilon validates an explicit epsilon or derives one from points
func (s *SimplifyService) resolveEpsilon(points []simplify.Point, explicit *float64) (float64, bool, error) {
	if explicit != nil {
		eps := *explicit
		if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
			return 0, false, NewServiceError(CodeInvalidEpsilon, "epsilon must be a positive finite number")
		}
		return eps, false, nil
	}

	eps, err := simplify.AutoEpsilon(points, s.cfg.EpsilonFactor)
	if err != nil {
		return 0, true, NewServiceError(CodeInvalidEpsilon, "cannot derive epsilon: "+err.Error())
	}
	return eps, true, nil
}

// run simplifies points sequentially and in parallel, timing both
func (s *SimplifyService) run(ctx context.Context, points []simplify.Point, epsilon float64) ([]int, time.Duration, time.Duration, error) {
	start := time.Now()
	sequential, err := simplify.SimplifyIndices(points, epsilon)
	seqTime := time.Since(start)
	if err != nil {
		return nil, 0, 0, simplifyError(err)
	}

	start = time.Now()
	parallel, err := simplify.SimplifyParallel(ctx, points, epsilon, s.cfg.Workers())
	parTime := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, 0, ctx.Err()
		}
		return nil, 0, 0, simplifyError(err)
	}

	if !slices.Equal(sequential, parallel) {
		s.logger.WithContext(ctx).Error("Parallel simplification disagrees with sequential",
			"sequential_points", len(sequential),
			"parallel_points", len(parallel),
		)
		return nil, 0, 0, NewServiceError(CodeInternalError, "simplification results disagree")
	}

	return sequential, seqTime, parTime, nil
}

func simplifyError(err error) error {
	if errors.Is(err, simplify.ErrInvalidArgument) {
		return NewServiceError(CodeInvalidPoints, err.Error())
	}
	return NewServiceError(CodeInternalError, err.Error())
}

// publish sends ev without failing the request; the request context may be
// cancelled by then, so only its values are kept
func (s *SimplifyService) publish(ctx context.Context, ev events.SimplificationCompleted) {
	if s.subject == "" {
		return
	}

	data, err := ev.Marshal()
	if err != nil {
		s.logger.WithContext(ctx).Warn("Failed to encode event", "error", err, "id", ev.ID)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, s.subject, data); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish event", "error", err, "id", ev.ID, "subject", s.subject)
	}
}

// Artifact returns a stored simplified file for download
func (s *SimplifyService) Artifact(ctx context.Context, id string) (*store.Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewServiceError(CodeArtifactNotFound, "simplified file not found: "+id)
	}

	storeCtx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	a, err := s.store.Get(storeCtx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, NewServiceError(CodeArtifactNotFound, "simplified file not found: "+id)
	case errors.Is(err, store.ErrExpired):
		return nil, NewServiceError(CodeArtifactExpired, "simplified file has expired: "+id)
	case err != nil:
		s.logger.WithContext(ctx).Error("Failed to read simplified file", "error", err, "id", id)
		return nil, NewServiceError(CodeStorageError, "failed to read simplified file")
	}
	return a, nil
}

// CompareRequest compares two aligned or unaligned series. A nil
// ConfidenceLevel uses the configured default.
type CompareRequest struct {
	Original        stats.Series
	Simplified      stats.Series
	ConfidenceLevel *float64
}

// Compare builds a comparison report for arbitrary series
func (s *SimplifyService) Compare(req CompareRequest) (*report.ComparisonReport, error) {
	level := s.cfg.ConfidenceLevel
	if req.ConfidenceLevel != nil {
		level = *req.ConfidenceLevel
	}

	rep, err := report.Compare(req.Original, req.Simplified, level)
	switch {
	case errors.Is(err, stats.ErrInvalidConfidenceLevel):
		return nil, NewServiceError(CodeInvalidConfidenceLevel, "confidence_level must be in (0, 1)")
	case err != nil:
		return nil, NewServiceError(CodeInvalidSeries, err.Error())
	}
	return rep, nil
}

// PointsResult is the outcome of simplifying a raw point list
type PointsResult struct {
	Points      []simplify.Point
	Indices     []int
	Epsilon     float64
	AutoEpsilon bool
}

// SimplifyPoints simplifies an arbitrary polyline without storing anything.
// With an explicit epsilon, inputs of up to 2 points come back unchanged;
// deriving one needs at least 2.
func (s *SimplifyService) SimplifyPoints(ctx context.Context, points []simplify.Point, epsilon *float64) (*PointsResult, error) {
	check := s.checkSize
	if epsilon != nil {
		check = s.checkLimit
	}
	if err := check(len(points)); err != nil {
		return nil, err
	}

	eps, auto, err := s.resolveEpsilon(points, epsilon)
	if err != nil {
		return nil, err
	}

	indices, err := simplify.SimplifyParallel(ctx, points, eps, s.cfg.Workers())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, simplifyError(err)
	}

	kept := make([]simplify.Point, len(indices))
	for i, idx := range indices {
		kept[i] = points[idx]
	}

	return &PointsResult{
		Points:      kept,
		Indices:     indices,
		Epsilon:     eps,
		AutoEpsilon: auto,
	}, nil
}
