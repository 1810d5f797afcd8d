package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/events"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/simplify"
	"github.com/soltixdb/rdplines/internal/stats"
	"github.com/soltixdb/rdplines/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubject = "rdplines.simplified"

const spikeCSV = "t,v\n0,0\n1,0\n2,10\n3,0\n4,0\n"

func newTestService(t *testing.T) (*SimplifyService, store.Store, *events.MemoryPublisher) {
	t.Helper()

	cfg := config.DefaultConfig()
	artifacts, err := store.New(cfg.Storage)
	require.NoError(t, err)
	t.Cleanup(func() { _ = artifacts.Close() })

	publisher := events.NewMemoryPublisher(8)
	t.Cleanup(func() { _ = publisher.Close() })

	svc := NewSimplifyService(logging.Nop(), artifacts, publisher, cfg.Simplify, time.Hour, testSubject)
	return svc, artifacts, publisher
}

func eps(v float64) *float64 { return &v }

func level(v float64) *float64 { return &v }

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected ServiceError, got %v", err)
	assert.Equal(t, code, svcErr.Code)
}

func TestSimplify_KeepsSpike(t *testing.T) {
	svc, artifacts, _ := newTestService(t)

	data := []byte(spikeCSV)
	res, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     data,
		Epsilon:  eps(1),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4}, res.Rows)
	assert.Equal(t, 5, res.OriginalPoints)
	assert.Equal(t, 3, res.SimplifiedPoints)
	assert.Equal(t, 1.0, res.Epsilon)
	assert.False(t, res.AutoEpsilon)
	assert.Equal(t, "spike(simplified).csv", res.NewFilename)

	want := "t,v\n0,0\n2,10\n4,0\n"
	assert.Equal(t, int64(len(data)), res.FileSize)
	assert.Equal(t, int64(len(want)), res.NewFileSize)
	assert.Equal(t, res.FileSize-res.NewFileSize, res.DiffFileSize)

	_, err = uuid.Parse(res.ID)
	require.NoError(t, err)

	stored, err := artifacts.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, want, string(stored.Data))
	assert.Equal(t, CSVContentType, stored.ContentType)
	assert.Equal(t, res.NewFilename, stored.Filename)

	require.NotNil(t, res.Report)
	assert.Equal(t, 5, res.Report.OriginalPoints)
	assert.Equal(t, 3, res.Report.SimplifiedPoints)
}

func TestSimplify_MissingValuesKeepRowPositions(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "line.csv",
		Data:     []byte("t,v\na,0\nb,1\nc,NA\nd,3\ne,4\n"),
		Epsilon:  eps(0.5),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 4}, res.Rows)
	assert.Equal(t, 4, res.OriginalPoints)
	assert.Equal(t, 5, res.Dataset.Len())
}

func TestSimplify_AutoEpsilon(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
	})
	require.NoError(t, err)

	points, _ := res.Dataset.Points()
	want, err := simplify.AutoEpsilon(points, config.DefaultConfig().Simplify.EpsilonFactor)
	require.NoError(t, err)

	assert.True(t, res.AutoEpsilon)
	assert.InDelta(t, want, res.Epsilon, 1e-12)
	assert.Equal(t, 0, res.Rows[0])
	assert.Equal(t, 4, res.Rows[len(res.Rows)-1])
}

func TestSimplify_PublishesEvent(t *testing.T) {
	svc, _, publisher := newTestService(t)

	res, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
		Epsilon:  eps(1),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	msg, err := publisher.Next(ctx, testSubject)
	require.NoError(t, err)

	var ev events.SimplificationCompleted
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, res.ID, ev.ID)
	assert.Equal(t, "spike.csv", ev.Filename)
	assert.Equal(t, 5, ev.OriginalPoints)
	assert.Equal(t, 3, ev.SimplifiedPoints)
	assert.Equal(t, 1.0, ev.Epsilon)
}

func TestSimplify_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, _, publisher := newTestService(t)
	require.NoError(t, publisher.Close())

	_, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
		Epsilon:  eps(1),
	})
	assert.NoError(t, err)
}

func TestSimplify_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		epsilon *float64
		code    string
	}{
		{"empty file", "", nil, CodeEmptyCSV},
		{"header only", "t,v\n", nil, CodeEmptyCSV},
		{"non numeric", "t,v\n1,abc\n", nil, CodeInvalidCSV},
		{"single column", "t\n1\n", nil, CodeInvalidCSV},
		{"one point", "t,v\n1,2\n", nil, CodeInsufficientData},
		{"all missing", "t,v\n1,NA\n2,\n", nil, CodeInsufficientData},
		{"zero epsilon", spikeCSV, eps(0), CodeInvalidEpsilon},
		{"negative epsilon", spikeCSV, eps(-1), CodeInvalidEpsilon},
		{"nan epsilon", spikeCSV, eps(math.NaN()), CodeInvalidEpsilon},
		{"infinite epsilon", spikeCSV, eps(math.Inf(1)), CodeInvalidEpsilon},
	}

	svc, _, _ := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Simplify(context.Background(), SimplifyRequest{
				Filename: "in.csv",
				Data:     []byte(tt.data),
				Epsilon:  tt.epsilon,
			})
			requireCode(t, err, tt.code)
		})
	}
}

func TestSimplify_TooManyPoints(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.cfg.MaxPoints = 4

	_, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
		Epsilon:  eps(1),
	})
	requireCode(t, err, CodeTooManyPoints)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 4, svcErr.Details["limit"])
}

// failingStore rejects every operation with err
type failingStore struct{ err error }

func (f failingStore) Put(context.Context, *store.Artifact) error { return f.err }
func (f failingStore) Get(context.Context, string) (*store.Artifact, error) {
	return nil, f.err
}
func (f failingStore) Delete(context.Context, string) error { return f.err }
func (f failingStore) Close() error                         { return nil }

func TestSimplify_StorageFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := NewSimplifyService(logging.Nop(), failingStore{err: errors.New("disk full")}, nil, cfg.Simplify, time.Hour, testSubject)

	_, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
		Epsilon:  eps(1),
	})
	requireCode(t, err, CodeStorageError)
}

func TestArtifact(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Simplify(context.Background(), SimplifyRequest{
		Filename: "spike.csv",
		Data:     []byte(spikeCSV),
		Epsilon:  eps(1),
	})
	require.NoError(t, err)

	a, err := svc.Artifact(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "spike(simplified).csv", a.Filename)

	_, err = svc.Artifact(context.Background(), uuid.New().String())
	requireCode(t, err, CodeArtifactNotFound)

	_, err = svc.Artifact(context.Background(), "../../etc/passwd")
	requireCode(t, err, CodeArtifactNotFound)
}

func TestArtifact_ErrorMapping(t *testing.T) {
	cfg := config.DefaultConfig()
	id := uuid.New().String()

	tests := []struct {
		err  error
		code string
	}{
		{store.ErrNotFound, CodeArtifactNotFound},
		{store.ErrExpired, CodeArtifactExpired},
		{errors.New("connection refused"), CodeStorageError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := NewSimplifyService(logging.Nop(), failingStore{err: tt.err}, nil, cfg.Simplify, time.Hour, "")
			_, err := svc.Artifact(context.Background(), id)
			requireCode(t, err, tt.code)
		})
	}
}

func TestCompare(t *testing.T) {
	svc, _, _ := newTestService(t)

	rep, err := svc.Compare(CompareRequest{
		Original:   stats.Of(1, 2, 3, 4, 5),
		Simplified: stats.Of(1, 3, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.95, rep.ConfidenceLevel)
	assert.Equal(t, 3, rep.SimplifiedPoints)

	rep, err = svc.Compare(CompareRequest{
		Original:        stats.Of(1, 2, 3, 4, 5),
		Simplified:      stats.Of(1, 3, 5),
		ConfidenceLevel: level(0.99),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.99, rep.ConfidenceLevel)

	_, err = svc.Compare(CompareRequest{
		Original:        stats.Of(1, 2, 3),
		Simplified:      stats.Of(1, 3),
		ConfidenceLevel: level(1.5),
	})
	requireCode(t, err, CodeInvalidConfidenceLevel)

	// an explicit zero is rejected, not replaced by the default
	_, err = svc.Compare(CompareRequest{
		Original:        stats.Of(1, 2, 3),
		Simplified:      stats.Of(1, 3),
		ConfidenceLevel: level(0),
	})
	requireCode(t, err, CodeInvalidConfidenceLevel)

	_, err = svc.Compare(CompareRequest{Original: stats.Of(1), Simplified: stats.Of(1)})
	requireCode(t, err, CodeInvalidSeries)
}

func TestSimplifyPoints(t *testing.T) {
	svc, _, _ := newTestService(t)

	points := []simplify.Point{{X: 0, Y: 0}, {X: 1, Y: 0.1}, {X: 2, Y: -0.1}, {X: 3, Y: 5}, {X: 4, Y: 6}}
	res, err := svc.SimplifyPoints(context.Background(), points, eps(1))
	require.NoError(t, err)

	want, err := simplify.SimplifyIndices(points, 1)
	require.NoError(t, err)
	assert.Equal(t, want, res.Indices)
	require.Len(t, res.Points, len(want))
	for i, idx := range want {
		assert.Equal(t, points[idx], res.Points[i])
	}
	assert.False(t, res.AutoEpsilon)

	_, err = svc.SimplifyPoints(context.Background(), points[:1], nil)
	requireCode(t, err, CodeInsufficientData)

	short, err := svc.SimplifyPoints(context.Background(), points[:1], eps(1))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, short.Indices)
	assert.Equal(t, points[:1], short.Points)

	empty, err := svc.SimplifyPoints(context.Background(), nil, eps(1))
	require.NoError(t, err)
	assert.Empty(t, empty.Indices)

	_, err = svc.SimplifyPoints(context.Background(), points[:1], eps(0))
	requireCode(t, err, CodeInvalidEpsilon)

	bad := []simplify.Point{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: 2, Y: 0}}
	_, err = svc.SimplifyPoints(context.Background(), bad, eps(1))
	requireCode(t, err, CodeInvalidPoints)
}
