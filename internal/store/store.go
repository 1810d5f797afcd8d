// Package store keeps simplified CSV files until they are downloaded or
// expire.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/rdplines/internal/compression"
)

var (
	// ErrNotFound is returned when no artifact has the requested ID
	ErrNotFound = errors.New("artifact not found")

	// ErrExpired is returned for an artifact past its expiry that the
	// backend has not evicted yet
	ErrExpired = errors.New("artifact expired")
)

// Artifact is a stored simplified file
type Artifact struct {
	ID           string
	Filename     string
	ContentType  string
	Data         []byte
	OriginalSize int64 // size of the uploaded file the artifact was derived from
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the artifact is past its expiry at now
func (a *Artifact) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// Store persists artifacts by ID
type Store interface {
	// Put stores a, replacing any artifact with the same ID
	Put(ctx context.Context, a *Artifact) error

	// Get returns the artifact with the given ID
	Get(ctx context.Context, id string) (*Artifact, error)

	// Delete removes the artifact; deleting a missing ID is not an error
	Delete(ctx context.Context, id string) error

	Close() error
}

// envelope is the stored form of an Artifact. Data holds the compressed
// payload; Algorithm records how, so the compression setting can change
// without breaking artifacts already stored.
type envelope struct {
	ID           string                `json:"id"`
	Filename     string                `json:"filename"`
	ContentType  string                `json:"content_type"`
	OriginalSize int64                 `json:"original_size"`
	CreatedAt    time.Time             `json:"created_at"`
	ExpiresAt    time.Time             `json:"expires_at"`
	Algorithm    compression.Algorithm `json:"algorithm"`
	Data         []byte                `json:"data"`
}

// codec converts artifacts to and from their stored bytes
type codec struct {
	compressor compression.Compressor
}

func newCodec(algo compression.Algorithm) (*codec, error) {
	c, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	return &codec{compressor: c}, nil
}

func (c *codec) encode(a *Artifact) ([]byte, error) {
	data, err := c.compressor.Compress(a.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress artifact %s: %w", a.ID, err)
	}

	return json.Marshal(envelope{
		ID:           a.ID,
		Filename:     a.Filename,
		ContentType:  a.ContentType,
		OriginalSize: a.OriginalSize,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
		Algorithm:    c.compressor.Algorithm(),
		Data:         data,
	})
}

func (c *codec) decode(raw []byte) (*Artifact, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}

	decompressor := c.compressor
	if env.Algorithm != decompressor.Algorithm() {
		var err error
		if decompressor, err = compression.GetCompressor(env.Algorithm); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", env.ID, err)
		}
	}

	data, err := decompressor.Decompress(env.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress artifact %s: %w", env.ID, err)
	}

	return &Artifact{
		ID:           env.ID,
		Filename:     env.Filename,
		ContentType:  env.ContentType,
		Data:         data,
		OriginalSize: env.OriginalSize,
		CreatedAt:    env.CreatedAt,
		ExpiresAt:    env.ExpiresAt,
	}, nil
}

// ttlFor returns how long a should live from now, or an error if it is
// already expired
func ttlFor(a *Artifact, now time.Time) (time.Duration, error) {
	if a.ExpiresAt.IsZero() {
		return 0, nil
	}
	ttl := a.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return 0, ErrExpired
	}
	return ttl, nil
}
