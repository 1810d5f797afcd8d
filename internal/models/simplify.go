package models

import (
	"fmt"
	"math"

	"github.com/soltixdb/rdplines/internal/report"
	"github.com/soltixdb/rdplines/internal/simplify"
)

// SimplifyResponse is returned by POST /api/simplify. The row arrays are
// index-aligned with the uploaded rows; the *_rdp arrays hold null for rows
// dropped by the simplification.
type SimplifyResponse struct {
	ID      string     `json:"id"`
	Columns []string   `json:"columns"`
	Row1    []string   `json:"row_1"`
	Row2    []*float64 `json:"row_2"`
	Row1RDP []*string  `json:"row_1_rdp"`
	Row2RDP []*float64 `json:"row_2_rdp"`

	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type"`
	FileSizeText string `json:"file_size_human"`

	NewFileName     string `json:"new_file_name"`
	NewFileSize     int64  `json:"new_file_size"`
	NewFileType     string `json:"new_file_type"`
	NewFileSizeText string `json:"new_file_size_human"`

	DiffFileSize     int64  `json:"diff_file_size"`
	DiffFileType     string `json:"diff_file_type"`
	DiffFileSizeText string `json:"diff_file_size_human"`

	// seconds
	RunningTimeOrig float64 `json:"running_time_orig"`
	RunningTimeSimp float64 `json:"running_time_simp"`

	Epsilon          float64 `json:"epsilon"`
	AutoEpsilon      bool    `json:"auto_epsilon"`
	OriginalPoints   int     `json:"original_points"`
	SimplifiedPoints int     `json:"simplified_points"`

	DownloadURL string                   `json:"download_url"`
	ExpiresAt   string                   `json:"expires_at"`
	Report      *report.ComparisonReport `json:"report"`
}

// PointsRequest is the body of POST /api/simplify/points
type PointsRequest struct {
	Points  []simplify.Point `json:"points"`
	Epsilon *float64         `json:"epsilon,omitempty"`
}

// Validate checks the request shape. Fewer than 2 points are accepted only
// with an explicit epsilon.
func (r *PointsRequest) Validate() error {
	if r.Epsilon == nil && len(r.Points) < 2 {
		return fmt.Errorf("at least 2 points are required to derive epsilon, got %d", len(r.Points))
	}
	if r.Epsilon != nil && (math.IsNaN(*r.Epsilon) || *r.Epsilon <= 0) {
		return fmt.Errorf("epsilon must be positive")
	}
	return nil
}

// PointsResponse is returned by POST /api/simplify/points
type PointsResponse struct {
	Points          []simplify.Point `json:"points"`
	Indices         []int            `json:"indices"`
	Epsilon         float64          `json:"epsilon"`
	AutoEpsilon     bool             `json:"auto_epsilon"`
	OriginalCount   int              `json:"original_count"`
	SimplifiedCount int              `json:"simplified_count"`
}

// CompareRequest is the body of POST /api/compare. Null entries are missing
// values.
type CompareRequest struct {
	Original        []*float64 `json:"original"`
	Simplified      []*float64 `json:"simplified"`
	ConfidenceLevel *float64   `json:"confidence_level,omitempty"`
}

// Validate checks the request shape
func (r *CompareRequest) Validate() error {
	if len(r.Original) == 0 {
		return fmt.Errorf("original must not be empty")
	}
	if len(r.Simplified) == 0 {
		return fmt.Errorf("simplified must not be empty")
	}
	return nil
}
