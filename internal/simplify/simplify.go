// Package simplify implements Ramer-Douglas-Peucker line simplification
// over ordered point sequences.
package simplify

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for a non-positive or non-finite epsilon and
// for point sequences containing non-finite coordinates.
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultEpsilonFactor scales the coordinate standard deviation in AutoEpsilon.
const DefaultEpsilonFactor = 0.05

// Point is a single (x, y) sample. X is usually the row index or a timestamp.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// span is an anchor pair [first, last] still waiting to be examined.
type span struct {
	first int
	last  int
}

// Simplify returns the subsequence of points retained by RDP for epsilon.
// The input slice is never modified.
func Simplify(points []Point, epsilon float64) ([]Point, error) {
	indices, err := SimplifyIndices(points, epsilon)
	if err != nil {
		return nil, err
	}

	result := make([]Point, len(indices))
	for i, idx := range indices {
		result[i] = points[idx]
	}
	return result, nil
}

// SimplifyIndices runs RDP and returns the ascending indices of the retained
// points. A point is kept only when its distance to the current anchor
// segment is strictly greater than epsilon; on equal maxima the lowest index wins.
func SimplifyIndices(points []Point, epsilon float64) ([]int, error) {
	if err := validate(points, epsilon); err != nil {
		return nil, err
	}

	n := len(points)
	if n <= 2 {
		return allIndices(n), nil
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	// Explicit stack: recursion depth degrades to O(n) on adversarial input.
	stack := []span{{first: 0, last: n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, dmax := farthest(points, s.first, s.last)
		if dmax > epsilon {
			keep[idx] = true
			stack = append(stack, span{first: idx, last: s.last}, span{first: s.first, last: idx})
		}
	}

	return collect(keep), nil
}

// PerpendicularDistance returns the distance from p to the line through start
// and end. When start and end coincide the Euclidean distance to start is used.
func PerpendicularDistance(p, start, end Point) float64 {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X-start.X, p.Y-start.Y)
	}

	// Explicit conversions keep the compiler from fusing multiply-adds, so the
	// result is bit-identical across architectures.
	num := float64(dy*p.X) - float64(dx*p.Y) + float64(end.X*start.Y) - float64(end.Y*start.X)
	den := math.Sqrt(float64(dy*dy) + float64(dx*dx))
	return math.Abs(num) / den
}

// AutoEpsilon derives a tolerance from the data: the population standard
// deviation of every X and Y coordinate taken together, scaled by factor.
func AutoEpsilon(points []Point, factor float64) (float64, error) {
	if len(points) < 2 {
		return 0, fmt.Errorf("%w: auto epsilon needs at least 2 points, got %d", ErrInvalidArgument, len(points))
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return 0, fmt.Errorf("%w: epsilon factor must be positive, got %v", ErrInvalidArgument, factor)
	}

	count := float64(2 * len(points))
	sum := 0.0
	for _, p := range points {
		sum += p.X + p.Y
	}
	mean := sum / count

	variance := 0.0
	for _, p := range points {
		dx := p.X - mean
		dy := p.Y - mean
		variance += dx*dx + dy*dy
	}
	variance /= count

	eps := math.Sqrt(variance) * factor
	if !(eps > 0) || math.IsInf(eps, 0) {
		return 0, fmt.Errorf("%w: derived epsilon is not positive (%v)", ErrInvalidArgument, eps)
	}
	return eps, nil
}

// farthest finds the intermediate point of (first, last) with the largest
// distance to the anchor segment. It returns (first, 0) when there is none.
func farthest(points []Point, first, last int) (int, float64) {
	idx := first
	dmax := 0.0
	start, end := points[first], points[last]
	for i := first + 1; i < last; i++ {
		if d := PerpendicularDistance(points[i], start, end); d > dmax {
			idx = i
			dmax = d
		}
	}
	return idx, dmax
}

func validate(points []Point, epsilon float64) error {
	if !(epsilon > 0) || math.IsInf(epsilon, 0) {
		return fmt.Errorf("%w: epsilon must be a positive finite number, got %v", ErrInvalidArgument, epsilon)
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d has a non-finite coordinate", ErrInvalidArgument, i)
		}
	}
	return nil
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func collect(keep []bool) []int {
	indices := make([]int, 0)
	for i, k := range keep {
		if k {
			indices = append(indices, i)
		}
	}
	return indices
}
