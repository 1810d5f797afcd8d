package simplify

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func referencePoints() []Point {
	return []Point{
		{0, 0}, {1, 0.1}, {2, -0.1}, {3, 5}, {4, 6},
		{5, 7}, {6, 8.1}, {7, 9}, {8, 9}, {9, 9},
	}
}

func noisySine(n int, seed int64) []Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]Point, n)
	for i := range points {
		x := float64(i)
		points[i] = Point{X: x, Y: 10*math.Sin(x/25) + rng.NormFloat64()}
	}
	return points
}

func TestSimplify_ReferenceExample(t *testing.T) {
	got, err := Simplify(referencePoints(), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Point{{0, 0}, {2, -0.1}, {3, 5}, {7, 9}, {9, 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Simplify() = %v, want %v", got, want)
	}
}

func TestSimplify_LargeEpsilonKeepsEndpoints(t *testing.T) {
	got, err := Simplify(referencePoints(), 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Point{{0, 0}, {9, 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Simplify() = %v, want %v", got, want)
	}
}

func TestSimplify_ShortInputs(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", []Point{}},
		{"single", []Point{{1, 2}}},
		{"pair", []Point{{1, 2}, {3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simplify(tt.points, 0.5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.points) {
				t.Fatalf("expected %d points, got %d", len(tt.points), len(got))
			}
			for i := range got {
				if got[i] != tt.points[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.points[i])
				}
			}
		})
	}
}

func TestSimplify_InvalidEpsilon(t *testing.T) {
	for _, eps := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Simplify(referencePoints(), eps)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("epsilon %v: expected ErrInvalidArgument, got %v", eps, err)
		}
	}

	// Epsilon is validated even when the input is too short to simplify.
	if _, err := Simplify([]Point{{0, 0}}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for short input, got %v", err)
	}
}

func TestSimplify_NonFinitePoint(t *testing.T) {
	points := []Point{{0, 0}, {1, math.NaN()}, {2, 0}}
	if _, err := Simplify(points, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSimplify_DistanceEqualToEpsilonIsDiscarded(t *testing.T) {
	// (1, 1) lies exactly 1.0 from the segment (0,0)-(2,0).
	points := []Point{{0, 0}, {1, 1}, {2, 0}}

	got, err := Simplify(points, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected apex to be dropped at epsilon == distance, got %v", got)
	}

	got, err = Simplify(points, 0.999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected apex to be kept below distance, got %v", got)
	}
}

func TestSimplify_Collinear(t *testing.T) {
	points := make([]Point, 500)
	for i := range points {
		x := float64(i)
		points[i] = Point{X: x, Y: 2*x + 1}
	}

	got, err := Simplify(points, 1e-9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Point{points[0], points[len(points)-1]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Simplify() = %v, want %v", got, want)
	}
}

func TestSimplify_DegenerateAnchors(t *testing.T) {
	// First and last coincide: distances fall back to point-to-point.
	points := []Point{{0, 0}, {3, 4}, {1, 0}, {0, 0}}

	got, err := Simplify(points, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Point{{0, 0}, {3, 4}, {0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Simplify() = %v, want %v", got, want)
	}
}

func TestSimplify_PreservesZeroValues(t *testing.T) {
	points := []Point{{0, 0}, {1, 0}, {2, 10}, {3, 0}, {4, 0}}

	got, err := Simplify(points, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != (Point{0, 0}) || got[len(got)-1] != (Point{4, 0}) {
		t.Errorf("zero-valued endpoints must survive, got %v", got)
	}
}

func TestSimplify_DoesNotMutateInput(t *testing.T) {
	points := noisySine(300, 1)
	before := append([]Point(nil), points...)

	if _, err := Simplify(points, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(points, before) {
		t.Error("input slice was modified")
	}
}

func TestSimplify_Properties(t *testing.T) {
	points := noisySine(2000, 42)
	epsilons := []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 50}

	prev := len(points) + 1
	for _, eps := range epsilons {
		got, err := Simplify(points, eps)
		if err != nil {
			t.Fatalf("epsilon %v: unexpected error: %v", eps, err)
		}

		if len(got) > len(points) {
			t.Errorf("epsilon %v: output longer than input", eps)
		}
		if got[0] != points[0] || got[len(got)-1] != points[len(points)-1] {
			t.Errorf("epsilon %v: endpoints not preserved", eps)
		}
		if len(got) > prev {
			t.Errorf("epsilon %v: size %d grew from %d", eps, len(got), prev)
		}
		prev = len(got)
	}
}

func TestSimplifyIndices_Ascending(t *testing.T) {
	indices, err := SimplifyIndices(noisySine(1000, 7), 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			t.Fatalf("indices not strictly ascending at %d: %v", i, indices[i-1:i+1])
		}
	}
}

func TestSimplifyIndices_LargeMonotoneInput(t *testing.T) {
	// Convex curve forces a split at almost every level.
	n := 50000
	points := make([]Point, n)
	for i := range points {
		x := float64(i)
		points[i] = Point{X: x, Y: x * x / 1000}
	}

	indices, err := SimplifyIndices(points, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if indices[0] != 0 || indices[len(indices)-1] != n-1 {
		t.Errorf("endpoints missing from %d indices", len(indices))
	}
}

func TestSimplifyParallel_MatchesSequential(t *testing.T) {
	points := noisySine(20000, 99)

	for _, workers := range []int{0, 1, 4, 16} {
		want, err := SimplifyIndices(points, 0.8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := SimplifyParallel(context.Background(), points, 0.8, workers)
		if err != nil {
			t.Fatalf("workers %d: unexpected error: %v", workers, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers %d: parallel result differs (%d vs %d indices)", workers, len(got), len(want))
		}
	}
}

func TestSimplifyParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SimplifyParallel(ctx, noisySine(100, 3), 0.1, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimplifyParallel_InvalidEpsilon(t *testing.T) {
	_, err := SimplifyParallel(context.Background(), referencePoints(), -1, 2)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPerpendicularDistance(t *testing.T) {
	tests := []struct {
		name       string
		p, a, b    Point
		want       float64
		tolerance  float64
	}{
		{"above horizontal", Point{1, 1}, Point{0, 0}, Point{2, 0}, 1, 0},
		{"on the line", Point{1, 1}, Point{0, 0}, Point{2, 2}, 0, 0},
		{"beyond segment end", Point{5, 3}, Point{0, 0}, Point{2, 0}, 3, 0},
		{"degenerate anchors", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5, 0},
		{"diagonal", Point{0, 1}, Point{0, 0}, Point{1, 1}, math.Sqrt2 / 2, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerpendicularDistance(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("PerpendicularDistance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoEpsilon(t *testing.T) {
	// Coordinates {0, 0, 1, 2}: mean 0.75, population variance 0.6875.
	points := []Point{{0, 0}, {1, 2}}

	got, err := AutoEpsilon(points, DefaultEpsilonFactor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := math.Sqrt(0.6875) * 0.05
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("AutoEpsilon() = %v, want %v", got, want)
	}
}

func TestAutoEpsilon_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		factor float64
	}{
		{"too few points", []Point{{0, 0}}, 0.05},
		{"zero factor", []Point{{0, 0}, {1, 1}}, 0},
		{"negative factor", []Point{{0, 0}, {1, 1}}, -0.05},
		{"zero spread", []Point{{1, 1}, {1, 1}}, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AutoEpsilon(tt.points, tt.factor); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func BenchmarkSimplifyIndices(b *testing.B) {
	points := noisySine(50000, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SimplifyIndices(points, 0.5)
	}
}

func BenchmarkSimplifyParallel(b *testing.B) {
	points := noisySine(50000, 5)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SimplifyParallel(ctx, points, 0.5, 0)
	}
}
