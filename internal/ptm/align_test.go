package ptm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestComputeAlignment_Identity(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	weights := []float64{1, 1, 1, 1}

	trans, err := computeAlignment(points, points, weights)
	require.NoError(t, err)

	for _, p := range points {
		got := trans.apply(p)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, p[k], got[k], 1e-9)
		}
	}
}

func TestComputeAlignment_Translation(t *testing.T) {
	template := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	shift := [3]float64{3.5, -2.0, 7.25}

	reference := make([][3]float64, len(template))
	for i, p := range template {
		reference[i] = [3]float64{p[0] + shift[0], p[1] + shift[1], p[2] + shift[2]}
	}

	trans, err := computeAlignment(reference, template, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	for i, p := range template {
		got := trans.apply(p)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, reference[i][k], got[k], 1e-9)
		}
	}
}

func TestComputeAlignment_Rotation(t *testing.T) {
	// 90 degrees about z: (x, y, z) -> (-y, x, z)
	template := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {2, 1, -1}}
	reference := make([][3]float64, len(template))
	for i, p := range template {
		reference[i] = [3]float64{-p[1], p[0], p[2]}
	}

	trans, err := computeAlignment(reference, template, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	for i, p := range template {
		got := trans.apply(p)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, reference[i][k], got[k], 1e-9)
		}
	}

	// a point outside the anchor set follows the same rotation
	got := trans.apply([3]float64{5, 6, 7})
	assert.InDelta(t, -6, got[0], 1e-9)
	assert.InDelta(t, 5, got[1], 1e-9)
	assert.InDelta(t, 7, got[2], 1e-9)
}

func TestComputeAlignment_WeightsShiftTheFit(t *testing.T) {
	// reference anchors disagree: no rigid transform fits all of them.
	// the heavily weighted anchor must end up closer to its reference
	template := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	reference := [][3]float64{{0, 0, 0}, {1.4, 0, 0}, {0, 1, 0}}

	even, err := computeAlignment(reference, template, []float64{1, 1, 1})
	require.NoError(t, err)
	heavy, err := computeAlignment(reference, template, []float64{1, 100, 1})
	require.NoError(t, err)

	distEven := dist(even.apply(template[1]), reference[1])
	distHeavy := dist(heavy.apply(template[1]), reference[1])
	assert.Less(t, distHeavy, distEven)
}

func TestComputeAlignment_ReflectionCorrected(t *testing.T) {
	// a mirrored anchor set must still produce a proper rotation
	template := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	reference := make([][3]float64, len(template))
	for i, p := range template {
		reference[i] = [3]float64{p[0], p[1], -p[2]}
	}

	trans, err := computeAlignment(reference, template, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mat.Det(trans.rotation), 1e-9)
}

func TestComputeAlignment_Errors(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 0, 0}}

	_, err := computeAlignment(nil, nil, nil)
	assert.Error(t, err)

	_, err = computeAlignment(points, points[:1], []float64{1, 1})
	assert.Error(t, err)

	_, err = computeAlignment(points, points, []float64{1})
	assert.Error(t, err)

	_, err = computeAlignment(points, points, []float64{1, -1})
	assert.Error(t, err)

	_, err = computeAlignment(points, points, []float64{0, 0})
	assert.Error(t, err)
}

func dist(a, b [3]float64) float64 {
	var sum float64
	for k := 0; k < 3; k++ {
		d := a[k] - b[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}
