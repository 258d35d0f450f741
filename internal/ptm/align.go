package ptm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// transform is a rigid rotation plus translation taking template-frame
// coordinates into the reference frame.
type transform struct {
	// 3x3 rotation matrix
	rotation *mat.Dense

	// translation applied after the rotation
	translation [3]float64
}

// computeAlignment finds the rigid transform superimposing the template
// anchors onto the reference anchors with the least weighted square
// distance (Kabsch). A reflection in the raw SVD solution is corrected by
// flipping the smallest singular vector, so mirror-image anchor sets still
// produce a proper rotation.
func computeAlignment(reference, template [][3]float64, weights []float64) (*transform, error) {
	n := len(reference)
	if n == 0 {
		return nil, fmt.Errorf("no anchor coordinates to align")
	}
	if len(template) != n {
		return nil, fmt.Errorf("anchor count mismatch: %d reference vs %d template", n, len(template))
	}
	if len(weights) != n {
		return nil, fmt.Errorf("weight count mismatch: %d weights for %d anchors", len(weights), n)
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative anchor weight %f", w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("anchor weights sum to zero")
	}

	// weighted centroids of both anchor sets
	var centRef, centTmpl [3]float64
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			centRef[k] += reference[i][k] * weights[i]
			centTmpl[k] += template[i][k] * weights[i]
		}
	}
	for k := 0; k < 3; k++ {
		centRef[k] /= total
		centTmpl[k] /= total
	}

	// weighted cross-covariance of the centered anchors
	cov := mat.NewDense(3, 3, nil)
	for i := 0; i < n; i++ {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				cov.Set(a, b, cov.At(a, b)+
					weights[i]*(template[i][a]-centTmpl[a])*(reference[i][b]-centRef[b]))
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, fmt.Errorf("failed to factorize anchor covariance")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	rot := &mat.Dense{}
	rot.Mul(&v, u.T())
	if mat.Det(rot) < 0 {
		// reflection: flip the axis of least variance
		flip := mat.NewDiagDense(3, []float64{1, 1, -1})
		var vf mat.Dense
		vf.Mul(&v, flip)
		rot.Mul(&vf, u.T())
	}

	t := &transform{rotation: rot}
	for a := 0; a < 3; a++ {
		t.translation[a] = centRef[a] -
			(rot.At(a, 0)*centTmpl[0] + rot.At(a, 1)*centTmpl[1] + rot.At(a, 2)*centTmpl[2])
	}
	return t, nil
}

// apply maps one template-frame coordinate into the reference frame.
func (t *transform) apply(p [3]float64) [3]float64 {
	var out [3]float64
	for a := 0; a < 3; a++ {
		out[a] = t.rotation.At(a, 0)*p[0] +
			t.rotation.At(a, 1)*p[1] +
			t.rotation.At(a, 2)*p[2] +
			t.translation[a]
	}
	return out
}
