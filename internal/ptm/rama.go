package ptm

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func vsub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func vcross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func vdot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func vnorm(a [3]float64) float64 {
	return math.Sqrt(vdot(a, a))
}

// dihedral returns the torsion angle over the four points, in degrees
// within (-180, 180].
func dihedral(a, b, c, d [3]float64) float64 {
	b1 := vsub(b, a)
	b2 := vsub(c, b)
	b3 := vsub(d, c)

	n1 := vcross(b1, b2)
	n2 := vcross(b2, b3)

	norm := vnorm(b2)
	m1 := vcross(n1, [3]float64{b2[0] / norm, b2[1] / norm, b2[2] / norm})

	x := vdot(n1, n2)
	y := vdot(m1, n2)
	return math.Atan2(y, x) * 180 / math.Pi
}

// phiPsi is one residue's pair of backbone torsion angles.
type phiPsi struct {
	chain   string
	residue int
	phi     float64
	psi     float64
}

// backboneTorsions collects phi/psi for every residue with complete
// backbone neighbors. End residues and non-protein residues are skipped.
func backboneTorsions(s *Structure) []phiPsi {
	var out []phiPsi
	for _, c := range s.Chains {
		for i := 1; i < len(c.Residues)-1; i++ {
			prev, cur, next := c.Residues[i-1], c.Residues[i], c.Residues[i+1]

			prevC := prev.Atom("C")
			n, ca, cc := cur.Atom("N"), cur.Atom("CA"), cur.Atom("C")
			nextN := next.Atom("N")
			if prevC == nil || n == nil || ca == nil || cc == nil || nextN == nil {
				continue
			}

			out = append(out, phiPsi{
				chain:   c.ID,
				residue: cur.Number,
				phi:     dihedral(prevC.Coord(), n.Coord(), ca.Coord(), cc.Coord()),
				psi:     dihedral(n.Coord(), ca.Coord(), cc.Coord(), nextN.Coord()),
			})
		}
	}
	return out
}

// WriteRamachandran renders the structure's phi/psi angles to a PNG
// scatter plot with fixed -180..180 axes.
func WriteRamachandran(s *Structure, path string) error {
	points := backboneTorsions(s)
	if len(points) == 0 {
		return fmt.Errorf("no residues with complete backbones in %s", s.Name)
	}

	p := plot.New()
	p.Title.Text = s.Name
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Phi"
	p.Y.Label.Text = "Psi"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -180, 180
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.phi
		xys[i].Y = pt.psi
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build scatter plot: %v", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save Ramachandran plot: %v", err)
	}
	slog.Info("wrote Ramachandran plot", "structure", s.Name, "residues", len(points), "path", path)
	return nil
}
