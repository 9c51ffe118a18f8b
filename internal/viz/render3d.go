package viz

import (
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera is an orthographic view of 3D points rotated about the x then the
// z axis.
type Camera struct {
	RotX, RotZ float64
}

// NewCamera looks at the attractor from slightly above, with z pointing up.
func NewCamera() *Camera {
	return &Camera{RotX: -math.Pi / 2.4, RotZ: math.Pi / 6}
}

// RotatePoint rotates p about the camera axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project returns the screen-plane coordinates of the points, centred on
// their mean.
func (c *Camera) Project(points []Vec3) (xs, ys []float64) {
	if len(points) == 0 {
		return nil, nil
	}
	var centre Vec3
	for _, p := range points {
		centre = Vec3{centre.X + p.X, centre.Y + p.Y, centre.Z + p.Z}
	}
	centre = centre.Scale(1 / float64(len(points)))

	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		r := c.RotatePoint(p.Sub(centre))
		xs[i], ys[i] = r.X, r.Y
	}
	return xs, ys
}

// Render3D draws the rotated path of points onto a new canvas.
func Render3D(width, height int, cam *Camera, points []Vec3) *Canvas {
	c := NewCanvas(width, height)
	xs, ys := cam.Project(points)
	PlotPath(c, BoundsOf([][]float64{xs}, [][]float64{ys}), xs, ys)
	return c
}
