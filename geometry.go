package diffusion

import "math"

// eps prevents repeated re-detection of a crossing at the hit point
// and guards the rescale denominator against zero-length proposals.
const eps = 1e-10

// intersect returns the intersection point of the travel segment from
// p0 to p1 with the wall w. Parallel, non-overlapping and degenerate
// zero-length walls do not intersect.
func intersect(p0, p1 Vec2, w Wall) (Vec2, bool) {
	r := p1.Sub(p0)
	s := w[1].Sub(w[0])
	den := r.X*s.Y - r.Y*s.X
	if den == 0 {
		return Vec2{}, false
	}
	d := w[0].Sub(p0)
	t := (d.X*s.Y - d.Y*s.X) / den
	u := (d.X*r.Y - d.Y*r.X) / den
	// written so that a NaN parameter counts as no intersection
	if !(t >= 0 && t <= 1 && u >= 0 && u <= 1) {
		return Vec2{}, false
	}
	return Vec2{p0.X + t*r.X, p0.Y + t*r.Y}, true
}

// nearestHit finds the first wall physically struck along the travel
// segment from cur to next: among all intersected walls, the one whose
// hit point is closest to cur. Walls that are not intersected never win.
func nearestHit(cur, next Vec2, walls []Wall) (Vec2, int, bool) {
	best := -1
	bestD := math.Inf(1)
	var bestHit Vec2
	for i, w := range walls {
		hit, ok := intersect(cur, next, w)
		if !ok {
			continue
		}
		dx, dy := hit.X-cur.X, hit.Y-cur.Y
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD, bestHit = i, d, hit
		}
	}
	return bestHit, best, best >= 0
}

// reflectStep mirrors the full step vector from cur to next about the
// wall and rescales it to the travel distance remaining after the hit
// point. Reflection changes direction only, never the total path
// length traveled in the timestep.
func reflectStep(cur, next, hit Vec2, w Wall) Vec2 {
	v := next.Sub(cur)
	d := w[1].Sub(w[0])
	k := 2 * v.Dot(d) / d.Dot(d)
	m := Vec2{k*d.X - v.X, k*d.Y - v.Y}
	return m.Scale(hit.Dist(next) / (v.Norm() + eps))
}

// backOff nudges a hit point back toward the pre-hit position so the
// next resolution pass does not re-detect the same wall at the same
// coincident point.
func backOff(hit, cur Vec2) Vec2 {
	return Vec2{hit.X - eps*(hit.X-cur.X), hit.Y - eps*(hit.Y-cur.Y)}
}
