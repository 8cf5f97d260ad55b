package svgpath

import "math"

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(minX, minY)
	p.Line(maxX, minY)
	p.Line(maxX, maxY)
	p.Line(minX, maxY)
	p.Stop(true)
}

// AddRoundRect adds a rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis. The radii are clamped
// to half the size of the rectangle; a zero radius
// yields a sharp rectangle.
func (p *Path) AddRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(minX, minY, maxX, maxY)
		return
	}
	w, h := maxX-minX, maxY-minY
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)

	p.Start(minX+rx, minY)
	p.Line(maxX-rx, minY)
	p.ArcTo(rx, ry, 0, false, true, maxX, minY+ry)
	p.Line(maxX, maxY-ry)
	p.ArcTo(rx, ry, 0, false, true, maxX-rx, maxY)
	p.Line(minX+rx, maxY)
	p.ArcTo(rx, ry, 0, false, true, minX, maxY-ry)
	p.Line(minX, minY+ry)
	p.ArcTo(rx, ry, 0, false, true, minX+rx, minY)
	p.Stop(true)
}

// AddEllipse adds a closed ellipse centered at (cx, cy), made of four arcs.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	p.Start(cx+rx, cy)
	p.ArcTo(rx, ry, 0, false, true, cx, cy+ry)
	p.ArcTo(rx, ry, 0, false, true, cx-rx, cy)
	p.ArcTo(rx, ry, 0, false, true, cx, cy-ry)
	p.ArcTo(rx, ry, 0, false, true, cx+rx, cy)
	p.Stop(true)
}

// AddPolyline adds the points given as flat (x, y) pairs, joined
// by lines. An odd trailing coordinate is ignored.
func (p *Path) AddPolyline(points []float64, closeLoop bool) {
	if len(points) < 2 {
		return
	}
	p.Start(points[0], points[1])
	for i := 2; i+1 < len(points); i += 2 {
		p.Line(points[i], points[i+1])
	}
	p.Stop(closeLoop)
}

// ArcTo adds an elliptical arc from the current point to (x, y),
// following the SVG endpoint parameterization. rot is in degrees.
// Radii too small to join both points are scaled up.
func (p *Path) ArcTo(rx, ry, rot float64, largeArc, sweep bool, x, y float64) {
	px, py := p.CurrentPoint()
	if PointsEqual(px, py, x, y) {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.Line(x, y)
		return
	}
	cx, cy := findEllipseCenter(&rx, &ry, rot*math.Pi/180, px, py, x, y, !sweep, !largeArc)
	p.addArc(rx, ry, rot, largeArc, sweep, x, y, cx, cy, px, py)
}

// addArc approximates the arc from (px, py) to (x, y) with cubic curves,
// and returns the last point.
func (p *Path) addArc(rx, ry, rot float64, largeArc, sweep bool, x, y, cx, cy, px, py float64) (lx, ly float64) {
	rotX := rot * math.Pi / 180 // Convert degress to radians
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(y-cy, x-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezeir splines
	etaStart := math.Atan2(math.Sin(startAngle)/ry, math.Cos(startAngle)/rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/ry, math.Cos(endAngle)/rx)
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the elipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly = px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(rx, ry, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var ex, ey float64
		if i == segs {
			ex, ey = x, y // Just makes the end point exact; no roundoff error
		} else {
			ex, ey = ellipsePointAt(rx, ry, sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(rx, ry, sinTheta, cosTheta, eta)
		p.CubeBezier(lx+alpha*ldx, ly+alpha*ldy, ex-alpha*dx, ey-alpha*dy, ex, ey)
		lx, ly, ldx, ldy = ex, ey, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if sweep == smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
