package draw

import (
	"math"
	"sort"
)

// rasterLine plots a line using Bresenham's algorithm.
func rasterLine(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		plot(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// rasterPolygonFill fills a polygon given in pixel space using the scanline
// algorithm. buf is scratch space for intersections and is returned grown.
func rasterPolygonFill(points []Point, buf []float64, plot func(x, y int)) []float64 {
	if len(points) < 3 {
		return buf
	}

	// Find bounding box
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5 // Sample at pixel center

		intersections := buf[:0]
		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			// Check if edge crosses this scanline
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		buf = intersections

		sort.Float64s(intersections)

		// Fill between pairs of intersections
		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				plot(x, y)
			}
		}
	}
	return buf
}

// rasterCircle plots a disc (or a one pixel wide ring when outline is set)
// centred at (cx, cy) in pixel space. Discs smaller than a pixel still plot
// the centre pixel.
func rasterCircle(cx, cy, r float64, outline bool, plot func(x, y int)) {
	if r < 0.75 {
		plot(int(math.Floor(cx)), int(math.Floor(cy)))
		return
	}
	inner := -1.0
	if outline {
		inner = (r - 1) * (r - 1)
	}
	outer := r * r

	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			d := dx*dx + dy*dy
			if d <= outer && d > inner {
				plot(x, y)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
