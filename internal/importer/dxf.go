package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/TileAtlas/internal/model"
)

type point struct{ x, y float64 }

// segment is a line between two points, used to chain loose LINE and ARC
// entities into closed shapes.
type segment struct {
	start, end point
}

// ImportDXF reads closed shapes (LWPOLYLINE, CIRCLE, or chains of LINE and
// ARC entities) from a DXF drawing. Each shape becomes one sprite sized to
// its bounding box, rounded up to whole texels. scale converts drawing units
// to texels; values <= 0 mean 1.
func ImportDXF(path string, scale float64) ImportResult {
	result := ImportResult{}
	if scale <= 0 {
		scale = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes [][]point
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) >= 3 {
				pts := make([]point, len(e.Vertices))
				for i, v := range e.Vertices {
					pts[i] = point{v[0], v[1]}
				}
				shapes = append(shapes, pts)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			shapes = append(shapes, []point{{cx - r, cy - r}, {cx + r, cy + r}, {cx - r, cy + r}})

		case *entity.Arc:
			segments = append(segments, pointsToSegments(arcToPoints(e, 32))...)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	shapes = append(shapes, chainSegments(segments, 0.01)...)
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, shape := range shapes {
		w, h := boundingSize(shape)
		tw := int(math.Ceil(w*scale - 1e-9))
		th := int(math.Ceil(h*scale - 1e-9))
		if tw <= 0 || th <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f units)", w, h))
			continue
		}
		sprite := model.NewSprite(fmt.Sprintf("DXF Shape %d", i+1), tw, th, 1)
		sprite.Source = path
		result.Sprites = append(result.Sprites, sprite)
	}

	return result
}

// boundingSize returns the width and height of the points' bounding box.
func boundingSize(pts []point) (float64, float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.x, minP.y = math.Min(minP.x, p.x), math.Min(minP.y, p.y)
		maxP.x, maxP.y = math.Max(maxP.x, p.x), math.Max(maxP.y, p.y)
	}
	return maxP.x - minP.x, maxP.y - minP.y
}

// arcToPoints samples a DXF ARC entity.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		angle := startRad + float64(i)/float64(numSegments)*(endRad-startRad)
		pts[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments joins segments whose endpoints lie within tolerance into
// closed shapes, largest first. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) [][]point {
	used := make([]bool, len(segs))
	var shapes [][]point

	for start := range segs {
		if used[start] {
			continue
		}
		chain := []point{segs[start].start, segs[start].end}
		used[start] = true

		for changed := true; changed; {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
				} else if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
				} else {
					continue
				}
				used[i] = true
				changed = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			shapes = append(shapes, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapeArea(shapes[i]) > shapeArea(shapes[j])
	})
	return shapes
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// shapeArea computes the absolute polygon area with the shoelace formula.
func shapeArea(pts []point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return math.Abs(area) / 2
}
