package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/circles/internal/scene"
)

const (
	strokeIdle    = "#00ff88"
	strokeContact = "#ff4444"
	trackColor    = "#00ccff"
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(x, y, r float64) {
	b.minX = math.Min(b.minX, x-r)
	b.maxX = math.Max(b.maxX, x+r)
	b.minY = math.Min(b.minY, y-r)
	b.maxY = math.Max(b.maxY, y+r)
}

// fit returns the scale and offsets mapping world coordinates into a
// size x size square with 10% padding, y pointing up.
func (b bounds) fit(size int) (scale, offX, offY float64) {
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	scale = float64(size) / span
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	return scale, float64(size)/2 - cx*scale, float64(size)/2 + cy*scale
}

func emptyBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func header(sb *strings.Builder, size int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))
}

// FrameToSVG draws every body of f as an outline. Bodies in at least one
// colliding pair are drawn in the contact color.
func FrameToSVG(f scene.Frame, size int) string {
	if len(f.Bodies) == 0 {
		return ""
	}

	touching := make(map[string]bool)
	for _, c := range f.Colliding() {
		touching[c.A] = true
		touching[c.B] = true
	}

	b := emptyBounds()
	for _, body := range f.Bodies {
		b.add(float64(body.X), float64(body.Y), float64(body.R))
	}
	scale, offX, offY := b.fit(size)

	var sb strings.Builder
	header(&sb, size)
	sb.WriteString(`<g fill="none" stroke-width="1.5">` + "\n")
	for _, body := range f.Bodies {
		stroke := strokeIdle
		if touching[body.Name] {
			stroke = strokeContact
		}
		cx := offX + float64(body.X)*scale
		cy := offY - float64(body.Y)*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="%s"><title>%s</title></circle>`+"\n",
			cx, cy, float64(body.R)*scale, stroke, html.EscapeString(body.Name)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrackToSVG draws the path of one body's center over frames.
func TrackToSVG(frames []scene.Frame, body string, size int) string {
	type point struct{ x, y float64 }
	points := make([]point, 0, len(frames))
	b := emptyBounds()
	for _, f := range frames {
		for _, s := range f.Bodies {
			if s.Name == body {
				points = append(points, point{float64(s.X), float64(s.Y)})
				b.add(float64(s.X), float64(s.Y), 0)
			}
		}
	}
	if len(points) < 2 {
		return ""
	}
	scale, offX, offY := b.fit(size)

	var sb strings.Builder
	header(&sb, size)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, trackColor))
	for i, p := range points {
		x := offX + p.x*scale
		y := offY - p.y*scale
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
