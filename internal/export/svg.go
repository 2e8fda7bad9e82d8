package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/partprop/internal/experiment"
	"github.com/san-kum/partprop/internal/vec"
	"github.com/san-kum/partprop/internal/viz"
)

// PositionsSVG draws the final positions of records projected onto plane,
// one dot per candidate coloured by status. The source origin is marked
// with a cross.
func PositionsSVG(records []experiment.Record, plane viz.Plane, size int, scale float64) string {
	scaled := make([]vec.Vector3, len(records))
	for i, r := range records {
		scaled[i] = r.Position.Div(scale)
	}
	minU, minV, span := plane.Bounds(scaled)

	fs := float64(size)
	toPx := func(u, v float64) (float64, float64) {
		return (u - minU) / span * fs, fs - (v-minV)/span*fs
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	ox, oy := toPx(0, 0)
	sb.WriteString(fmt.Sprintf(`<path stroke="#444466" stroke-width="1" d="M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f"/>
`, ox-6, oy, ox+6, oy, ox, oy-6, ox, oy+6))

	for i, r := range records {
		fill := string(viz.StatusColor(r.Status))
		x, y := toPx(plane.Project(scaled[i]))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2" fill="%s"/>
`, x, y, fill))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func WritePositionsSVG(path string, records []experiment.Record, plane viz.Plane, size int, scale float64) error {
	return os.WriteFile(path, []byte(PositionsSVG(records, plane, size, scale)), 0644)
}
