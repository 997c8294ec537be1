package shoplcon

import (
	"strings"
)

// PathCmd is a command of the path-data mini-language.
type PathCmd byte

// Path commands, all in absolute coordinates.
const (
	MoveToCmd PathCmd = 'M'
	LineToCmd PathCmd = 'L'
	QuadToCmd PathCmd = 'Q'
	ArcToCmd  PathCmd = 'A'
	CloseCmd  PathCmd = 'Z'
)

// args returns the number of values that follow the command.
func (cmd PathCmd) args() int {
	switch cmd {
	case MoveToCmd, LineToCmd:
		return 2
	case QuadToCmd:
		return 4
	case ArcToCmd:
		return 7
	}
	return 0
}

// Path is a sequence of path-data commands that serializes to a string understood by both SVG
// and the vector document format.
type Path struct {
	cmds []PathCmd
	d    []float64
}

// Empty returns true if the path has no commands.
func (p *Path) Empty() bool {
	return len(p.cmds) == 0
}

// MoveTo starts a new subpath at (x,y).
func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, MoveToCmd)
	p.d = append(p.d, x, y)
}

// LineTo adds a straight line to (x,y).
func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, LineToCmd)
	p.d = append(p.d, x, y)
}

// QuadTo adds a quadratic Bézier curve with control point (x1,y1) and end point (x,y).
func (p *Path) QuadTo(x1, y1, x, y float64) {
	p.cmds = append(p.cmds, QuadToCmd)
	p.d = append(p.d, x1, y1, x, y)
}

// ArcTo adds an elliptical arc with radii rx and ry, with rot the rotation in degrees, and large and
// sweep the arc flags, ending at (x,y).
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	p.cmds = append(p.cmds, ArcToCmd)
	flarge := 0.0
	if large {
		flarge = 1.0
	}
	fsweep := 0.0
	if sweep {
		fsweep = 1.0
	}
	p.d = append(p.d, rx, ry, rot, flarge, fsweep, x, y)
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.cmds = append(p.cmds, CloseCmd)
}

// String returns the path data with each command and value separated by a single space, e.g.
// "M 0 0 L 10 0 Z".
func (p *Path) String() string {
	sb := strings.Builder{}
	i := 0
	for _, cmd := range p.cmds {
		if 0 < sb.Len() {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(cmd))
		for _, f := range p.d[i : i+cmd.args()] {
			sb.WriteByte(' ')
			sb.WriteString(num(f).String())
		}
		i += cmd.args()
	}
	return sb.String()
}
