package board

import (
	"fmt"
	"strings"
)

// Tool selects how pointer gestures are turned into pixels.
type Tool int

const (
	ToolPen Tool = iota
	ToolRectangle
	ToolEllipse
	ToolRuler
)

var toolNames = [...]string{
	ToolPen:       "pen",
	ToolRectangle: "rectangle",
	ToolEllipse:   "ellipse",
	ToolRuler:     "ruler",
}

// Tools lists every tool in toolbar order.
func Tools() []Tool { return []Tool{ToolPen, ToolRectangle, ToolEllipse, ToolRuler} }

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// shape reports whether the tool previews from the last committed snapshot.
func (t Tool) shape() bool { return t != ToolPen }

// ParseTool accepts a tool name or a common short alias.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen", "draw", "p":
		return ToolPen, nil
	case "rectangle", "rect", "r":
		return ToolRectangle, nil
	case "ellipse", "circle", "e":
		return ToolEllipse, nil
	case "ruler", "u":
		return ToolRuler, nil
	}
	return ToolPen, fmt.Errorf("unknown tool %q", s)
}
