// Package script drives a session from line commands such as
// "rect 10 10 200 120" or "undo".
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/session"
)

// ErrQuit is returned by Exec for "exit" and "quit".
var ErrQuit = errors.New("quit")

type command struct {
	usage string
	run   func(in *Interpreter, args []string) error
}

var commands = map[string]command{
	"down":    {"down X Y", pointer(func(b *board.Board, x, y float64) { b.PointerDown(x, y) })},
	"move":    {"move X Y", pointer(func(b *board.Board, x, y float64) { b.PointerMove(x, y) })},
	"up":      {"up", noArgs(func(in *Interpreter) error { in.s.Board().PointerUp(); return nil })},
	"leave":   {"leave", noArgs(func(in *Interpreter) error { in.s.Board().PointerLeave(); return nil })},
	"tool":    {"tool pen|rectangle|ellipse|ruler", setTool},
	"color":   {"color NAME|#RRGGBB", setColor},
	"width":   {"width 1..20", setWidth},
	"scale":   {"scale FACTOR", setScale},
	"resize":  {"resize W H", resize},
	"undo":    {"undo", noArgs(undo)},
	"clear":   {"clear", noArgs(func(in *Interpreter) error { in.s.Clear(); return nil })},
	"save":    {"save", noArgs(save)},
	"copy":    {"copy", noArgs(copyFrame)},
	"state":   {"state", noArgs(state)},
	"pen":     {"pen X Y X Y [X Y...]", pen},
	"rect":    {"rect X0 Y0 X1 Y1", shape(board.ToolRectangle)},
	"ellipse": {"ellipse CX CY X Y", shape(board.ToolEllipse)},
	"ruler":   {"ruler X0 Y0 X1 Y1", shape(board.ToolRuler)},
}

// Usage lists every command, sorted.
func Usage() []string {
	out := make([]string, 0, len(commands))
	for _, c := range commands {
		out = append(out, c.usage)
	}
	sort.Strings(out)
	return out
}

// Interpreter executes commands against one session.
type Interpreter struct {
	s   *session.Session
	out io.Writer
}

// New creates an interpreter that reports results to out.
func New(s *session.Session, out io.Writer) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{s: s, out: out}
}

// Exec runs a single command line. Blank lines and # comments are ignored.
func (in *Interpreter) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	switch name {
	case "exit", "quit":
		return ErrQuit
	case "help":
		for _, u := range Usage() {
			fmt.Fprintln(in.out, u)
		}
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", fields[0])
	}
	if err := cmd.run(in, fields[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Run executes every line of r, stopping at the first error or quit.
// A gesture left open at the end is committed.
func (in *Interpreter) Run(r io.Reader) error {
	defer in.s.Board().PointerUp()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if err := in.Exec(scanner.Text()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func floats(args []string, want int) ([]float64, error) {
	if want >= 0 && len(args) != want {
		return nil, fmt.Errorf("expected %d numbers, got %d", want, len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func pointer(fn func(b *board.Board, x, y float64)) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		fn(in.s.Board(), v[0], v[1])
		return nil
	}
}

func noArgs(fn func(in *Interpreter) error) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("takes no arguments")
		}
		return fn(in)
	}
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected one argument")
	}
	return args[0], nil
}

func setTool(in *Interpreter, args []string) error {
	a, err := oneArg(args)
	if err != nil {
		return err
	}
	return in.s.SetStyle(session.Style{Tool: &a})
}

func setColor(in *Interpreter, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected a colour")
	}
	c := strings.Join(args, " ")
	return in.s.SetStyle(session.Style{Color: &c})
}

func setWidth(in *Interpreter, args []string) error {
	a, err := oneArg(args)
	if err != nil {
		return err
	}
	w, err := strconv.Atoi(a)
	if err != nil {
		return fmt.Errorf("invalid width %q", a)
	}
	return in.s.SetStyle(session.Style{Width: &w})
}

func setScale(in *Interpreter, args []string) error {
	v, err := floats(args, 1)
	if err != nil {
		return err
	}
	return in.s.SetStyle(session.Style{Scale: &v[0]})
}

func resize(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected W H")
	}
	w, err := strconv.Atoi(args[0])
	if err != nil || w < 0 {
		return fmt.Errorf("invalid width %q", args[0])
	}
	h, err := strconv.Atoi(args[1])
	if err != nil || h < 0 {
		return fmt.Errorf("invalid height %q", args[1])
	}
	in.s.Resize(w, h)
	return nil
}

func undo(in *Interpreter) error {
	in.s.Undo()
	return nil
}

func save(in *Interpreter) error {
	n, err := in.s.Save()
	if err != nil {
		return err
	}
	if n.Path != "" {
		fmt.Fprintf(in.out, "saved %s\n", n.Path)
	}
	return nil
}

func copyFrame(in *Interpreter) error {
	_, err := in.s.Copy()
	return err
}

func state(in *Interpreter) error {
	st := in.s.State()
	fmt.Fprintf(in.out, "%dx%d tool=%s color=%s width=%d scale=%g history=%d\n",
		st.Width, st.Height, st.Tool, st.Color, st.BrushWidth, st.Scale, st.History)
	return nil
}

func pen(in *Interpreter, args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return fmt.Errorf("expected at least two X Y pairs")
	}
	v, err := floats(args, -1)
	if err != nil {
		return err
	}
	stroke(in.s.Board(), board.ToolPen, v)
	return nil
}

func shape(t board.Tool) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		v, err := floats(args, 4)
		if err != nil {
			return err
		}
		stroke(in.s.Board(), t, v)
		return nil
	}
}

// stroke draws one complete gesture with t through the X Y pairs in v.
// A gesture left open by "down" is committed first and the selected tool
// is left as it was.
func stroke(b *board.Board, t board.Tool, v []float64) {
	b.PointerUp()
	prev := b.Tool()
	defer b.SetTool(prev)
	b.SetTool(t)
	b.PointerDown(v[0], v[1])
	for i := 2; i+1 < len(v); i += 2 {
		b.PointerMove(v[i], v[i+1])
	}
	b.PointerUp()
}
