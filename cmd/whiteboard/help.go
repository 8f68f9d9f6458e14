package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"

	"github.com/example/whiteboard/internal/script"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
		"commands": script.Usage,
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of)
	if err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc renders the help template for a flag set's -h output.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (v *versionCmd) Program() string        { return v.r.Program() }
func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
func (v *versionCmd) Template() string       { return "version.txt" }
