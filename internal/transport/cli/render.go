// Package cli renders answers for terminal output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

const nothingFound = "Nothing found"

// Renderer writes answers to a terminal. Colours follow color.NoColor,
// which is set automatically when the output is not a TTY.
type Renderer struct {
	heading func(a ...interface{}) string
	muted   func(a ...interface{}) string
}

// NewRenderer creates a Renderer. noColor disables colours unconditionally.
func NewRenderer(noColor bool) *Renderer {
	heading := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgHiBlack)
	if noColor {
		heading.DisableColor()
		muted.DisableColor()
	}
	return &Renderer{
		heading: heading.SprintFunc(),
		muted:   muted.SprintFunc(),
	}
}

// Text prints the procedure as a numbered list followed by the article and the script.
func (r *Renderer) Text(w io.Writer, a domain.Answer) error {
	if _, err := fmt.Fprintln(w, r.heading("Procedure:")); err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	if len(a.Procedure) == 0 {
		fmt.Fprintln(w, "  "+r.muted(nothingFound))
	}
	for i, step := range a.Procedure {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	r.section(w, "Article:", a.Article)
	r.section(w, "Script:", a.Script)
	return nil
}

func (r *Renderer) section(w io.Writer, title, body string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.heading(title))
	if body == "" {
		body = r.muted(nothingFound)
	}
	fmt.Fprintln(w, "  "+body)
}

// JSON prints the answer as indented JSON.
func (r *Renderer) JSON(w io.Writer, a domain.Answer) error {
	if a.Procedure == nil {
		a.Procedure = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return nil
}
