// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/ui/display"
	"github.com/arthur-debert/prebuilt/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Renderer paints reports with the styles registry
type Renderer struct {
	output io.Writer
	paint  display.Painter
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	renderer := lipgloss.NewRenderer(w)
	logger := logging.GetLogger("ui.terminal")
	logger.Debug().
		Str("colorProfile", fmt.Sprintf("%v", renderer.ColorProfile())).
		Bool("darkBackground", renderer.HasDarkBackground()).
		Msg("Terminal renderer created")

	return &Renderer{
		output: w,
		paint: func(style, text string) string {
			return styles.GetStyle(style).Renderer(renderer).Render(text)
		},
	}, nil
}

// RenderResult renders a result with styling
func (r *Renderer) RenderResult(result interface{}) error {
	if v, ok := result.(display.Viewer); ok {
		return display.Write(r.output, v.View(), r.paint)
	}
	_, err := fmt.Fprintf(r.output, "%+v\n", result)
	return err
}

// RenderError renders an error, followed by its state when an operation
// stopped part way
func (r *Renderer) RenderError(err error) error {
	line := r.paint("Error", "Error:") + " " + err.Error()
	if state := errors.GetDetailString(err, errors.DetailState); state != "" {
		line += "\n" + r.paint("Label", "State:") + " " + r.paint(display.StatusStyle(state), state)
	}
	_, writeErr := fmt.Fprintln(r.output, line)
	return writeErr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
