package render

import (
	"context"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/drills/internal/contact"
)

// Display presents a batch of records to the user.
type Display interface {
	Show(ctx context.Context, recs []contact.Record) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	Input      io.Reader // Key input for the browser (default: os.Stdin).
	ForcePlain bool      // Force plain output even if TTY.
	Fallback   Renderer  // Plain renderer (default: Text).
}

// NewDisplay returns an interactive browser when the writer is a TTY, or a
// plain renderer otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Fallback == nil {
		opts.Fallback = Text{}
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, r: opts.Fallback}
	}

	return &BrowserDisplay{w: opts.Writer, in: opts.Input, fallback: opts.Fallback}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay writes records through a Renderer.
type PlainDisplay struct {
	w io.Writer
	r Renderer
}

func (d *PlainDisplay) Show(_ context.Context, recs []contact.Record) error {
	return d.r.Render(d.w, slices.Values(recs))
}

// BrowserDisplay runs the Bubble Tea record browser.
// Falls back to plain output if the program fails.
type BrowserDisplay struct {
	w        io.Writer
	in       io.Reader
	fallback Renderer
}

func (d *BrowserDisplay) Show(ctx context.Context, recs []contact.Record) error {
	opts := []tea.ProgramOption{
		tea.WithOutput(d.w),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}
	if d.in != nil {
		opts = append(opts, tea.WithInput(d.in))
	}

	p := tea.NewProgram(NewModel(recs), opts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		plain := &PlainDisplay{w: d.w, r: d.fallback}
		return plain.Show(ctx, recs)
	}
	return nil
}
