package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/drills/internal/contact"
)

// ErrEmptyTemplate indicates the template format was selected without a template.
var ErrEmptyTemplate = errors.New("render: empty template")

// Text writes one "First Last <email>" line per record as records arrive.
type Text struct{}

func (Text) Render(w io.Writer, recs iter.Seq[contact.Record]) error {
	for rec := range recs {
		if _, err := fmt.Fprintln(w, rec.String()); err != nil {
			return fmt.Errorf("render: writing: %w", err)
		}
	}
	return nil
}

// Template writes one line per record using a Go text/template over
// contact.Record (e.g. {{.FirstName}} {{.Company}}).
type Template struct {
	tmpl *template.Template
}

// NewTemplate parses text. Unknown fields fail when the first record renders.
func NewTemplate(text string) (*Template, error) {
	if text == "" {
		return nil, ErrEmptyTemplate
	}
	tmpl, err := template.New("record").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("render: parsing template: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

func (t *Template) Render(w io.Writer, recs iter.Seq[contact.Record]) error {
	var buf bytes.Buffer
	for rec := range recs {
		buf.Reset()
		if err := t.tmpl.Execute(&buf, rec); err != nil {
			return fmt.Errorf("render: executing template on line %d: %w", rec.Line, err)
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("render: writing: %w", err)
		}
	}
	return nil
}

// JSON writes all records as one indented JSON array.
type JSON struct{}

func (JSON) Render(w io.Writer, recs iter.Seq[contact.Record]) error {
	all := collect(recs)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("render: encoding json: %w", err)
	}
	return nil
}

// YAML writes all records as one YAML sequence.
type YAML struct{}

func (YAML) Render(w io.Writer, recs iter.Seq[contact.Record]) error {
	all := collect(recs)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("render: encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render: encoding yaml: %w", err)
	}
	return nil
}

// Table writes all records as a bordered table.
type Table struct{}

// Column headers shared by the table format and the browser.
var columns = []string{"Name", "Email", "Phone", "Job", "Company", "Twitter"}

func row(rec contact.Record) []string {
	return []string{
		rec.FirstName + " " + rec.LastName,
		rec.Email,
		rec.Phone,
		rec.JobTitle,
		rec.Company,
		rec.Twitter,
	}
}

func (Table) Render(w io.Writer, recs iter.Seq[contact.Record]) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle()).
		Headers(columns...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return HeaderStyle()
			}
			return CellStyle()
		})
	for rec := range recs {
		t.Row(row(rec)...)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("render: writing: %w", err)
	}
	return nil
}

// collect drains recs into a slice that encodes as an empty list, not null.
func collect(recs iter.Seq[contact.Record]) []contact.Record {
	all := []contact.Record{}
	for rec := range recs {
		all = append(all, rec)
	}
	return all
}
