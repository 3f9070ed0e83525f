package render

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/drills/internal/contact"
)

var testRecords = []contact.Record{
	{
		LastName: "Love", FirstName: "Kenneth", Email: "kenneth@teamtreehouse.com",
		Phone: "(555) 555-5555", JobTitle: "Teacher", Company: "Treehouse",
		Twitter: "@kennethlove", Line: 1,
	},
	{
		LastName: "Arthur", FirstName: "King", Email: "king_arthur@camelot.co.uk",
		JobTitle: "King", Company: "Camelot", Line: 3,
	},
}

func render(t *testing.T, r Renderer, recs []contact.Record) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(&buf, slices.Values(recs)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return buf.String()
}

func TestText_OneLinePerRecord(t *testing.T) {
	got := render(t, Text{}, testRecords)

	want := "Kenneth Love <kenneth@teamtreehouse.com>\n" +
		"King Arthur <king_arthur@camelot.co.uk>\n"
	if got != want {
		t.Errorf("Text output mismatch:\n%s", cmp.Diff(want, got))
	}
}

func TestText_NoRecords(t *testing.T) {
	if got := render(t, Text{}, nil); got != "" {
		t.Errorf("Text output = %q, want empty", got)
	}
}

func TestTemplate_Fields(t *testing.T) {
	tmpl, err := NewTemplate("{{.FirstName}}|{{.Company}}|{{.Twitter}}")
	if err != nil {
		t.Fatal(err)
	}

	got := render(t, tmpl, testRecords)

	want := "Kenneth|Treehouse|@kennethlove\nKing|Camelot|\n"
	if got != want {
		t.Errorf("Template output mismatch:\n%s", cmp.Diff(want, got))
	}
}

func TestTemplate_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"parse error", "{{.FirstName"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTemplate(tt.text); err == nil {
				t.Errorf("NewTemplate(%q) error = nil, want error", tt.text)
			}
		})
	}
}

func TestTemplate_UnknownFieldFailsOnRender(t *testing.T) {
	tmpl, err := NewTemplate("{{.Nickname}}")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = tmpl.Render(&buf, slices.Values(testRecords))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Render() error = %v, want error mentioning line 1", err)
	}
}

func TestJSON_RoundTripsRecords(t *testing.T) {
	out := render(t, JSON{}, testRecords)

	var got []contact.Record
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if diff := cmp.Diff(testRecords, got); diff != "" {
		t.Errorf("JSON records mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_EmptyIsList(t *testing.T) {
	if got := strings.TrimSpace(render(t, JSON{}, nil)); got != "[]" {
		t.Errorf("JSON output = %q, want []", got)
	}
}

func TestYAML_RoundTripsRecords(t *testing.T) {
	out := render(t, YAML{}, testRecords)

	var got []contact.Record
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if diff := cmp.Diff(testRecords, got); diff != "" {
		t.Errorf("YAML records mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_ContainsHeadersAndCells(t *testing.T) {
	got := render(t, Table{}, testRecords)

	for _, want := range append(slices.Clone(columns), "Kenneth Love", "king_arthur@camelot.co.uk", "@kennethlove") {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  []int
	}{
		{"zero", 0, []int{0, 0, 0, 0, 0, 0}},
		{"wide", 100, []int{25, 25, 12, 12, 12, 12}},
		{"narrow clamps name", 40, []int{16, 16, 2, 2, 2, 2}},
		{"tiny leaves nothing", 20, []int{16, 16, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ColumnWidths(tt.total)); diff != "" {
				t.Errorf("ColumnWidths(%d) mismatch (-want +got):\n%s", tt.total, diff)
			}
		})
	}
}
