// Package contact extracts structured contact records from tab-separated
// address book text.
package contact

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"regexp"
	"strings"
)

// ErrNotFound indicates the address book resource does not exist.
var ErrNotFound = errors.New("contact: resource not found")

// Record is one parsed contact line. Phone and Twitter are empty when the
// source line leaves them out.
type Record struct {
	LastName  string `json:"last_name" yaml:"last_name"`
	FirstName string `json:"first_name" yaml:"first_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	JobTitle  string `json:"job_title" yaml:"job_title"`
	Company   string `json:"company" yaml:"company"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Line      int    `json:"line" yaml:"line"` // 1-based line number in the source text
}

// HasPhone reports whether the record carries a phone number.
func (r Record) HasPhone() bool { return r.Phone != "" }

// HasTwitter reports whether the record carries a social handle.
func (r Record) HasTwitter() bool { return r.Twitter != "" }

// String returns the display line "First Last <email>".
func (r Record) String() string {
	return fmt.Sprintf("%s %s <%s>", r.FirstName, r.LastName, r.Email)
}

// Word characters follow Unicode letters and digits so names such as
// "Österberg" are accepted.
const word = `\p{L}\p{N}_`

// Field segment positions within a line.
const (
	segName = iota
	segEmail
	segPhone
	segJob
	segTwitter
)

// Extractor parses address book lines. It holds the compiled field grammars
// and is safe for concurrent use; build one with NewExtractor and reuse it.
type Extractor struct {
	name    *regexp.Regexp
	email   *regexp.Regexp
	phone   *regexp.Regexp
	job     *regexp.Regexp
	twitter *regexp.Regexp
}

// NewExtractor compiles the field grammars.
func NewExtractor() *Extractor {
	return &Extractor{
		name:    regexp.MustCompile(`^([-` + word + ` ]+),\s([-` + word + ` ]+)$`),
		email:   regexp.MustCompile(`^[-` + word + `.+]+@[-` + word + `.]+$`),
		phone:   regexp.MustCompile(`^\(?\d{3}\)?-?\s?\d{3}-\d{4}$`),
		job:     regexp.MustCompile(`^([` + word + `\s]+),\s([` + word + `\s.]+)$`),
		twitter: regexp.MustCompile(`^@[` + word + `]+$`),
	}
}

// ParseLine parses a single line. The second result is false when the line
// does not match the address book layout.
//
// A line splits on tabs into name, email, phone, job and an optional twitter
// segment. The phone and twitter segments may be empty; the tab before the
// twitter segment may be missing entirely. Anything else is rejected rather
// than guessed at.
func (e *Extractor) ParseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, " \r")
	segs := strings.Split(line, "\t")
	if len(segs) != 4 && len(segs) != 5 {
		return Record{}, false
	}

	name := e.name.FindStringSubmatch(segs[segName])
	if name == nil {
		return Record{}, false
	}
	if !e.email.MatchString(segs[segEmail]) {
		return Record{}, false
	}
	phone := segs[segPhone]
	if phone != "" && !e.phone.MatchString(phone) {
		return Record{}, false
	}
	job := e.job.FindStringSubmatch(segs[segJob])
	if job == nil {
		return Record{}, false
	}
	var twitter string
	if len(segs) == 5 {
		twitter = segs[segTwitter]
		if twitter != "" && !e.twitter.MatchString(twitter) {
			return Record{}, false
		}
	}

	return Record{
		LastName:  name[1],
		FirstName: name[2],
		Email:     segs[segEmail],
		Phone:     phone,
		JobTitle:  job[1],
		Company:   job[2],
		Twitter:   twitter,
	}, true
}

// All returns a lazy sequence of the records in text, in line order.
// Lines that do not match are skipped.
func (e *Extractor) All(text string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		n := 0
		for line := range strings.Lines(text) {
			n++
			rec, ok := e.ParseLine(strings.TrimSuffix(line, "\n"))
			if !ok {
				continue
			}
			rec.Line = n
			if !yield(rec) {
				return
			}
		}
	}
}

// Extract collects every record in text.
func (e *Extractor) Extract(text string) []Record {
	var recs []Record
	for rec := range e.All(text) {
		recs = append(recs, rec)
	}
	return recs
}

// ReadSource reads the whole address book at path.
// A missing file is reported as ErrNotFound.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return "", fmt.Errorf("contact: reading %s: %w", path, err)
	}
	return string(data), nil
}

// ReadSourceFS reads the named address book from fsys.
// A missing file is reported as ErrNotFound.
func ReadSourceFS(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
		}
		return "", fmt.Errorf("contact: reading %s: %w", name, err)
	}
	return string(data), nil
}
