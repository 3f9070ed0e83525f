// Package books loads a book catalog and provides the map / filter / reduce /
// sort operations used to query it.
package books

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/drills/internal/fp"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound       = errors.New("books: catalog not found")
	ErrUnknownSortKey = errors.New("books: unknown sort key")
)

// Book is one catalog record.
type Book struct {
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author"`
	PublishDate   string   `yaml:"publish_date"` // YYYY-MM-DD, so it sorts lexically
	NumberOfPages int      `yaml:"number_of_pages"`
	Price         float64  `yaml:"price"`
	Subjects      []string `yaml:"subjects"`
}

func (b Book) String() string { return b.Title }

// clone returns a copy of b that shares no memory with it.
func (b Book) clone() Book {
	b.Subjects = slices.Clone(b.Subjects)
	return b
}

type catalog struct {
	Books []Book `yaml:"books"`
}

// Decode reads a YAML catalog of the form "books: [...]". Unknown fields are rejected.
func Decode(r io.Reader) ([]Book, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("books: parsing catalog: %w", err)
	}
	return c.Books, nil
}

// LoadFile reads the catalog at path.
func LoadFile(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("books: reading %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// LoadFS reads the named catalog from fsys.
func LoadFS(fsys fs.FS, name string) ([]Book, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("books: reading %s: %w", name, err)
	}
	return Decode(bytes.NewReader(data))
}

// roundCents rounds to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SalesPrice returns a transform that applies discount (a fraction, 0.2 for
// 20% off) to a copy of the book, rounded to cents.
func SalesPrice(discount float64) func(Book) Book {
	return func(b Book) Book {
		b = b.clone()
		b.Price = roundCents(b.Price - b.Price*discount)
		return b
	}
}

// IsLongBook returns a predicate for books with at least pages pages.
func IsLongBook(pages int) func(Book) bool {
	return func(b Book) bool { return b.NumberOfPages >= pages }
}

// HasSubject returns a predicate for books with a subject containing s.
func HasSubject(s string) func(Book) bool {
	return func(b Book) bool {
		return slices.ContainsFunc(b.Subjects, func(subject string) bool {
			return strings.Contains(subject, s)
		})
	}
}

// IsGoodDeal returns a predicate for books priced at or under max.
func IsGoodDeal(max float64) func(Book) bool {
	return func(b Book) bool { return b.Price <= max }
}

// Titlecase returns a copy of the book with its title in title case.
func Titlecase(b Book) Book {
	b = b.clone()
	b.Title = cases.Title(language.English).String(b.Title)
	return b
}

// TotalPrice sums the prices of books, rounded to cents.
func TotalPrice(books []Book) float64 {
	prices := fp.Map(books, func(b Book) float64 { return b.Price })
	total, ok := fp.Reduce(prices, func(a, b float64) float64 { return a + b })
	if !ok {
		return 0
	}
	return roundCents(total)
}

// SortKeys lists the keys accepted by SortBy.
var SortKeys = []string{"title", "author", "pages", "publish_date", "price"}

// SortBy returns a copy of books sorted ascending by key.
func SortBy(books []Book, key string) ([]Book, error) {
	switch key {
	case "title":
		return fp.SortedBy(books, func(b Book) string { return b.Title }), nil
	case "author":
		return fp.SortedBy(books, func(b Book) string { return b.Author }), nil
	case "pages":
		return fp.SortedBy(books, func(b Book) int { return b.NumberOfPages }), nil
	case "publish_date":
		return fp.SortedBy(books, func(b Book) string { return b.PublishDate }), nil
	case "price":
		return fp.SortedBy(books, func(b Book) float64 { return b.Price }), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownSortKey, key, strings.Join(SortKeys, ", "))
	}
}
