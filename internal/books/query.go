package books

import "github.com/smileynet/drills/internal/fp"

// Query chains the catalog operations. Zero values disable each step.
type Query struct {
	Discount  float64 // Apply SalesPrice with this discount when Sale is set
	Sale      bool
	LongPages int     // Keep only books with at least this many pages
	Subject   string  // Keep only books with a subject containing this text
	MaxPrice  float64 // Keep only good deals at or under this price when Deals is set
	Deals     bool
	Titlecase bool
	SortBy    string
}

// Apply runs q over books in a fixed order: price map, filters, title map,
// then sort. The input slice is not modified.
func (q Query) Apply(books []Book) ([]Book, error) {
	out := fp.Map(books, Book.clone)
	if q.Sale {
		out = fp.Map(out, SalesPrice(q.Discount))
	}
	if q.LongPages > 0 {
		out = fp.Filter(out, IsLongBook(q.LongPages))
	}
	if q.Subject != "" {
		out = fp.Filter(out, HasSubject(q.Subject))
	}
	if q.Deals {
		out = fp.Filter(out, IsGoodDeal(q.MaxPrice))
	}
	if q.Titlecase {
		out = fp.Map(out, Titlecase)
	}
	if q.SortBy != "" {
		return SortBy(out, q.SortBy)
	}
	return out, nil
}
