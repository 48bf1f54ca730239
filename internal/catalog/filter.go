package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/diagnosis/founder-playbook/internal/domain"
)

// Predicate is a node of the compiled provider filter. It can be rendered to
// SQL for the Postgres catalog or evaluated directly against a provider.
type Predicate interface {
	Matches(p *domain.Provider) bool
	render(b *sqlBuilder) string
}

// And is the root of every compiled filter. An empty And matches everything.
type And []Predicate

func (a And) Matches(p *domain.Provider) bool {
	for _, c := range a {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

func (a And) render(b *sqlBuilder) string {
	if len(a) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(a))
	for i, c := range a {
		parts[i] = c.render(b)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// Text is a case-insensitive literal substring match on name or description.
type Text struct {
	Query string
}

func (t Text) Matches(p *domain.Provider) bool {
	q := strings.ToLower(t.Query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

func (t Text) render(b *sqlBuilder) string {
	ph := b.arg("%" + escapeLike(t.Query) + "%")
	return fmt.Sprintf(`(p.name ILIKE %[1]s ESCAPE '\' OR p.description ILIKE %[1]s ESCAPE '\')`, ph)
}

// Category matches providers linked to the category through the relation table.
type Category struct {
	ID int64
}

func (c Category) Matches(p *domain.Provider) bool {
	return p.HasCategory(c.ID)
}

func (c Category) render(b *sqlBuilder) string {
	return fmt.Sprintf(`EXISTS (SELECT 1 FROM provider_categories pc WHERE pc.provider_id = p.id AND pc.category_id = %s)`, b.arg(c.ID))
}

// PriceIn holds a deduplicated set in canonical order. An empty set matches nothing.
type PriceIn struct {
	Ranges []domain.PriceRange
}

func (pi PriceIn) Matches(p *domain.Provider) bool {
	for _, r := range pi.Ranges {
		if p.PriceRange == r {
			return true
		}
	}
	return false
}

func (pi PriceIn) render(b *sqlBuilder) string {
	if len(pi.Ranges) == 0 {
		return "FALSE"
	}
	vals := make([]string, len(pi.Ranges))
	for i, r := range pi.Ranges {
		vals[i] = string(r)
	}
	return fmt.Sprintf("p.price_range = ANY(%s)", b.arg(vals))
}

// None matches nothing. It stands in for a filter value that can never match,
// such as a category id that is not a number.
type None struct{}

func (None) Matches(*domain.Provider) bool { return false }
func (None) render(*sqlBuilder) string     { return "FALSE" }

type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Where renders pred as a WHERE fragment over the providers table aliased "p".
// Placeholders start at $1.
func Where(pred Predicate) (string, []any) {
	if pred == nil {
		return "TRUE", nil
	}
	b := &sqlBuilder{}
	sql := pred.render(b)
	return sql, b.args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Query is a compiled listing request.
type Query struct {
	Filter And
	Limit  int
	Skip   int
	Seed   string

	params listParams
}

type listParams struct {
	Search     string `url:"search,omitempty"`
	Category   string `url:"category,omitempty"`
	PriceRange string `url:"priceRange,omitempty"`
	Limit      int    `url:"limit,omitempty"`
	Skip       int    `url:"skip,omitempty"`
	Seed       string `url:"seed,omitempty"`
}

func (q Query) Seeded() bool { return q.Seed != "" }

// Compile turns listing query parameters into one canonical Query. It never
// fails: malformed paging values fall back to defaults and unknown price
// ranges are dropped.
func Compile(v url.Values) Query {
	var q Query
	filter := And{}

	if search := strings.TrimSpace(v.Get("search")); search != "" {
		filter = append(filter, Text{Query: search})
		q.params.Search = search
	}

	if raw := strings.TrimSpace(v.Get("category")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			filter = append(filter, Category{ID: id})
		} else {
			filter = append(filter, None{})
		}
		q.params.Category = raw
	}

	if raw := v.Get("priceRange"); strings.TrimSpace(raw) != "" {
		ranges := parsePriceRanges(raw)
		filter = append(filter, PriceIn{Ranges: ranges})
		names := make([]string, len(ranges))
		for i, r := range ranges {
			names[i] = string(r)
		}
		q.params.PriceRange = strings.Join(names, ",")
	}

	q.Filter = filter
	q.Limit = nonNegative(v.Get("limit"))
	q.Skip = nonNegative(v.Get("skip"))
	q.Seed = strings.TrimSpace(v.Get("seed"))
	q.params.Limit, q.params.Skip, q.params.Seed = q.Limit, q.Skip, q.Seed
	return q
}

func parsePriceRanges(raw string) []domain.PriceRange {
	want := map[domain.PriceRange]bool{}
	for _, part := range strings.Split(raw, ",") {
		if pr, ok := domain.ParsePriceRange(part); ok {
			want[pr] = true
		}
	}
	out := []domain.PriceRange{}
	for _, pr := range domain.PriceRanges {
		if want[pr] {
			out = append(out, pr)
		}
	}
	return out
}

func nonNegative(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
