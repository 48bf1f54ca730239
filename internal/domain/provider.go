package domain

import (
	"strings"
	"time"
)

type PriceRange string

const (
	PriceBudget  PriceRange = "budget"
	PriceMid     PriceRange = "mid"
	PricePremium PriceRange = "premium"
)

// PriceRanges lists every tier in canonical order.
var PriceRanges = []PriceRange{PriceBudget, PriceMid, PricePremium}

func ParsePriceRange(s string) (PriceRange, bool) {
	switch PriceRange(strings.ToLower(strings.TrimSpace(s))) {
	case PriceBudget:
		return PriceBudget, true
	case PriceMid:
		return PriceMid, true
	case PricePremium:
		return PricePremium, true
	default:
		return "", false
	}
}

// Provider stores its categories once, as an ordered list of ids. The single
// "category" clients still read is derived from it in View.
type Provider struct {
	ID               int64
	Name             string
	Description      string
	Logo             string
	CategoryIDs      []int64
	PriceRange       PriceRange
	BestFor          []string
	ContactWhatsApp  string
	ContactInstagram string
	ContactWebsite   string
	PracticalNotes   string
	Featured         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Provider) HasCategory(id int64) bool {
	for _, c := range p.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

type ProviderView struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Logo             string     `json:"logo"`
	Category         *Category  `json:"category"`
	Categories       []Category `json:"categories"`
	PriceRange       PriceRange `json:"priceRange"`
	BestFor          []string   `json:"bestFor"`
	ContactWhatsApp  string     `json:"contactWhatsApp"`
	ContactInstagram string     `json:"contactInstagram"`
	ContactWebsite   string     `json:"contactWebsite"`
	PracticalNotes   string     `json:"practicalNotes"`
	Featured         bool       `json:"featured"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// View populates category references from byID. Ids missing from byID are skipped.
func (p *Provider) View(byID map[int64]Category) ProviderView {
	v := ProviderView{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Logo:             p.Logo,
		Categories:       make([]Category, 0, len(p.CategoryIDs)),
		PriceRange:       p.PriceRange,
		BestFor:          p.BestFor,
		ContactWhatsApp:  p.ContactWhatsApp,
		ContactInstagram: p.ContactInstagram,
		ContactWebsite:   p.ContactWebsite,
		PracticalNotes:   p.PracticalNotes,
		Featured:         p.Featured,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if v.BestFor == nil {
		v.BestFor = []string{}
	}
	for _, id := range p.CategoryIDs {
		if c, ok := byID[id]; ok {
			v.Categories = append(v.Categories, c)
		}
	}
	if len(v.Categories) > 0 {
		first := v.Categories[0]
		v.Category = &first
	}
	return v
}

// ProviderFields is the writable surface of a provider. Nil fields are left untouched.
type ProviderFields struct {
	Name             *string
	Description      *string
	Logo             *string
	CategoryIDs      *[]int64
	PriceRange       *string
	BestFor          *[]string
	ContactWhatsApp  *string
	ContactInstagram *string
	ContactWebsite   *string
	PracticalNotes   *string
	Featured         *bool
}

func (f ProviderFields) Apply(p *Provider) error {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		p.Description = strings.TrimSpace(*f.Description)
	}
	if f.Logo != nil {
		p.Logo = *f.Logo
	}
	if f.CategoryIDs != nil {
		p.CategoryIDs = dedupeIDs(*f.CategoryIDs)
	}
	if f.PriceRange != nil {
		pr, ok := ParsePriceRange(*f.PriceRange)
		if !ok {
			return NewValidation("priceRange must be one of budget, mid, premium")
		}
		p.PriceRange = pr
	}
	if f.BestFor != nil {
		tags := make([]string, 0, len(*f.BestFor))
		for _, t := range *f.BestFor {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		p.BestFor = tags
	}
	if f.ContactWhatsApp != nil {
		p.ContactWhatsApp = strings.TrimSpace(*f.ContactWhatsApp)
	}
	if f.ContactInstagram != nil {
		p.ContactInstagram = strings.TrimSpace(*f.ContactInstagram)
	}
	if f.ContactWebsite != nil {
		p.ContactWebsite = strings.TrimSpace(*f.ContactWebsite)
	}
	if f.PracticalNotes != nil {
		p.PracticalNotes = strings.TrimSpace(*f.PracticalNotes)
	}
	if f.Featured != nil {
		p.Featured = *f.Featured
	}
	if p.Name == "" {
		return NewValidation("name is required")
	}
	return nil
}

// dedupeIDs keeps first occurrences so the leading category stays leading.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
