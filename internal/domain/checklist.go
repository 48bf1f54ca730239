package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChecklistItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type Checklist struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Items     []ChecklistItem `json:"items"`
	Order     int             `json:"order"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ChecklistFields struct {
	Title *string          `json:"title"`
	Items *[]ChecklistItem `json:"items"`
	Order *int             `json:"order"`
}

// Apply keeps item ids the client sends back so saved progress stays attached;
// new items get a fresh id.
func (f ChecklistFields) Apply(c *Checklist) error {
	if f.Title != nil {
		c.Title = strings.TrimSpace(*f.Title)
	}
	if f.Order != nil {
		c.Order = *f.Order
	}
	if f.Items != nil {
		items := make([]ChecklistItem, 0, len(*f.Items))
		for i, it := range *f.Items {
			it.Text = strings.TrimSpace(it.Text)
			if it.Text == "" {
				return NewValidation("checklist item %d has no text", i+1)
			}
			if strings.TrimSpace(it.ID) == "" {
				it.ID = uuid.NewString()
			}
			items = append(items, it)
		}
		c.Items = items
	}
	if c.Items == nil {
		c.Items = []ChecklistItem{}
	}
	if c.Title == "" {
		return NewValidation("title is required")
	}
	return nil
}

type ChecklistProgress struct {
	ChecklistID    int64     `json:"checklistId"`
	CompletedItems []string  `json:"completedItems"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Progress struct {
	SessionID         string              `json:"sessionId"`
	ChecklistProgress []ChecklistProgress `json:"checklistProgress"`
}
