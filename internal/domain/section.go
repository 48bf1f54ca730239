package domain

import (
	"strings"
	"time"
)

type SectionStatus string

const (
	SectionPublished SectionStatus = "published"
	SectionDraft     SectionStatus = "draft"
)

const DefaultSectionIcon = "FileText"

type Section struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Slug      string        `json:"slug"`
	Icon      string        `json:"icon"`
	Order     int           `json:"order"`
	Content   string        `json:"content"`
	Status    SectionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type SectionFields struct {
	Title   *string `json:"title"`
	Icon    *string `json:"icon"`
	Order   *int    `json:"order"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

func (f SectionFields) Apply(s *Section) error {
	if f.Title != nil {
		s.Title = strings.TrimSpace(*f.Title)
	}
	if f.Icon != nil {
		s.Icon = strings.TrimSpace(*f.Icon)
	}
	if f.Order != nil {
		s.Order = *f.Order
	}
	if f.Content != nil {
		s.Content = *f.Content
	}
	if f.Status != nil {
		switch st := SectionStatus(strings.TrimSpace(*f.Status)); st {
		case SectionPublished, SectionDraft:
			s.Status = st
		default:
			return NewValidation("status must be published or draft")
		}
	}

	if s.Title == "" {
		return NewValidation("title is required")
	}
	if s.Icon == "" {
		s.Icon = DefaultSectionIcon
	}
	if s.Order < 1 || s.Order > 10 {
		return NewValidation("order must be between 1 and 10")
	}
	return nil
}
