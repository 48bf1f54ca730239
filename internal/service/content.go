package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/internal/utils"
	"github.com/diagnosis/founder-playbook/pkg/events"
)

// ContentService covers playbook sections, checklists and per-session progress.
type ContentService interface {
	ListSections(ctx context.Context, publishedOnly bool) ([]domain.Section, error)
	GetSection(ctx context.Context, slug string) (*domain.Section, error)
	CreateSection(ctx context.Context, f domain.SectionFields) (*domain.Section, error)
	UpdateSection(ctx context.Context, id int64, f domain.SectionFields) (*domain.Section, error)
	DeleteSection(ctx context.Context, id int64) error

	ListChecklists(ctx context.Context) ([]domain.Checklist, error)
	GetChecklist(ctx context.Context, slug string) (*domain.Checklist, error)
	CreateChecklist(ctx context.Context, f domain.ChecklistFields) (*domain.Checklist, error)
	UpdateChecklist(ctx context.Context, id int64, f domain.ChecklistFields) (*domain.Checklist, error)
	DeleteChecklist(ctx context.Context, id int64) error

	Progress(ctx context.Context, sessionID string) (*domain.Progress, error)
	SaveProgress(ctx context.Context, sessionID string, checklistID int64, completed []string) (*domain.Progress, error)
	ResetProgress(ctx context.Context, sessionID string, checklistID int64) error
}

type contentService struct {
	sections   postgres.SectionRepo
	checklists postgres.ChecklistRepo
	progress   postgres.ProgressRepo
	bus        events.Publisher
}

func NewContentService(
	sections postgres.SectionRepo,
	checklists postgres.ChecklistRepo,
	progress postgres.ProgressRepo,
	bus events.Publisher,
) ContentService {
	return &contentService{
		sections:   sections,
		checklists: checklists,
		progress:   progress,
		bus:        bus,
	}
}

func (s *contentService) ListSections(ctx context.Context, publishedOnly bool) ([]domain.Section, error) {
	out, err := s.sections.List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out, nil
}

// GetSection only serves published sections; drafts read as missing.
func (s *contentService) GetSection(ctx context.Context, slug string) (*domain.Section, error) {
	out, err := s.sections.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, fmt.Errorf("get section %q: %w", slug, err)
	}
	return out, nil
}

func (s *contentService) CreateSection(ctx context.Context, f domain.SectionFields) (*domain.Section, error) {
	sec := &domain.Section{Status: domain.SectionPublished, Icon: domain.DefaultSectionIcon}
	if err := f.Apply(sec); err != nil {
		return nil, err
	}
	sec.Slug = utils.Slugify(sec.Title)
	if sec.Slug == "" {
		return nil, domain.NewValidation("title must contain letters or digits")
	}
	created, err := s.sections.Create(ctx, sec)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.NewConflict("A section titled %q already exists", sec.Title)
	}
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "section", created.ID, "created")
	return created, nil
}

func (s *contentService) UpdateSection(ctx context.Context, id int64, f domain.SectionFields) (*domain.Section, error) {
	sec, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get section %d: %w", id, err)
	}
	if err := f.Apply(sec); err != nil {
		return nil, err
	}
	updated, err := s.sections.Update(ctx, sec)
	if err != nil {
		return nil, fmt.Errorf("update section %d: %w", id, err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "section", id, "updated")
	return updated, nil
}

func (s *contentService) DeleteSection(ctx context.Context, id int64) error {
	if err := s.sections.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete section %d: %w", id, err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "section", id, "deleted")
	return nil
}

func (s *contentService) ListChecklists(ctx context.Context) ([]domain.Checklist, error) {
	out, err := s.checklists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}
	return out, nil
}

func (s *contentService) GetChecklist(ctx context.Context, slug string) (*domain.Checklist, error) {
	out, err := s.checklists.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get checklist %q: %w", slug, err)
	}
	return out, nil
}

func (s *contentService) CreateChecklist(ctx context.Context, f domain.ChecklistFields) (*domain.Checklist, error) {
	c := &domain.Checklist{}
	if err := f.Apply(c); err != nil {
		return nil, err
	}
	c.Slug = utils.Slugify(c.Title)
	if c.Slug == "" {
		return nil, domain.NewValidation("title must contain letters or digits")
	}
	created, err := s.checklists.Create(ctx, c)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.NewConflict("A checklist titled %q already exists", c.Title)
	}
	if err != nil {
		return nil, fmt.Errorf("create checklist: %w", err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "checklist", created.ID, "created")
	return created, nil
}

func (s *contentService) UpdateChecklist(ctx context.Context, id int64, f domain.ChecklistFields) (*domain.Checklist, error) {
	c, err := s.checklists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get checklist %d: %w", id, err)
	}
	if err := f.Apply(c); err != nil {
		return nil, err
	}
	updated, err := s.checklists.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update checklist %d: %w", id, err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "checklist", id, "updated")
	return updated, nil
}

func (s *contentService) DeleteChecklist(ctx context.Context, id int64) error {
	if err := s.checklists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete checklist %d: %w", id, err)
	}
	publishChange(ctx, s.bus, events.ContentChanged, "checklist", id, "deleted")
	return nil
}

func (s *contentService) Progress(ctx context.Context, sessionID string) (*domain.Progress, error) {
	items, err := s.progress.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &domain.Progress{SessionID: sessionID, ChecklistProgress: items}, nil
}

func (s *contentService) SaveProgress(ctx context.Context, sessionID string, checklistID int64, completed []string) (*domain.Progress, error) {
	if checklistID <= 0 {
		return nil, domain.NewValidation("checklistId is required")
	}
	seen := make(map[string]struct{}, len(completed))
	clean := make([]string, 0, len(completed))
	for _, id := range completed {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if err := s.progress.Save(ctx, sessionID, checklistID, clean); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return s.Progress(ctx, sessionID)
}

func (s *contentService) ResetProgress(ctx context.Context, sessionID string, checklistID int64) error {
	if err := s.progress.Reset(ctx, sessionID, checklistID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
