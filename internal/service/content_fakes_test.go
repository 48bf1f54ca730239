package service

import (
	"context"
	"sort"
	"sync"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/platform/mailer"
)

type fakeSections struct {
	mu     sync.Mutex
	items  map[int64]domain.Section
	nextID int64
}

func newFakeSections(secs ...domain.Section) *fakeSections {
	f := &fakeSections{items: map[int64]domain.Section{}}
	for _, s := range secs {
		f.nextID++
		if s.ID == 0 {
			s.ID = f.nextID
		}
		f.items[s.ID] = s
	}
	return f
}

func (f *fakeSections) List(ctx context.Context, publishedOnly bool) ([]domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Section{}
	for _, s := range f.items {
		if publishedOnly && s.Status != domain.SectionPublished {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeSections) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if s.Slug == slug && (!publishedOnly || s.Status == domain.SectionPublished) {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSections) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSections) Create(ctx context.Context, s *domain.Section) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Slug == s.Slug {
			return nil, domain.ErrConflict
		}
	}
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	f.items[cp.ID] = cp
	return &cp, nil
}

func (f *fakeSections) Update(ctx context.Context, s *domain.Section) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[s.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.items[s.ID] = *s
	cp := *s
	return &cp, nil
}

func (f *fakeSections) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeChecklists struct {
	mu     sync.Mutex
	items  map[int64]domain.Checklist
	nextID int64
}

func newFakeChecklists(cs ...domain.Checklist) *fakeChecklists {
	f := &fakeChecklists{items: map[int64]domain.Checklist{}}
	for _, c := range cs {
		f.nextID++
		if c.ID == 0 {
			c.ID = f.nextID
		}
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeChecklists) List(ctx context.Context) ([]domain.Checklist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Checklist{}
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeChecklists) GetBySlug(ctx context.Context, slug string) (*domain.Checklist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeChecklists) GetByID(ctx context.Context, id int64) (*domain.Checklist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeChecklists) Create(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Slug == c.Slug {
			return nil, domain.ErrConflict
		}
	}
	f.nextID++
	cp := *c
	cp.ID = f.nextID
	f.items[cp.ID] = cp
	return &cp, nil
}

func (f *fakeChecklists) Update(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.items[c.ID] = *c
	cp := *c
	return &cp, nil
}

func (f *fakeChecklists) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type progressKey struct {
	session   string
	checklist int64
}

type fakeProgress struct {
	mu         sync.Mutex
	items      map[progressKey][]string
	checklists *fakeChecklists
}

func newFakeProgress(checklists *fakeChecklists) *fakeProgress {
	return &fakeProgress{items: map[progressKey][]string{}, checklists: checklists}
}

func (f *fakeProgress) Get(ctx context.Context, sessionID string) ([]domain.ChecklistProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.ChecklistProgress{}
	for k, items := range f.items {
		if k.session == sessionID {
			out = append(out, domain.ChecklistProgress{ChecklistID: k.checklist, CompletedItems: items})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChecklistID < out[j].ChecklistID })
	return out, nil
}

func (f *fakeProgress) Save(ctx context.Context, sessionID string, checklistID int64, completed []string) error {
	if _, err := f.checklists.GetByID(ctx, checklistID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[progressKey{sessionID, checklistID}] = append([]string{}, completed...)
	return nil
}

func (f *fakeProgress) Reset(ctx context.Context, sessionID string, checklistID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, progressKey{sessionID, checklistID})
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.AccessCodeMail
	err  error
}

func (f *fakeMailer) SendAccessCode(ctx context.Context, m mailer.AccessCodeMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}
