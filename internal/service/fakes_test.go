package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/diagnosis/founder-playbook/internal/catalog"
	"github.com/diagnosis/founder-playbook/internal/domain"
)

type fakeCodes struct {
	mu       sync.Mutex
	codes    map[int64]*domain.AccessCode
	nextID   int64
	now      func() time.Time
	getErr   error
	consume  error
	stale    bool // GetByCode serves the first snapshot it ever saw
	snapshot map[string]domain.AccessCode
}

func newFakeCodes(now func() time.Time, codes ...domain.AccessCode) *fakeCodes {
	f := &fakeCodes{codes: map[int64]*domain.AccessCode{}, now: now, snapshot: map[string]domain.AccessCode{}}
	for _, c := range codes {
		f.nextID++
		c := c
		if c.ID == 0 {
			c.ID = f.nextID
		}
		f.codes[c.ID] = &c
	}
	return f
}

func (f *fakeCodes) byCode(code string) *domain.AccessCode {
	for _, c := range f.codes {
		if c.Code == code {
			return c
		}
	}
	return nil
}

func (f *fakeCodes) List(ctx context.Context) ([]domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.AccessCode{}
	for _, c := range f.codes {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCodes) GetByID(ctx context.Context, id int64) (*domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCodes) GetByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stale {
		if snap, ok := f.snapshot[code]; ok {
			return &snap, nil
		}
	}
	c := f.byCode(code)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	cp := *c
	f.snapshot[code] = cp
	return &cp, nil
}

func (f *fakeCodes) Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byCode(c.Code) != nil {
		return nil, domain.ErrConflict
	}
	f.nextID++
	cp := *c
	cp.ID = f.nextID
	cp.CreatedAt = f.now()
	f.codes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCodes) Update(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.codes[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	usage, last := cur.UsageCount, cur.LastUsedAt
	*cur = *c
	cur.UsageCount, cur.LastUsedAt = usage, last
	out := *cur
	return &out, nil
}

func (f *fakeCodes) Toggle(ctx context.Context, id int64) (*domain.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.IsActive = !c.IsActive
	out := *c
	return &out, nil
}

func (f *fakeCodes) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.codes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.codes, id)
	return nil
}

// TryConsume mirrors the guarded UPDATE: check and increment under one lock.
func (f *fakeCodes) TryConsume(ctx context.Context, id int64) (*domain.AccessCode, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consume != nil {
		return nil, false, f.consume
	}
	c, ok := f.codes[id]
	if !ok || !c.IsValid(f.now()) {
		return nil, false, nil
	}
	c.UsageCount++
	now := f.now()
	c.LastUsedAt = &now
	out := *c
	return &out, true, nil
}

func (f *fakeCodes) Counts(ctx context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active int64
	for _, c := range f.codes {
		if c.IsActive {
			active++
		}
	}
	return int64(len(f.codes)), active, nil
}

type fakeLogs struct {
	mu        sync.Mutex
	entries   []domain.AccessLog
	appendErr error
}

func (f *fakeLogs) Append(ctx context.Context, e *domain.AccessLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLogs) Recent(ctx context.Context, limit int) ([]domain.AccessLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.AccessLog{}
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeLogs) Clear(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.entries))
	f.entries = nil
	return n, nil
}

func (f *fakeLogs) all() []domain.AccessLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AccessLog(nil), f.entries...)
}

type fakeSessions struct {
	mu    sync.Mutex
	items map[string]domain.Session
	err   error
}

func newFakeSessions() *fakeSessions { return &fakeSessions{items: map[string]domain.Session{}} }

func (f *fakeSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[s.ID] = *s
	return nil
}

func (f *fakeSessions) Touch(ctx context.Context, id string, ttl time.Duration) error { return nil }

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type publishedEvent struct {
	subject string
	data    any
}

type fakeBus struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeBus) Publish(ctx context.Context, subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{subject, data})
	return nil
}

func (f *fakeBus) Close() error { return nil }

func (f *fakeBus) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.subject
	}
	return out
}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
	admin    []bool
}

func (f *fakeObserver) ObserveAccessAttempt(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomes == nil {
		f.outcomes = map[string]int{}
	}
	f.outcomes[outcome]++
}

func (f *fakeObserver) ObserveAdminLogin(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, ok)
}

type fakeCategories struct {
	mu     sync.Mutex
	cats   map[int64]domain.Category
	nextID int64
	refs   map[int64]int64
}

func newFakeCategories(cats ...domain.Category) *fakeCategories {
	f := &fakeCategories{cats: map[int64]domain.Category{}, refs: map[int64]int64{}}
	for _, c := range cats {
		f.cats[c.ID] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCategories) List(ctx context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Category{}
	for _, c := range f.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeCategories) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategories) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.cats {
		if existing.Slug == c.Slug {
			return nil, domain.ErrConflict
		}
	}
	f.nextID++
	cp := *c
	cp.ID = f.nextID
	f.cats[cp.ID] = cp
	return &cp, nil
}

func (f *fakeCategories) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.cats[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cur.Name, cur.Order = c.Name, c.Order
	f.cats[c.ID] = cur
	return &cur, nil
}

func (f *fakeCategories) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cats[id]; !ok {
		return domain.ErrNotFound
	}
	if n := f.refs[id]; n > 0 {
		return &domain.CategoryInUseError{CategoryID: id, Providers: n}
	}
	delete(f.cats, id)
	return nil
}

func (f *fakeCategories) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.cats)), nil
}

type fakeProviders struct {
	mu        sync.Mutex
	providers map[int64]domain.Provider
	nextID    int64
}

func newFakeProviders(ps ...domain.Provider) *fakeProviders {
	f := &fakeProviders{providers: map[int64]domain.Provider{}}
	for _, p := range ps {
		f.providers[p.ID] = p
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *fakeProviders) matching(pred catalog.Predicate) []domain.Provider {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Provider{}
	for _, p := range f.providers {
		p := p
		if pred.Matches(&p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProviders) Count(ctx context.Context, pred catalog.Predicate) (int64, error) {
	return int64(len(f.matching(pred))), nil
}

func (f *fakeProviders) Recent(ctx context.Context, pred catalog.Predicate, limit, skip int) ([]domain.Provider, error) {
	ps := f.matching(pred)
	keys := make([]catalog.RankKey, len(ps))
	byID := map[int64]domain.Provider{}
	for i, p := range ps {
		keys[i] = catalog.RankKey{ID: p.ID, Featured: p.Featured, CreatedAt: p.CreatedAt}
		byID[p.ID] = p
	}
	catalog.SortRecent(keys)
	start, end := catalog.Window(len(keys), limit, skip)
	out := []domain.Provider{}
	for _, k := range keys[start:end] {
		out = append(out, byID[k.ID])
	}
	return out, nil
}

func (f *fakeProviders) RankKeys(ctx context.Context, pred catalog.Predicate) ([]catalog.RankKey, error) {
	keys := []catalog.RankKey{}
	for _, p := range f.matching(pred) {
		keys = append(keys, catalog.RankKey{ID: p.ID, Featured: p.Featured, CreatedAt: p.CreatedAt})
	}
	return keys, nil
}

func (f *fakeProviders) ByIDs(ctx context.Context, ids []int64) ([]domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Provider{}
	for _, id := range ids {
		if p, ok := f.providers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProviders) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.providers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProviders) ListAll(ctx context.Context) ([]domain.Provider, error) {
	return f.matching(catalog.And{}), nil
}

func (f *fakeProviders) Create(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *p
	cp.ID = f.nextID
	f.providers[cp.ID] = cp
	return &cp, nil
}

func (f *fakeProviders) Update(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.providers[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.providers[p.ID] = *p
	cp := *p
	return &cp, nil
}

func (f *fakeProviders) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.providers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.providers, id)
	return nil
}

func (f *fakeProviders) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.providers)), nil
}
