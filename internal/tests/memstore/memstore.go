// Package memstore provides in-memory implementations of the repository,
// object storage and event interfaces for tests.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/trailtrack/apiserver/internal/storage"
	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/types"
)

// table is an owner-scoped row set keyed by id.
type table[T any] struct {
	mu      sync.Mutex
	nextID  int
	rows    map[int]T
	idOf    func(*T) *int
	ownerOf func(*T) int
	touch   func(*T, time.Time)
}

func newTable[T any](idOf func(*T) *int, ownerOf func(*T) int, touch func(*T, time.Time)) *table[T] {
	return &table[T]{rows: make(map[int]T), idOf: idOf, ownerOf: ownerOf, touch: touch}
}

func (t *table[T]) list(ownerID int, keep func(*T) bool, less func(a, b *T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, 0)
	for _, row := range t.rows {
		if t.ownerOf(&row) != ownerID {
			continue
		}
		if keep != nil && !keep(&row) {
			continue
		}
		out = append(out, row)
	}
	if less == nil {
		less = func(a, b *T) bool { return *t.idOf(a) < *t.idOf(b) }
	}
	sort.Slice(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func (t *table[T]) get(ownerID, id int) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok || t.ownerOf(&row) != ownerID {
		var zero T
		return zero, store.ErrNotFound
	}
	return row, nil
}

func (t *table[T]) create(row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	*t.idOf(&row) = t.nextID
	t.touch(&row, time.Now().UTC())
	t.rows[t.nextID] = row
	return row
}

func (t *table[T]) modify(ownerID, id int, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	row, ok := t.rows[id]
	if !ok || t.ownerOf(&row) != ownerID {
		return zero, store.ErrNotFound
	}
	if err := fn(&row); err != nil {
		return zero, err
	}
	t.touch(&row, time.Now().UTC())
	t.rows[id] = row
	return row, nil
}

func (t *table[T]) delete(ownerID, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok || t.ownerOf(&row) != ownerID {
		return store.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// Users is an in-memory user repository.
type Users struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]types.User
}

func NewUsers() *Users {
	return &Users{rows: make(map[int]types.User)}
}

func (u *Users) GetByID(_ context.Context, id int) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.rows {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) Create(_ context.Context, user types.User) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.rows {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	u.nextID++
	now := time.Now().UTC()
	user.ID = u.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	u.rows[user.ID] = user
	return user, nil
}

// Accounts is an in-memory account repository.
type Accounts struct{ t *table[types.Account] }

func NewAccounts() *Accounts {
	return &Accounts{t: newTable(
		func(a *types.Account) *int { return &a.ID },
		func(a *types.Account) int { return a.OwnerID },
		func(a *types.Account, now time.Time) {
			if a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			a.UpdatedAt = now
		},
	)}
}

func (r *Accounts) List(_ context.Context, ownerID int) ([]types.Account, error) {
	return r.t.list(ownerID, nil, nil), nil
}

func (r *Accounts) Get(_ context.Context, ownerID, id int) (types.Account, error) {
	return r.t.get(ownerID, id)
}

func (r *Accounts) Create(_ context.Context, account types.Account) (types.Account, error) {
	return r.t.create(account), nil
}

func (r *Accounts) Modify(_ context.Context, ownerID, id int, fn func(*types.Account) error) (types.Account, error) {
	return r.t.modify(ownerID, id, fn)
}

func (r *Accounts) Delete(_ context.Context, ownerID, id int) error {
	return r.t.delete(ownerID, id)
}

// Contacts is an in-memory contact repository.
type Contacts struct{ t *table[types.Contact] }

func NewContacts() *Contacts {
	return &Contacts{t: newTable(
		func(c *types.Contact) *int { return &c.ID },
		func(c *types.Contact) int { return c.OwnerID },
		func(c *types.Contact, now time.Time) {
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			c.UpdatedAt = now
		},
	)}
}

func (r *Contacts) List(_ context.Context, ownerID int) ([]types.Contact, error) {
	return r.t.list(ownerID, nil, nil), nil
}

func (r *Contacts) Get(_ context.Context, ownerID, id int) (types.Contact, error) {
	return r.t.get(ownerID, id)
}

func (r *Contacts) Create(_ context.Context, contact types.Contact) (types.Contact, error) {
	return r.t.create(contact), nil
}

func (r *Contacts) Modify(_ context.Context, ownerID, id int, fn func(*types.Contact) error) (types.Contact, error) {
	return r.t.modify(ownerID, id, fn)
}

func (r *Contacts) Delete(_ context.Context, ownerID, id int) error {
	return r.t.delete(ownerID, id)
}

// Leads is an in-memory lead repository.
type Leads struct{ t *table[types.Lead] }

func NewLeads() *Leads {
	return &Leads{t: newTable(
		func(l *types.Lead) *int { return &l.ID },
		func(l *types.Lead) int { return l.OwnerID },
		func(l *types.Lead, now time.Time) {
			if l.CreatedAt.IsZero() {
				l.CreatedAt = now
			}
			l.UpdatedAt = now
		},
	)}
}

func (r *Leads) List(_ context.Context, ownerID int) ([]types.Lead, error) {
	return r.t.list(ownerID, nil, nil), nil
}

func (r *Leads) Get(_ context.Context, ownerID, id int) (types.Lead, error) {
	return r.t.get(ownerID, id)
}

func (r *Leads) Create(_ context.Context, lead types.Lead) (types.Lead, error) {
	return r.t.create(lead), nil
}

func (r *Leads) Modify(_ context.Context, ownerID, id int, fn func(*types.Lead) error) (types.Lead, error) {
	return r.t.modify(ownerID, id, fn)
}

func (r *Leads) Delete(_ context.Context, ownerID, id int) error {
	return r.t.delete(ownerID, id)
}

// Activities is an in-memory activity repository.
type Activities struct{ t *table[types.Activity] }

func NewActivities() *Activities {
	return &Activities{t: newTable(
		func(a *types.Activity) *int { return &a.ID },
		func(a *types.Activity) int { return a.OwnerID },
		func(a *types.Activity, now time.Time) {
			if a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			if a.OccurredAt.IsZero() {
				a.OccurredAt = now
			}
			a.UpdatedAt = now
		},
	)}
}

func (r *Activities) List(_ context.Context, ownerID int, leadID *int) ([]types.Activity, error) {
	var keep func(*types.Activity) bool
	if leadID != nil {
		keep = func(a *types.Activity) bool { return a.LeadID != nil && *a.LeadID == *leadID }
	}
	return r.t.list(ownerID, keep, func(a, b *types.Activity) bool {
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		return a.ID > b.ID
	}), nil
}

func (r *Activities) Get(_ context.Context, ownerID, id int) (types.Activity, error) {
	return r.t.get(ownerID, id)
}

func (r *Activities) Create(_ context.Context, activity types.Activity) (types.Activity, error) {
	return r.t.create(activity), nil
}

func (r *Activities) Modify(_ context.Context, ownerID, id int, fn func(*types.Activity) error) (types.Activity, error) {
	return r.t.modify(ownerID, id, fn)
}

func (r *Activities) Delete(_ context.Context, ownerID, id int) error {
	return r.t.delete(ownerID, id)
}

// Tasks is an in-memory task repository. Tasks without a due time sort
// last, matching postgres ascending order.
type Tasks struct{ t *table[types.Task] }

func NewTasks() *Tasks {
	return &Tasks{t: newTable(
		func(t *types.Task) *int { return &t.ID },
		func(t *types.Task) int { return t.OwnerID },
		func(t *types.Task, now time.Time) {
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			t.UpdatedAt = now
		},
	)}
}

func (r *Tasks) List(_ context.Context, ownerID int) ([]types.Task, error) {
	return r.t.list(ownerID, nil, func(a, b *types.Task) bool {
		switch {
		case a.DueAt == nil && b.DueAt == nil:
			return a.ID < b.ID
		case a.DueAt == nil:
			return false
		case b.DueAt == nil:
			return true
		case !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		default:
			return a.ID < b.ID
		}
	}), nil
}

func (r *Tasks) Get(_ context.Context, ownerID, id int) (types.Task, error) {
	return r.t.get(ownerID, id)
}

func (r *Tasks) Create(_ context.Context, task types.Task) (types.Task, error) {
	return r.t.create(task), nil
}

func (r *Tasks) Modify(_ context.Context, ownerID, id int, fn func(*types.Task) error) (types.Task, error) {
	return r.t.modify(ownerID, id, fn)
}

func (r *Tasks) Delete(_ context.Context, ownerID, id int) error {
	return r.t.delete(ownerID, id)
}

// Stats computes dashboard counters from the in-memory tables.
type Stats struct {
	Leads    *Leads
	Accounts *Accounts
	Tasks    *Tasks
}

func (s Stats) Counts(ctx context.Context, ownerID int) (types.RecordCounts, error) {
	var counts types.RecordCounts

	leads, _ := s.Leads.List(ctx, ownerID)
	counts.TotalLeads = len(leads)
	for _, lead := range leads {
		if lead.Status == types.LeadStatusOpen {
			counts.OpenLeads++
			counts.OpenPipelineCents += lead.ValueCents
		}
	}

	accounts, _ := s.Accounts.List(ctx, ownerID)
	counts.TotalAccounts = len(accounts)

	tasks, _ := s.Tasks.List(ctx, ownerID)
	for _, task := range tasks {
		if task.Status == types.TaskStatusOpen {
			counts.OpenTasks++
		}
	}
	return counts, nil
}

// Objects is an in-memory object store.
type Objects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewObjects() *Objects {
	return &Objects{objects: make(map[string][]byte)}
}

func (o *Objects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = data
	return nil
}

func (o *Objects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *Objects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(o.objects, key)
	return nil
}

// Keys returns the stored object keys in sorted order.
func (o *Objects) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.objects))
	for key := range o.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Events records published record events.
type Events struct {
	mu     sync.Mutex
	events []types.RecordEvent
}

func (e *Events) Publish(_ context.Context, event types.RecordEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// Types returns the type of every published event, in order.
func (e *Events) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, event := range e.events {
		out[i] = event.Type
	}
	return out
}
