package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// View is one client's chart: a payload, the forest built from it with its
// current expansion state, and the last viewport the client reported.
//
// Forests are immutable values, so a View returned by the store can be read
// without holding its lock.
type View struct {
	ID        string
	Title     string
	Branch    string
	Payload   *hierarchy.Payload
	Forest    []*org.Node
	Viewport  viewport.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store keeps views in memory. When it is full, the least recently updated
// view is evicted.
type Store struct {
	mu    sync.Mutex
	views map[string]*View
	limit int
	now   func() time.Time
}

// NewStore returns a store holding at most limit views. limit <= 0 means no
// limit.
func NewStore(limit int) *Store {
	return &Store{views: make(map[string]*View), limit: limit, now: time.Now}
}

// Create assigns an id and timestamps to v and stores it.
func (s *Store) Create(ctx context.Context, v View) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = uuid.NewString()
	v.CreatedAt = s.now()
	v.UpdatedAt = v.CreatedAt

	if s.limit > 0 {
		for len(s.views) >= s.limit {
			s.evictOldest(ctx)
		}
	}
	s.views[v.ID] = &v
	observability.View().OnViewCreated(ctx, v.ID, org.Count(v.Forest))
	return v
}

// Get returns a copy of the view.
func (s *Store) Get(id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return View{}, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	return *v, nil
}

// Update applies fn to the stored view under the store lock. If fn returns
// an error the view is left unchanged.
func (s *Store) Update(id string, fn func(v *View) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return View{}, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	next := *v
	if err := fn(&next); err != nil {
		return View{}, err
	}
	next.UpdatedAt = s.now()
	s.views[id] = &next
	return next, nil
}

// Delete removes the view and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return false
	}
	delete(s.views, id)
	observability.View().OnViewDeleted(ctx, id)
	return true
}

// Len returns the number of stored views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Store) evictOldest(ctx context.Context) {
	var oldest *View
	for _, v := range s.views {
		if oldest == nil || v.UpdatedAt.Before(oldest.UpdatedAt) {
			oldest = v
		}
	}
	if oldest == nil {
		return
	}
	delete(s.views, oldest.ID)
	observability.View().OnViewEvicted(ctx, oldest.ID)
}
