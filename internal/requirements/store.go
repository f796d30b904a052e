package requirements

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type idSet map[string]struct{}

// Store is a thread-safe, indexed, in-memory collection of requirements.
// A single mutex guards every operation for its full duration; correctness
// over read parallelism is the deliberate trade-off. All requirements
// crossing the boundary are cloned in both directions.
type Store struct {
	mu     sync.Mutex
	logger *slog.Logger

	requirements map[string]Requirement
	byCategory   map[string]idSet
	byType       map[Type]idSet
	byPriority   map[Priority]idSet
	bySource     map[string]idSet

	lastUpdated time.Time
}

// FilterOptions narrows the requirement set. Zero-valued fields are
// ignored; supplied fields are intersected.
type FilterOptions struct {
	Category string
	Type     Type
	Priority Priority
	Source   string
}

// Stats summarizes the contents of the store.
type Stats struct {
	Total       int              `json:"total_requirements"`
	ByType      map[Type]int     `json:"by_type"`
	ByPriority  map[Priority]int `json:"by_priority"`
	ByCategory  map[string]int   `json:"by_category"`
	LastUpdated time.Time        `json:"last_updated"`
}

// NewStore creates an empty requirement store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:       logger.With("system", "requirements"),
		requirements: make(map[string]Requirement),
		byCategory:   make(map[string]idSet),
		byType:       make(map[Type]idSet),
		byPriority:   make(map[Priority]idSet),
		bySource:     make(map[string]idSet),
		lastUpdated:  time.Now(),
	}
}

// Add validates and inserts a new requirement. It returns a
// *ValidationError listing every violated rule, or ErrDuplicate when the
// ID is already present.
func (s *Store) Add(r Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(r)
}

func (s *Store) add(r Requirement) error {
	if err := validate(r); err != nil {
		return err
	}
	if _, ok := s.requirements[r.ID]; ok {
		return fmt.Errorf("requirement %q: %w", r.ID, ErrDuplicate)
	}

	s.requirements[r.ID] = r.Clone()
	s.index(r)
	s.lastUpdated = time.Now()

	s.logger.Info("requirement added", "id", r.ID, "category", r.Category)
	return nil
}

// Update validates and replaces an existing requirement, re-indexing it
// under its new category, type, priority, and source values.
func (s *Store) Update(r Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(r)
}

func (s *Store) update(r Requirement) error {
	if err := validate(r); err != nil {
		return err
	}
	old, ok := s.requirements[r.ID]
	if !ok {
		return fmt.Errorf("requirement %q: %w", r.ID, ErrNotFound)
	}

	s.unindex(old)
	s.requirements[r.ID] = r.Clone()
	s.index(r)
	s.lastUpdated = time.Now()

	s.logger.Info("requirement updated", "id", r.ID)
	return nil
}

// AddOrUpdate inserts the requirement or replaces it when the ID exists.
func (s *Store) AddOrUpdate(r Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requirements[r.ID]; ok {
		return s.update(r)
	}
	return s.add(r)
}

// Get returns a copy of the requirement, or ErrNotFound.
func (s *Store) Get(id string) (Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requirements[id]
	if !ok {
		return Requirement{}, fmt.Errorf("requirement %q: %w", id, ErrNotFound)
	}
	return r.Clone(), nil
}

// All returns copies of every stored requirement in no particular order.
func (s *Store) All() []Requirement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all()
}

func (s *Store) all() []Requirement {
	out := make([]Requirement, 0, len(s.requirements))
	for _, r := range s.requirements {
		out = append(out, r.Clone())
	}
	return out
}

// Filter intersects the full ID set with the index bucket of each supplied
// criterion. A criterion whose bucket does not exist narrows nothing, so
// filtering by an unknown key behaves like an absent filter.
func (s *Store) Filter(opts FilterOptions) []Requirement {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(idSet, len(s.requirements))
	for id := range s.requirements {
		ids[id] = struct{}{}
	}

	if opts.Category != "" {
		if bucket, ok := s.byCategory[opts.Category]; ok {
			ids = intersect(ids, bucket)
		}
	}
	if opts.Type != "" {
		if bucket, ok := s.byType[opts.Type]; ok {
			ids = intersect(ids, bucket)
		}
	}
	if opts.Priority != "" {
		if bucket, ok := s.byPriority[opts.Priority]; ok {
			ids = intersect(ids, bucket)
		}
	}
	if opts.Source != "" {
		if bucket, ok := s.bySource[opts.Source]; ok {
			ids = intersect(ids, bucket)
		}
	}

	out := make([]Requirement, 0, len(ids))
	for id := range ids {
		out = append(out, s.requirements[id].Clone())
	}
	return out
}

// Delete removes the requirement from the primary map and every index.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requirements[id]
	if !ok {
		return fmt.Errorf("requirement %q: %w", id, ErrNotFound)
	}

	s.unindex(r)
	delete(s.requirements, id)
	s.lastUpdated = time.Now()

	s.logger.Info("requirement deleted", "id", id)
	return nil
}

// Clear removes every requirement and resets all indexes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.logger.Info("store cleared")
}

func (s *Store) clear() {
	s.requirements = make(map[string]Requirement)
	s.byCategory = make(map[string]idSet)
	s.byType = make(map[Type]idSet)
	s.byPriority = make(map[Priority]idSet)
	s.bySource = make(map[string]idSet)
	s.lastUpdated = time.Now()
}

// Len returns the number of stored requirements.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requirements)
}

// Stats reports counts by type, priority, and category.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Total:       len(s.requirements),
		ByType:      make(map[Type]int, len(s.byType)),
		ByPriority:  make(map[Priority]int, len(s.byPriority)),
		ByCategory:  make(map[string]int, len(s.byCategory)),
		LastUpdated: s.lastUpdated,
	}
	for t, ids := range s.byType {
		st.ByType[t] = len(ids)
	}
	for p, ids := range s.byPriority {
		st.ByPriority[p] = len(ids)
	}
	for c, ids := range s.byCategory {
		st.ByCategory[c] = len(ids)
	}
	return st
}

func (s *Store) index(r Requirement) {
	addTo(s.byCategory, r.Category, r.ID)
	addTo(s.byType, r.Type, r.ID)
	addTo(s.byPriority, r.Priority, r.ID)
	addTo(s.bySource, r.Source.DocumentSection, r.ID)
}

func (s *Store) unindex(r Requirement) {
	removeFrom(s.byCategory, r.Category, r.ID)
	removeFrom(s.byType, r.Type, r.ID)
	removeFrom(s.byPriority, r.Priority, r.ID)
	removeFrom(s.bySource, r.Source.DocumentSection, r.ID)
}

func addTo[K comparable](index map[K]idSet, key K, id string) {
	bucket, ok := index[key]
	if !ok {
		bucket = make(idSet)
		index[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeFrom[K comparable](index map[K]idSet, key K, id string) {
	if bucket, ok := index[key]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(index, key)
		}
	}
}

func intersect(a, b idSet) idSet {
	out := make(idSet)
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
