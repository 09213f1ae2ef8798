// Package noteservice implements the note store operations: add, remove,
// edit, tag, list, and search over a persistence provider. Every operation
// is one load-mutate-save cycle; nothing is cached between calls.
package noteservice

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

// SortMethod selects the ordering used by List and Search.
type SortMethod int

const (
	SortByID SortMethod = iota
	SortByDate
	SortByUpdate
	SortByContent
)

// ParseSortMethod maps a CLI sort value to a SortMethod. An empty value
// defaults to id order.
func ParseSortMethod(s string) (SortMethod, error) {
	switch strings.ToLower(s) {
	case "", "id":
		return SortByID, nil
	case "date":
		return SortByDate, nil
	case "update":
		return SortByUpdate, nil
	case "content":
		return SortByContent, nil
	}
	return 0, fmt.Errorf("noteservice: unknown sort method %q (want id, date, update, or content)", s)
}

// Service coordinates note operations over a store provider.
type Service struct {
	store store.Provider
	now   func() time.Time
}

// NewService creates a new note service.
func NewService(p store.Provider) *Service {
	return &Service{store: p, now: time.Now}
}

// Add creates a note with a freshly allocated id and persists it.
// Input tags are stored verbatim.
func (s *Service) Add(content string, tags []string) (models.Note, error) {
	col, err := s.store.Load()
	if err != nil {
		return models.Note{}, err
	}
	now := s.now().UTC()
	note := models.Note{
		ID:        nextID(col),
		Content:   content,
		Tags:      append([]string{}, tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	col.Notes = append(col.Notes, note)
	if err := s.store.Save(col); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// nextID pops the first recorded free id when one exists (FIFO reuse).
// Otherwise it scans for the maximum live id; trusting the last stored
// note instead would hand out duplicates once storage order is disturbed.
func nextID(col *models.Collection) uint64 {
	if len(col.FreeIDs) > 0 {
		id := col.FreeIDs[0]
		col.FreeIDs = slices.Delete(col.FreeIDs, 0, 1)
		return id
	}
	var maxID uint64
	for _, n := range col.Notes {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	return maxID + 1
}

// Remove deletes the note with the given id and records the id for reuse.
// Returns apperr.ErrNotFound when no note has the id.
func (s *Service) Remove(id uint64) error {
	col, err := s.store.Load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(col.Notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return fmt.Errorf("remove note %d: %w", id, apperr.ErrNotFound)
	}
	col.Notes = slices.Delete(col.Notes, i, i+1)
	col.FreeIDs = append(col.FreeIDs, id)
	return s.store.Save(col)
}

// Edit replaces the content of the note with the given id and bumps its
// updated_at timestamp.
func (s *Service) Edit(id uint64, content string) (models.Note, error) {
	col, err := s.store.Load()
	if err != nil {
		return models.Note{}, err
	}
	i := slices.IndexFunc(col.Notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return models.Note{}, fmt.Errorf("edit note %d: %w", id, apperr.ErrNotFound)
	}
	col.Notes[i].Content = content
	col.Notes[i].UpdatedAt = s.now().UTC()
	if err := s.store.Save(col); err != nil {
		return models.Note{}, err
	}
	return col.Notes[i], nil
}

// AddTag appends each tag not already present on the note, preserving
// first-seen order. Duplicates within the input and against existing tags
// are both suppressed.
func (s *Service) AddTag(id uint64, tags []string) (models.Note, error) {
	col, err := s.store.Load()
	if err != nil {
		return models.Note{}, err
	}
	i := slices.IndexFunc(col.Notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return models.Note{}, fmt.Errorf("tag note %d: %w", id, apperr.ErrNotFound)
	}
	for _, tag := range tags {
		if !slices.Contains(col.Notes[i].Tags, tag) {
			col.Notes[i].Tags = append(col.Notes[i].Tags, tag)
		}
	}
	if err := s.store.Save(col); err != nil {
		return models.Note{}, err
	}
	return col.Notes[i], nil
}

// List returns all notes ordered by the given sort method.
func (s *Service) List(method SortMethod) ([]models.Note, error) {
	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	sortNotes(col.Notes, method)
	return col.Notes, nil
}

// Search returns the notes whose content contains the keyword
// (case-insensitive substring match), ordered by the given sort method.
func (s *Service) Search(keyword string, method SortMethod) ([]models.Note, error) {
	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(keyword)
	results := []models.Note{}
	for _, n := range col.Notes {
		if strings.Contains(strings.ToLower(n.Content), needle) {
			results = append(results, n)
		}
	}
	sortNotes(results, method)
	return results, nil
}

// sortNotes orders notes in place. The sort is stable: equal keys keep
// their relative storage order.
func sortNotes(notes []models.Note, method SortMethod) {
	switch method {
	case SortByID:
		slices.SortStableFunc(notes, func(a, b models.Note) int { return cmp.Compare(a.ID, b.ID) })
	case SortByDate:
		slices.SortStableFunc(notes, func(a, b models.Note) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case SortByUpdate:
		slices.SortStableFunc(notes, func(a, b models.Note) int { return a.UpdatedAt.Compare(b.UpdatedAt) })
	case SortByContent:
		slices.SortStableFunc(notes, func(a, b models.Note) int { return strings.Compare(a.Content, b.Content) })
	}
}
