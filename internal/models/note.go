// Package models defines the domain types for Ansuz.
package models

import "time"

// Note is a single user record: free text, a tag list, and timestamps.
// The id is unique among live notes and stable once assigned.
type Note struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collection is the full persisted state: notes in storage order plus the
// pool of freed ids awaiting reuse. No id may appear in both at once.
type Collection struct {
	Notes   []Note   `json:"notes"`
	FreeIDs []uint64 `json:"free_ids"`
}

// NewCollection returns an empty collection with non-nil slices so the
// serialized form is always {"notes":[],"free_ids":[]}.
func NewCollection() *Collection {
	return &Collection{Notes: []Note{}, FreeIDs: []uint64{}}
}
