package model

import "time"

// Snippet represents a shared piece of code.
//
// Author is a snapshot of the author's username taken at creation and kept
// in sync on rename. Likes and Comments are counts derived from the like and
// comment collections every time a snippet is read; the stored values are
// informational only.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	AuthorID    string    `json:"authorId"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
}

// NewSnippet carries the caller-supplied fields for creating a snippet.
type NewSnippet struct {
	Title       string
	Language    string
	Code        string
	Description string
	Private     bool
	AuthorID    string
}

// SnippetPatch is a partial update. Nil fields are left untouched.
// Ownership and counters are not patchable.
type SnippetPatch struct {
	Title       *string
	Language    *string
	Code        *string
	Description *string
	Private     *bool
}

// Apply merges the non-nil fields of p into s.
func (p SnippetPatch) Apply(s *Snippet) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Code != nil {
		s.Code = *p.Code
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Private != nil {
		s.Private = *p.Private
	}
}

// VisibleTo reports whether viewerID may see the snippet. Private snippets
// are visible only to their author; an empty viewerID is an anonymous viewer.
func (s Snippet) VisibleTo(viewerID string) bool {
	return !s.Private || (viewerID != "" && s.AuthorID == viewerID)
}
