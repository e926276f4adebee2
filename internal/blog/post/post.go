// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the blog content domain.

It defines the Post entity and the business rules of the publishing surface:
authorship attribution, ownership-gated mutation, and newest-first listing.

# Architecture

The package follows the standard domain layout:

  - post.go           : Entities and field identifiers.
  - policy.go         : Ownership rules for mutations.
  - store.go          : Data access contracts.
  - store_postgres.go : pgx-backed repository.
  - service.go        : Use cases on top of the repository.
  - http.go           : JSON transport layer.
*/
package post

import "time"

// # Domain Entities

// Post represents a single published article.
//
// AuthorName is a read-side projection resolved by a join against the account
// table; it is never written through this entity.
type Post struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// # Field Identifiers

// Field names for validation and JSON mapping in the blog domain.
const (
	FieldTitle   = "title"
	FieldContent = "content"
)

// # Content Constraints

const (
	// MaxTitleLength mirrors the column limit of the title field.
	MaxTitleLength = 200
)
