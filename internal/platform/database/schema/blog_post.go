// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table     string
	ID        string
	Slug      string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:     "blog.post",
	ID:        "id",
	Slug:      "slug",
	Title:     "title",
	Content:   "content",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t BlogPostTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Content, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
