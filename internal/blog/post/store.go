// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/writory/pkg/pagination"
)

// # Post Data Access

// Repository defines the data access contract for blog posts.
type Repository interface {

	/*
		List returns a page of posts ordered newest-first, plus the total count.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Post: Hydrated entities with author names resolved
		  - int: Total number of posts (for pagination metadata)
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*Post, int, error)

	/*
		FindByID returns the post with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Post: Hydrated entity with author name resolved
		  - error: Not-found or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Post, error)

	/*
		Create persists a brand-new post.

		Parameters:
		  - context: context.Context
		  - post: *Post (CreatedAt/UpdatedAt are populated on return)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, post *Post) error

	/*
		Update persists changed title, slug and content of an existing post.

		Parameters:
		  - context: context.Context
		  - post: *Post (UpdatedAt is refreshed on return)

		Returns:
		  - error: Not-found or persistence failures
	*/
	Update(context context.Context, post *Post) error

	/*
		Delete permanently removes the post with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Not-found or persistence failures
	*/
	Delete(context context.Context, id string) error
}
