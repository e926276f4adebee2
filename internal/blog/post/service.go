// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/writory/internal/platform/apperr"
	"github.com/taibuivan/writory/pkg/pagination"
	"github.com/taibuivan/writory/pkg/slug"
	"github.com/taibuivan/writory/pkg/uuidv7"
)

// Service implements blog content use cases.
type Service struct {
	postRepository Repository
}

// NewService constructs a new post [Service] with its repository dependency.
func NewService(postRepo Repository) *Service {
	return &Service{postRepository: postRepo}
}

// # Read Side

/*
List returns a page of posts ordered newest-first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Post: Page of posts
  - pagination.Meta: Metadata for the response envelope
  - err: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Post, pagination.Meta, error) {
	posts, total, err := service.postRepository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get returns a single post by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Post: Hydrated entity
  - err: NotFound or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*Post, error) {
	return service.postRepository.FindByID(context, id)
}

// # Write Side

// CreateInput holds the author-supplied fields for a new post.
type CreateInput struct {
	Title   string
	Content string
}

/*
Create publishes a new post on behalf of authorID.

Description: The author is always the authenticated caller. Any author value
supplied by the client is ignored; attribution is not client-controlled.

Parameters:
  - context: context.Context
  - authorID: string (from verified access-token claims)
  - input: CreateInput

Returns:
  - *Post: The persisted entity with server-populated fields
  - err: Storage failures
*/
func (service *Service) Create(context context.Context, authorID string, input CreateInput) (*Post, error) {
	newPost := &Post{
		ID:       uuidv7.New(),
		Slug:     slug.From(input.Title),
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: authorID,
	}

	if err := service.postRepository.Create(context, newPost); err != nil {
		return nil, err
	}

	return newPost, nil
}

// UpdateInput holds the partial update fields for an existing post.
//
// Nil pointers mean "leave unchanged", mirroring a PATCH semantics. The PUT
// handler fills both pointers, so the same path serves both verbs.
type UpdateInput struct {
	Title   *string
	Content *string
}

/*
Update modifies an existing post after an ownership check.

Description: Only the author may edit. A changed title regenerates the slug so
the URL stays in sync with the headline. Concurrent edits follow last-writer-wins;
there is no version fencing on this content type.

Parameters:
  - context: context.Context
  - userID: string (from verified access-token claims)
  - id: string
  - input: UpdateInput

Returns:
  - *Post: The refreshed entity
  - err: NotFound, Forbidden or storage failures
*/
func (service *Service) Update(context context.Context, userID, id string, input UpdateInput) (*Post, error) {
	existing, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !Allowed(userID, existing, ActionEdit) {
		return nil, apperr.Forbidden("You are not the author of this post")
	}

	if input.Title != nil {
		existing.Title = *input.Title
		existing.Slug = slug.From(*input.Title)
	}
	if input.Content != nil {
		existing.Content = *input.Content
	}

	if err := service.postRepository.Update(context, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

/*
Delete permanently removes a post after an ownership check.

Parameters:
  - context: context.Context
  - userID: string (from verified access-token claims)
  - id: string

Returns:
  - err: NotFound, Forbidden or storage failures
*/
func (service *Service) Delete(context context.Context, userID, id string) error {
	existing, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return err
	}

	if !Allowed(userID, existing, ActionDelete) {
		return apperr.Forbidden("You are not the author of this post")
	}

	return service.postRepository.Delete(context, id)
}
