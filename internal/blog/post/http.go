// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// This file contains the HTTP delivery layer of the post domain: route
// registration, payload decoding, validation and envelope writing.

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/writory/internal/platform/middleware"
	requestutil "github.com/taibuivan/writory/internal/platform/request"
	"github.com/taibuivan/writory/internal/platform/respond"
	"github.com/taibuivan/writory/internal/platform/validate"
	"github.com/taibuivan/writory/pkg/pagination"
)

// # Definitions & Constructors

// urlParamPostID names the post identifier segment in route patterns.
const urlParamPostID = "postID"

// Handler implements blog-post HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with post-specific routes.
//
// # Endpoints
//   - GET    /          : Lists posts, newest first (public).
//   - GET    /{postID}  : Returns a single post (public).
//   - POST   /          : Publishes a new post.
//   - PUT    /{postID}  : Replaces title and content.
//   - PATCH  /{postID}  : Partially updates title and/or content.
//   - DELETE /{postID}  : Removes a post.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{postID}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Put("/{postID}", handler.replace)
		r.Patch("/{postID}", handler.patch)
		r.Delete("/{postID}", handler.delete)
	})

	return router
}

// # Request Payloads

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updatePostRequest uses pointers to distinguish "absent" from "empty".
type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

/*
List returns a paginated feed of posts, newest first.

GET /api/v1/posts?page=1&limit=20

Response:
  - 200: []Post + pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, metadata, err := handler.postService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// An empty page serializes as [] rather than null.
	if posts == nil {
		posts = []*Post{}
	}

	respond.Paginated(writer, posts, metadata)
}

/*
Get returns a single post by ID.

GET /api/v1/posts/{postID}

Response:
  - 200: Post
  - 404: NOT_FOUND: Unknown post ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, urlParamPostID)

	found, err := handler.postService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Create publishes a new post authored by the caller.

POST /api/v1/posts

Description: The author is taken from the verified token claims; any
client-supplied author field is ignored.

Request:
  - Body: createPostRequest (Title, Content)

Response:
  - 201: Post: The persisted entity
  - 400: VALIDATION_ERROR: Missing title or content
  - 401: UNAUTHORIZED: Missing or invalid bearer token
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldContent, input.Content)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.postService.Create(request.Context(), userID, CreateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Replace overwrites both title and content of an existing post.

PUT /api/v1/posts/{postID}

Request:
  - Body: createPostRequest (Title, Content — both required)

Response:
  - 200: Post: The refreshed entity
  - 400: VALIDATION_ERROR: Missing title or content
  - 403: FORBIDDEN: Caller is not the author
  - 404: NOT_FOUND: Unknown post ID
*/
func (handler *Handler) replace(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldContent, input.Content)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.postService.Update(
		request.Context(),
		userID,
		requestutil.ID(request, urlParamPostID),
		UpdateInput{Title: &input.Title, Content: &input.Content},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Patch partially updates title and/or content of an existing post.

PATCH /api/v1/posts/{postID}

Request:
  - Body: updatePostRequest (Title and/or Content; omitted fields keep their value)

Response:
  - 200: Post: The refreshed entity
  - 400: VALIDATION_ERROR: Empty title or oversized title
  - 403: FORBIDDEN: Caller is not the author
  - 404: NOT_FOUND: Unknown post ID
*/
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).
			MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.postService.Update(
		request.Context(),
		userID,
		requestutil.ID(request, urlParamPostID),
		UpdateInput{Title: input.Title, Content: input.Content},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Delete removes an existing post.

DELETE /api/v1/posts/{postID}

Response:
  - 204: No Content: Post removed
  - 403: FORBIDDEN: Caller is not the author
  - 404: NOT_FOUND: Unknown post ID
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.postService.Delete(request.Context(), userID, requestutil.ID(request, urlParamPostID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
