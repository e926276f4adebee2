// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/writory/internal/platform/database/schema"
	"github.com/taibuivan/writory/internal/platform/dberr"
	"github.com/taibuivan/writory/pkg/pagination"
)

// # Postgres Implementation

// PostgresRepository is the pgx-backed implementation of [Repository].
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a post repository on top of the shared pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the shared projection of every read query: all post columns
// plus the author's username resolved by a join.
func selectColumns() string {
	return fmt.Sprintf(
		"p.%s, p.%s, p.%s, p.%s, p.%s, a.%s, p.%s, p.%s",
		schema.BlogPost.ID,
		schema.BlogPost.Slug,
		schema.BlogPost.Title,
		schema.BlogPost.Content,
		schema.BlogPost.AuthorID,
		schema.UserAccount.Username,
		schema.BlogPost.CreatedAt,
		schema.BlogPost.UpdatedAt,
	)
}

// List returns a page of posts ordered newest-first, plus the total count.
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*Post, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		ORDER BY p.%s DESC
		LIMIT $1 OFFSET $2`,
		selectColumns(),
		schema.BlogPost.Table,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.BlogPost.AuthorID,
		schema.BlogPost.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "post_list")
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var item Post
		err := rows.Scan(
			&item.ID,
			&item.Slug,
			&item.Title,
			&item.Content,
			&item.AuthorID,
			&item.AuthorName,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "post_list_scan")
		}
		posts = append(posts, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "post_list_rows")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.BlogPost.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "post_count")
	}

	return posts, total, nil
}

// FindByID returns the post with the given ID, author name resolved.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		WHERE p.%s = $1`,
		selectColumns(),
		schema.BlogPost.Table,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.BlogPost.AuthorID,
		schema.BlogPost.ID,
	)

	var item Post
	err := repository.pool.QueryRow(context, query, id).Scan(
		&item.ID,
		&item.Slug,
		&item.Title,
		&item.Content,
		&item.AuthorID,
		&item.AuthorName,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "post_find")
	}

	return &item, nil
}

// Create persists a brand-new post and loads its server-side timestamps.
//
// The RETURNING clause also resolves the author's username, so the entity is
// response-ready without a second round trip.
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s,
			(SELECT a.%s FROM %s a WHERE a.%s = %s)`,
		schema.BlogPost.Table,
		schema.BlogPost.ID,
		schema.BlogPost.Slug,
		schema.BlogPost.Title,
		schema.BlogPost.Content,
		schema.BlogPost.AuthorID,
		schema.BlogPost.CreatedAt,
		schema.BlogPost.UpdatedAt,
		schema.UserAccount.Username,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.BlogPost.AuthorID,
	)

	err := repository.pool.QueryRow(context, query,
		post.ID,
		post.Slug,
		post.Title,
		post.Content,
		post.AuthorID,
	).Scan(&post.CreatedAt, &post.UpdatedAt, &post.AuthorName)

	if err != nil {
		return dberr.Wrap(err, "post_create")
	}

	return nil
}

// Update persists changed title, slug and content. CreatedAt never moves;
// UpdatedAt is refreshed by the database and scanned back into the entity.
func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
		RETURNING %s`,
		schema.BlogPost.Table,
		schema.BlogPost.Slug,
		schema.BlogPost.Title,
		schema.BlogPost.Content,
		schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID,
		schema.BlogPost.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		post.Slug,
		post.Title,
		post.Content,
		post.ID,
	).Scan(&post.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "post_update")
	}

	return nil
}

// Delete permanently removes the post with the given ID.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.BlogPost.Table,
		schema.BlogPost.ID,
	)

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "post_delete")
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
