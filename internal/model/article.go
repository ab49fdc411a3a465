package model

import "time"

// Article is a blog post owned by its author.
//
// AuthorUsername is not a column of the articles table; repositories fill it by
// joining users so responses can show who wrote the article.
type Article struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CategoryID     *string   `json:"category_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ArticlePatch carries the fields of a partial update. Nil pointers are left
// untouched. CategoryID is tri-state: see OptionalID.
type ArticlePatch struct {
	Title      *string
	Content    *string
	CategoryID OptionalID
}
