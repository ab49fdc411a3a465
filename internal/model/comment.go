package model

import "time"

// Comment belongs to exactly one article and one author.
type Comment struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	ArticleID      string    `json:"article_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CommentPatch carries the fields of a partial update.
type CommentPatch struct {
	Text *string
}
