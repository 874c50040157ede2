package models

import "time"

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID lets the ownership guard treat posts and comments alike.
func (p *Post) OwnerID() string { return p.UserID }

// PostWithAggregates is the outward read model: the post, its author's
// display fields and counts computed at query time.
type PostWithAggregates struct {
	Post
	Author
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
}

// PostUpdate is a partial update; nil fields keep their value.
type PostUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

// PostFilter drives paginated listing. An empty AuthorID lists everyone.
type PostFilter struct {
	Limit    int
	Offset   int
	AuthorID string
}
