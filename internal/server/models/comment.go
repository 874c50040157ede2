package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) OwnerID() string { return c.UserID }

type CommentWithAuthor struct {
	Comment
	Author
}

type CommentWithAuthorAndPostTitle struct {
	Comment
	Author
	PostTitle string `json:"post_title"`
}
