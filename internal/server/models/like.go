package models

import "time"

type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type LikeWithUser struct {
	Like
	Author
}

type LikeWithPostTitle struct {
	Like
	Author
	PostTitle string `json:"post_title"`
}

// ToggleResult reports the state after a toggle. Like is set only when
// this call created it.
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Like  *Like `json:"like,omitempty"`
}
