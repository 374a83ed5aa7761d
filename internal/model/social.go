package model

import "time"

// Comment is a remark left by a user on a snippet.
// Author mirrors the commenter's username, like Snippet.Author.
type Comment struct {
	ID        string    `json:"id"`
	SnippetID string    `json:"snippetId"`
	UserID    string    `json:"userId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment carries the caller-supplied fields for creating a comment.
type NewComment struct {
	SnippetID string
	UserID    string
	Text      string
}

// Like is an edge between a user and a snippet they liked.
// At most one exists per (UserID, SnippetID).
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SnippetID string    `json:"snippetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is an edge from FollowerID to FollowingID.
// At most one exists per (FollowerID, FollowingID).
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowView is a follow edge joined with the user on the other side.
type FollowView struct {
	Follow
	User PublicUser `json:"user"`
}

// LikedSnippet is a like edge joined with the snippet it points at.
type LikedSnippet struct {
	Like
	Snippet Snippet `json:"snippet"`
}

// Profile bundles the derived figures shown on a user's page.
type Profile struct {
	User           PublicUser `json:"user"`
	FollowerCount  int        `json:"followerCount"`
	FollowingCount int        `json:"followingCount"`
	SnippetCount   int        `json:"snippetCount"`
	TotalLikes     int        `json:"totalLikes"`
	Verified       bool       `json:"verified"`
}
