package feed

import (
	"errors"
	"strings"
	"time"
)

const (
	maxPostLength    = 2000
	maxCommentLength = 500
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotAuthor       = errors.New("only the author can delete the post")
	ErrInvalidReaction = errors.New("invalid reaction")
	ErrEmptyContent    = errors.New("content is empty")
	ErrContentTooLong  = errors.New("content too long")
)

type Reaction string

const (
	ReactionNone   Reaction = ""
	ReactionLike   Reaction = "like"
	ReactionFire   Reaction = "fire"
	ReactionStrong Reaction = "strong"
	ReactionClap   Reaction = "clap"
)

func (r Reaction) Valid() bool {
	switch r {
	case ReactionNone, ReactionLike, ReactionFire, ReactionStrong, ReactionClap:
		return true
	}
	return false
}

type Post struct {
	ID            int              `json:"id"`
	UserID        int              `json:"userId"`
	AuthorName    string           `json:"authorName"`
	Content       string           `json:"content"`
	MealID        *int             `json:"mealId,omitempty"`
	Reactions     map[Reaction]int `json:"reactions"`
	MyReaction    Reaction         `json:"myReaction,omitempty"`
	CommentsCount int              `json:"commentsCount"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"postId"`
	UserID     int       `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// validateContent trims the text and checks it against maxLen runes.
func validateContent(content string, maxLen int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if len([]rune(content)) > maxLen {
		return "", ErrContentTooLong
	}
	return content, nil
}
