package domain

import (
	"errors"
	"strings"
	"time"
)

// Post status values reported by the post service.
const (
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
	PostStatusDraft     = "draft"
)

// Post is a scheduled post.
type Post struct {
	ID          string     `json:"id"`
	Platform    Platform   `json:"platform"`
	Content     string     `json:"content"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Status      string     `json:"status,omitempty"`
	MediaURL    string     `json:"mediaUrl,omitempty"`
	PostedAt    *time.Time `json:"postedAt,omitempty"`
}

// Validation errors for CreatePostRequest.
var (
	ErrPlatformRequired = errors.New("platform is required")
	ErrUnknownPlatform  = errors.New("unknown platform")
	ErrContentRequired  = errors.New("content is required")
	ErrScheduleRequired = errors.New("schedule time is required")
)

// CreatePostRequest is the payload for scheduling a new post.
type CreatePostRequest struct {
	Platform    Platform  `json:"platform"`
	Content     string    `json:"content"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// NewCreatePostRequest builds a request with the schedule normalised to UTC.
func NewCreatePostRequest(platform Platform, content string, scheduledAt time.Time) CreatePostRequest {
	return CreatePostRequest{
		Platform:    platform,
		Content:     content,
		ScheduledAt: scheduledAt.UTC(),
	}
}

// Validate checks that the request can be submitted.
func (r CreatePostRequest) Validate() error {
	switch {
	case r.Platform == "":
		return ErrPlatformRequired
	case !ValidPlatform(r.Platform):
		return ErrUnknownPlatform
	case strings.TrimSpace(r.Content) == "":
		return ErrContentRequired
	case r.ScheduledAt.IsZero():
		return ErrScheduleRequired
	}
	return nil
}
