package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCreatePostRequestValidate(t *testing.T) {
	when := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  CreatePostRequest
		want error
	}{
		{"valid", CreatePostRequest{Platform: PlatformTikTok, Content: "Hello", ScheduledAt: when}, nil},
		{"missing platform", CreatePostRequest{Content: "Hello", ScheduledAt: when}, ErrPlatformRequired},
		{"unknown platform", CreatePostRequest{Platform: "MySpace", Content: "Hello", ScheduledAt: when}, ErrUnknownPlatform},
		{"blank content", CreatePostRequest{Platform: PlatformMeta, Content: "   ", ScheduledAt: when}, ErrContentRequired},
		{"missing schedule", CreatePostRequest{Platform: PlatformMeta, Content: "Hello"}, ErrScheduleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); !errors.Is(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewCreatePostRequestEncodesUTCInstant(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2030, 6, 1, 12, 30, 0, 0, loc)
	req := NewCreatePostRequest(PlatformTikTok, "Hello", local)

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"scheduledAt":"2030-06-01T10:30:00Z"`) {
		t.Errorf("body = %s, want scheduledAt as UTC instant", got)
	}
	if !strings.Contains(got, `"platform":"TikTok"`) {
		t.Errorf("body = %s, want platform TikTok", got)
	}
}
