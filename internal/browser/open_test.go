package browser

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCommand(t *testing.T) {
	const url = "http://localhost:8081/oauth/meta/login"
	tests := []struct {
		name     string
		goos     string
		override string
		wantProg string
		wantArgs []string
	}{
		{"darwin", "darwin", "", "open", []string{url}},
		{"linux", "linux", "", "xdg-open", []string{url}},
		{"windows", "windows", "", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
		{"override", "linux", "firefox", "firefox", []string{url}},
		{"override with args", "darwin", "chromium --new-window", "chromium", []string{"--new-window", url}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Command(tc.goos, tc.override, url)
			if err != nil {
				t.Fatalf("Command: %v", err)
			}
			if got := filepath.Base(cmd.Args[0]); got != tc.wantProg {
				t.Errorf("program = %q, want %q", got, tc.wantProg)
			}
			if got := cmd.Args[1:]; !reflect.DeepEqual(got, tc.wantArgs) {
				t.Errorf("args = %v, want %v", got, tc.wantArgs)
			}
		})
	}
}

func TestCommandUnsupportedOS(t *testing.T) {
	_, err := Command("plan9", "", "http://example.test")
	if !errors.Is(err, ErrNoBrowser) {
		t.Errorf("expected ErrNoBrowser, got %v", err)
	}
}
