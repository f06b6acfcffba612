package tui

import (
	"fmt"
	"strings"

	"github.com/smmtool/smm/pkg/domain"
)

const (
	noTokenNotice   = "Login failed: no token was received. Try again."
	loopNotice      = "Login stopped: the sign-in kept returning without a token."
	cancelledNotice = "Login cancelled."
)

// loginModel holds the provider picker and the state of the current attempt.
type loginModel struct {
	cursor   int
	starting bool
	url      string
	copied   bool
	openErr  error
	notice   string
}

func (m loginModel) provider() domain.Provider {
	return domain.Platforms[m.cursor].Provider()
}

func (m loginModel) move(delta int) loginModel {
	n := len(domain.Platforms)
	m.cursor = (m.cursor + delta + n) % n
	return m
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(pageTitle("Welcome"))
	b.WriteString(" " + dimStyle.Render("Please connect your social media accounts to get started.") + "\n\n")

	for i, p := range domain.Platforms {
		label := "Connect with " + string(p)
		if i == m.cursor {
			fmt.Fprintf(&b, " %s%s\n", inputPromptStyle.Render("> "), PlatformStyle(p).Render(label))
		} else {
			fmt.Fprintf(&b, "   %s\n", normalStyle.Render(label))
		}
	}

	b.WriteString("\n")
	switch {
	case m.starting:
		b.WriteString(" " + dimStyle.Render("starting sign-in..."))
	case m.notice != "":
		b.WriteString(" " + errorStyle.Render(m.notice))
	}
	return b.String()
}

// awaitingView is shown while the browser sign-in is in progress.
func (m loginModel) awaitingView(spin string) string {
	var b strings.Builder
	b.WriteString(pageTitle("Signing in"))
	fmt.Fprintf(&b, " %s %s\n\n", spin, normalStyle.Render("Waiting for the sign-in to finish in your browser..."))
	if m.url != "" {
		b.WriteString(" " + dimStyle.Render("If the browser did not open, visit:") + "\n")
		b.WriteString(" " + accentStyle.Render(m.url) + "\n")
		if m.copied {
			b.WriteString(" " + metaStyle.Render("(copied to clipboard)") + "\n")
		}
	}
	if m.openErr != nil {
		b.WriteString("\n " + metaStyle.Render("browser: "+m.openErr.Error()) + "\n")
	}
	return b.String()
}
