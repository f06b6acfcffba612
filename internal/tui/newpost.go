package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smmtool/smm/internal/orchestrator"
	"github.com/smmtool/smm/pkg/client"
	"github.com/smmtool/smm/pkg/domain"
)

type postField int

const (
	fieldPlatform postField = iota
	fieldContent
	fieldSchedule
	numPostFields
)

// postCreatedMsg carries the result of a CreatePost submission.
type postCreatedMsg struct {
	post *domain.Post
	err  error
}

type newPostModel struct {
	fetcher    orchestrator.Fetcher
	loc        *time.Location
	platforms  []domain.Platform
	platform   int
	content    textarea.Model
	schedule   textinput.Model
	focus      postField
	submitting bool
	statusMsg  string
	failed     bool
}

func newNewPostModel(f orchestrator.Fetcher, loc *time.Location) newPostModel {
	if loc == nil {
		loc = time.Local
	}
	ta := textarea.New()
	ta.Placeholder = "What would you like to post?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(72)
	ta.SetHeight(6)

	ti := textinput.New()
	ti.Placeholder = scheduleLayout
	ti.Prompt = ""
	ti.CharLimit = len(scheduleLayout)

	return newPostModel{
		fetcher:  f,
		loc:      loc,
		platform: -1,
		content:  ta,
		schedule: ti,
	}
}

// setAccounts offers the platforms of the connected accounts, selecting the
// first one unless a still-available platform is already chosen.
func (m newPostModel) setAccounts(accounts []domain.Account) newPostModel {
	current := m.selected()
	m.platforms = domain.AccountPlatforms(accounts)
	m.platform = -1
	for i, p := range m.platforms {
		if p == current {
			m.platform = i
		}
	}
	if m.platform < 0 && len(m.platforms) > 0 {
		m.platform = 0
	}
	return m
}

func (m newPostModel) selected() domain.Platform {
	if m.platform < 0 || m.platform >= len(m.platforms) {
		return ""
	}
	return m.platforms[m.platform]
}

func (m newPostModel) focusField(f postField) (newPostModel, tea.Cmd) {
	m.focus = f
	m.content.Blur()
	m.schedule.Blur()
	switch f {
	case fieldContent:
		return m, m.content.Focus()
	case fieldSchedule:
		return m, m.schedule.Focus()
	}
	return m, nil
}

func (m newPostModel) Update(msg tea.Msg) (newPostModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.failed = true
			m.statusMsg = "failed to schedule post: " + client.Describe(msg.err)
			return m, nil
		}
		m.failed = false
		m.statusMsg = "post scheduled successfully"
		m.content.Reset()
		m.schedule.Reset()
		return m.focusField(fieldPlatform)

	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w > 100 {
			w = 100
		}
		if w > 20 {
			m.content.SetWidth(w)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m newPostModel) updateKeys(msg tea.KeyMsg) (newPostModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab":
		return m.focusField((m.focus + 1) % numPostFields)
	case "shift+tab":
		return m.focusField((m.focus - 1 + numPostFields) % numPostFields)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldPlatform:
		if n := len(m.platforms); n > 0 {
			switch msg.String() {
			case "left", "h":
				m.platform = (m.platform - 1 + n) % n
			case "right", "l":
				m.platform = (m.platform + 1) % n
			case "enter", "down":
				return m.focusField(fieldContent)
			}
		}
	case fieldContent:
		m.content, cmd = m.content.Update(msg)
	case fieldSchedule:
		if msg.String() == "enter" {
			return m.submit()
		}
		m.schedule, cmd = m.schedule.Update(msg)
	}
	return m, cmd
}

// request validates the form and builds the create request.
func (m newPostModel) request() (domain.CreatePostRequest, error) {
	raw := strings.TrimSpace(m.schedule.Value())
	var at time.Time
	if raw != "" {
		t, err := time.ParseInLocation(scheduleLayout, raw, m.loc)
		if err != nil {
			return domain.CreatePostRequest{}, fmt.Errorf("schedule time must look like %s", scheduleLayout)
		}
		at = t
	}
	req := domain.NewCreatePostRequest(m.selected(), strings.TrimSpace(m.content.Value()), at)
	if err := req.Validate(); err != nil {
		return domain.CreatePostRequest{}, err
	}
	return req, nil
}

func (m newPostModel) submit() (newPostModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	req, err := m.request()
	if err != nil {
		m.failed = true
		m.statusMsg = err.Error()
		return m, nil
	}

	m.submitting = true
	m.failed = false
	m.statusMsg = ""
	f := m.fetcher
	return m, func() tea.Msg {
		post, err := f.CreatePost(context.Background(), req)
		return postCreatedMsg{post: post, err: err}
	}
}

func (m newPostModel) View() string {
	var b strings.Builder
	b.WriteString(pageTitle("Create New Post"))

	label := func(f postField, name string) string {
		if f == m.focus {
			return inputPromptStyle.Render("> ") + selectedStyle.Render(name)
		}
		return "  " + metaStyle.Render(name)
	}

	platform := dimStyle.Render("connect an account to pick a platform")
	if p := m.selected(); p != "" {
		platform = PlatformBadge(p)
		if len(m.platforms) > 1 {
			platform = dimStyle.Render("← ") + platform + dimStyle.Render(" →")
		}
	}
	fmt.Fprintf(&b, " %s: %s\n\n", label(fieldPlatform, "platform"), platform)

	fmt.Fprintf(&b, " %s\n", label(fieldContent, "content"))
	b.WriteString(indent(m.content.View(), "   ") + "\n\n")

	fmt.Fprintf(&b, " %s: %s %s\n\n", label(fieldSchedule, "schedule"), m.schedule.View(), metaStyle.Render("(local time)"))

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("scheduling..."))
	case m.statusMsg != "":
		b.WriteString(" " + statusText(m.statusMsg, m.failed))
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
