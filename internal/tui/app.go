package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/smmtool/smm/internal/browser"
	"github.com/smmtool/smm/internal/callback"
	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/internal/nav"
	"github.com/smmtool/smm/internal/orchestrator"
	"github.com/smmtool/smm/pkg/client"
	"github.com/smmtool/smm/pkg/domain"
)

// Listener receives the browser redirect that completes a login.
type Listener interface {
	Start() error
	Mount()
	Unmount()
	Wait(ctx context.Context) (callback.Outcome, error)
}

// Options wires the App to its collaborators.
type Options struct {
	Session  client.Credentials
	Fetcher  orchestrator.Fetcher
	Callback Listener
	LoginURL func(domain.Provider) string
	OpenURL  func(url string) error
	Logger   *logrus.Logger
	Location *time.Location
}

// loginStartedMsg reports that the callback listener is ready and the
// browser was pointed at the login URL.
type loginStartedMsg struct {
	attempt int
	url     string
	copied  bool
	openErr error
	err     error
}

// callbackMsg carries the outcome of the callback for one login attempt.
type callbackMsg struct {
	attempt int
	outcome callback.Outcome
	err     error
}

// App is the root Bubbletea model.
type App struct {
	session    client.Credentials
	listener   Listener
	loginURL   func(domain.Provider) string
	openURL    func(string) error
	log        *logrus.Entry
	machine    nav.Machine
	orch       *orchestrator.Orchestrator
	login      loginModel
	newPost    newPostModel
	spinner    spinner.Model
	attempt    int
	waitCancel context.CancelFunc
	statusMsg  string
	failed     bool
	width      int
	height     int
	now        func() time.Time
}

// NewApp creates a new TUI application.
func NewApp(opts Options) App {
	if opts.OpenURL == nil {
		opts.OpenURL = browser.Open
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return App{
		session:  opts.Session,
		listener: opts.Callback,
		loginURL: opts.LoginURL,
		openURL:  opts.OpenURL,
		log:      logging.Component(opts.Logger, "tui"),
		machine:  nav.NewMachine(nav.RootPath),
		orch:     orchestrator.New(opts.Fetcher, opts.Logger),
		newPost:  newNewPostModel(opts.Fetcher, opts.Location),
		spinner:  sp,
		now:      time.Now,
	}
}

func (a App) Init() tea.Cmd {
	return a.enter()
}

func (a App) credential() (string, bool) {
	if a.session == nil {
		return "", false
	}
	return a.session.Get()
}

func (a App) effective() nav.Effective {
	_, ok := a.credential()
	return a.machine.Effective(ok)
}

// enter starts the orchestration step for the current effective page.
func (a App) enter() tea.Cmd {
	cred, ok := a.credential()
	eff := a.machine.Effective(ok)
	if eff.State != nav.StatePage {
		return a.orch.Enter(eff.Page, "")
	}
	return a.orch.Enter(eff.Page, cred)
}

// Update applies msg and then re-enters the orchestration step, so the
// fetched data follows the effective page and the credential no matter which
// message changed them. Entering an unchanged step issues nothing.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	next := model.(App)
	return next, tea.Batch(cmd, next.enter())
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + tabs(1) + gap(1) + status(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.newPost, _ = a.newPost.Update(bodyMsg)
		return a, nil

	case orchestrator.FetchedMsg:
		if a.orch.Apply(msg) && msg.Slot == orchestrator.SlotAccounts && msg.Err == nil {
			a.newPost = a.newPost.setAccounts(msg.Accounts)
		}
		return a, nil

	case loginStartedMsg:
		return a.loginStarted(msg)

	case callbackMsg:
		return a.callbackDone(msg)

	case postCreatedMsg:
		a.newPost, _ = a.newPost.Update(msg)
		if msg.err != nil {
			a.log.WithError(msg.err).Warn("create post failed")
			return a, nil
		}
		a.log.Info("post scheduled")
		a.statusMsg = "post scheduled successfully"
		a.failed = false
		a.machine.PostCreated()
		return a, nil

	case spinner.TickMsg:
		if a.effective().State != nav.StateAwaitingCallback {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.stopWaiting()
		return a, tea.Quit
	}

	eff := a.effective()
	switch eff.State {
	case nav.StateUnauthenticated:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "j", "down":
			a.login = a.login.move(1)
		case "k", "up":
			a.login = a.login.move(-1)
		case "enter":
			if !a.login.starting {
				return a.startLogin(a.login.provider())
			}
		}
		return a, nil

	case nav.StateAwaitingCallback:
		switch msg.String() {
		case "q":
			a.stopWaiting()
			return a, tea.Quit
		case "esc":
			return a.abandonLogin()
		}
		return a, nil

	case nav.StatePage:
		if eff.Page == nav.NewPost {
			if msg.String() == "esc" {
				return a.selectPage(nav.Dashboard)
			}
			var cmd tea.Cmd
			a.newPost, cmd = a.newPost.Update(msg)
			return a, cmd
		}
		switch key := msg.String(); key {
		case "q":
			return a, tea.Quit
		case "n":
			return a.selectPage(nav.NewPost)
		case "r":
			a.orch.Reset()
			return a, nil
		case "1", "2", "3", "4", "5":
			return a.selectPage(nav.Pages[key[0]-'1'])
		}
	}
	return a, nil
}

func (a App) selectPage(p nav.Page) (tea.Model, tea.Cmd) {
	if a.machine.Selected() != p {
		a.statusMsg = ""
		a.failed = false
		if p == nav.NewPost {
			a.newPost.statusMsg, a.newPost.failed = "", false
		}
	}
	a.machine.Select(p)
	return a, nil
}

func (a App) startLogin(p domain.Provider) (tea.Model, tea.Cmd) {
	a.attempt++
	attempt := a.attempt
	a.login.starting = true
	a.login.notice = ""

	l, open := a.listener, a.openURL
	url := a.loginURL(p)
	a.log.WithFields(logrus.Fields{"provider": p, "attempt": attempt}).Info("starting login")
	return a, func() tea.Msg {
		if err := l.Start(); err != nil {
			return loginStartedMsg{attempt: attempt, err: err}
		}
		l.Mount()
		msg := loginStartedMsg{attempt: attempt, url: url}
		if err := open(url); err != nil {
			msg.openErr = err
			msg.copied = clipboard.WriteAll(url) == nil
		}
		return msg
	}
}

func (a App) loginStarted(msg loginStartedMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != a.attempt {
		return a, nil
	}
	a.login.starting = false
	if msg.err != nil {
		a.log.WithError(msg.err).Error("callback listener failed to start")
		a.login.notice = "Could not start sign-in: " + msg.err.Error()
		return a, nil
	}

	a.login.url = msg.url
	a.login.copied = msg.copied
	a.login.openErr = msg.openErr
	a.machine.Navigate(nav.CallbackPath)

	ctx, cancel := context.WithCancel(context.Background())
	a.waitCancel = cancel
	l, attempt := a.listener, msg.attempt
	wait := func() tea.Msg {
		o, err := l.Wait(ctx)
		return callbackMsg{attempt: attempt, outcome: o, err: err}
	}
	return a, tea.Batch(wait, a.spinner.Tick)
}

func (a App) callbackDone(msg callbackMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != a.attempt || msg.err != nil {
		return a, nil
	}
	a.stopWaiting()
	a.listener.Unmount()

	o := msg.outcome
	if o.Signed() {
		a.log.Info("signed in")
		a.login = loginModel{cursor: a.login.cursor}
		a.machine.Navigate(o.Navigate)
		a.statusMsg, a.failed = "signed in", false
		if o.Err != nil {
			a.log.WithError(o.Err).Error("session not persisted")
			a.statusMsg = "signed in, but the session could not be saved: " + o.Err.Error()
			a.failed = true
		}
		return a, nil
	}

	a.log.WithError(o.Err).Warn("callback without token")
	a.machine.Navigate(nav.LoginPath)
	a.login.notice = noTokenNotice
	if errors.Is(o.Err, callback.ErrCallbackLoop) {
		a.login.notice = loopNotice
	}
	return a, nil
}

func (a App) abandonLogin() (tea.Model, tea.Cmd) {
	a.attempt++
	a.stopWaiting()
	a.listener.Unmount()
	a.machine.Navigate(nav.LoginPath)
	a.login.notice = cancelledNotice
	a.log.Info("login abandoned")
	return a, nil
}

func (a *App) stopWaiting() {
	if a.waitCancel != nil {
		a.waitCancel()
		a.waitCancel = nil
	}
}

func (a App) tabBar(current nav.Page) string {
	colWidth := a.width / len(nav.Pages)
	var tabBar strings.Builder
	for i, p := range nav.Pages {
		key := fmt.Sprintf("%d", i+1)
		var label string
		if p == current {
			label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(p.String())
		} else {
			label = metaStyle.Render(key) + " " + dimStyle.Render(p.String())
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}

func (a App) pageView(p nav.Page) (body, help string) {
	snap := a.orch.Snapshot()
	switch p {
	case nav.Dashboard:
		return dashboardView(snap, a.width), helpLine("1-5", "pages", "n", "new post", "r", "refresh", "q", "quit")
	case nav.Scheduler:
		return schedulerView(snap, a.width, a.now()), helpLine("1-5", "pages", "n", "new post", "r", "refresh", "q", "quit")
	case nav.Analytics:
		return analyticsView(snap, a.width), helpLine("1-5", "pages", "r", "refresh", "q", "quit")
	case nav.Engagement:
		return engagementView(), helpLine("1-5", "pages", "n", "new post", "q", "quit")
	case nav.NewPost:
		return a.newPost.View(), helpLine("tab", "next", "←/→", "platform", "ctrl+s", "schedule", "esc", "cancel")
	}
	return "", ""
}

func (a App) View() string {
	header := centerLine(titleStyle.Render("S M M")+"  "+dimStyle.Render("social media manager"), a.width)

	var tabs, body, help string
	eff := a.effective()
	switch eff.State {
	case nav.StateUnauthenticated:
		body = a.login.View()
		help = helpLine("j/k", "provider", "enter", "connect", "q", "quit")
	case nav.StateAwaitingCallback:
		body = a.login.awaitingView(a.spinner.View())
		help = helpLine("esc", "cancel", "q", "quit")
	case nav.StatePage:
		tabs = a.tabBar(eff.Page)
		body, help = a.pageView(eff.Page)
	}

	// Chrome budget: header(1) + tabs(1) + gap(1) + status(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	status := ""
	if a.statusMsg != "" {
		status = " " + statusText(a.statusMsg, a.failed)
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n%s", header, tabs, body, status, help)
}
