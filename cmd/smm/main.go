package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smmtool/smm/internal/callback"
	"github.com/smmtool/smm/internal/config"
	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/internal/session"
	"github.com/smmtool/smm/internal/tui"
	"github.com/smmtool/smm/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the command tree, executes args and releases what the command opened.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.close()
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// cli carries flag overrides and the resources built for the running command.
type cli struct {
	identityURL    string
	accountURL     string
	postURL        string
	callbackAddr   string
	stateDir       string
	sessionBackend string

	cfg     config.Config
	logger  *logrus.Logger
	closers []io.Closer
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "smm",
		Short:         "Social media manager: schedule posts and watch engagement from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  smm

  # Sign in without the TUI
  smm login --provider tiktok

  # Print what the dashboard would show
  smm snapshot --page dashboard
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), c)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return c.setup(cmd)
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.identityURL, "identity-url", "", "Identity service base URL (env SMM_IDENTITY_URL)")
	flags.StringVar(&c.accountURL, "account-url", "", "Account service base URL (env SMM_ACCOUNT_URL)")
	flags.StringVar(&c.postURL, "post-url", "", "Post service base URL (env SMM_POST_URL)")
	flags.StringVar(&c.callbackAddr, "callback-addr", "", "Address the login callback listens on (env SMM_CALLBACK_ADDR)")
	flags.StringVar(&c.stateDir, "state-dir", "", "Directory for the session and log files (env SMM_STATE_DIR)")
	flags.StringVar(&c.sessionBackend, "session-backend", "", "Session storage: sqlite or file (env SMM_SESSION_BACKEND)")

	cmd.AddCommand(newLoginCmd(c))
	cmd.AddCommand(newLogoutCmd(c))
	cmd.AddCommand(newStatusCmd(c))
	cmd.AddCommand(newSnapshotCmd(c))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setup resolves configuration (flags over env over defaults) and opens the log file.
func (c *cli) setup(cmd *cobra.Command) error {
	envFiles, err := config.LoadEnv()
	if err != nil {
		return err
	}
	cfg := config.FromEnv()

	overrides := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"identity-url", &cfg.IdentityURL, c.identityURL},
		{"account-url", &cfg.AccountURL, c.accountURL},
		{"post-url", &cfg.PostURL, c.postURL},
		{"callback-addr", &cfg.CallbackAddr, c.callbackAddr},
		{"state-dir", &cfg.StateDir, c.stateDir},
		{"session-backend", &cfg.SessionBackend, c.sessionBackend},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.val
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureStateDir(); err != nil {
		return err
	}

	logger, closer, err := logging.NewFileLogger(cfg.StatePath("smm.log"))
	if err != nil {
		return err
	}
	c.closers = append(c.closers, closer)
	c.cfg = cfg
	c.logger = logger
	logger.WithFields(logrus.Fields{
		"command":  cmd.CommandPath(),
		"version":  version,
		"identity": cfg.IdentityURL,
		"account":  cfg.AccountURL,
		"post":     cfg.PostURL,
		"backend":  cfg.SessionBackend,
		"env":      envFiles,
	}).Info("starting")
	return nil
}

func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i].Close() //nolint:errcheck
	}
	c.closers = nil
}

// openSession loads the persisted credential through the configured backend.
func (c *cli) openSession(ctx context.Context) (*session.Store, error) {
	backend, err := session.NewBackend(c.cfg)
	if err != nil {
		return nil, err
	}
	return session.Open(ctx, backend, c.logger), nil
}

func (c *cli) newClient(creds client.Credentials) *client.Client {
	return client.New(client.Endpoints{
		Identity: c.cfg.IdentityURL,
		Account:  c.cfg.AccountURL,
		Post:     c.cfg.PostURL,
		Timeout:  c.cfg.HTTPTimeout,
	}, creds, c.logger)
}

func runTUI(ctx context.Context, c *cli) error {
	store, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	api := c.newClient(store)
	srv := callback.NewServer(c.cfg.CallbackAddr, store, c.logger)
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Close(shutCtx) //nolint:errcheck
	}()

	app := tui.NewApp(tui.Options{
		Session:  store,
		Fetcher:  api,
		Callback: srv,
		LoginURL: api.LoginURL,
		Logger:   c.logger,
		Location: time.Local,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the smm version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "smm "+version)
		},
	}
}
