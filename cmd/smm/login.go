package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smmtool/smm/internal/browser"
	"github.com/smmtool/smm/internal/callback"
	"github.com/smmtool/smm/pkg/domain"
)

// openBrowser is swapped out by tests.
var openBrowser = browser.Open

func newLoginCmd(c *cli) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through a social provider in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := domain.ParseProvider(provider)
			if !ok {
				return fmt.Errorf("unknown provider %q (want meta, tiktok or snapchat)", provider)
			}
			store, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			api := c.newClient(store)

			srv := callback.NewServer(c.cfg.CallbackAddr, store, c.logger)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("start callback listener: %w", err)
			}
			defer func() {
				shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				srv.Close(shutCtx) //nolint:errcheck
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.LoginTimeout)
			defer cancel()
			o, err := completeLogin(ctx, cmd.OutOrStdout(), srv, api.LoginURL(p), openBrowser)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("login timed out: no callback received within %s", c.cfg.LoginTimeout)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if o.Err != nil {
				c.logger.WithError(o.Err).Error("session not persisted")
				color.New(color.FgYellow).Fprintf(out, "Signed in for this run only: %v\n", o.Err) //nolint:errcheck
				return nil
			}
			color.New(color.FgGreen, color.Bold).Fprintln(out, "Signed in.") //nolint:errcheck
			if claims, err := readClaims(o.Credential); err == nil && claims.UserID != "" {
				fmt.Fprintf(out, "User %s", claims.UserID)
				if claims.TenantID != "" {
					fmt.Fprintf(out, " (tenant %s)", claims.TenantID)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderMeta), "Provider to sign in with (meta|tiktok|snapchat)")
	return cmd
}

// completeLogin mounts a login attempt on srv, sends the browser to loginURL
// and waits for the callback outcome.
func completeLogin(ctx context.Context, w io.Writer, srv *callback.Server, loginURL string, open func(string) error) (callback.Outcome, error) {
	srv.Mount()
	defer srv.Unmount()

	fmt.Fprintln(w, "Opening browser to sign in...")
	if err := open(loginURL); err != nil {
		fmt.Fprintf(w, "Could not open browser. Visit this URL manually:\n  %s\n", loginURL)
		if clipboard.WriteAll(loginURL) == nil {
			fmt.Fprintln(w, "(copied to clipboard)")
		}
	}

	o, err := srv.Wait(ctx)
	if err != nil {
		return callback.Outcome{}, err
	}
	if !o.Signed() {
		reason := "no token received"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		return o, fmt.Errorf("login failed: %s", reason)
	}
	return o, nil
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, ok := store.Get(); !ok {
				fmt.Fprintln(out, "Already logged out.")
				return nil
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("remove session: %w", err)
			}
			fmt.Fprintln(out, "Logged out.")
			return nil
		},
	}
}
