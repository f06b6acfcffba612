package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/smmtool/smm/internal/nav"
	"github.com/smmtool/smm/pkg/domain"
)

// sessionClaims decodes the identity fields and the standard expiry.
type sessionClaims struct {
	domain.Claims
	jwt.RegisteredClaims
}

// readClaims decodes a credential's claims without verifying its signature.
// The values are for display only.
func readClaims(credential string) (sessionClaims, error) {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return sessionClaims{}, fmt.Errorf("read claims: %w", err)
	}
	return claims, nil
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and configured endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			label := color.New(color.Faint).SprintFunc()

			cred, ok := store.Get()
			if !ok {
				fmt.Fprintf(out, "%s %s\n", label("Session: "), color.RedString("not signed in"))
				fmt.Fprintln(out, "           run `smm login` to connect an account")
			} else {
				fmt.Fprintf(out, "%s %s\n", label("Session: "), color.GreenString("signed in"))
				printClaims(out, label, cred, time.Now())
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s %s (%s)\n", label("Storage: "), c.cfg.SessionBackend, c.cfg.StateDir)
			fmt.Fprintf(out, "%s %s\n", label("Identity:"), c.cfg.IdentityURL)
			fmt.Fprintf(out, "%s %s\n", label("Accounts:"), c.cfg.AccountURL)
			fmt.Fprintf(out, "%s %s\n", label("Posts:   "), c.cfg.PostURL)
			fmt.Fprintf(out, "%s %s\n", label("Callback:"), c.cfg.CallbackURL()+nav.CallbackPath)
			return nil
		},
	}
}

func printClaims(out io.Writer, label func(a ...interface{}) string, cred string, now time.Time) {
	claims, err := readClaims(cred)
	if err != nil {
		fmt.Fprintf(out, "%s %s\n", label("Claims:  "), color.YellowString("unreadable"))
		return
	}
	if claims.UserID != "" {
		fmt.Fprintf(out, "%s %s\n", label("User:    "), claims.UserID)
	}
	if claims.TenantID != "" {
		fmt.Fprintf(out, "%s %s\n", label("Tenant:  "), claims.TenantID)
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		state := color.GreenString("valid")
		if exp.Before(now) {
			state = color.RedString("expired")
		}
		fmt.Fprintf(out, "%s %s (%s)\n", label("Expires: "), exp.Local().Format(time.RFC1123), state)
	}
}
