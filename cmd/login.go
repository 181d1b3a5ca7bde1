package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/transport"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a chat server with a one-time email code",
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	serverURL := cfg.GetServerURL()
	email := ""

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Server").
			Description("Base URL of the chat server").
			Placeholder("https://chat.example.com").
			Value(&serverURL).
			Validate(func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must start with http:// or https://")
				}
				return nil
			}),
		huh.NewInput().
			Title("Email").
			Description("A one-time code will be sent to this address").
			Placeholder("you@example.com").
			Value(&email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("that doesn't look like an email address")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	client := transport.NewClient(serverURL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.RequestOTP(ctx, email); err != nil {
		return fmt.Errorf("couldn't request a login code: %w", err)
	}
	fmt.Printf("Code sent to %s\n", email)

	code := ""
	codeForm := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Code").
			Description("The six-digit code from the email").
			CharLimit(6).
			Value(&code),
	))
	if err := codeForm.Run(); err != nil {
		return err
	}

	verifyCtx, cancelVerify := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelVerify()
	auth, err := client.VerifyOTP(verifyCtx, email, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.SetServerURL(serverURL)
	cfg.SetIdentity(auth.User.ID, auth.User.DisplayName, email, auth.Token)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("login succeeded but saving the config failed: %w", err)
	}

	fmt.Printf("Logged in as %s\n", auth.User.DisplayName)
	return nil
}
