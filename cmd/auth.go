package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// AuthLogin exchanges credentials for a session and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}

	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	creds := models.Credentials{Email: strings.TrimSpace(cmd.String("email")), Password: password}
	r.logger.Info("logging in", "email", creds.Email)

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	session, err := r.catalog.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := r.app.Auth.Login(ctx, session); err != nil {
		return err
	}

	r.logger.Info("login successful", "user_id", session.UserID)
	name := session.DisplayName
	if name == "" {
		name = session.Username
	}
	if name == "" {
		name = session.UserID
	}
	return r.writePlain("✓ Logged in as %s\n", name)
}

// AuthSignup creates an account. It does not log in.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	req := models.SignupRequest{
		Email:    strings.TrimSpace(cmd.String("email")),
		Password: password,
		Username: strings.TrimSpace(cmd.String("username")),
		FullName: strings.TrimSpace(cmd.String("full-name")),
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	userID, err := r.catalog.Signup(ctx, req)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	r.logger.Info("account created", "user_id", userID)
	r.writePlain("✓ Account created (user %s)\n", userID)
	return r.writePlain("Log in with: fitx auth login --email %s\n", req.Email)
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	if !r.app.Auth.IsLoggedIn() {
		return r.writePlain("Not logged in\n")
	}
	if err := r.app.Auth.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

type authStatus struct {
	LoggedIn    bool       `json:"logged_in"`
	UserID      string     `json:"user_id,omitempty"`
	Username    string     `json:"username,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	HeaderMode  string     `json:"header_mode"`
	HasToken    bool       `json:"has_token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Expired     bool       `json:"expired"`
}

// AuthStatus prints the stored session. Token expiry is read from the token itself when it is a JWT.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}

	s, ok := r.app.Auth.Session()
	status := authStatus{
		LoggedIn:    ok,
		UserID:      s.UserID,
		Username:    s.Username,
		DisplayName: s.DisplayName,
		HeaderMode:  r.config.API.AuthHeader,
		HasToken:    s.Token != "",
	}
	if s.Token != "" {
		if info, err := shared.InspectToken(s.Token); err == nil && !info.ExpiresAt.IsZero() {
			exp := info.ExpiresAt
			status.ExpiresAt = &exp
			status.Expired = info.Expired(r.now())
		} else if err != nil {
			r.logger.Debug("token is not a JWT", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.LoggedIn {
		return r.writePlain("✗ Not logged in (fitx auth login)\n")
	}
	r.writePlain("✓ Logged in\n")
	r.writePlain("User ID: %s\n", status.UserID)
	if status.Username != "" {
		r.writePlain("Username: %s\n", status.Username)
	}
	if status.DisplayName != "" {
		r.writePlain("Name: %s\n", status.DisplayName)
	}
	r.writePlain("Identity header: %s\n", status.HeaderMode)
	switch {
	case status.ExpiresAt != nil && status.Expired:
		r.writePlain("Token: expired at %s\n", status.ExpiresAt.Format(time.RFC3339))
	case status.ExpiresAt != nil:
		r.writePlain("Token: valid until %s\n", status.ExpiresAt.Format(time.RFC3339))
	case status.HasToken:
		r.writePlain("Token: present\n")
	default:
		r.writePlain("Token: none\n")
	}
	return nil
}

// password returns the --password flag or prompts for it.
func (r *Runner) password(cmd *cli.Command) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}
	p, err := r.readPassword()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if p == "" {
		return "", fmt.Errorf("%w: password is required", shared.ErrMissingArgument)
	}
	return p, nil
}

// promptPassword reads a password without echo from a terminal, or a single line otherwise.
func (r *Runner) promptPassword() (string, error) {
	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
