package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
)

type rootOptions struct {
	BaseURL  string
	Email    string
	Password string
	Timeout  time.Duration

	out io.Writer
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{out: os.Stdout}
	cmd := &cobra.Command{
		Use:           "rel-load",
		Short:         "Load and smoke testing tool for the relationships API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "http://localhost:3200", "server base URL")
	cmd.PersistentFlags().StringVar(&opts.Email, "email", "admin@relationships.example", "account used for the run")
	cmd.PersistentFlags().StringVar(&opts.Password, "password", "", "account password (defaults to $REL_LOAD_PASSWORD)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", relclient.DefaultTimeout, "per-request timeout")

	cmd.AddCommand(newSmokeCmd(opts))
	cmd.AddCommand(newRunCmd(opts))
	return cmd, opts
}

func (o *rootOptions) password() string {
	if o.Password != "" {
		return o.Password
	}
	return os.Getenv("REL_LOAD_PASSWORD")
}

// login checks /health and opens an authenticated client.
func (o *rootOptions) login(ctx context.Context) (*relclient.Client, error) {
	if strings.TrimSpace(o.BaseURL) == "" {
		return nil, errors.New("--base-url is required")
	}
	if o.password() == "" {
		return nil, errors.New("--password or REL_LOAD_PASSWORD is required")
	}
	if err := smokeCheck(ctx, &http.Client{Timeout: o.Timeout}, o.BaseURL); err != nil {
		return nil, err
	}
	c := relclient.New(o.BaseURL, relclient.WithTimeout(o.Timeout))
	if _, err := c.Login(ctx, o.Email, o.password()); err != nil {
		return nil, fmt.Errorf("login as %s: %w", o.Email, err)
	}
	return c, nil
}

func smokeCheck(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("health check failed: status=%d", resp.StatusCode)
	}
	return nil
}

func Execute() {
	cmd, _ := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
