package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/logging"
	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

// Exit codes by error kind.
const (
	exitOK = iota
	exitFailure
	exitInvalid
	exitConflict
	exitNotFound
	exitAuth
	exitForbidden
	exitTransient
)

type rootOptions struct {
	BaseURL     string
	SessionFile string
	Output      string
	Timeout     time.Duration
	ClientScope string
	ScopeHeader string
	Verbose     bool

	out   io.Writer
	store session.Store
}

func (o *rootOptions) sessionStore() (session.Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	path := o.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultFilePath(); err != nil {
			return nil, err
		}
	}
	o.store = session.NewFileStore(path)
	return o.store, nil
}

func (o *rootOptions) clientOptions() []relclient.Option {
	level := "error"
	if o.Verbose {
		level = "debug"
	}
	opts := []relclient.Option{
		relclient.WithTimeout(o.Timeout),
		relclient.WithLogger(logging.ConsoleLogger(logging.ParseLevel(level))),
	}
	if o.ClientScope != "" {
		opts = append(opts, relclient.WithClientScope(o.ScopeHeader, o.ClientScope))
	}
	return opts
}

// client returns a client authenticated with the stored session.
func (o *rootOptions) client(ctx context.Context) (*relclient.Client, *session.Session, error) {
	store, err := o.sessionStore()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil, serrors.Unauthorized("CLI_NOT_LOGGED_IN", "not logged in, run relctl login")
		}
		return nil, nil, err
	}
	if sess.Expired(time.Now()) {
		return nil, nil, serrors.Unauthorized("CLI_SESSION_EXPIRED", "session expired, run relctl login")
	}
	if o.BaseURL != "" && !strings.EqualFold(strings.TrimRight(o.BaseURL, "/"), sess.BaseURL) {
		return nil, nil, serrors.Unauthorized("CLI_OTHER_SERVER", "logged in to "+sess.BaseURL)
	}
	return relclient.FromSession(sess, o.clientOptions()...), sess, nil
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{out: os.Stdout}
	cmd := &cobra.Command{
		Use:           "relctl",
		Short:         "Inspect and edit Client → Manager → Employee relationships",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.Output {
			case outputText, outputJSON, outputYAML:
				return nil
			default:
				return serrors.Invalid("CLI_OUTPUT", fmt.Sprintf("unknown --output %q (text|json|yaml)", opts.Output))
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.BaseURL, "base-url", "", "server base URL (defaults to the logged-in server)")
	flags.StringVar(&opts.SessionFile, "session-file", "", "where the login session is kept")
	flags.StringVarP(&opts.Output, "output", "o", outputText, "output format: text, json or yaml")
	flags.DurationVar(&opts.Timeout, "timeout", relclient.DefaultTimeout, "request timeout")
	flags.StringVar(&opts.ClientScope, "client-scope", "", "narrow tree reads to one client id")
	flags.StringVar(&opts.ScopeHeader, "client-scope-header", "X-Client-ID", "header carrying --client-scope")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newTreeCmd(opts),
		newExportCmd(opts),
		newAddManagerCmd(opts),
		newReplaceManagerCmd(opts),
		newAssignManagerCmd(opts),
		newAddEmployeeCmd(opts),
		newReplaceEmployeeCmd(opts),
		newRemoveEmployeeCmd(opts),
		newCreateRelationshipCmd(opts),
		newDirectoryCmd(opts, "clients", "List clients", (*relclient.Client).ListClients),
		newDirectoryCmd(opts, "managers", "List managers", (*relclient.Client).ListManagers),
		newDirectoryCmd(opts, "employees", "List employees", (*relclient.Client).ListEmployees),
		newAvailableEmployeesCmd(opts),
		newVersionCmd(opts),
	)
	return cmd, opts
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var svcErr *serrors.Error
	if !errors.As(err, &svcErr) {
		return exitFailure
	}
	switch svcErr.Kind {
	case serrors.KindInvalid:
		return exitInvalid
	case serrors.KindConflict:
		return exitConflict
	case serrors.KindNotFound:
		return exitNotFound
	case serrors.KindAuth:
		return exitAuth
	case serrors.KindForbidden:
		return exitForbidden
	case serrors.KindTransient:
		return exitTransient
	default:
		return exitFailure
	}
}

func describe(err error) string {
	var svcErr *serrors.Error
	if errors.As(err, &svcErr) {
		return fmt.Sprintf("operation failed (%s): %s", svcErr.Kind, svcErr.Message)
	}
	return "operation failed: " + err.Error()
}

func Execute() {
	cmd, _ := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(exitCode(err))
	}
}
