package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MonikaTammineni/fsadproject/client"
	"github.com/MonikaTammineni/fsadproject/internal/localstate"
	"github.com/MonikaTammineni/fsadproject/internal/logger"
	"github.com/MonikaTammineni/fsadproject/session"
)

const requestTimeout = 30 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// reportedError marks a failure that was already printed as a notification.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// app is the state shared by every subcommand of one invocation.
type app struct {
	baseURL   string
	dataDir   string
	configDir string
	debug     bool

	// now is the clock handed to the client; tests pin it.
	now func() time.Time

	log    zerolog.Logger
	client *client.Client
	store  *session.SQLite
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "recordctl",
		Short:         "Browse and edit clinic records from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Record API base URL (default: config base_url, then FSAD_BASE_URL)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the session database (default: config data_dir, then ~/.fsad-records)")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "directory holding config.yaml (default: $RECORDCTL_CONFIG_DIR or the user config dir)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable verbose debug output")

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))
	root.AddCommand(newRegisterCmd(a))
	root.AddCommand(newPasswordCmd(a))
	root.AddCommand(newPatientsCmd(a))
	root.AddCommand(newUsersCmd(a))
	root.AddCommand(newFilesCmd(a))
	root.AddCommand(newReportsCmd(a))
	root.AddCommand(newAppointmentsCmd(a))
	root.AddCommand(newDoctorsCmd(a))
	root.AddCommand(newBrowseCmd(a))

	return root
}

// setup resolves configuration, opens the session store and builds the
// client. Precedence is flag, then config.yaml, then environment, then
// built-in default.
func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.New("recordctl", logger.Options{Output: cmd.ErrOrStderr(), Console: true, Debug: a.debug})
	if !a.debug {
		// Failures reach the operator as notifications; keep the log quiet.
		a.log = a.log.Level(zerolog.ErrorLevel)
	}
	log.Logger = a.log

	configDir, err := resolveConfigDir(a.configDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	env, err := client.LoadConfig()
	if err != nil {
		return fmt.Errorf("read FSAD_ environment: %w", err)
	}
	baseURL := firstNonEmpty(a.baseURL, cfg.GetString(cfgKeyBaseURL), env.BaseURL)
	dataDir := firstNonEmpty(a.dataDir, cfg.GetString(cfgKeyDataDir))

	dbPath, err := localstate.DBPath(dataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	a.store, err = session.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	a.client, err = client.NewE(baseURL,
		client.WithHTTPTimeout(env.HTTPTimeout),
		client.WithDebugLogging(a.debug || env.Debug),
		client.WithClock(a.now),
	)
	if err != nil {
		_ = a.store.Close()
		a.store = nil
		return err
	}
	a.log.Debug().Str("base_url", baseURL).Str("db", dbPath).Msg("recordctl ready")
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
		a.client = nil
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	return errors.Join(errs...)
}

// loadSession loads the stored login. An expired token is reported before any
// request is sent.
func (a *app) loadSession() (session.Session, error) {
	s, err := session.Load(a.store)
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, errors.New("not logged in; run `recordctl login` first")
	}
	if err != nil {
		return session.Session{}, err
	}
	if s.Expired(a.now()) {
		return session.Session{}, errors.New("session expired; run `recordctl login` again")
	}
	return s, nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func outln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func outf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
