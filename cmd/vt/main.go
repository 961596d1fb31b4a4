package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mathrand "math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidtycoon/internal/clock"
	cl "vidtycoon/internal/cli"
	"vidtycoon/internal/config"
	"vidtycoon/internal/game"
	"vidtycoon/internal/store"
)

func main() {
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:           "vt",
		Short:         "Video Tycoon, an idle video studio in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "account service base URL")

	root.AddCommand(
		newRegisterCmd(&cfg, &apiBase),
		newLoginCmd(&cfg, &apiBase),
		newLogoutCmd(&cfg),
		newLeaderboardCmd(&cfg, &apiBase),
		newStatusCmd(&cfg),
		newResetCmd(&cfg),
		newPlayCmd(&cfg, &apiBase),
	)

	if err := root.Execute(); err != nil {
		printError("error: " + err.Error())
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

// authError turns a rejected register/login into the server's message.
func authError(err error) error {
	var se *cl.StatusError
	if cl.IsAuthFailure(err) && errors.As(err, &se) && se.Message != "" {
		return errors.New(se.Message)
	}
	return err
}

func newRegisterCmd(cfg *config.CLIConfig, apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account for the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Username")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			p, err := newClient(apiBase).Register(ctx, username, password)
			if err != nil {
				return authError(err)
			}
			if err := cl.SaveSession(cfg.HomeDir, cl.Session{UserID: p.ID, Username: p.Username}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Welcome, %s. Session saved.", p.Username))
			return nil
		},
	}
}

func newLoginCmd(cfg *config.CLIConfig, apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Username")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			p, err := newClient(apiBase).Login(ctx, username, password)
			if err != nil {
				return authError(err)
			}
			if err := cl.SaveSession(cfg.HomeDir, cl.Session{UserID: p.ID, Username: p.Username}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Logged in as %s (%s subscribers on the board).", p.Username, comma(p.Subscribers)))
			return nil
		},
	}
}

func newLogoutCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(cfg.HomeDir); err != nil {
				return err
			}
			printSuccess("Logged out. Your local studio is kept.")
			return nil
		},
	}
}

func newLeaderboardCmd(cfg *config.CLIConfig, apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top creators",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			entries, err := newClient(apiBase).Leaderboard(ctx)
			if err != nil {
				printWarn("Leaderboard is unavailable right now.")
				return nil
			}
			self := ""
			if sess, err := cl.LoadSession(cfg.HomeDir); err == nil {
				self = sess.Username
			}
			renderLeaderboard(entries, self)
			return nil
		},
	}
}

func newStatusCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the saved studio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog := newLogger(cfg)
			defer closeLog()
			fs, err := openSaves(cfg)
			if err != nil {
				return err
			}
			defer fs.Close()

			ledger := game.NewBridge(fs, logger).Load()
			snap := game.NewSession(game.Options{Logger: logger, Ledger: ledger}).Snapshot()
			var sess *cl.Session
			if s, err := cl.LoadSession(cfg.HomeDir); err == nil {
				sess = &s
			}
			renderStatus(snap, sess)
			return nil
		},
	}
}

func newResetCmd(cfg *config.CLIConfig) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the local save and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := promptConfirm("Delete your studio save?")
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Nothing changed.")
					return nil
				}
			}
			fs, err := openSaves(cfg)
			if err != nil {
				return err
			}
			defer fs.Close()
			if err := fs.Delete(game.SaveKey); err != nil {
				return err
			}
			printSuccess("Save deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newPlayCmd(cfg *config.CLIConfig, apiBase *string) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the studio interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog := newLogger(cfg)
			defer closeLog()
			fs, err := openSaves(cfg)
			if err != nil {
				return err
			}
			defer fs.Close()

			bridge := game.NewBridge(fs, logger)
			var sink game.ScoreSink
			account := ""
			if !offline {
				if sess, err := cl.LoadSession(cfg.HomeDir); err == nil {
					sink = cl.NewScorePusher(newClient(apiBase), sess.UserID)
					account = sess.Username
				}
			}

			seed := cfg.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			clk := clock.Real{}
			sched := clock.NewScheduler(clk, logger)
			session := game.NewSession(game.Options{
				Clock:   clk,
				Logger:  logger,
				Rand:    mathrand.New(mathrand.NewSource(seed)),
				Ledger:  bridge.Load(),
				Persist: bridge,
				Scores:  sink,
				Periods: game.Periods{
					Tick:           cfg.TickEvery,
					ViralCheck:     cfg.ViralCheckEvery,
					ViralCountdown: cfg.ViralCountdownEvery,
					ScorePush:      cfg.ScorePushEvery,
				},
			})
			session.Attach(sched)

			ctx, cancel := context.WithCancel(cmd.Context())
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = sched.Run(ctx, cfg.TickEvery)
			}()
			logger.Info("session started", "account", account, "seed", seed)

			runErr := runPlay(session, account)
			cancel()
			<-done
			session.Close()
			logger.Info("session ended")
			return runErr
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "do not report scores to the account service")
	return cmd
}

func openSaves(cfg *config.CLIConfig) (*store.FileStore, error) {
	return store.OpenFileStore(filepath.Join(cfg.HomeDir, "saves"))
}

// newLogger writes JSON logs to the client log file so they stay out of the TUI.
func newLogger(cfg *config.CLIConfig) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}
	if err := os.MkdirAll(cfg.HomeDir, 0o700); err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() {}
	}
	f, err := os.OpenFile(filepath.Join(cfg.HomeDir, "client.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() {}
	}
	return slog.New(slog.NewJSONHandler(f, opts)), func() { _ = f.Close() }
}
