package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "traderoom/internal/cli"
	"traderoom/internal/config"
	"traderoom/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "trg",
		Short:        "Trading Room Game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newJoinCmd(&apiBase),
		newNameCmd(&apiBase),
		newRoundCmd(&apiBase),
		newPickCmd(&apiBase),
		newSubmitCmd(&apiBase),
		newNextCmd(&apiBase),
		newPrevCmd(&apiBase),
		newScoresCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newWatchCmd(&apiBase),
		newResetCmd(&apiBase),
		newQuitCmd(&apiBase),
		newAdminCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newJoinCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join [name]",
		Short: "Join the game as a participant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			} else {
				var err error
				name, err = promptRequired("Participant name (e.g. Team A)")
				if err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			view, err := client.CreateSession(ctx, name)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				SessionID:   view.SessionID,
				Participant: view.Participant,
			}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Joined as %s. %d rounds ahead - good luck!", view.Participant, view.RoundsTotal))
			return nil
		},
	}
}

func newNameCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "name [participant]",
		Short: "Set or change your participant name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			} else {
				name, err = promptRequired("Participant name")
				if err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).SetParticipant(ctx, sess.SessionID, name); err != nil {
				return err
			}
			sess.Participant = name
			if err := cl.SaveSession(sess); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Playing as %s.", name))
			return nil
		},
	}
}

func newRoundCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "round",
		Short: "Show the current round",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).Round(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			renderRound(view)
			return nil
		},
	}
}

func newPickCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pick [ticker] [buy|sell|hold]",
		Short: "Choose Buy, Sell or Hold for one stock this round",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}

			ticker := ""
			if len(args) > 0 {
				ticker = strings.ToUpper(strings.TrimSpace(args[0]))
			} else {
				ticker, err = promptTicker()
				if err != nil {
					return err
				}
			}
			if !game.ValidTicker(ticker) {
				return fmt.Errorf("unknown ticker %q (one of %s)", ticker, strings.Join(game.Tickers, ", "))
			}

			action := ""
			if len(args) > 1 {
				action = args[1]
			} else {
				action, err = promptChoice(ticker+" action", []string{"buy", "sell", "hold"}, "hold")
				if err != nil {
					return err
				}
			}
			choice, err := game.ParseChoice(action)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).SelectChoice(ctx, sess.SessionID, ticker, string(choice)); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s: %s", ticker, choice))
			return nil
		},
	}
}

func newSubmitCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Lock in your choices for this round",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Submit(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Round %d submitted! You scored %+.2f points (total %+.2f).",
				out.Round, out.RoundScore, out.CumScoreAfter))
			return nil
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Advance to the next round",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).Advance(ctx, sess.SessionID)
			if err != nil {
				if strings.Contains(err.Error(), "submit the current round") {
					printWarn("Submit this round before moving on.")
					return nil
				}
				return err
			}
			renderRound(view)
			return nil
		},
	}
}

func newPrevCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Look back at the previous round",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).Retreat(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			renderRound(view)
			return nil
		},
	}
}

func newScoresCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show your round and cumulative scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			table, err := newClient(apiBase).Scores(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			renderScores(table)
			return nil
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			entries, err := newClient(apiBase).Leaderboard(ctx)
			if err != nil {
				return err
			}
			renderLeaderboard(entries)
			return nil
		},
	}
}

func newResetCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset your choices and scores, keeping your name",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("join first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).ResetPlayer(ctx, sess.SessionID); err != nil {
				return err
			}
			printSuccess("Player reset. Back to round 1.")
			return nil
		},
	}
}

func newQuitCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "End your session and clear everything local",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				// Nothing saved locally; nothing to do.
				printInfo("No active session.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).DestroySession(ctx, sess.SessionID); err != nil {
				printWarn(fmt.Sprintf("Server session cleanup failed: %v", err))
			}
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared. Submitted rounds stay on the leaderboard.")
			return nil
		},
	}
}

func newAdminCmd(apiBase *string) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Administrative actions",
	}
	var token string
	clearLog := &cobra.Command{
		Use:   "clear-log",
		Short: "Delete every submission from the shared log",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := strings.TrimSpace(token)
			if t == "" {
				t = strings.TrimSpace(os.Getenv("TRG_ADMIN_TOKEN"))
			}
			if t == "" {
				return fmt.Errorf("admin token required (--token or TRG_ADMIN_TOKEN)")
			}
			confirm, err := promptChoice("Really delete ALL submissions?", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Aborted.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).ClearSubmissions(ctx, t); err != nil {
				return err
			}
			printSuccess("Submission log cleared.")
			return nil
		},
	}
	clearLog.Flags().StringVar(&token, "token", "", "admin token")
	admin.AddCommand(clearLog)
	return admin
}
