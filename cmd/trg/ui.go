package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"traderoom/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptTicker() (string, error) {
	for {
		ticker, err := promptRequired("Ticker (" + strings.Join(game.Tickers, "/") + ")")
		if err != nil {
			return "", err
		}
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if game.ValidTicker(ticker) {
			return ticker, nil
		}
		printWarn("Unknown ticker.")
	}
}

func renderRound(view game.RoundView) {
	accent.Printf("\n== ROUND %d of %d ==\n", view.Round, view.RoundsTotal)
	fmt.Printf("Headline: %s\n", view.Headline)
	if view.Locked {
		warn.Println("This round is locked - choices are final.")
	}

	fmt.Println()
	fmt.Printf("%-8s %-8s\n", "TICKER", "CHOICE")
	for _, t := range game.Tickers {
		fmt.Printf("%-8s %-8s\n", t, colorizeChoice(view.Choices[t]))
	}
	fmt.Println()

	switch {
	case view.Locked && view.CanAdvance:
		printInfo("Run `trg next` for the next round.")
	case !view.Locked:
		printInfo("Pick with `trg pick <ticker> <buy|sell|hold>`, then `trg submit`.")
	case view.Locked && !view.CanAdvance:
		printInfo("That was the last round. Check `trg leaderboard`.")
	}
}

func renderScores(table game.ScoreTable) {
	accent.Println("\n== YOUR PERFORMANCE ==")
	if len(table.Rows) == 0 {
		printInfo("Submit your first round to see scores.")
		return
	}
	fmt.Printf("%-8s %12s %12s\n", "ROUND", "SCORE", "CUMULATIVE")
	for _, row := range table.Rows {
		fmt.Printf("%-8d %12s %12s\n", row.Round, colorizeScore(row.Score), colorizeScore(row.CumScore))
	}
	fmt.Printf("\nCumulative score: %s\n\n", colorizeScore(table.CumScore))
}

func renderLeaderboard(entries []game.LeaderboardEntry) {
	accent.Println("\n== LEADERBOARD ==")
	if len(entries) == 0 {
		printInfo("No submissions yet.")
		return
	}
	fmt.Printf("%-6s %-20s %8s %14s %14s\n", "RANK", "PARTICIPANT", "ROUND", "LAST SCORE", "TOTAL")
	for i, e := range entries {
		fmt.Printf("%-6d %-20s %8d %14s %14s\n",
			i+1,
			truncate(e.Participant, 20),
			e.LatestRound,
			colorizeScore(e.LatestScore),
			colorizeScore(e.CumScore),
		)
	}
	fmt.Println()
}

func colorizeChoice(c game.Choice) string {
	switch c {
	case game.ChoiceBuy:
		return success.Sprint(c)
	case game.ChoiceSell:
		return danger.Sprint(c)
	default:
		return neutral.Sprint(game.ChoiceHold)
	}
}

func colorizeScore(v float64) string {
	text := fmt.Sprintf("%+.2f", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
