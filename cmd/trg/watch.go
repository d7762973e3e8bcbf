package main

import (
	"context"
	"fmt"
	"time"

	cl "traderoom/internal/cli"
	"traderoom/internal/game"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Spectator mode: a read-only leaderboard that repolls the API. No session,
// no mutations.

const watchPollEvery = 3 * time.Second

var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)
	watchFrameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	watchStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Padding(0, 1)
	watchErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

func newWatchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live leaderboard for spectators",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newWatchModel(newClient(apiBase))
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type leaderboardMsg []game.LeaderboardEntry

type watchErrMsg struct{ err error }

type watchTickMsg time.Time

type watchModel struct {
	client    *cl.Client
	table     table.Model
	lastErr   error
	fetchedAt time.Time
}

func newWatchModel(client *cl.Client) watchModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "RANK", Width: 5},
			{Title: "PARTICIPANT", Width: 22},
			{Title: "ROUND", Width: 6},
			{Title: "LAST SCORE", Width: 11},
			{Title: "TOTAL", Width: 11},
		}),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("86"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return watchModel{client: client, table: t}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), watchTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case watchTickMsg:
		return m, tea.Batch(m.fetch(), watchTick())
	case leaderboardMsg:
		rows := make([]table.Row, 0, len(msg))
		for i, e := range msg {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				e.Participant,
				fmt.Sprintf("%d", e.LatestRound),
				fmt.Sprintf("%+.2f", e.LatestScore),
				fmt.Sprintf("%+.2f", e.CumScore),
			})
		}
		m.table.SetRows(rows)
		m.lastErr = nil
		m.fetchedAt = time.Now()
		return m, nil
	case watchErrMsg:
		m.lastErr = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	out := watchTitleStyle.Render("TRADING ROOM - LEADERBOARD") + "\n"
	out += watchFrameStyle.Render(m.table.View()) + "\n"
	if m.lastErr != nil {
		out += watchErrStyle.Render("fetch failed: "+m.lastErr.Error()) + "\n"
	} else if !m.fetchedAt.IsZero() {
		out += watchStatusStyle.Render("updated "+m.fetchedAt.Format("15:04:05")) + "\n"
	}
	out += watchStatusStyle.Render("q to quit")
	return out
}

func (m watchModel) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := client.Leaderboard(ctx)
		if err != nil {
			return watchErrMsg{err: err}
		}
		return leaderboardMsg(entries)
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(watchPollEvery, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}
