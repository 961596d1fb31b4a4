package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vidtycoon/internal/game"
)

const (
	refreshEvery = 100 * time.Millisecond
	// upgradeKeys skips q, which quits.
	upgradeKeys = "abcdefghijklmnoprstuvwxyz"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD7FF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787"))
	viralStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5F5FAF")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5F5F87")).Padding(0, 1)
)

// studio is what the play screen needs from a running session.
type studio interface {
	Snapshot() game.Snapshot
	StartProduction(contentID string) bool
	Accelerate() bool
	Purchase(upgradeID string) bool
}

type refreshMsg time.Time

type playModel struct {
	studio  studio
	account string
	snap    game.Snapshot
	bar     progress.Model
	width   int
}

func newPlayModel(s studio, account string) playModel {
	return playModel{
		studio:  s,
		account: account,
		snap:    s.Snapshot(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func runPlay(s studio, account string) error {
	_, err := tea.NewProgram(newPlayModel(s, account), tea.WithAltScreen()).Run()
	return err
}

func refresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m playModel) Init() tea.Cmd {
	return refresh()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(60, msg.Width-20))
		return m, nil
	case refreshMsg:
		m.snap = m.studio.Snapshot()
		return m, refresh()
	}
	return m, nil
}

func (m playModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch {
	case key == "q" || key == "ctrl+c" || key == "esc":
		return m, tea.Quit
	case key == " " || key == "space":
		m.studio.Accelerate()
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		idx := int(key[0] - '1')
		if idx < len(m.snap.Content) {
			m.studio.StartProduction(m.snap.Content[idx].ID)
		}
	case len(key) == 1 && strings.Contains(upgradeKeys, key):
		idx := strings.Index(upgradeKeys, key)
		if idx < len(m.snap.Upgrades) {
			m.studio.Purchase(m.snap.Upgrades[idx].ID)
		}
	default:
		return m, nil
	}
	m.snap = m.studio.Snapshot()
	return m, nil
}

func (m playModel) View() string {
	s := m.snap
	var b strings.Builder

	title := titleStyle.Render("VIDEO TYCOON")
	if m.account != "" {
		title += mutedStyle.Render("  signed in as " + m.account)
	} else {
		title += mutedStyle.Render("  offline")
	}
	b.WriteString(title + "\n\n")

	stats := fmt.Sprintf("Views %s   Subscribers %s   $%s\n%s views/s  x%.2f subs per video  x%.2f money",
		formatAmount(s.Views), formatAmount(s.Subscribers), formatMoney(s.Currency),
		formatRate(s.DisplayViewRate), s.SubscriberBonus, s.MoneyMultiplier)
	if s.Viral.Active {
		stats += "\n" + viralStyle.Render(fmt.Sprintf("VIRAL x%g for %ds", game.ViralBoost, s.Viral.RemainingSeconds))
	}
	b.WriteString(panelStyle.Render(stats) + "\n\n")

	b.WriteString(headerStyle.Render("Production") + "\n")
	if s.Job == nil {
		b.WriteString(mutedStyle.Render("Idle. Pick something to film.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%s  %s\n", s.Job.Content.Name, m.bar.ViewAs(s.Job.Progress/100)))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Content") + "\n")
	for i, c := range s.Content {
		line := fmt.Sprintf("[%d] %-16s %4.0fs  %5.0f views  $%-6.0f", i+1, truncate(c.Name, 16), c.DurationSeconds, c.BaseViews, c.BaseMoney)
		if !c.Unlocked {
			line = mutedStyle.Render(line + fmt.Sprintf(" needs %s subs", formatAmount(c.UnlockedAtSubscribers)))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Upgrades") + "\n")
	for i, u := range s.Upgrades {
		if i >= len(upgradeKeys) {
			break
		}
		line := fmt.Sprintf("[%c] %-22s lvl %-3d $%s", upgradeKeys[i], truncate(u.Name, 22), u.Level, formatMoney(u.Cost))
		if u.Affordable {
			line = goodStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	for _, n := range s.Notifications {
		b.WriteString(noteStyle.Render(n.Text) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("1-9 film  space speed up  letters buy  q quit") + "\n")
	return b.String()
}
