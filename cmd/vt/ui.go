package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	cl "vidtycoon/internal/cli"
	"vidtycoon/internal/game"
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

func printError(msg string) {
	danger.Println(msg)
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

// promptPassword reads without echo when stdin is a terminal. The password
// is kept verbatim apart from the line ending.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	for {
		fmt.Printf("%s: ", label)
		var text string
		if term.IsTerminal(fd) {
			raw, err := term.ReadPassword(fd)
			fmt.Println()
			if err != nil {
				return "", err
			}
			text = string(raw)
		} else {
			line, err := stdinReader.ReadString('\n')
			if err != nil && line == "" {
				return "", err
			}
			text = trimLineEnding(line)
		}
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func trimLineEnding(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}

func promptConfirm(label string) (bool, error) {
	fmt.Printf("%s [y/N]: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func renderStatus(s game.Snapshot, sess *cl.Session) {
	accent.Println("\n== STUDIO ==")
	if sess != nil {
		fmt.Printf("Account:         %s\n", sess.Username)
	} else {
		fmt.Printf("Account:         %s\n", neutral.Sprint("offline"))
	}
	fmt.Printf("Views:           %s\n", formatAmount(s.Views))
	fmt.Printf("Subscribers:     %s\n", formatAmount(s.Subscribers))
	fmt.Printf("Currency:        $%s\n", formatMoney(s.Currency))
	fmt.Printf("Videos:          %d\n", s.VideosPublished)
	fmt.Printf("Passive:         %s views/s, x%.2f subs per video, x%.2f money\n",
		formatRate(s.ViewRate), s.SubscriberBonus, s.MoneyMultiplier)
	if s.LastSavedAt > 0 {
		fmt.Printf("Last saved:      %s\n", time.UnixMilli(s.LastSavedAt).Local().Format(time.DateTime))
	}

	fmt.Println()
	accent.Println("Upgrades")
	fmt.Printf("%-22s %6s %12s %-12s\n", "NAME", "LEVEL", "NEXT COST", "CATEGORY")
	for _, u := range s.Upgrades {
		cost := "$" + formatMoney(u.Cost)
		if u.Affordable {
			cost = success.Sprint(cost)
		}
		fmt.Printf("%-22s %6d %12s %-12s\n", truncate(u.Name, 22), u.Level, cost, u.Category)
	}

	fmt.Println()
	accent.Println("Content")
	for _, c := range s.Content {
		state := success.Sprint("unlocked")
		if !c.Unlocked {
			state = danger.Sprintf("needs %s subs", formatAmount(c.UnlockedAtSubscribers))
		}
		fmt.Printf("%-18s %5.0fs  %s\n", truncate(c.Name, 18), c.DurationSeconds, state)
	}
	fmt.Println()
}

func renderLeaderboard(entries []cl.LeaderboardEntry, self string) {
	accent.Println("\n== LEADERBOARD ==")
	if len(entries) == 0 {
		printInfo("No creators ranked yet.")
		return
	}
	fmt.Printf("%-6s %-24s %14s\n", "RANK", "CREATOR", "SUBSCRIBERS")
	for i, e := range entries {
		line := fmt.Sprintf("%-6d %-24s %14s", i+1, truncate(e.Username, 24), comma(e.Subscribers))
		if strings.EqualFold(e.Username, self) {
			success.Println(line)
			continue
		}
		fmt.Println(line)
	}
	fmt.Println()
}

// formatAmount shortens large figures to K/M/B with one decimal.
func formatAmount(v float64) string {
	v = math.Floor(v)
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', 1, 64) + "B"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	default:
		return comma(int64(v))
	}
}

func formatMoney(v float64) string {
	whole := int64(math.Floor(v))
	cents := int64(math.Floor((v-float64(whole))*100 + 1e-9))
	return fmt.Sprintf("%s.%02d", comma(whole), cents)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func comma(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
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
