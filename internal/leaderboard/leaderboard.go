// Package leaderboard ranks users by XP for display.
package leaderboard

import (
	"sort"

	"github.com/mroshb/beach_trivia_bot/internal/leveling"
)

// DefaultSize is how many rows a leaderboard shows.
const DefaultSize = 10

// Entry is one user as fed to Build.
type Entry struct {
	UserID      string
	DisplayName string
	XP          int64
}

// Row is one ranked line of a built leaderboard.
type Row struct {
	Position    int
	UserID      string
	DisplayName string
	XP          int64
	Rank        leveling.Tier
}

// Build sorts entries by XP, highest first, keeps the top size and resolves each rank.
// Equal XP keeps the input order. entries is not modified.
func Build(entries []Entry, size int, ladder leveling.Ladder) []Row {
	if size <= 0 {
		size = DefaultSize
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].XP > sorted[j].XP
	})
	if len(sorted) > size {
		sorted = sorted[:size]
	}

	rows := make([]Row, 0, len(sorted))
	for i, e := range sorted {
		rows = append(rows, Row{
			Position:    i + 1,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			XP:          e.XP,
			Rank:        ladder.RankFor(e.XP),
		})
	}
	return rows
}
