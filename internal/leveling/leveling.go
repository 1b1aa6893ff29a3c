// Package leveling maps accumulated XP to a rank title.
package leveling

import (
	"fmt"
	"strings"
)

// Tier is one step of the rank ladder. A user holds a tier once their XP reaches MinXP.
type Tier struct {
	MinXP int64
	Label string
	Emoji string
}

// Title renders the tier for chat output, emoji first.
func (t Tier) Title() string {
	if t.Emoji == "" {
		return t.Label
	}
	return t.Emoji + " " + t.Label
}

// Ladder is an ordered rank table, ascending by MinXP, starting at 0.
type Ladder []Tier

// BeachMedics is the rank table of the bot.
var BeachMedics = Ladder{
	{MinXP: 0, Label: "Beach First-Aid Trainee", Emoji: "🏖️"},
	{MinXP: 75, Label: "Sandy Bandage Applier", Emoji: "🩹"},
	{MinXP: 150, Label: "Sunburn Relief Specialist", Emoji: "☀️"},
	{MinXP: 225, Label: "Jellyfish Sting Soother", Emoji: "🪼"},
	{MinXP: 300, Label: "Tidal Wound Healer", Emoji: "🌊"},
	{MinXP: 375, Label: "Seashell Scrapes Medic", Emoji: "🐚"},
	{MinXP: 450, Label: "Ocean Lifesaver", Emoji: "🚤"},
	{MinXP: 525, Label: "Coral Cut Caretaker", Emoji: "🪸"},
	{MinXP: 600, Label: "Beach ER Doctor", Emoji: "🏥"},
	{MinXP: 675, Label: "Chief of Coastal Medicine", Emoji: "🩺"},
	{MinXP: 750, Label: "Legendary Surf Medic", Emoji: "🌟🏄"},
}

// RankFor returns the label of the highest BeachMedics tier reached by xp.
func RankFor(xp int64) string {
	return BeachMedics.RankFor(xp).Label
}

// Validate checks that the ladder starts at 0 and strictly ascends.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("ladder is empty")
	}
	if l[0].MinXP != 0 {
		return fmt.Errorf("first tier must start at 0, got %d", l[0].MinXP)
	}
	for i := 1; i < len(l); i++ {
		if l[i].MinXP <= l[i-1].MinXP {
			return fmt.Errorf("tier %q (%d) does not ascend from %q (%d)",
				l[i].Label, l[i].MinXP, l[i-1].Label, l[i-1].MinXP)
		}
	}
	return nil
}

// RankFor returns the highest tier whose threshold is <= xp.
// XP below the first threshold still resolves to the first tier.
func (l Ladder) RankFor(xp int64) Tier {
	if len(l) == 0 {
		return Tier{}
	}
	tier := l[0]
	for _, t := range l {
		if xp < t.MinXP {
			break
		}
		tier = t
	}
	return tier
}

// Next returns the tier after the one xp currently holds. ok is false at the top.
func (l Ladder) Next(xp int64) (Tier, bool) {
	for _, t := range l {
		if xp < t.MinXP {
			return t, true
		}
	}
	return Tier{}, false
}

// ProgressBar renders progress from the current tier to the next one.
func (l Ladder) ProgressBar(xp int64) string {
	current := l.RankFor(xp)
	next, ok := l.Next(xp)
	if !ok {
		return "[■■■■■■■■■■] MAX"
	}

	span := next.MinXP - current.MinXP
	percentage := 0
	if span > 0 {
		percentage = int(float64(xp-current.MinXP) / float64(span) * 100)
	}
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	filledCount := percentage / 10
	return "[" + strings.Repeat("■", filledCount) + strings.Repeat("□", 10-filledCount) +
		fmt.Sprintf("] %d%%", percentage)
}
