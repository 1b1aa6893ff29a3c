package handlers

import (
	"fmt"
	"strings"

	"github.com/mroshb/beach_trivia_bot/internal/leaderboard"
	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/internal/security"
	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/internal/session"
	"github.com/mroshb/beach_trivia_bot/pkg/utils"
)

// RenderNotice turns a session notice into HTML message text and an optional keyboard.
func RenderNotice(n session.Notice) (string, interface{}) {
	switch n.Kind {
	case session.NoticeCaseOpened:
		return fmt.Sprintf("🔍 <b>%s - ONGOING</b>\n\n%s\n\n💬 <b>Guess the emergency by replying in chat!</b>",
			n.Case.Code(), security.SanitizeHTML(n.Case.Description)), nil

	case session.NoticeCaseSolved:
		var sb strings.Builder
		fmt.Fprintf(&sb, "✅ <b>%s - SOLVED</b>\n", n.Case.Code())
		fmt.Fprintf(&sb, "Correct Diagnosis: <b>%s</b>\n\n", security.SanitizeHTML(utils.TitleCase(n.Case.Answer)))
		sb.WriteString("🎉 <b>Winner</b>\n")
		fmt.Fprintf(&sb, "Congrats %s! You were the first to solve this case!\n", mention(n.UserID, n.DisplayName))
		sb.WriteString("🎁 DM me to claim your <b>Jellycat</b> plushie.\n")
		sb.WriteString(awardLines(n.Award, n.DisplayName))
		sb.WriteString("\n<i>CASE closed. Stay tuned for the next one!</i>")
		return sb.String(), nil

	case session.NoticeCaseExpired:
		return fmt.Sprintf("❌ Time's up! No one solved %s. The answer was <code>%s</code>.",
			n.Case.Code(), security.SanitizeHTML(n.Case.Answer)), nil

	case session.NoticeQuizQuestion:
		var sb strings.Builder
		fmt.Fprintf(&sb, "🩺 <b>Question %d/%d</b> for %s\n\n", n.Step+1, n.Steps, displayName(n.UserID, n.DisplayName))
		sb.WriteString(security.SanitizeHTML(n.Question.Prompt))
		sb.WriteString("\n\n")
		for i, opt := range n.Question.Options {
			if i < len(models.Choices) {
				fmt.Fprintf(&sb, "<b>%s)</b> %s\n", models.Choices[i], security.SanitizeHTML(opt))
			}
		}
		sb.WriteString("\nReply with A, B, C or D.")
		return sb.String(), AnswerKeyboard()

	case session.NoticeQuizAnswered:
		name := displayName(n.UserID, n.DisplayName)
		if n.Correct {
			return fmt.Sprintf("✅ Correct, %s!\n%s", name, awardLines(n.Award, n.DisplayName)), nil
		}
		return fmt.Sprintf("❌ Wrong, %s. The answer was <b>%s) %s</b>.",
			name, n.Question.Answer, security.SanitizeHTML(n.Question.CorrectOption())), nil

	case session.NoticeQuizExpired:
		return fmt.Sprintf("⌛ Time's up, %s! Your quiz has ended at question %d/%d. Start again with /quiz.",
			displayName(n.UserID, n.DisplayName), n.Step+1, n.Steps), nil

	case session.NoticeQuizCompleted:
		var sb strings.Builder
		fmt.Fprintf(&sb, "🏁 <b>Quiz complete, %s!</b>\n\n", displayName(n.UserID, n.DisplayName))
		if res := n.Result; res != nil {
			fmt.Fprintf(&sb, "Score: %d/%d\n", res.Correct, res.Steps)
			fmt.Fprintf(&sb, "XP earned: %d\n", res.XPEarned)
			if p := res.Profile; p != nil {
				fmt.Fprintf(&sb, "Total XP: %d\n", p.XP)
				fmt.Fprintf(&sb, "Rank: %s\n", p.Rank.Title())
			}
		}
		return strings.TrimRight(sb.String(), "\n"), nil
	}

	return "", nil
}

// awardLines renders the XP part of a correct answer, including a rank-up.
func awardLines(a *services.Award, name string) string {
	if a == nil {
		return ""
	}
	line := fmt.Sprintf("⭐ +%d XP (total %d)\n", a.Amount, a.Total)
	if a.RankedUp {
		line += fmt.Sprintf("🎖️ %s is now <b>%s</b>!\n", displayName(a.UserID, name), a.After.Title())
	}
	return line
}

func RenderLeaderboard(rows []leaderboard.Row) string {
	var sb strings.Builder
	sb.WriteString("🏆 <b>Beach Trivia Leaderboard</b> 🏆\n")
	sb.WriteString("<i>Top Beach Medics by XP</i>\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n%d. <b>%s</b>\nXP: %d | Role: %s\n",
			row.Position, displayName(row.UserID, row.DisplayName), row.XP, row.Rank.Title())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func RenderRank(p *services.Profile, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🩺 <b>%s</b>\n\n", displayName(p.UserID, name))
	fmt.Fprintf(&sb, "XP: %d\n", p.XP)
	fmt.Fprintf(&sb, "Rank: %s\n", p.Rank.Title())
	if p.HasNext {
		fmt.Fprintf(&sb, "Next: %s at %d XP\n", p.Next.Title(), p.Next.MinXP)
	}
	sb.WriteString(p.Progress)
	return sb.String()
}

func displayName(userID, name string) string {
	return security.DisplayName(name, "Player "+userID)
}

func mention(userID, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, security.SanitizeHTML(userID), displayName(userID, name))
}
