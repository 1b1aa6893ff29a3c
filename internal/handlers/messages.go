package handlers

const (
	MsgRateLimited     = "⏳ Slow down a little! Try again in a minute."
	MsgAllCasesSolved  = "All cases have already been solved!"
	MsgCaseAlreadyOpen = "🔍 A case is already open! Solve it before calling the next one."
	MsgQuizAlreadyOpen = "⚠️ You already have a quiz running! Finish it first."
	MsgNoQuestions     = "❌ There are no quiz questions right now."
	MsgGroupOnly       = "This command can only be used in a group."
	MsgNoXPData        = "No XP data found yet!"
	MsgSomethingWrong  = "❌ Something went wrong. Please try again later."
)

const MsgHelp = "🏖️ <b>Beach Trivia</b>\n\n" +
	"/beachcase - post a beach emergency case for everyone to guess\n" +
	"/quiz - start your personal first-aid quiz\n" +
	"/leaderboard - show the top beach medics of this group\n" +
	"/xp - show your XP and rank\n" +
	"/help - show this message"
