// Package questions holds the static case and quiz lists the bot asks from.
package questions

import (
	"fmt"
	"strings"

	"github.com/mroshb/beach_trivia_bot/internal/models"
)

// Bank is the immutable question set, fixed at process start.
type Bank struct {
	Cases []models.Case     `json:"cases" yaml:"cases"`
	Quiz  []models.Question `json:"quiz" yaml:"quiz"`
}

// Validate checks IDs are unique and every entry is answerable.
func (b *Bank) Validate() error {
	if len(b.Cases) == 0 {
		return fmt.Errorf("bank has no cases")
	}
	if len(b.Quiz) == 0 {
		return fmt.Errorf("bank has no quiz questions")
	}

	seenCases := make(map[int]bool, len(b.Cases))
	for _, c := range b.Cases {
		if c.ID <= 0 {
			return fmt.Errorf("case id must be positive, got %d", c.ID)
		}
		if seenCases[c.ID] {
			return fmt.Errorf("duplicate case id %d", c.ID)
		}
		seenCases[c.ID] = true
		if strings.TrimSpace(c.Description) == "" {
			return fmt.Errorf("case %d: description is empty", c.ID)
		}
		if strings.TrimSpace(c.Answer) == "" {
			return fmt.Errorf("case %d: answer is empty", c.ID)
		}
	}

	seenQuestions := make(map[int]bool, len(b.Quiz))
	for _, q := range b.Quiz {
		if seenQuestions[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seenQuestions[q.ID] = true
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// normalize canonicalizes answer letters so "b" and "B" are stored alike.
func (b *Bank) normalize() {
	for i := range b.Quiz {
		if c, ok := models.ParseChoice(string(b.Quiz[i].Answer)); ok {
			b.Quiz[i].Answer = c
		}
	}
	for i := range b.Cases {
		b.Cases[i].Answer = strings.TrimSpace(b.Cases[i].Answer)
	}
}

// Default returns the built-in beach first-aid bank.
func Default() *Bank {
	return &Bank{
		Cases: []models.Case{
			{
				ID:          1,
				Description: "🏝️ A child at the beach suddenly begins to scream in pain. His leg shows red tentacle-like marks, and he’s panicking from the sting. What’s your diagnosis?",
				Answer:      "jellyfish sting",
			},
			{
				ID:          2,
				Description: "☀️ A teenager collapses after playing volleyball. He's dizzy, has dry skin, and feels extremely hot. What’s your diagnosis?",
				Answer:      "heat stroke",
			},
			{
				ID:          3,
				Description: "🌊 A surfer is pulled underwater and later found coughing, confused, and breathing strangely. What’s the likely diagnosis?",
				Answer:      "near drowning",
			},
		},
		Quiz: []models.Question{
			{
				ID:      1,
				Prompt:  "🪼 A swimmer was stung by a jellyfish. What should you rinse the area with?",
				Options: []string{"Fresh tap water", "Vinegar or seawater", "A fizzy drink", "Dry sand"},
				Answer:  models.ChoiceB,
			},
			{
				ID:      2,
				Prompt:  "☀️ A beachgoer is confused, hot and has stopped sweating. What comes first?",
				Options: []string{"Hot tea", "A short nap in the sun", "Cool them down and call emergency services", "Wrap them in a towel"},
				Answer:  models.ChoiceC,
			},
			{
				ID:      3,
				Prompt:  "🔥 How long should a minor burn be cooled under cool running water?",
				Options: []string{"About 20 minutes", "5 seconds", "1 minute", "Never, use butter"},
				Answer:  models.ChoiceA,
			},
			{
				ID:      4,
				Prompt:  "🐚 A sea urchin spine is stuck in a foot. Soaking it in what helps with the pain?",
				Options: []string{"Ice water", "Salt", "Cola", "Hot (not scalding) water"},
				Answer:  models.ChoiceD,
			},
			{
				ID:      5,
				Prompt:  "🧴 What is the minimum sunscreen SPF usually recommended for a beach day?",
				Options: []string{"SPF 5", "SPF 30", "SPF 10", "Sunscreen is optional"},
				Answer:  models.ChoiceB,
			},
		},
	}
}
