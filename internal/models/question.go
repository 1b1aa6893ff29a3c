package models

import (
	"fmt"
	"strings"
)

// Case is an open-answer diagnosis posted to a whole chat.
type Case struct {
	ID          int    `json:"case_id" yaml:"case_id"`
	Description string `json:"description" yaml:"description"`
	Answer      string `json:"answer" yaml:"answer"`
}

// Code renders the case number the way it is announced, e.g. "CASE 007".
func (c Case) Code() string {
	return fmt.Sprintf("CASE %03d", c.ID)
}

// Choice is one of the four letters of a fixed-choice question.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the valid letters in option order.
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// ParseChoice accepts a single letter A-D, case-insensitive, ignoring surrounding whitespace.
func ParseChoice(input string) (Choice, bool) {
	c := Choice(strings.ToUpper(strings.TrimSpace(input)))
	for _, valid := range Choices {
		if c == valid {
			return c, true
		}
	}
	return "", false
}

// Index returns the option position of the choice, or -1.
func (c Choice) Index() int {
	for i, valid := range Choices {
		if c == valid {
			return i
		}
	}
	return -1
}

// Question is a fixed-choice quiz question with exactly four options.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Answer  Choice   `json:"answer" yaml:"answer"`
}

// Validate checks the option count and the answer letter.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %d: prompt is empty", q.ID)
	}
	if len(q.Options) != len(Choices) {
		return fmt.Errorf("question %d: want %d options, got %d", q.ID, len(Choices), len(q.Options))
	}
	if _, ok := ParseChoice(string(q.Answer)); !ok {
		return fmt.Errorf("question %d: invalid answer %q", q.ID, q.Answer)
	}
	return nil
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	c, _ := ParseChoice(string(q.Answer))
	if i := c.Index(); i >= 0 && i < len(q.Options) {
		return q.Options[i]
	}
	return ""
}
