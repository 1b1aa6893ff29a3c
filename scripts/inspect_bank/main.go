// Command inspect_bank loads a question bank and prints what the bot would serve.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/pkg/utils"
)

func main() {
	path := flag.String("bank", "", "question bank file (.yaml, .json or .xlsx); empty shows the built-in bank")
	flag.Parse()

	bank := questions.Default()
	if *path != "" {
		var err error
		bank, err = questions.Load(*path)
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Cases: %d\n", len(bank.Cases))
	for _, c := range bank.Cases {
		fmt.Printf("  %s  %s -> %s\n", c.Code(), c.Description, utils.TitleCase(c.Answer))
	}

	fmt.Printf("Quiz questions: %d\n", len(bank.Quiz))
	for _, q := range bank.Quiz {
		fmt.Printf("  #%d %s (answer %s: %s)\n", q.ID, q.Prompt, q.Answer, q.CorrectOption())
	}
}
