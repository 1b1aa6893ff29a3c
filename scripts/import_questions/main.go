// Command import_questions converts a question workbook into the YAML bank format.
//
//	go run ./scripts/import_questions -in questions.xlsx -out questions.yaml
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	defer logger.Sync()

	in := flag.String("in", "", "path to the .xlsx workbook with cases and quiz sheets")
	out := flag.String("out", "questions.yaml", "where to write the YAML bank")
	flag.Parse()

	if *in == "" {
		log.Fatal("-in is required")
	}

	bank, err := questions.LoadXLSX(*in)
	if err != nil {
		logger.Fatal("Failed to read workbook", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("Failed to create output file", err)
	}
	defer f.Close()

	if err := bank.WriteYAML(f); err != nil {
		logger.Fatal("Failed to write YAML", err)
	}

	logger.Info("Import completed", "cases", len(bank.Cases), "quiz", len(bank.Quiz), "out", *out)
}
