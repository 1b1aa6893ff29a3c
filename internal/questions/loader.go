package questions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Sheet names of an XLSX bank.
const (
	SheetCases = "cases"
	SheetQuiz  = "quiz"
)

// Load reads a bank file, picking the format from the extension (.yaml, .yml, .json, .xlsx).
func Load(path string) (*Bank, error) {
	var (
		bank *Bank
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		bank, err = decodeFile(path, DecodeYAML)
	case ".json":
		bank, err = decodeFile(path, DecodeJSON)
	case ".xlsx":
		bank, err = LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported question bank format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank %s: %w", path, err)
	}

	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank %s: %w", path, err)
	}
	return bank, nil
}

func decodeFile(path string, decode func(io.Reader) (*Bank, error)) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

// DecodeYAML parses a YAML bank without validating it.
func DecodeYAML(r io.Reader) (*Bank, error) {
	var bank Bank
	if err := yaml.NewDecoder(r).Decode(&bank); err != nil {
		return nil, err
	}
	bank.normalize()
	return &bank, nil
}

// DecodeJSON parses a JSON bank without validating it.
func DecodeJSON(r io.Reader) (*Bank, error) {
	var bank Bank
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&bank); err != nil {
		return nil, err
	}
	bank.normalize()
	return &bank, nil
}

// WriteYAML renders the bank in the format DecodeYAML reads.
func (b *Bank) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// LoadXLSX reads a workbook with a "cases" sheet (case_id, description, answer)
// and a "quiz" sheet (id, prompt, A, B, C, D, answer). Row 1 is a header.
func LoadXLSX(path string) (*Bank, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bank := &Bank{}

	caseRows, err := sheetRows(f, SheetCases)
	if err != nil {
		return nil, err
	}
	for i, row := range caseRows {
		if i == 0 || blankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("sheet %s row %d: want 3 columns, got %d", SheetCases, i+1, len(row))
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: invalid case id %q", SheetCases, i+1, row[0])
		}
		bank.Cases = append(bank.Cases, models.Case{
			ID:          id,
			Description: strings.TrimSpace(row[1]),
			Answer:      strings.TrimSpace(row[2]),
		})
	}

	quizRows, err := sheetRows(f, SheetQuiz)
	if err != nil {
		return nil, err
	}
	for i, row := range quizRows {
		if i == 0 || blankRow(row) {
			continue
		}
		if len(row) < 7 {
			return nil, fmt.Errorf("sheet %s row %d: want 7 columns, got %d", SheetQuiz, i+1, len(row))
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: invalid question id %q", SheetQuiz, i+1, row[0])
		}
		bank.Quiz = append(bank.Quiz, models.Question{
			ID:      id,
			Prompt:  strings.TrimSpace(row[1]),
			Options: []string{strings.TrimSpace(row[2]), strings.TrimSpace(row[3]), strings.TrimSpace(row[4]), strings.TrimSpace(row[5])},
			Answer:  models.Choice(strings.TrimSpace(row[6])),
		})
	}

	bank.normalize()
	return bank, nil
}

// sheetRows finds a sheet by case-insensitive name.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	for _, sheet := range f.GetSheetList() {
		if strings.EqualFold(sheet, name) {
			return f.GetRows(sheet)
		}
	}
	return nil, fmt.Errorf("sheet %q not found", name)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
