package prompts

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadCSVFile reads single prompts from a CSV dataset. The first row names
// the columns; "id" and "prompt" are required, "expected" is optional.
// Every row becomes a single-prompt definition with one user message.
func LoadCSVFile(path string) ([]Prompt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[h] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return nil, fmt.Errorf("csv: %s is missing the id column", path)
	}
	promptCol, ok := cols["prompt"]
	if !ok {
		return nil, fmt.Errorf("csv: %s is missing the prompt column", path)
	}
	expectedCol, hasExpected := cols["expected"]

	prompts := make([]Prompt, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(records[0]) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(records[0]))
		}
		p := Prompt{
			ID:       record[idCol],
			Messages: []Message{{Role: "user", Content: record[promptCol]}},
		}
		if hasExpected && record[expectedCol] != "" {
			expected := record[expectedCol]
			p.Expected = &expected
		}
		prompts = append(prompts, p)
	}

	if len(prompts) == 0 {
		return nil, ErrNoValidPrompts
	}
	return prompts, nil
}
