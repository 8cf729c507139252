package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Season represents an NBA season, stored as the end year of the split
// season label ("2024-25" is stored as 2025).
type Season struct {
	ID   int `db:"id"`
	Year int `db:"year"`
}

// SeasonYear converts a provider season label to the stored year.
// "2024-25" -> 2025, a bare "2024" -> 2024.
func SeasonYear(label string) (int, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	switch len(parts) {
	case 1:
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid season label %q: %w", label, err)
		}
		return year, nil
	case 2:
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid season label %q: %w", label, err)
		}
		suffix, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid season label %q: %w", label, err)
		}
		// End year keeps the century of the start year: "1999-00" -> 2000.
		end := (start/100)*100 + suffix
		if end <= start {
			end += 100
		}
		return end, nil
	default:
		return 0, fmt.Errorf("invalid season label %q", label)
	}
}
