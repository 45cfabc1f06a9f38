package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{
	"candidate_id",
	"job_id",
	"total_score",
	"skill_score",
	"education_score",
	"title_score",
	"experience_score",
	"matched_skills",
	"missing_skills",
}

// ParseFormat normalizes an output format name. Empty means csv.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Write renders rows in the given format.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteCSV writes a header and one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.CandidateID,
			row.JobID,
			formatScore(row.TotalScore),
			formatScore(row.SkillScore),
			formatScore(row.EducationScore),
			formatScore(row.TitleScore),
			formatScore(row.ExperienceScore),
			row.MatchedSkills,
			row.MissingSkills,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteFile renders rows into path, replacing any existing file.
func WriteFile(path, format string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(file, format, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// DumpToTmpFile renders rows into a new temporary file and returns its name.
func DumpToTmpFile(format string, rows []Row) (string, error) {
	file, err := os.CreateTemp("", "matchscore_*."+format)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := Write(file, format, rows); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
