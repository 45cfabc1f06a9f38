package matching

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/matchscore/internal/similarity"
)

var yearsPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Scorer computes match results. It holds no mutable state and is safe for concurrent use
// as long as the injected comparator is.
type Scorer struct {
	cfg        Config
	comparator similarity.Comparator
}

// NewScorer validates the config and binds it to a ready-to-use comparator.
func NewScorer(cfg Config, comparator similarity.Comparator) (*Scorer, error) {
	if comparator == nil {
		return nil, fmt.Errorf("%w: no comparator configured", similarity.ErrComparatorUnavailable)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Scorer{cfg: cfg, comparator: comparator}, nil
}

// Config returns the config the scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score rates candidate against job. It never fails: absent or malformed fields contribute 0.
func (s *Scorer) Score(candidate CandidateProfile, job JobPosting) MatchResult {
	skills := s.matchSkills(parseSkills(candidate.Skills), parseSkills(job.RequiredSkills))

	skill := clamp(skills.ratio)
	education := clamp(educationRatio(candidate.EducationLevel, job.RequiredEducation))
	title := clamp(s.titleRatio(candidate.CurrentTitle, job.JobTitle))
	experience := clamp(experienceRatio(candidate.ExperienceYears, job.MinExperienceYears))

	w := s.cfg.Weights
	total := skill*w.Skill + education*w.Education + title*w.Title + experience*w.Experience

	matched := make([]string, 0, len(skills.exact)+len(skills.approx))
	matched = append(matched, skills.exact...)
	matched = append(matched, skills.approx...)

	return MatchResult{
		TotalScore: round(total, 2),
		Components: Components{
			Skill:      round(skill*100, 1),
			Education:  round(education*100, 1),
			Title:      round(title*100, 1),
			Experience: round(experience*100, 1),
		},
		MatchedSkills: matched,
		MissingSkills: skills.missing,
	}
}

func educationRatio(have, want string) float64 {
	have = strings.ToLower(strings.TrimSpace(have))
	want = strings.ToLower(strings.TrimSpace(want))
	if have == "" || want == "" || have != want {
		return 0
	}
	return 1
}

func (s *Scorer) titleRatio(have, want string) float64 {
	have = strings.TrimSpace(have)
	want = strings.TrimSpace(want)
	if have == "" || want == "" {
		return 0
	}
	return similarity.Ratio(s.comparator, have, want)
}

// experienceRatio is 1 when the candidate meets the minimum, otherwise the fraction of the
// minimum they have. Both values must be present.
func experienceRatio(have, want Years) float64 {
	if strings.TrimSpace(string(have)) == "" || strings.TrimSpace(string(want)) == "" {
		return 0
	}

	haveYears, err := extractYears(string(have))
	if err != nil {
		return 0
	}
	wantYears, err := extractYears(string(want))
	if err != nil {
		return 0
	}

	if haveYears >= wantYears {
		return 1
	}
	return haveYears / math.Max(wantYears, 1)
}

// extractYears parses the first decimal number in text. Text without a number is 0 years.
func extractYears(text string) (float64, error) {
	match := yearsPattern.FindString(text)
	if match == "" {
		return 0, nil
	}
	return strconv.ParseFloat(match, 64)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round rounds v to places decimals, half to even on the exact binary value.
func round(v float64, places int) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return 0
	}
	return out
}
