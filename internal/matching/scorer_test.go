package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/matchscore/internal/similarity"
)

// fakeSemantic returns fixed scores for known pairs, in either order.
type fakeSemantic struct {
	scores map[[2]string]float64
	calls  int
}

func (f *fakeSemantic) Kind() similarity.Kind { return similarity.KindSemantic }

func (f *fakeSemantic) Similarity(a, b string) float64 {
	f.calls++
	if v, ok := f.scores[[2]string{a, b}]; ok {
		return v
	}
	return f.scores[[2]string{b, a}]
}

func newLexicalScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(DefaultConfig(), similarity.NewLexical())
	require.NoError(t, err)
	return scorer
}

func TestScoreIdenticalSkills(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{Skills: "Python, SQL"},
		JobPosting{RequiredSkills: "python, sql"},
	)

	assert.Equal(t, 100.0, result.Components.Skill)
	assert.Equal(t, []string{"python", "sql"}, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
	assert.Equal(t, 60.0, result.TotalScore)
}

func TestScoreDisjointSkills(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{Skills: "Java"},
		JobPosting{RequiredSkills: "python"},
	)

	assert.Equal(t, 0.0, result.Components.Skill)
	assert.Empty(t, result.MatchedSkills)
	assert.Equal(t, []string{"python"}, result.MissingSkills)
	assert.Equal(t, 0.0, result.TotalScore)
}

func TestScoreEmptyRequiredSkills(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{Skills: "go, rust"},
		JobPosting{RequiredSkills: ""},
	)

	assert.Equal(t, 0.0, result.Components.Skill)
	assert.Empty(t, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
}

func TestScoreExactMatchSuppressesApproximate(t *testing.T) {
	scorer := newLexicalScorer(t)

	// postgres/postgresql and kubernetes/kubernete clear the lexical cut-off on their own.
	result := scorer.Score(
		CandidateProfile{Skills: "Python, PostgreSQL, Kubernete"},
		JobPosting{RequiredSkills: "python, postgres, kubernetes"},
	)

	assert.Equal(t, []string{"python"}, result.MatchedSkills)
	assert.Equal(t, []string{"postgres", "kubernetes"}, result.MissingSkills)
	assert.Equal(t, 33.3, result.Components.Skill)
	assert.Equal(t, 20.0, result.TotalScore)
}

func TestScoreLexicalApproximateMatch(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{Skills: "PostgreSQL, Kubernete"},
		JobPosting{RequiredSkills: "postgres, kubernetes, java"},
	)

	assert.Equal(t, []string{"postgres", "kubernetes"}, result.MatchedSkills)
	// Approximate matches stay in the missing list: it is the raw set difference.
	assert.Equal(t, []string{"postgres", "kubernetes", "java"}, result.MissingSkills)
	assert.Equal(t, 33.3, result.Components.Skill)
	assert.Equal(t, 20.0, result.TotalScore)
}

func TestScoreSemanticApproximateMatch(t *testing.T) {
	cmp := &fakeSemantic{scores: map[[2]string]float64{
		{"golang", "go"}:         0.9,
		{"kubernetes", "docker"}: 0.82,
	}}
	scorer, err := NewScorer(DefaultConfig(), cmp)
	require.NoError(t, err)

	result := scorer.Score(
		CandidateProfile{Skills: "Go, Docker"},
		JobPosting{RequiredSkills: "golang, kubernetes"},
	)

	// The cut-off is exclusive, so kubernetes/docker at exactly 0.82 does not count.
	assert.Equal(t, []string{"golang"}, result.MatchedSkills)
	assert.Equal(t, []string{"golang", "kubernetes"}, result.MissingSkills)
	assert.Equal(t, 30.0, result.Components.Skill)
	assert.Equal(t, 18.0, result.TotalScore)
}

func TestScoreSemanticNotCalledOnExactOverlap(t *testing.T) {
	cmp := &fakeSemantic{scores: map[[2]string]float64{}}
	scorer, err := NewScorer(DefaultConfig(), cmp)
	require.NoError(t, err)

	scorer.Score(
		CandidateProfile{Skills: "go, sql"},
		JobPosting{RequiredSkills: "go, kafka, redis"},
	)

	assert.Zero(t, cmp.calls)
}

func TestScoreEducation(t *testing.T) {
	scorer := newLexicalScorer(t)

	tests := []struct {
		name   string
		have   string
		want   string
		expect float64
	}{
		{name: "case and whitespace ignored", have: "Bachelor's", want: "bachelor's ", expect: 100},
		{name: "different level", have: "Master's", want: "Bachelor's", expect: 0},
		{name: "candidate missing", have: "", want: "PhD", expect: 0},
		{name: "job missing", have: "PhD", want: "", expect: 0},
		{name: "both blank", have: "  ", want: " ", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(
				CandidateProfile{EducationLevel: tt.have},
				JobPosting{RequiredEducation: tt.want},
			)
			assert.Equal(t, tt.expect, result.Components.Education)
			assert.Equal(t, tt.expect*0.2, result.TotalScore)
		})
	}
}

func TestScoreTitle(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{CurrentTitle: "Data Engineer"},
		JobPosting{JobTitle: "engineer, data"},
	)
	assert.Equal(t, 100.0, result.Components.Title)
	assert.Equal(t, 15.0, result.TotalScore)

	result = scorer.Score(
		CandidateProfile{CurrentTitle: "python"},
		JobPosting{JobTitle: "pythn"},
	)
	assert.Equal(t, 91.0, result.Components.Title)
	assert.Equal(t, 13.65, result.TotalScore)

	result = scorer.Score(CandidateProfile{}, JobPosting{JobTitle: "Data Engineer"})
	assert.Equal(t, 0.0, result.Components.Title)
}

func TestScoreSemanticTitleIsClamped(t *testing.T) {
	cmp := &fakeSemantic{scores: map[[2]string]float64{
		{"Accountant", "Go Developer"}:      -0.2,
		{"Golang Engineer", "Go Developer"}: 0.75,
	}}
	scorer, err := NewScorer(DefaultConfig(), cmp)
	require.NoError(t, err)

	result := scorer.Score(CandidateProfile{CurrentTitle: "Accountant"}, JobPosting{JobTitle: "Go Developer"})
	assert.Equal(t, 0.0, result.Components.Title)

	result = scorer.Score(CandidateProfile{CurrentTitle: " Golang Engineer "}, JobPosting{JobTitle: "Go Developer"})
	assert.Equal(t, 75.0, result.Components.Title)
	assert.Equal(t, 11.25, result.TotalScore)
}

func TestScoreExperience(t *testing.T) {
	scorer := newLexicalScorer(t)

	tests := []struct {
		name   string
		have   Years
		want   Years
		expect float64
	}{
		{name: "partial", have: "3 years", want: "5 years", expect: 60},
		{name: "meets minimum", have: "5", want: "5 years", expect: 100},
		{name: "exceeds minimum", have: "More than 7 years", want: "2.5 yrs", expect: 100},
		{name: "minimum below one year is floored", have: "0.5", want: "0.8", expect: 50},
		{name: "no number in candidate text", have: "junior", want: "2 years", expect: 0},
		{name: "candidate missing", have: "", want: "2 years", expect: 0},
		{name: "job missing", have: "4 years", want: "", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(
				CandidateProfile{ExperienceYears: tt.have},
				JobPosting{MinExperienceYears: tt.want},
			)
			assert.Equal(t, tt.expect, result.Components.Experience)
			assert.InDelta(t, tt.expect*0.05, result.TotalScore, 1e-9)
		})
	}
}

func TestScoreRoundsHalfToEven(t *testing.T) {
	scorer := newLexicalScorer(t)

	tests := []struct {
		name       string
		have, want Years
		experience float64
		total      float64
	}{
		{name: "total tie at two decimals", have: "1", want: "8", experience: 12.5, total: 0.62},
		{name: "component tie at one decimal", have: "1", want: "16", experience: 6.2, total: 0.31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(
				CandidateProfile{ExperienceYears: tt.have},
				JobPosting{MinExperienceYears: tt.want},
			)
			assert.Equal(t, tt.experience, result.Components.Experience)
			assert.Equal(t, tt.total, result.TotalScore)
		})
	}
}

func TestScoreNumericZeroMinimumIsMet(t *testing.T) {
	job, err := DecodeJob(map[string]any{"min_experience_years": 0})
	require.NoError(t, err)
	require.Equal(t, Years("0"), job.MinExperienceYears)

	result := newLexicalScorer(t).Score(CandidateProfile{ExperienceYears: "2 years"}, job)

	assert.Equal(t, 100.0, result.Components.Experience)
	assert.Equal(t, 5.0, result.TotalScore)
}

func TestScoreMissingOptionalFields(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{Skills: "go"},
		JobPosting{RequiredSkills: "go"},
	)

	assert.Equal(t, Components{Skill: 100}, result.Components)
	assert.Equal(t, 60.0, result.TotalScore)
}

func TestScoreFullProfile(t *testing.T) {
	scorer := newLexicalScorer(t)

	result := scorer.Score(
		CandidateProfile{
			Skills:          "Go, Kubernetes, SQL",
			EducationLevel:  "Master's",
			CurrentTitle:    "Backend Engineer",
			ExperienceYears: "3 years",
		},
		JobPosting{
			RequiredSkills:     "go, kubernetes, kafka, sql",
			RequiredEducation:  "master's",
			JobTitle:           "engineer backend",
			MinExperienceYears: "5+ years",
		},
	)

	assert.Equal(t, Components{Skill: 75, Education: 100, Title: 100, Experience: 60}, result.Components)
	assert.Equal(t, []string{"go", "kubernetes", "sql"}, result.MatchedSkills)
	assert.Equal(t, []string{"kafka"}, result.MissingSkills)
	// 0.75*60 + 20 + 15 + 0.6*5
	assert.Equal(t, 83.0, result.TotalScore)
}

func TestScoreIsIdempotent(t *testing.T) {
	scorer := newLexicalScorer(t)

	candidate := CandidateProfile{Skills: "postgresql, python", CurrentTitle: "DBA", ExperienceYears: "2"}
	job := JobPosting{RequiredSkills: "postgres, pythn", JobTitle: "Database Admin", MinExperienceYears: "3"}

	first := scorer.Score(candidate, job)
	second := scorer.Score(candidate, job)

	assert.Equal(t, first, second)
}

func TestScoreZeroExperienceWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skill: 65, Education: 20, Title: 15}

	scorer, err := NewScorer(cfg, similarity.NewLexical())
	require.NoError(t, err)

	result := scorer.Score(
		CandidateProfile{Skills: "go", ExperienceYears: "10"},
		JobPosting{RequiredSkills: "go", MinExperienceYears: "2"},
	)

	assert.Equal(t, 100.0, result.Components.Experience)
	assert.Equal(t, 65.0, result.TotalScore)
}

func TestScoreWeightsNeedNotSumToHundred(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skill: 200, Education: 50}

	scorer, err := NewScorer(cfg, similarity.NewLexical())
	require.NoError(t, err)

	result := scorer.Score(
		CandidateProfile{Skills: "go", EducationLevel: "BSc"},
		JobPosting{RequiredSkills: "go", RequiredEducation: "bsc"},
	)

	assert.Equal(t, 250.0, result.TotalScore)
}

func TestNewScorerValidation(t *testing.T) {
	_, err := NewScorer(DefaultConfig(), nil)
	require.ErrorIs(t, err, similarity.ErrComparatorUnavailable)

	cfg := DefaultConfig()
	cfg.Weights.Title = -1
	_, err = NewScorer(cfg, similarity.NewLexical())
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Thresholds.Semantic = 1.5
	_, err = NewScorer(cfg, similarity.NewLexical())
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Credit.Lexical = 2
	_, err = NewScorer(cfg, similarity.NewLexical())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExtractYears(t *testing.T) {
	tests := []struct {
		input  string
		expect float64
	}{
		{input: "3 years", expect: 3},
		{input: "2.5 yrs", expect: 2.5},
		{input: "More than 5 years", expect: 5},
		{input: "4. years", expect: 4},
		{input: "n/a", expect: 0},
		{input: "", expect: 0},
	}

	for _, tt := range tests {
		got, err := extractYears(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expect, got, "input %q", tt.input)
	}
}

func TestParseSkills(t *testing.T) {
	set := parseSkills(" Go ,go, , SQL,,Machine Learning ")

	assert.Equal(t, []string{"go", "sql", "machine learning"}, set.order)
	assert.True(t, set.has("sql"))
	assert.False(t, set.has("SQL"))
}

func TestCorpusTexts(t *testing.T) {
	texts := CorpusTexts(
		[]CandidateProfile{
			{Skills: "Go, SQL", CurrentTitle: " Backend Engineer "},
			{Skills: "sql, Rust"},
		},
		[]JobPosting{
			{RequiredSkills: "go, kafka", JobTitle: "Backend Engineer"},
		},
	)

	assert.Equal(t, []string{"go", "sql", "Backend Engineer", "rust", "kafka"}, texts)
}
