// Package matching scores how well a candidate profile fits a job posting.
//
// Scoring fuses four signals, each reduced to a 0-1 ratio: skill overlap (exact, or approximate
// through a similarity.Comparator when nothing matches exactly), education category equality,
// title similarity and years of experience. Ratios are weighted in percentage points and summed.
package matching

// RecordID identifies a candidate or job record. Numeric ids are kept as their decimal text.
type RecordID string

// Years holds an experience value that may be free text ("3 years", "More than 5 yrs") or a number.
type Years string

// CandidateProfile is the candidate side of a match. Every field is optional.
type CandidateProfile struct {
	ID              RecordID `mapstructure:"candidate_id" json:"candidate_id,omitempty"`
	Skills          string   `mapstructure:"skills" json:"skills,omitempty"`
	EducationLevel  string   `mapstructure:"education_level" json:"education_level,omitempty"`
	CurrentTitle    string   `mapstructure:"current_title" json:"current_title,omitempty"`
	ExperienceYears Years    `mapstructure:"experience_years" json:"experience_years,omitempty"`
}

// JobPosting is the job side of a match. Every field is optional.
type JobPosting struct {
	ID                 RecordID `mapstructure:"job_id" json:"job_id,omitempty"`
	RequiredSkills     string   `mapstructure:"required_skills" json:"required_skills,omitempty"`
	RequiredEducation  string   `mapstructure:"required_education" json:"required_education,omitempty"`
	JobTitle           string   `mapstructure:"job_title" json:"job_title,omitempty"`
	MinExperienceYears Years    `mapstructure:"min_experience_years" json:"min_experience_years,omitempty"`
}

// Components are the pre-weight component scores on a 0-100 scale, rounded to one decimal.
type Components struct {
	Skill      float64 `json:"skill"`
	Education  float64 `json:"education"`
	Title      float64 `json:"title"`
	Experience float64 `json:"experience"`
}

// MatchResult is the outcome of scoring one candidate against one job.
type MatchResult struct {
	TotalScore    float64    `json:"total_score"`
	Components    Components `json:"component_scores"`
	MatchedSkills []string   `json:"matched_skills"`
	// MissingSkills is the raw set difference of job and candidate skills. A skill credited by
	// approximate matching is still listed here.
	MissingSkills []string `json:"missing_skills"`
}
