// Package report scores candidate and job batches and renders the results as rows.
package report

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/matchscore/internal/matching"
	"github.com/spigell/matchscore/internal/utils"
)

const listSeparator = ", "

// Scorer is the part of matching.Scorer that a sweep needs.
type Scorer interface {
	Score(candidate matching.CandidateProfile, job matching.JobPosting) matching.MatchResult
}

// Row is one scored (candidate, job) pair.
type Row struct {
	CandidateID     string  `json:"candidate_id"`
	JobID           string  `json:"job_id"`
	TotalScore      float64 `json:"total_score"`
	SkillScore      float64 `json:"skill_score"`
	EducationScore  float64 `json:"education_score"`
	TitleScore      float64 `json:"title_score"`
	ExperienceScore float64 `json:"experience_score"`
	MatchedSkills   string  `json:"matched_skills"`
	MissingSkills   string  `json:"missing_skills"`
}

// NewRow flattens a match result. Empty ids are replaced by the record's 1-based position.
func NewRow(candidateID string, candidateIdx int, jobID string, jobIdx int, result matching.MatchResult) Row {
	return Row{
		CandidateID:     idOrPosition(candidateID, candidateIdx),
		JobID:           idOrPosition(jobID, jobIdx),
		TotalScore:      result.TotalScore,
		SkillScore:      result.Components.Skill,
		EducationScore:  result.Components.Education,
		TitleScore:      result.Components.Title,
		ExperienceScore: result.Components.Experience,
		MatchedSkills:   utils.JoinNonEmpty(result.MatchedSkills, listSeparator),
		MissingSkills:   utils.JoinNonEmpty(result.MissingSkills, listSeparator),
	}
}

func idOrPosition(id string, idx int) string {
	if id != "" {
		return id
	}
	return strconv.Itoa(idx + 1)
}

// Sweep scores every candidate against every job with at most workers pairs in flight.
// Rows come back candidate-major in input order.
func Sweep(ctx context.Context, scorer Scorer, candidates []matching.CandidateProfile, jobs []matching.JobPosting, workers int) ([]Row, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if workers <= 0 {
		workers = 1
	}

	rows := make([]Row, len(candidates)*len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

loop:
	for i, candidate := range candidates {
		for j, job := range jobs {
			if gctx.Err() != nil {
				break loop
			}

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[i*len(jobs)+j] = NewRow(string(candidate.ID), i, string(job.ID), j, scorer.Score(candidate, job))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}
