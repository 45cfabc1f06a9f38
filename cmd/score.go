package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spigell/matchscore/internal/logger"
	"github.com/spigell/matchscore/internal/matching"
	"github.com/spigell/matchscore/internal/records"
	"github.com/spigell/matchscore/internal/report"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnotherPair = "Score another pair"
	PromptDumpToFile  = "Dump all pairs to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every candidate against every job",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("candidates", "c", "", "candidates file (.csv or .json)")
	scoreCmd.Flags().StringP("jobs", "J", "", "jobs file (.csv or .json)")
	scoreCmd.Flags().StringP("output", "o", "", "output file. Default is a temporary file.")
	scoreCmd.Flags().StringP("format", "f", report.FormatCSV, "output format: csv or json")
	scoreCmd.Flags().IntP("workers", "w", 0, "pairs scored in parallel (default from config)")
	scoreCmd.Flags().BoolP("interactive", "i", false, "choose single pairs to score instead of writing a report")

	scoreCmd.MarkFlagRequired("candidates")
	scoreCmd.MarkFlagRequired("jobs")

	viper.BindPFlag("workers", scoreCmd.Flags().Lookup("workers"))
}

// score is the main command for the cli.
func score(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	logger.Info("starting the matchscore", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format, err := report.ParseFormat(cmd.Flag("format").Value.String())
	if err != nil {
		logger.Fatal("parsing output format", zap.Error(err))
	}

	candidates, err := loadCandidates(cmd.Flag("candidates").Value.String())
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	jobs, err := loadJobs(cmd.Flag("jobs").Value.String())
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	logger.Info("records loaded", zap.Int("candidates", len(candidates)), zap.Int("jobs", len(jobs)))

	setup, err := newComparator(ctx, config.Comparator, matching.CorpusTexts(candidates, jobs), logger)
	if err != nil {
		logger.Fatal("building a comparator", zap.Error(err))
	}
	logger = setup.logger

	scorer, err := matching.NewScorer(config.Matching(), setup.comparator)
	if err != nil {
		logger.Fatal("building a scorer", zap.Error(err))
	}

	if cmd.Flag("interactive").Value.String() == "true" {
		if err := interactive(ctx, scorer, candidates, jobs, format, config.Workers, logger); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
		reportMisses(setup, logger)
		return
	}

	started := time.Now()

	rows, err := report.Sweep(ctx, scorer, candidates, jobs, config.Workers)
	if err != nil {
		logger.Fatal("scoring pairs", zap.Error(err))
	}

	filename, err := writeRows(cmd.Flag("output").Value.String(), format, rows)
	if err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}

	reportMisses(setup, logger)

	logger.Info("scoring completed",
		zap.Int("pairs", len(rows)),
		zap.Int("workers", config.Workers),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("filename", filename),
		zap.String("format", format),
	)
}

func loadCandidates(path string) ([]matching.CandidateProfile, error) {
	raw, err := records.Load(path)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.CandidateProfile, 0, len(raw))
	for i, record := range raw {
		candidate, err := matching.DecodeCandidate(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func loadJobs(path string) ([]matching.JobPosting, error) {
	raw, err := records.Load(path)
	if err != nil {
		return nil, err
	}

	jobs := make([]matching.JobPosting, 0, len(raw))
	for i, record := range raw {
		job, err := matching.DecodeJob(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func writeRows(output, format string, rows []report.Row) (string, error) {
	if output == "" {
		return report.DumpToTmpFile(format, rows)
	}

	if err := report.WriteFile(output, format, rows); err != nil {
		return "", err
	}
	return output, nil
}

func reportMisses(setup *comparatorSetup, logger *zap.Logger) {
	if setup.semantic == nil {
		return
	}

	if misses := setup.semantic.Misses(); misses > 0 {
		logger.Warn("semantic comparator scored texts that were never embedded",
			zap.Int64("misses", misses),
			zap.String("hint", "every compared text should be part of the warm-up corpus"),
		)
	}
}

// interactive lets the user pick single pairs and logs their breakdown.
func interactive(ctx context.Context, scorer *matching.Scorer, candidates []matching.CandidateProfile, jobs []matching.JobPosting, format string, workers int, logger *zap.Logger) error {
	if len(candidates) == 0 || len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "nothing to score"))
		return errExit
	}

	for {
		candidateIdx, err := selectIndex("Choose a candidate and press ENTER", candidateLabels(candidates))
		if err != nil {
			return err
		}

		jobIdx, err := selectIndex("Choose a job and press ENTER", jobLabels(jobs))
		if err != nil {
			return err
		}

		candidate, job := candidates[candidateIdx], jobs[jobIdx]
		result := scorer.Score(candidate, job)
		row := report.NewRow(string(candidate.ID), candidateIdx, string(job.ID), jobIdx, result)

		pretty, _ := json.MarshalIndent(result, "", "  ")
		logger.Info(string(pretty),
			zap.String("candidate_id", row.CandidateID),
			zap.String("job_id", row.JobID),
			zap.Float64("total_score", result.TotalScore),
		)

		next := promptui.Select{
			Label: "Next?",
			Items: []string{PromptAnotherPair, PromptDumpToFile, PromptExit},
		}

		_, action, err := next.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptAnotherPair:
			continue
		case PromptDumpToFile:
			rows, err := report.Sweep(ctx, scorer, candidates, jobs, workers)
			if err != nil {
				return fmt.Errorf("scoring pairs: %w", err)
			}
			filename, err := report.DumpToTmpFile(format, rows)
			if err != nil {
				return fmt.Errorf("dump results to file: %w", err)
			}
			logger.Info("dumping result to file", zap.String("filename", filename), zap.Int("pairs", len(rows)))
		case PromptExit:
			logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func selectIndex(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}

	idx, _, err := prompt.Run()
	return idx, err
}

func candidateLabels(candidates []matching.CandidateProfile) []string {
	labels := make([]string, 0, len(candidates))
	for i, c := range candidates {
		labels = append(labels, fmt.Sprintf("%s / %s / %s", idOrPosition(string(c.ID), i), c.CurrentTitle, c.Skills))
	}
	return labels
}

func jobLabels(jobs []matching.JobPosting) []string {
	labels := make([]string, 0, len(jobs))
	for i, j := range jobs {
		labels = append(labels, fmt.Sprintf("%s / %s / %s", idOrPosition(string(j.ID), i), j.JobTitle, j.RequiredSkills))
	}
	return labels
}

func idOrPosition(id string, idx int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#%d", idx+1)
}

// redacted returns a copy of config without inline api keys, for logging.
func redacted(config *Config) *Config {
	out := *config
	if config.Comparator != nil {
		comparator := *config.Comparator
		comparator.Gemini = redactProvider(comparator.Gemini)
		comparator.OpenAI = redactProvider(comparator.OpenAI)
		out.Comparator = &comparator
	}
	return &out
}

func redactProvider(pc *ProviderConfig) *ProviderConfig {
	if pc == nil {
		return nil
	}
	out := *pc
	if out.APIKey != "" {
		out.APIKey = "***"
	}
	return &out
}
