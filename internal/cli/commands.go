package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Readiness/internal/config"
	"github.com/MikeSquared-Agency/Readiness/internal/enhance"
	"github.com/MikeSquared-Agency/Readiness/internal/export"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type scoredTask struct {
	Task  scoring.Task      `json:"task"`
	Score scoring.TaskScore `json:"score"`
}

func scoreCmd(load configLoader) *cobra.Command {
	var asJSON bool
	var withInsight bool

	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score every task in a task file",
		Long: `Scores each task and prints its composite, category and estimated
monthly hours saved.

Use --enhance to ask the configured enhancement provider for richer reasoning
and tool suggestions. Scores are never changed by enhancement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a, err := assess(cfg, args[0], time.Now())
			if err != nil {
				return err
			}
			if withInsight {
				if err := enrich(cmd.Context(), cfg, a, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			if asJSON {
				out := make([]scoredTask, 0, len(a.session.Tasks))
				for _, t := range a.session.Tasks {
					out = append(out, scoredTask{Task: t, Score: a.session.Scores[t.ID]})
				}
				return writeIndentedJSON(cmd.OutOrStdout(), out)
			}
			return printScores(cmd.OutOrStdout(), a.session, withInsight)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print scores as JSON")
	cmd.Flags().BoolVar(&withInsight, "enhance", false, "enrich reasoning with the configured provider")
	return cmd
}

func printScores(out io.Writer, s *store.Session, withInsight bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tFREQUENCY\tSCORE\tCATEGORY\tHOURS/MONTH")
	for _, t := range s.Tasks {
		score := s.Scores[t.ID]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.1f\n",
			t.ID,
			t.Name,
			t.Frequency.Label(),
			score.FinalScore,
			score.Category,
			scoring.EstimateMonthlyTimeSaved(t, score.FinalScore),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if withInsight {
		for _, t := range s.Tasks {
			score := s.Scores[t.ID]
			fmt.Fprintf(out, "\n%s: %s\n  %s\n", t.ID, score.Reasoning, score.AutomationAdvice)
		}
	}
	return nil
}

// enrich overlays provider insight on each score. A failing task is reported and skipped.
func enrich(ctx context.Context, cfg *config.Config, a *assessment, errOut io.Writer) error {
	enh, err := enhance.New(cfg.Enhancer)
	if err != nil {
		return fmt.Errorf("failed to create enhancer: %w", err)
	}
	if enh == nil {
		return fmt.Errorf("enhancement is not configured: set enhancer.api_key")
	}

	for _, t := range a.session.Tasks {
		score := a.session.Scores[t.ID]
		insight, err := enhanceOne(ctx, enh, cfg.EnhancerTimeout(), t, score)
		if err != nil {
			fmt.Fprintf(errOut, "warning: %s enhancement failed for %s: %v\n", enh.Name(), t.ID, err)
			continue
		}
		a.session.Scores[t.ID] = store.ApplyInsight(score, store.Insight{
			Reasoning:        insight.Reasoning,
			AutomationAdvice: insight.AutomationAdvice,
			SuggestedTools:   insight.SuggestedTools,
		})
	}
	return nil
}

func enhanceOne(ctx context.Context, enh enhance.Enhancer, timeout time.Duration, t scoring.Task, score scoring.TaskScore) (*enhance.Insight, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return enh.Enhance(ctx, enhance.RequestFor(t, score))
}

type explanation struct {
	TaskID     string                   `json:"taskId"`
	FinalScore int                      `json:"finalScore"`
	Category   scoring.Category         `json:"category"`
	Reasoning  string                   `json:"reasoning"`
	Factors    []scoring.Factor         `json:"factors"`
	Weights    scoring.WeightSet        `json:"weights"`
	Tools      []scoring.ToolSuggestion `json:"suggestedTools"`
}

func explainCmd(load configLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain <file> <task-id>",
		Short: "Show the per-criterion breakdown behind a task's score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a, err := assess(cfg, args[0], time.Now())
			if err != nil {
				return err
			}

			var task *scoring.Task
			for i := range a.session.Tasks {
				if a.session.Tasks[i].ID == args[1] {
					task = &a.session.Tasks[i]
				}
			}
			if task == nil {
				return fmt.Errorf("task %q not found in %s", args[1], args[0])
			}

			score := a.session.Scores[task.ID]
			exp := explanation{
				TaskID:     task.ID,
				FinalScore: score.FinalScore,
				Category:   score.Category,
				Reasoning:  score.Reasoning,
				Factors:    a.scorer.Explain(*task),
				Weights:    a.scorer.Weights(),
				Tools:      score.SuggestedTools,
			}
			if asJSON {
				return writeIndentedJSON(cmd.OutOrStdout(), exp)
			}
			return printExplanation(cmd.OutOrStdout(), exp)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}

func printExplanation(out io.Writer, exp explanation) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CRITERION\tSCORE\tWEIGHT\tWEIGHTED\tREASON")
	for _, f := range exp.Factors {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%s\n", f.Name, f.Score, f.Weight, f.Weighted, f.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFinal score: %d (%s)\n%s\n", exp.FinalScore, exp.Category, exp.Reasoning)
	if len(exp.Tools) > 0 {
		fmt.Fprintln(out, "\nSuggested tools:")
		for _, tool := range exp.Tools {
			fmt.Fprintf(out, "  - %s (%s): %s\n", tool.Name, tool.Category, tool.Explanation)
		}
	}
	return nil
}

func summaryCmd(load configLoader) *cobra.Command {
	var asJSON bool
	var hourlyRate float64

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Roll a task file up into category counts and monthly savings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a, err := assess(cfg, args[0], time.Now())
			if err != nil {
				return err
			}

			rate := a.hourlyRate
			if cmd.Flags().Changed("hourly-rate") {
				if hourlyRate < 0 {
					return fmt.Errorf("hourly rate must not be negative")
				}
				rate = &hourlyRate
			}

			sum := export.Summarize(a.session, rate)
			if asJSON {
				return writeIndentedJSON(cmd.OutOrStdout(), sum)
			}
			return printSummary(cmd.OutOrStdout(), sum)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().Float64Var(&hourlyRate, "hourly-rate", 0, "hourly labour cost used for monthly value")
	return cmd
}

func printSummary(out io.Writer, sum export.Summary) error {
	fmt.Fprintf(out, "Tasks: %d (scored %d)\n", sum.TaskCount, sum.ScoredCount)
	fmt.Fprintf(out, "Average score: %.2f\n", sum.AverageScore)
	fmt.Fprintf(out, "Fully automatable: %d  Partially: %d  Not suitable: %d\n",
		sum.Categories[scoring.CategoryFullyAutomatable],
		sum.Categories[scoring.CategoryPartiallyAutomatable],
		sum.Categories[scoring.CategoryNotSuitable],
	)
	fmt.Fprintf(out, "Monthly hours saved: %.2f\n", sum.MonthlyHoursSaved)
	if sum.HourlyRate != nil {
		fmt.Fprintf(out, "Monthly value: %.2f (at %.2f/hour)\n", sum.MonthlyValue, *sum.HourlyRate)
	}

	if len(sum.Tasks) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tSCORE\tHOURS/MONTH\tVALUE/MONTH")
	for _, t := range sum.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n", t.TaskID, t.Name, t.FinalScore, t.MonthlyHoursSaved, t.MonthlyValue)
	}
	return w.Flush()
}

func exportCmd(load configLoader) *cobra.Command {
	var formatFlag string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a CSV or JSON readiness report",
		Long: `Scores the task file and writes a report. Without --out the report goes
to stdout. When --out names a directory, the dated default file name is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			now := time.Now()
			a, err := assess(cfg, args[0], now)
			if err != nil {
				return err
			}

			if outPath == "" {
				return export.Write(cmd.OutOrStdout(), format, a.session, now)
			}
			if info, err := os.Stat(outPath); err == nil && info.IsDir() {
				outPath = filepath.Join(outPath, export.Filename(format, now))
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := export.Write(f, format, a.session, now); err != nil {
				f.Close()
				return fmt.Errorf("write report: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "csv", "report format: csv or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file or directory")
	return cmd
}

func writeIndentedJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
