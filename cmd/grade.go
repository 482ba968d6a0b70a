package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parlo-app/parlo/internal/evaluate"
	"github.com/parlo-app/parlo/internal/oracle"
	"github.com/parlo-app/parlo/internal/store"
	"github.com/spf13/cobra"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Evaluate one learner response",
	Long: `Evaluate a learner response against its reference answer and print the
normalized result. Oracle-graded types read a saved rubric payload with
--payload, or grade live against the configured oracle with --live.

Supported question types: ` + supportedTypesHelp(),
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().String("type", "", "Question type tag (required)")
	gradeCmd.Flags().String("response", "", "Learner's response text (or transcript)")
	gradeCmd.Flags().String("response-file", "", "Read the response text from a file")
	gradeCmd.Flags().String("transcript", "", "Canonical dictation transcript")
	gradeCmd.Flags().String("order", "", "Submitted fragment ids, comma-separated")
	gradeCmd.Flags().String("correct-order", "", "Canonical fragment ids, comma-separated")
	gradeCmd.Flags().String("selected", "", "Selected option ids, comma-separated")
	gradeCmd.Flags().String("correct", "", "Correct option ids, comma-separated")
	gradeCmd.Flags().String("payload", "", "Path to a saved oracle rubric payload (JSON)")
	gradeCmd.Flags().Bool("live", false, "Grade against the configured oracle")
	gradeCmd.Flags().String("prompt", "", "Task prompt shown to the learner (live grading)")
	gradeCmd.Flags().String("reference", "", "Reference/source material (live grading)")
	gradeCmd.Flags().String("language", "English", "Language under test (live grading)")
	gradeCmd.Flags().Bool("json", false, "Print the full evaluation record as JSON")
	_ = gradeCmd.MarkFlagRequired("type")
}

func runGrade(cmd *cobra.Command, args []string) error {
	qtype, _ := cmd.Flags().GetString("type")
	qt := evaluate.QuestionType(qtype)

	responseText, err := readResponse(cmd)
	if err != nil {
		return err
	}

	req := evaluate.Request{
		Type:            qt,
		ResponseText:    responseText,
		SelectedOptions: splitIDs(flagString(cmd, "selected")),
		SubmittedOrder:  splitIDs(flagString(cmd, "order")),
		Reference: evaluate.Reference{
			Transcript: flagString(cmd, "transcript"),
			Order:      splitIDs(flagString(cmd, "correct-order")),
			Options:    splitIDs(flagString(cmd, "correct")),
		},
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	if _, needsOracle := evaluate.FamilyFor(qt); needsOracle {
		payload, err := loadPayload(cmd, qt, req, s)
		if err != nil {
			return err
		}
		req.OraclePayload = payload
	}

	ev, err := evaluate.Evaluate(req)
	if err != nil {
		return err
	}

	if err := persistEvaluation(cmd.Context(), s, ev); err != nil {
		return fmt.Errorf("persist evaluation: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printEvaluationJSON(ev)
	}
	printEvaluation(ev)
	return nil
}

func readResponse(cmd *cobra.Command) (string, error) {
	if path := flagString(cmd, "response-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read response file: %w", err)
		}
		return string(data), nil
	}
	return flagString(cmd, "response"), nil
}

// loadPayload returns the oracle rubric payload from --payload, or grades
// live when --live is set.
func loadPayload(cmd *cobra.Command, qt evaluate.QuestionType, req evaluate.Request, s *store.Store) (json.RawMessage, error) {
	if path := flagString(cmd, "payload"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read payload file: %w", err)
		}
		return json.RawMessage(data), nil
	}

	live, _ := cmd.Flags().GetBool("live")
	if !live {
		return nil, fmt.Errorf("question type %q is oracle-graded: pass --payload or --live", qt)
	}

	cfg := oracle.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if discovered, ok := oracle.DiscoverConfig(); ok {
			cfg = discovered
		} else {
			return nil, fmt.Errorf("oracle not configured: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	provider, err := oracle.NewProvider(ctx, cfg, s.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("create oracle provider: %w", err)
	}

	family, _ := evaluate.FamilyFor(qt)
	grader := oracle.NewGrader(provider, oracle.DefaultGraderConfig())
	payload, err := grader.Grade(ctx, &oracle.GradeRequest{
		Family:     string(family),
		TaskPrompt: flagString(cmd, "prompt"),
		Reference:  flagString(cmd, "reference"),
		Response:   req.ResponseText,
		Language:   flagString(cmd, "language"),
	})
	if err != nil {
		// A failed oracle call still yields a well-formed zero-score
		// record downstream; report what happened and carry on.
		fmt.Fprintf(os.Stderr, "warning: oracle grading failed, scoring as zero: %v\n", err)
		return nil, nil
	}
	return payload, nil
}

func persistEvaluation(ctx context.Context, s *store.Store, ev *evaluate.Evaluation) error {
	details, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	return s.EvaluationRepo().Append(ctx, &store.EvaluationRecord{
		QuestionType: string(ev.Type),
		Stage:        string(ev.Stage),
		Score:        ev.Score,
		MaxScore:     ev.MaxScore,
		Percentage:   ev.Percentage,
		Passed:       ev.Passed,
		IsCorrect:    ev.IsCorrect,
		DetailsJSON:  string(details),
	})
}

func printEvaluation(ev *evaluate.Evaluation) {
	verdict := "FAIL"
	if ev.Passed {
		verdict = "PASS"
	}
	fmt.Printf("%s  %s  %.1f/%.1f (%d%%)\n", ev.Type, verdict, ev.Score, ev.MaxScore, ev.Percentage)

	for _, c := range ev.Components {
		fmt.Printf("  %-18s %.1f/%.1f\n", c.Name, c.Score, c.MaxScore)
	}
	if ev.Feedback != "" {
		fmt.Printf("  feedback: %s\n", ev.Feedback)
	}
	for _, re := range ev.ResolvedErrors {
		fmt.Printf("  %s error at words [%d,%d): %q\n",
			re.Category, re.Span.Start, re.Span.End, re.Text)
	}
	if ev.Dictation != nil {
		d := ev.Dictation
		fmt.Printf("  matched %d, misspelled %d, missing %d, extra %d\n",
			len(d.Matched), len(d.Misspelled), len(d.Missing), len(d.Extra))
	}
	if ev.Order != nil {
		fmt.Printf("  correct pairs: %d/%d\n", ev.Order.CorrectPairs, ev.Order.MaxPairs)
	}
	if ev.Options != nil {
		fmt.Printf("  hits %d, wrong %d, missed %d\n", ev.Options.Hits, ev.Options.Wrong, ev.Options.Missed)
	}
	if ev.Stage == evaluate.StageFailed {
		fmt.Println("  note: oracle payload was malformed; scored as zero")
	}
}

func printEvaluationJSON(ev *evaluate.Evaluation) error {
	out, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func supportedTypesHelp() string {
	types := evaluate.SupportedTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
