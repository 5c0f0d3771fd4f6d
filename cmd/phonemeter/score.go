package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/security"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

type scoreOptions struct {
	file    string
	lenient bool
	seed    int64
	pretty  bool
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file and print the report as JSON",
		Example: `  phonemeter score -f answers.yaml
  phonemeter score -f answers.json --lenient --seed 42 --pretty
  cat answers.json | phonemeter score -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Answers file (YAML or JSON), - for stdin")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Substitute defaults for missing answers")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for the weighted random classifier (0 picks one from the clock)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runScore(ctx context.Context, stdin io.Reader, out io.Writer, opts *scoreOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := readAnswers(stdin, opts.file)
	if err != nil {
		return err
	}

	if err := security.NewSecurityMiddleware(security.DefaultSecurityConfig()).ValidatePredictRequest(req); err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	analyzer := analysis.NewAnalyzer(analysis.NewLockedSource(seed))

	var report analysis.Report
	if opts.lenient {
		report, err = analyzer.AnalyzeLenient(ctx, req)
	} else {
		report, err = analyzer.Analyze(ctx, req)
	}
	if err != nil {
		return err
	}

	slog.Debug("Scored answers",
		"file", opts.file,
		"lenient", opts.lenient,
		"seed", seed,
		"prediction", report.EnsembleResult.Prediction,
		"percentage", report.EnsembleResult.AddictionPercentage)

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

// readAnswers decodes JSON for .json files and YAML otherwise
func readAnswers(stdin io.Reader, file string) (*types.PredictRequest, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	req := &types.PredictRequest{}
	if strings.EqualFold(filepath.Ext(file), ".json") {
		err = json.Unmarshal(data, req)
	} else {
		err = yaml.Unmarshal(data, req)
	}
	if err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", file, err)
	}
	return req, nil
}
