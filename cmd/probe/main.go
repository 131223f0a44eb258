// Command probe sends texts to a running sentiment API and prints the results.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/duygu-analizi/sentiment-api/internal/client"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
	"github.com/duygu-analizi/sentiment-api/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL string
	var timeout time.Duration
	var examplesFile string
	var noColor bool

	cmd := &cobra.Command{
		Use:           "probe [text...]",
		Short:         "Analyze texts against a running sentiment API",
		Long:          "Sends each argument to POST /api/predict. Without arguments the form examples are sent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := args
			if len(texts) == 0 {
				examples, err := web.LoadExamples(examplesFile)
				if err != nil {
					return err
				}
				texts = examples
			}

			c := client.New(baseURL, timeout)
			if _, err := c.Health(cmd.Context()); err != nil {
				return fmt.Errorf("sentiment api not reachable at %s: %w", baseURL, err)
			}

			rows := probe(cmd.Context(), c, texts)
			render(cmd.OutOrStdout(), rows, !noColor)

			if failed := lo.CountBy(rows, func(r row) bool { return r.Err != nil }); failed > 0 {
				return fmt.Errorf("%d of %d texts failed", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:7860", "sentiment api base url")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().StringVar(&examplesFile, "examples", "", "YAML examples file, embedded list when empty")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

type analyzer interface {
	Analyze(ctx context.Context, text string) (*sentiment.Result, error)
}

func probe(ctx context.Context, a analyzer, texts []string) []row {
	rows := make([]row, 0, len(texts))
	for _, text := range texts {
		result, err := a.Analyze(ctx, text)
		rows = append(rows, row{Text: text, Result: result, Err: err})
	}
	return rows
}
