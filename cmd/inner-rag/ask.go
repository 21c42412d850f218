package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/k02miu/inner-rag/internal/adapters/driven/console"
	"github.com/k02miu/inner-rag/internal/core/domain"
)

var (
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the passages the answer was built from")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.withAI(true); err != nil {
		return err
	}

	notifier := console.NewNotifier(cmd.OutOrStdout())
	if askJSON {
		notifier = console.NewNotifier(cmd.ErrOrStderr())
	}

	result := a.newQuery(notifier).Answer(ctx, domain.Thread{}, strings.Join(args, " "))

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else if askSources && len(result.Sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tSCORE\tTYPE\tSOURCE")
		for i, r := range result.Sources {
			fmt.Fprintf(tw, "%d\t%.3f\t%s\t%s\n", i+1, r.Score, r.Type, r.Source)
		}
		tw.Flush()
	}

	if !result.Outcome.Succeeded() {
		return fmt.Errorf("no answer: %s", result.Outcome)
	}
	return nil
}
