package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/k02miu/inner-rag/internal/adapters/driven/console"
	"github.com/k02miu/inner-rag/internal/adapters/driven/localfs"
	"github.com/k02miu/inner-rag/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <path|url>...",
	Short: "Add local files or web pages to the index",
	Long: `Extracts, embeds and indexes each argument. Arguments starting with
http:// or https:// are fetched; anything else is read as a local file
whose type is taken from its extension (pdf, docx, xlsx).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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
	if err := a.withAI(false); err != nil {
		return err
	}

	notifier := console.NewNotifier(cmd.OutOrStdout())
	if ingestJSON {
		notifier = console.NewNotifier(cmd.ErrOrStderr())
	}
	ingestion := a.newIngestion(localfs.NewFileStore(0), notifier)

	results := make([]domain.IngestResult, 0, len(args))
	failed := 0
	for _, arg := range args {
		var result domain.IngestResult
		if isURL(arg) {
			result = ingestion.IngestURL(ctx, domain.Thread{}, arg)
		} else {
			result = ingestion.IngestFile(ctx, domain.Thread{}, localfs.Attachment(arg))
		}
		if !result.Outcome.Succeeded() {
			failed++
		}
		results = append(results, result)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(args))
	}
	return nil
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}
