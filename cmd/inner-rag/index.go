package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k02miu/inner-rag/internal/core/services"
)

var initIndexCmd = &cobra.Command{
	Use:   "init-index",
	Short: "Create or update the vector index schema",
	Args:  cobra.NoArgs,
	RunE:  runInitIndex,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>...",
	Short: "Remove documents from the index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(initIndexCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runInitIndex(cmd *cobra.Command, _ []string) error {
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

	if err := services.NewIndexAdmin(a.index, nil, logger).EnsureIndex(ctx); err != nil {
		return err
	}
	cmd.Printf("Index ready (%s, %d dimensions)\n", cfg.Index.Backend, a.dimensions)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	admin := services.NewIndexAdmin(a.index, nil, logger)
	failed := 0
	for _, id := range args {
		if err := admin.DeleteDocument(ctx, id); err != nil {
			cmd.PrintErrf("%s: %v\n", id, err)
			failed++
			continue
		}
		cmd.Printf("Deleted %s\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(args))
	}
	return nil
}
