package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/k02miu/inner-rag/internal/adapters/driven/auth"
	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/services"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the admin API",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleAdmin), "token role (admin, reader)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default admin.token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret is not configured (set JWT_SECRET)")
	}

	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.Admin.TokenTTL
	}

	svc := services.NewAuthService(auth.NewAdapter(cfg.Admin.JWTSecret))
	token, err := svc.IssueToken(context.Background(), tokenSubject, domain.Role(tokenRole), ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
