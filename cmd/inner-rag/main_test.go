package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k02miu/inner-rag/internal/adapters/driven/auth"
	"github.com/k02miu/inner-rag/internal/core/domain"
)

// execute runs rootCmd with args and returns what it wrote to stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "inner-rag version test-version-1.0.0")
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "ingest", "ask", "init-index", "delete", "token", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestTokenCmd_MintsVerifiableToken(t *testing.T) {
	t.Setenv("INNER_RAG_CONFIG", "")
	t.Setenv("JWT_SECRET", "test-secret")

	out, err := execute(t, "token", "--subject", "ops", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.NewAdapter("test-secret").ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.InDelta(t, 3600, claims.ExpiresAt-claims.IssuedAt, 1)
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	t.Setenv("INNER_RAG_CONFIG", "")
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestTokenCmd_RejectsUnknownRole(t *testing.T) {
	t.Setenv("INNER_RAG_CONFIG", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := execute(t, "token", "--role", "root")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/a"))
	assert.True(t, isURL("http://example.com"))
	assert.False(t, isURL("./docs/handbook.pdf"))
	assert.False(t, isURL("ftp://example.com/file"))
}
