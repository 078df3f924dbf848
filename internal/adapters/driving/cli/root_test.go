package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haasp-labs/recall/internal/core/domain"
)

// cliStub implements the driving ports for command tests.
type cliStub struct {
	addCount  int
	addErr    error
	results   []domain.SearchResult
	searchErr error
	stats     domain.Stats

	gotDocID   string
	gotContent string
	gotQuery   string
	gotK       int
	resetCalls int
}

func (s *cliStub) AddDocument(_ context.Context, docID, content string) (int, error) {
	s.gotDocID, s.gotContent = docID, content
	return s.addCount, s.addErr
}

func (s *cliStub) Search(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	s.gotQuery, s.gotK = query, k
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *cliStub) Reset(context.Context) error {
	s.resetCalls++
	return nil
}

func (s *cliStub) Reconcile(context.Context) error { return nil }

func (s *cliStub) Stats(context.Context) (domain.Stats, error) {
	return s.stats, nil
}

// setupTestServices injects a stub engine so commands run without real
// storage. ensureServices sees the populated services and skips its
// bootstrap.
func setupTestServices(stub *cliStub) func() {
	ingestService = stub
	searchService = stub
	adminService = stub
	return func() {
		ingestService = nil
		searchService = nil
		adminService = nil
	}
}

// runCommand executes the root command with args and captures output.
func runCommand(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return buf, rootCmd.Execute()
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "recall", rootCmd.Use)
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"add", "search", "reset", "status", "serve", "watch", "mcp", "tui", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
