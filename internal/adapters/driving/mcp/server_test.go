package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haasp-labs/recall/internal/core/domain"
)

type stubEngine struct {
	addCount  int
	addErr    error
	results   []domain.SearchResult
	searchErr error
	resetErr  error

	gotDocID string
	gotQuery string
	gotK     int
}

func (s *stubEngine) AddDocument(_ context.Context, docID, _ string) (int, error) {
	s.gotDocID = docID
	return s.addCount, s.addErr
}

func (s *stubEngine) Search(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	s.gotQuery, s.gotK = query, k
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *stubEngine) Reset(context.Context) error { return s.resetErr }

func (s *stubEngine) Reconcile(context.Context) error { return nil }

func (s *stubEngine) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, nil
}

func newTestMCPServer(t *testing.T, stub *stubEngine) *Server {
	t.Helper()
	srv, err := NewServer(&Ports{Ingest: stub, Search: stub, Admin: stub})
	require.NoError(t, err)
	return srv
}

func TestNewServerRequiresPorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service is required")
}

func TestSearchTool(t *testing.T) {
	stub := &stubEngine{results: []domain.SearchResult{
		{DocID: "d1", ChunkText: "the sky is blue", Score: 0.42},
	}}
	srv := newTestMCPServer(t, stub)

	_, out, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "sky", K: 3})
	require.NoError(t, err)

	assert.Equal(t, "sky", stub.gotQuery)
	assert.Equal(t, 3, stub.gotK)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "d1", out.Results[0].DocID)
}

func TestSearchToolDefaultsK(t *testing.T) {
	stub := &stubEngine{}
	srv := newTestMCPServer(t, stub)

	_, _, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "sky"})
	require.NoError(t, err)
	assert.Equal(t, 5, stub.gotK)
}

func TestSearchToolPropagatesError(t *testing.T) {
	stub := &stubEngine{searchErr: domain.ErrInvalidInput}
	srv := newTestMCPServer(t, stub)

	_, _, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "", K: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddDocumentTool(t *testing.T) {
	stub := &stubEngine{addCount: 7}
	srv := newTestMCPServer(t, stub)

	_, out, err := srv.handleAddDocument(context.Background(), nil, AddDocumentInput{
		DocID:   "notes.md",
		Content: "some text",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, out.AddedCount)
	assert.Equal(t, "notes.md", stub.gotDocID)
}

func TestResetTool(t *testing.T) {
	srv := newTestMCPServer(t, &stubEngine{})

	_, out, err := srv.handleReset(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
}

func TestResetToolPropagatesError(t *testing.T) {
	srv := newTestMCPServer(t, &stubEngine{resetErr: errors.New("disk broke")})

	_, _, err := srv.handleReset(context.Background(), nil, struct{}{})
	assert.Error(t, err)
}
