package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/apps/server/internal/gitignore"
	"github.com/neogit/neogit/apps/server/internal/handler"
	"github.com/neogit/neogit/apps/server/internal/platform/validation"
	"github.com/neogit/neogit/apps/server/internal/readme"
	"github.com/neogit/neogit/pkg/api"
	"github.com/neogit/neogit/schemas"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── Stubs ────────────────────────────────────────────────────────────────────

// stubRepo is a happy-path RepoAPI: an existing repository with one commit
// on main, everything created on demand.
type stubRepo struct {
	seq      int
	refs     map[string]string
	trees    map[string]string
	fileSHAs map[string]string
}

var _ deploy.RepoAPI = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		refs:     map[string]string{"main": "commit-0"},
		trees:    map[string]string{"commit-0": "tree-0"},
		fileSHAs: map[string]string{},
	}
}

func (s *stubRepo) next(kind string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", kind, s.seq)
}

func (s *stubRepo) advance(branch string) {
	commit := s.next("commit")
	s.trees[commit] = s.next("tree")
	s.refs[branch] = commit
}

func (s *stubRepo) GetOrCreateRepo(_ context.Context, name, _ string, _ bool) (*deploy.RepoHandle, error) {
	return &deploy.RepoHandle{Owner: "local", Name: name, URL: "http://mock/" + name, DefaultBranch: "main"}, nil
}

func (s *stubRepo) GetBranchHead(_ context.Context, _, branch string) (string, error) {
	sha, ok := s.refs[branch]
	if !ok {
		return "", deploy.ErrRefNotFound
	}
	return sha, nil
}

func (s *stubRepo) GetCommitTree(_ context.Context, _, commitSHA string) (string, error) {
	return s.trees[commitSHA], nil
}

func (s *stubRepo) CreateBlob(_ context.Context, _ string, _ []byte) (string, error) {
	return s.next("blob"), nil
}

func (s *stubRepo) CreateTree(_ context.Context, _, _ string, _ []deploy.TreeElement) (string, error) {
	return s.next("tree"), nil
}

func (s *stubRepo) CreateCommit(_ context.Context, _, _, treeSHA, _ string) (string, error) {
	commit := s.next("commit")
	s.trees[commit] = treeSHA
	return commit, nil
}

func (s *stubRepo) CreateBranchRef(_ context.Context, _, branch, commitSHA string) error {
	s.refs[branch] = commitSHA
	return nil
}

func (s *stubRepo) UpdateBranchRef(_ context.Context, _, branch, commitSHA string) error {
	s.refs[branch] = commitSHA
	return nil
}

func (s *stubRepo) GetFileSHA(_ context.Context, _, path, _ string) (string, error) {
	sha, ok := s.fileSHAs[path]
	if !ok {
		return "", deploy.ErrFileNotFound
	}
	return sha, nil
}

func (s *stubRepo) CreateFile(_ context.Context, _, path, _ string, _ []byte, branch string) error {
	s.fileSHAs[path] = s.next("blob")
	s.advance(branch)
	return nil
}

func (s *stubRepo) UpdateFile(_ context.Context, _, path, _ string, _ []byte, _, branch string) error {
	s.fileSHAs[path] = s.next("blob")
	s.advance(branch)
	return nil
}

// memRunStore is an in-memory RunStore.
type memRunStore struct {
	runs map[string]api.RunRecord
}

var _ deploy.RunStore = (*memRunStore)(nil)

func newMemRunStore() *memRunStore {
	return &memRunStore{runs: map[string]api.RunRecord{}}
}

func (s *memRunStore) Save(_ context.Context, r api.RunRecord) error {
	s.runs[r.Id] = r
	return nil
}

func (s *memRunStore) Get(_ context.Context, id string) (*api.RunRecord, error) {
	r, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memRunStore) List(_ context.Context) ([]api.RunRecord, error) {
	out := make([]api.RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	return out, nil
}

// ─── Test server builder ──────────────────────────────────────────────────────

type testServer struct {
	router *gin.Engine
	repo   *stubRepo
	runs   *memRunStore
	token  string
}

func buildOptions(ts *testServer) handler.Options {
	log := discardLogger()
	return handler.Options{
		Deployer: deploy.NewDeployer(ts.repo, ts.runs, log),
		Readmes:  readme.NewGenerator(nil, log),
		// The unroutable endpoint forces the builtin pattern fallback.
		Gitignores: gitignore.NewGenerator(log, gitignore.WithEndpoint("http://127.0.0.1:1")),
		Providers:  []string{readme.TemplateProviderName},
		AuthToken:  ts.token,
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{repo: newStubRepo(), runs: newMemRunStore()}
	r := gin.New()
	handler.RegisterRoutes(r, buildOptions(ts), discardLogger())
	ts.router = r
	return ts
}

func newAuthedTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	ts := &testServer{repo: newStubRepo(), runs: newMemRunStore(), token: token}
	r := gin.New()
	handler.RegisterRoutes(r, buildOptions(ts), discardLogger())
	ts.router = r
	return ts
}

func newTestServerWithValidation(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{repo: newStubRepo(), runs: newMemRunStore()}
	mw, err := validation.New(schemas.OpenAPISpec)
	require.NoError(t, err)
	r := gin.New()
	r.Use(mw)
	handler.RegisterRoutes(r, buildOptions(ts), discardLogger())
	ts.router = r
	return ts
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	return ts.doWithAuth(method, path, body, ts.token)
}

func (ts *testServer) doWithAuth(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
