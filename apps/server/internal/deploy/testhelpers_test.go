package deploy_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/pkg/api"
)

// Compile-time interface compliance checks.
var (
	_ deploy.RepoAPI  = (*fakeRepo)(nil)
	_ deploy.RunStore = (*memRunStore)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── fakeRepo ─────────────────────────────────────────────────────────────────

// fakeRepo is an in-memory remote: branch refs, per-branch file SHAs, and
// staged blobs, with per-method error stubs.
type fakeRepo struct {
	repoExists    bool
	emptyRepo     bool
	defaultBranch string

	seq         int
	refs        map[string]string            // branch → head commit SHA
	commitTrees map[string]string            // commit SHA → tree SHA
	fileSHAs    map[string]map[string]string // branch → path → blob SHA
	blobs       map[string][]byte            // staged blob SHA → content

	// call recording
	createdFiles  []string          // "path: message"
	fileContents  map[string][]byte // path → last written content
	updatedFiles  []string
	stagedTrees   [][]deploy.TreeElement
	commitMsgs    []string
	createdRefs   []string // "branch@sha"
	updatedRefs   []string

	// per-method error stubs
	errGetOrCreate     error
	errGetBranchHead   error
	errGetCommitTree   error
	errCreateBlob      error
	errCreateTree      error
	errCreateCommit    error
	errCreateBranchRef error
	errUpdateBranchRef error
	errGetFileSHA      error
	errCreateFile      error
	errUpdateFile      error
}

// newFakeRepo returns an existing repository with one commit on main.
func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		repoExists:    true,
		defaultBranch: "main",
		refs:          map[string]string{"main": "commit-0"},
		commitTrees:   map[string]string{"commit-0": "tree-0"},
		fileSHAs:      map[string]map[string]string{},
		blobs:         map[string][]byte{},
		fileContents:  map[string][]byte{},
	}
}

// newEmptyFakeRepo returns an existing repository with zero commits.
func newEmptyFakeRepo() *fakeRepo {
	f := newFakeRepo()
	f.emptyRepo = true
	f.refs = map[string]string{}
	f.commitTrees = map[string]string{}
	return f
}

// newMissingFakeRepo returns a remote where the repository does not exist
// yet; GetOrCreateRepo will create it empty.
func newMissingFakeRepo() *fakeRepo {
	f := newEmptyFakeRepo()
	f.repoExists = false
	return f
}

func (f *fakeRepo) nextSHA(kind string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", kind, f.seq)
}

// advanceHead simulates a single-file commit moving the branch.
func (f *fakeRepo) advanceHead(branch string) {
	commit := f.nextSHA("commit")
	f.commitTrees[commit] = f.nextSHA("tree")
	f.refs[branch] = commit
}

func (f *fakeRepo) GetOrCreateRepo(_ context.Context, name, _ string, _ bool) (*deploy.RepoHandle, error) {
	if f.errGetOrCreate != nil {
		return nil, f.errGetOrCreate
	}
	created := !f.repoExists
	if created {
		f.repoExists = true
		f.emptyRepo = true
	}
	return &deploy.RepoHandle{
		Owner:         "local",
		Name:          name,
		URL:           "http://mock-github/local/" + name,
		DefaultBranch: f.defaultBranch,
		JustCreated:   created,
	}, nil
}

func (f *fakeRepo) GetBranchHead(_ context.Context, _, branch string) (string, error) {
	if f.errGetBranchHead != nil {
		return "", f.errGetBranchHead
	}
	if f.emptyRepo {
		return "", deploy.ErrRepositoryEmpty
	}
	sha, ok := f.refs[branch]
	if !ok {
		return "", deploy.ErrRefNotFound
	}
	return sha, nil
}

func (f *fakeRepo) GetCommitTree(_ context.Context, _, commitSHA string) (string, error) {
	if f.errGetCommitTree != nil {
		return "", f.errGetCommitTree
	}
	tree, ok := f.commitTrees[commitSHA]
	if !ok {
		return "", fmt.Errorf("unknown commit %q", commitSHA)
	}
	return tree, nil
}

func (f *fakeRepo) CreateBlob(_ context.Context, _ string, content []byte) (string, error) {
	if f.errCreateBlob != nil {
		return "", f.errCreateBlob
	}
	sha := f.nextSHA("blob")
	f.blobs[sha] = content
	return sha, nil
}

func (f *fakeRepo) CreateTree(_ context.Context, _, _ string, elements []deploy.TreeElement) (string, error) {
	if f.errCreateTree != nil {
		return "", f.errCreateTree
	}
	f.stagedTrees = append(f.stagedTrees, elements)
	return f.nextSHA("tree"), nil
}

func (f *fakeRepo) CreateCommit(_ context.Context, _, message, treeSHA, _ string) (string, error) {
	if f.errCreateCommit != nil {
		return "", f.errCreateCommit
	}
	f.commitMsgs = append(f.commitMsgs, message)
	commit := f.nextSHA("commit")
	f.commitTrees[commit] = treeSHA
	return commit, nil
}

func (f *fakeRepo) CreateBranchRef(_ context.Context, _, branch, commitSHA string) error {
	if f.errCreateBranchRef != nil {
		return f.errCreateBranchRef
	}
	f.createdRefs = append(f.createdRefs, branch+"@"+commitSHA)
	f.refs[branch] = commitSHA
	f.emptyRepo = false
	return nil
}

func (f *fakeRepo) UpdateBranchRef(_ context.Context, _, branch, commitSHA string) error {
	if f.errUpdateBranchRef != nil {
		return f.errUpdateBranchRef
	}
	f.updatedRefs = append(f.updatedRefs, branch+"@"+commitSHA)
	f.refs[branch] = commitSHA
	return nil
}

func (f *fakeRepo) GetFileSHA(_ context.Context, _, path, branch string) (string, error) {
	if f.errGetFileSHA != nil {
		return "", f.errGetFileSHA
	}
	sha, ok := f.fileSHAs[branch][path]
	if !ok {
		return "", deploy.ErrFileNotFound
	}
	return sha, nil
}

func (f *fakeRepo) CreateFile(_ context.Context, _, path, message string, content []byte, branch string) error {
	if f.errCreateFile != nil {
		return f.errCreateFile
	}
	f.createdFiles = append(f.createdFiles, path+": "+message)
	f.fileContents[path] = content
	if f.fileSHAs[branch] == nil {
		f.fileSHAs[branch] = map[string]string{}
	}
	f.fileSHAs[branch][path] = f.nextSHA("blob")
	f.emptyRepo = false
	f.advanceHead(branch)
	return nil
}

func (f *fakeRepo) UpdateFile(_ context.Context, _, path, message string, content []byte, prevSHA, branch string) error {
	if f.errUpdateFile != nil {
		return f.errUpdateFile
	}
	if f.fileSHAs[branch][path] != prevSHA {
		return deploy.ErrStaleContent
	}
	f.updatedFiles = append(f.updatedFiles, path+": "+message)
	f.fileContents[path] = content
	f.fileSHAs[branch][path] = f.nextSHA("blob")
	f.advanceHead(branch)
	return nil
}

// seedFile plants an existing file on a branch so updates hit the update path.
func (f *fakeRepo) seedFile(branch, path string) {
	if f.fileSHAs[branch] == nil {
		f.fileSHAs[branch] = map[string]string{}
	}
	f.fileSHAs[branch][path] = f.nextSHA("blob")
}

// ─── memRunStore ──────────────────────────────────────────────────────────────

type memRunStore struct {
	runs  map[string]api.RunRecord
	order []string

	errSave error
	errGet  error
	errList error
}

func newMemRunStore() *memRunStore {
	return &memRunStore{runs: map[string]api.RunRecord{}}
}

func (s *memRunStore) Save(_ context.Context, r api.RunRecord) error {
	if s.errSave != nil {
		return s.errSave
	}
	if _, ok := s.runs[r.Id]; !ok {
		s.order = append(s.order, r.Id)
	}
	s.runs[r.Id] = r
	return nil
}

func (s *memRunStore) Get(_ context.Context, id string) (*api.RunRecord, error) {
	if s.errGet != nil {
		return nil, s.errGet
	}
	r, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memRunStore) List(_ context.Context) ([]api.RunRecord, error) {
	if s.errList != nil {
		return nil, s.errList
	}
	out := make([]api.RunRecord, 0, len(s.runs))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	return out, nil
}
