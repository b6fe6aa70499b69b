package main

import (
	"crypto/sha1" //nolint:gosec // git object IDs are SHA-1 by definition
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Errors surfaced by the store; handlers translate them into GitHub-shaped
// HTTP responses.
var (
	errRepoNotFound  = errors.New("repository not found")
	errRepoExists    = errors.New("name already exists on this account")
	errRepoEmpty     = errors.New("Git Repository is empty.")
	errRefNotFound   = errors.New("ref not found")
	errRefExists     = errors.New("reference already exists")
	errNotFastFwd    = errors.New("update is not a fast forward")
	errObjectMissing = errors.New("object not found")
	errShaMismatch   = errors.New("sha does not match")
	errShaRequired   = errors.New("sha is required when updating an existing file")
)

type repoMeta struct {
	Owner       string
	Name        string
	Description string
	Private     bool
}

type commitObj struct {
	Tree    string
	Parents []string
	Message string
}

// repoState is one repository's object database: content-addressed blobs,
// flattened trees (full path → blob SHA), commits, and branch refs.
type repoState struct {
	meta    repoMeta
	blobs   map[string][]byte
	trees   map[string]map[string]string
	commits map[string]commitObj
	refs    map[string]string // branch → commit SHA
}

// gitStore holds every mock repository, keyed by name. A single owner is
// assumed, mirroring how the server binds its adapter to one account.
type gitStore struct {
	mu    sync.RWMutex
	owner string
	repos map[string]*repoState
	seq   int
}

func newGitStore(owner string) *gitStore {
	return &gitStore{owner: owner, repos: make(map[string]*repoState)}
}

func (g *gitStore) createRepo(name, description string, private bool) (*repoMeta, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.repos[name]; ok {
		return nil, errRepoExists
	}
	r := &repoState{
		meta:    repoMeta{Owner: g.owner, Name: name, Description: description, Private: private},
		blobs:   make(map[string][]byte),
		trees:   make(map[string]map[string]string),
		commits: make(map[string]commitObj),
		refs:    make(map[string]string),
	}
	g.repos[name] = r
	return &r.meta, nil
}

func (g *gitStore) getRepo(name string) (*repoMeta, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.repos[name]
	if !ok {
		return nil, errRepoNotFound
	}
	meta := r.meta
	return &meta, nil
}

func (g *gitStore) listRepos() []repoMeta {
	g.mu.RLock()
	defer g.mu.RUnlock()

	metas := make([]repoMeta, 0, len(g.repos))
	for _, r := range g.repos {
		metas = append(metas, r.meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas
}

// getRef resolves a branch to its head commit. An existing repository with
// zero refs reports errRepoEmpty, matching GitHub's 409 behavior.
func (g *gitStore) getRef(repo, branch string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.repos[repo]
	if !ok {
		return "", errRepoNotFound
	}
	if len(r.refs) == 0 {
		return "", errRepoEmpty
	}
	sha, ok := r.refs[branch]
	if !ok {
		return "", errRefNotFound
	}
	return sha, nil
}

func (g *gitStore) createRef(repo, branch, commitSHA string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return errRepoNotFound
	}
	if _, exists := r.refs[branch]; exists {
		return errRefExists
	}
	if _, ok := r.commits[commitSHA]; !ok {
		return errObjectMissing
	}
	r.refs[branch] = commitSHA
	return nil
}

// updateRef moves a branch, accepting only fast-forwards: the current head
// must be an ancestor of the new commit.
func (g *gitStore) updateRef(repo, branch, commitSHA string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return errRepoNotFound
	}
	current, ok := r.refs[branch]
	if !ok {
		return errRefNotFound
	}
	if _, ok := r.commits[commitSHA]; !ok {
		return errObjectMissing
	}
	if !r.isAncestor(current, commitSHA) {
		return errNotFastFwd
	}
	r.refs[branch] = commitSHA
	return nil
}

func (r *repoState) isAncestor(ancestor, descendant string) bool {
	if ancestor == descendant {
		return true
	}
	c, ok := r.commits[descendant]
	if !ok {
		return false
	}
	for _, parent := range c.Parents {
		if r.isAncestor(ancestor, parent) {
			return true
		}
	}
	return false
}

func (g *gitStore) createBlob(repo string, content []byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return "", errRepoNotFound
	}
	sha := blobSHA(content)
	r.blobs[sha] = content
	return sha, nil
}

// createTree layers entries over the base tree. Entries with an empty SHA
// delete the path, as in the real API.
func (g *gitStore) createTree(repo, baseTree string, entries map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return "", errRepoNotFound
	}
	merged := make(map[string]string)
	if baseTree != "" {
		base, ok := r.trees[baseTree]
		if !ok {
			return "", errObjectMissing
		}
		for path, sha := range base {
			merged[path] = sha
		}
	}
	for path, sha := range entries {
		if sha == "" {
			delete(merged, path)
			continue
		}
		merged[path] = sha
	}

	g.seq++
	sha := syntheticSHA("tree", g.seq)
	r.trees[sha] = merged
	return sha, nil
}

func (g *gitStore) createCommit(repo, message, treeSHA string, parents []string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return "", errRepoNotFound
	}
	if _, ok := r.trees[treeSHA]; !ok {
		return "", errObjectMissing
	}
	for _, p := range parents {
		if _, ok := r.commits[p]; !ok {
			return "", errObjectMissing
		}
	}

	g.seq++
	sha := syntheticSHA("commit", g.seq)
	r.commits[sha] = commitObj{Tree: treeSHA, Parents: parents, Message: message}
	return sha, nil
}

func (g *gitStore) getCommit(repo, sha string) (*commitObj, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.repos[repo]
	if !ok {
		return nil, errRepoNotFound
	}
	c, ok := r.commits[sha]
	if !ok {
		return nil, errObjectMissing
	}
	return &c, nil
}

// fileAt returns the blob SHA and content of path at the branch head.
func (g *gitStore) fileAt(repo, branch, path string) (sha string, content []byte, err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, tree, err := g.treeAtLocked(repo, branch)
	if err != nil {
		return "", nil, err
	}
	blob, ok := tree[path]
	if !ok {
		return "", nil, errObjectMissing
	}
	return blob, r.blobs[blob], nil
}

// filesAt returns every path → content pair at the branch head.
func (g *gitStore) filesAt(repo, branch string) (map[string][]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, tree, err := g.treeAtLocked(repo, branch)
	if err != nil {
		return nil, err
	}
	files := make(map[string][]byte, len(tree))
	for path, blob := range tree {
		files[path] = r.blobs[blob]
	}
	return files, nil
}

func (g *gitStore) treeAtLocked(repo, branch string) (*repoState, map[string]string, error) {
	r, ok := g.repos[repo]
	if !ok {
		return nil, nil, errRepoNotFound
	}
	head, ok := r.refs[branch]
	if !ok {
		return nil, nil, errRefNotFound
	}
	return r, r.trees[r.commits[head].Tree], nil
}

// putFile implements the contents-API create/update: one file, one commit,
// branch advanced atomically. prevSHA guards updates against stale reads.
func (g *gitStore) putFile(repo, branch, path, message string, content []byte, prevSHA string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.repos[repo]
	if !ok {
		return errRepoNotFound
	}
	head, ok := r.refs[branch]
	if !ok {
		return errRefNotFound
	}
	baseTree := r.commits[head].Tree
	current := r.trees[baseTree]

	if existing, exists := current[path]; exists {
		if prevSHA == "" {
			return errShaRequired
		}
		if existing != prevSHA {
			return errShaMismatch
		}
	} else if prevSHA != "" {
		return errShaMismatch
	}

	blob := blobSHA(content)
	r.blobs[blob] = content

	merged := make(map[string]string, len(current)+1)
	for p, s := range current {
		merged[p] = s
	}
	merged[path] = blob

	g.seq++
	treeSHA := syntheticSHA("tree", g.seq)
	r.trees[treeSHA] = merged

	g.seq++
	commitSHA := syntheticSHA("commit", g.seq)
	r.commits[commitSHA] = commitObj{Tree: treeSHA, Parents: []string{head}, Message: message}
	r.refs[branch] = commitSHA
	return nil
}

func blobSHA(content []byte) string {
	// Content-addressed like git: blob <len>\0<content>.
	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "blob %d%c", len(content), 0)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func syntheticSHA(kind string, seq int) string {
	h := sha1.Sum([]byte(fmt.Sprintf("%s-%d", kind, seq))) //nolint:gosec
	return hex.EncodeToString(h[:])
}

// normalizeRef reduces the various ref spellings clients send
// ("/refs/heads/main", "refs/heads/main", "heads/main") to the bare branch.
func normalizeRef(ref string) string {
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimPrefix(ref, "refs/")
	return strings.TrimPrefix(ref, "heads/")
}
