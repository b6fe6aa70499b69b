// Package deploy implements the repository synchronization engine: it walks
// a local project directory and pushes its eligible files to a remote
// GitHub-style repository through the object-level Git data API
// (blobs, trees, commits, refs) rather than a bulk upload endpoint.
//
// A run is strictly sequential. Text files are committed one at a time
// through the contents API; binary files are staged as blobs and committed
// once at the end on a freshly re-resolved branch head. Per-file failures
// are recorded as typed skips and never abort the run; only bootstrap
// failures are fatal.
package deploy

// maxFileSize is the per-file eligibility ceiling. Larger files are never
// collected — they are not counted as skipped.
const maxFileSize int64 = 5 * 1024 * 1024

// fileModeBlob is the git mode for a regular, non-executable file.
const fileModeBlob = "100644"

// FileEntry is one eligible file discovered by Collect.
type FileEntry struct {
	AbsPath string // absolute path on the local filesystem
	RelPath string // slash-separated path relative to the project root, unique per run
	Size    int64
}

// Snapshot is the ordered set of eligible files produced by one collection
// pass. It is built once per run; bootstrap may consume the root README
// entry before the snapshot reaches the engine.
type Snapshot []FileEntry

// RepoHandle identifies the remote repository for a run.
type RepoHandle struct {
	Owner         string
	Name          string
	URL           string
	DefaultBranch string
	JustCreated   bool
}

// BranchRef is the resolved state of the target branch. Every write that
// builds a tree on top of the head must re-resolve this first — the branch
// advances with each text-file commit, and a stale base tree is a
// correctness bug, not an optimization concern.
type BranchRef struct {
	Branch  string
	HeadSHA string
	TreeSHA string
}

// TreeElement is a staged entry for the batched binary commit. Staged
// elements are never partially committed: either the terminal
// create-tree/create-commit/update-ref sequence lands all of them or none
// become reachable (their blobs stay orphaned and harmless).
type TreeElement struct {
	Path    string
	Mode    string
	BlobSHA string
}

// SkipReason says why a single file was left out of the remote tree.
type SkipReason string

// Skip reasons. Not-found signals that drive the create-vs-update decision
// are not skips; these are genuine per-file failures.
const (
	// SkipStaleContent: the remote rejected an update because the
	// optimistic-concurrency token (previous blob SHA) was stale.
	SkipStaleContent SkipReason = "stale-content"
	// SkipTransport: a remote API call failed for this file.
	SkipTransport SkipReason = "transport-error"
	// SkipLocalRead: the file could not be read from the local filesystem.
	SkipLocalRead SkipReason = "local-read-error"
	// SkipBatchCommit: the file's blob was staged but the terminal binary
	// commit sequence failed, so it never became reachable.
	SkipBatchCommit SkipReason = "batch-commit-failed"
)

// Skip records one skipped file with its reason.
type Skip struct {
	Path   string
	Reason SkipReason
}

// Result accumulates the outcome of a run. Counters only ever increase;
// the skip list names each skipped file so callers can tell a stale write
// from a local read failure without guessing from logs.
type Result struct {
	Uploaded int
	Skipped  int
	Skips    []Skip
}

func (r *Result) addUploaded(n int) {
	r.Uploaded += n
}

func (r *Result) addSkip(path string, reason SkipReason) {
	r.Skipped++
	r.Skips = append(r.Skips, Skip{Path: path, Reason: reason})
}
