package deploy

import "fmt"

// ProjectNotFoundError is returned when the project path does not exist or
// is not a directory. Nothing has been uploaded when this is returned.
type ProjectNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project path %q does not exist", e.Path)
}

// BootstrapError is returned when the repository, branch, or initial commit
// cannot be established. Bootstrap failure is fatal for the run — nothing
// downstream can proceed without a valid ref.
type BootstrapError struct {
	Repo string
	Err  error
}

// Error implements the error interface.
func (e BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap repository %q: %v", e.Repo, e.Err)
}

// Unwrap exposes the underlying cause.
func (e BootstrapError) Unwrap() error {
	return e.Err
}

// RunNotFoundError is returned when the requested deployment run does not
// exist in the run store.
type RunNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e RunNotFoundError) Error() string {
	return fmt.Sprintf("run %q not found", e.ID)
}
