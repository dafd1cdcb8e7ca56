package provisioning

import "fmt"

// PreconditionError reports that a required artifact or directory is missing
// before a dependent step can run.
type PreconditionError struct {
	// Path is the missing file or directory.
	Path string
	// Err is the failure that left Path missing, if known.
	Err error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("precondition failed: %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("precondition failed: %s not found", e.Path)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
