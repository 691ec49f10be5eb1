package chunk

import "fmt"

// TransformError reports which chunk and which transformation type failed,
// so the operator can retry a single recommendation or abandon the session.
type TransformError struct {
	ChunkID string
	Type    string
	Err     error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transformation %q failed on chunk %s: %v", e.Type, e.ChunkID, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
