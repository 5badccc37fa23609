// Package watcher follows a document tree and reports changed files so
// the session can fold them into the index without a rescan.
package watcher

import "time"

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new document appeared.
	OpCreate Operation = iota
	// OpModify indicates an existing document changed.
	OpModify
	// OpDelete indicates a document was removed.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents one document change.
type FileEvent struct {
	// Path is the absolute path of the document.
	Path string

	// Operation is the type of change.
	Operation Operation

	// Timestamp is when the event was detected.
	Timestamp time.Time
}
