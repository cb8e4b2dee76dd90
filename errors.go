package multifile

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes returned by the multifile package.
// Use errors.Is to test the class; richer detail is carried by the typed
// errors below, reachable with errors.As.
var (
	// ErrPermission indicates file access is disabled by configuration.
	ErrPermission = errors.New("external file access is disabled")

	// ErrInvalidInput indicates a null or malformed option or path argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates a problem discovered while resolving or mapping a
	// specific file: an empty file list where one was required, or a schema
	// mismatch with no cast or union fallback available.
	ErrIO = errors.New("io error")

	// ErrBind indicates a structural inconsistency discoverable purely from
	// schemas at bind time, such as a filename column collision or a hive
	// partition key-set mismatch between files.
	ErrBind = errors.New("binder error")

	// ErrInternal indicates an invariant violation that is unreachable under
	// correct binding. It signals a programming defect, not bad input, and
	// should be treated as non-recoverable.
	ErrInternal = errors.New("internal error")
)

// ColumnCollisionError is returned when an injected column would collide with
// a column that already exists in the file schema.
type ColumnCollisionError struct {
	Column string
}

func (e *ColumnCollisionError) Error() string {
	return fmt.Sprintf("using filename option on file with column named %q is not supported", e.Column)
}

func (e *ColumnCollisionError) Unwrap() error { return ErrBind }

// PartitionMismatchError is returned when two files in the same scan expose
// different hive partition key sets.
type PartitionMismatchError struct {
	ReferenceFile string
	File          string
	Key           string // missing key, empty when only the cardinality differs
}

func (e *PartitionMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("hive partition mismatch between file %q and %q", e.ReferenceFile, e.File)
	}
	return fmt.Sprintf("hive partition mismatch between file %q and %q: key %q not found",
		e.ReferenceFile, e.File, e.Key)
}

func (e *PartitionMismatchError) Unwrap() error { return ErrBind }

// SchemaMismatchError is returned when a global column cannot be resolved in
// a specific file and no constant fallback applies.
type SchemaMismatchError struct {
	File       string
	Column     string
	Candidates []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("failed to read file %q: schema mismatch in glob: column %q was read from "+
		"the original file, but could not be found in file %q\ncandidate names: %s\n"+
		"if you are trying to read files with different schemas, try setting union_by_name=true",
		e.File, e.Column, e.File, strings.Join(e.Candidates, ", "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrIO }
