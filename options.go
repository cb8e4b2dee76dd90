package multifile

import (
	"fmt"
	"strings"
)

// Option names recognized by ParseOption, case-insensitive.
const (
	OptionFilename         = "filename"
	OptionHivePartitioning = "hive_partitioning"
	OptionUnionByName      = "union_by_name"
)

// Options are the multi-file scan knobs shared by every file-backed table
// function.
type Options struct {
	// Filename appends a synthetic VARCHAR column holding each row's source
	// file path.
	Filename bool

	// HivePartitioning parses key=value path segments into extra VARCHAR
	// columns, one per partition key.
	HivePartitioning bool

	// UnionByName merges differing per-file schemas into one global schema by
	// column name, widening types and filling gaps with NULLs.
	UnionByName bool
}

// ParseOption sets the option named by key from value. The key is matched
// case-insensitively. Returns false when the key is not recognized; the
// caller decides whether that is an error. A recognized key with a non-bool
// value is reported as ErrInvalidInput.
func (o *Options) ParseOption(key string, value any) (bool, error) {
	var target *bool
	switch strings.ToLower(key) {
	case OptionFilename:
		target = &o.Filename
	case OptionHivePartitioning:
		target = &o.HivePartitioning
	case OptionUnionByName:
		target = &o.UnionByName
	default:
		return false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return true, fmt.Errorf("%w: option %q expects a boolean, got %T", ErrInvalidInput, key, value)
	}
	*target = b
	return true, nil
}

// BindInfo returns the options as a name-value map for plan introspection.
func (o Options) BindInfo() map[string]any {
	return map[string]any{
		OptionFilename:         o.Filename,
		OptionHivePartitioning: o.HivePartitioning,
		OptionUnionByName:      o.UnionByName,
	}
}
