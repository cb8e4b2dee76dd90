package multifile

import (
	"strings"

	"github.com/hugr-lab/multifile-go/filter"
	"github.com/hugr-lab/multifile-go/hive"
)

// PruneFileList statically drops files that cannot satisfy the pushed
// filters, using each file's own partition and filename metadata.
//
// tableIndex identifies the scan the filter bindings refer to; columns maps
// a requested column name to its position in the requested column list (the
// same positions filter bindings use). Only predicates fully expressible in
// per-file constants are evaluated; everything else is left untouched for
// runtime filtering. Filters are never removed from the active set here -
// pruning and runtime filtering are independent passes over the same
// predicate.
//
// Returns the retained files and whether any file was pruned (which
// invalidates earlier cardinality estimates).
func (r *Reader) PruneFileList(files []string, opts Options, tableIndex int,
	columns map[string]int, filters []filter.Expression) ([]string, bool) {
	if len(files) == 0 || len(filters) == 0 {
		return files, false
	}
	if !opts.HivePartitioning && !opts.Filename {
		return files, false
	}

	lookup := make(map[string]int, len(columns))
	for name, idx := range columns {
		lookup[strings.ToLower(name)] = idx
	}

	retained := files[:0:0]
	for _, file := range files {
		cols := filter.ConstantColumns{
			TableIndex: tableIndex,
			Values:     constantMetadata(file, opts, lookup),
		}
		keep := true
		for _, f := range filters {
			if filter.Evaluate(f, cols) == filter.ResultFalse {
				keep = false
				break
			}
		}
		if keep {
			retained = append(retained, file)
		}
	}

	if len(retained) != len(files) {
		r.logger.Debug("pruned files with pushed filters",
			"before", len(files), "after", len(retained))
		return retained, true
	}
	return files, false
}

// constantMetadata collects the per-file constant column values referenced
// by the requested columns: hive partition values and the file path itself.
func constantMetadata(file string, opts Options, lookup map[string]int) map[int]string {
	values := make(map[int]string)
	if opts.HivePartitioning {
		for _, part := range hive.Parse(file) {
			if idx, ok := lookup[strings.ToLower(part.Key)]; ok {
				values[idx] = part.Value
			}
		}
	}
	if opts.Filename {
		if idx, ok := lookup[FilenameColumnName]; ok {
			values[idx] = file
		}
	}
	return values
}
