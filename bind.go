package multifile

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/multifile-go/hive"
)

// FilenameColumnName is the name of the synthetic column injected by the
// filename option.
const FilenameColumnName = "filename"

// RowIDColumnID is the reserved global column id denoting the engine's row
// identifier pseudo column. It never resolves to a physical column.
const RowIDColumnID = -1

// IsRowIDColumnID reports whether id denotes the row identifier pseudo
// column rather than a position in the global schema.
func IsRowIDColumnID(id int) bool { return id < 0 }

// PartitionIndex records where one hive partition key landed in the global
// schema.
type PartitionIndex struct {
	Key   string
	Index int
}

// BindData is the immutable, plan-level result of schema reconciliation:
// the positions of the columns injected by BindOptions. It is computed once
// at bind time and shared read-only by every per-file task of the scan.
type BindData struct {
	// FilenameIndex is the global position of the synthetic filename column,
	// or -1 when the filename option is off.
	FilenameIndex int

	// PartitionIndexes lists the hive partition keys of the scan in the
	// order they were discovered in the reference file's path, each with its
	// global column position.
	PartitionIndexes []PartitionIndex
}

// NewBindData returns BindData with no injected columns.
func NewBindData() *BindData {
	return &BindData{FilenameIndex: -1}
}

// BindOptions extends a starting schema (one file's schema, or the
// union-by-name merge result) with the columns the options inject, and
// records their positions in BindData.
//
// The filename column is appended first; a pre-existing column literally
// named "filename" is a bind error. Hive partition keys are then taken from
// the first file's path, in discovery order. Every other file must expose
// exactly the same key set; a mismatch is a bind error naming both files.
// A partition key that matches an existing column of exactly that name
// overrides that column's type to VARCHAR and keeps its index, otherwise a
// new VARCHAR column is appended.
//
// The input slice is not modified; the extended field list is returned.
func (r *Reader) BindOptions(opts Options, files []string, fields []arrow.Field) ([]arrow.Field, *BindData, error) {
	bind := NewBindData()
	out := make([]arrow.Field, len(fields))
	copy(out, fields)

	if opts.Filename {
		for _, f := range out {
			if f.Name == FilenameColumnName {
				return nil, nil, &ColumnCollisionError{Column: FilenameColumnName}
			}
		}
		bind.FilenameIndex = len(out)
		out = append(out, arrow.Field{Name: FilenameColumnName, Type: arrow.BinaryTypes.String})
	}

	if opts.HivePartitioning {
		if len(files) == 0 {
			return nil, nil, fmt.Errorf("hive partitioning requires at least one file: %w", ErrBind)
		}
		partitions := hive.Parse(files[0])
		for _, file := range files[1:] {
			filePartitions := hive.Parse(file)
			for _, part := range partitions {
				if _, ok := filePartitions.Find(part.Key); !ok {
					return nil, nil, &PartitionMismatchError{ReferenceFile: files[0], File: file, Key: part.Key}
				}
			}
			if len(filePartitions) != len(partitions) {
				return nil, nil, &PartitionMismatchError{ReferenceFile: files[0], File: file}
			}
		}
		for _, part := range partitions {
			index := -1
			for i, f := range out {
				if f.Name == part.Key {
					index = i
					break
				}
			}
			if index >= 0 {
				// partition column also exists in the file: override its type
				out[index].Type = arrow.BinaryTypes.String
			} else {
				index = len(out)
				out = append(out, arrow.Field{Name: part.Key, Type: arrow.BinaryTypes.String})
			}
			bind.PartitionIndexes = append(bind.PartitionIndexes, PartitionIndex{Key: part.Key, Index: index})
		}
	}

	r.logger.Debug("bound multi-file options",
		"files", len(files),
		"columns", len(out),
		"filename_index", bind.FilenameIndex,
		"partition_keys", len(bind.PartitionIndexes))
	return out, bind, nil
}

// Equal reports field-wise equality of two BindData values.
func (b *BindData) Equal(other *BindData) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.FilenameIndex != other.FilenameIndex || len(b.PartitionIndexes) != len(other.PartitionIndexes) {
		return false
	}
	for i, p := range b.PartitionIndexes {
		if other.PartitionIndexes[i] != p {
			return false
		}
	}
	return true
}
