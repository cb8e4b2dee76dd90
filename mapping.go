package multifile

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/scalar"

	"github.com/hugr-lab/multifile-go/filter"
	"github.com/hugr-lab/multifile-go/hive"
)

// ConstantEntry fixes one projected column to a constant value for an entire
// file. ColumnID is the position in the projected output, not the global
// schema index.
type ConstantEntry struct {
	ColumnID int
	Value    scalar.Scalar
}

// FilterEntry tells the filter evaluator where to find one column's data:
// in the produced batch at Index (IsConstant false), or in the mapping's
// ConstantMap at Index (IsConstant true).
type FilterEntry struct {
	Index      int
	IsConstant bool
}

// ReaderData is the per-file scan mapping: how one file's physical columns
// and synthesized constants fill the projected output. It is computed once
// per file right before the file is scanned and is immutable afterwards;
// files never share ReaderData.
type ReaderData struct {
	// ConstantMap lists projected columns fixed for the whole file.
	ConstantMap []ConstantEntry

	// ColumnMapping holds, per physically read column, its position in the
	// projected output. Order-aligned with ColumnIDs.
	ColumnMapping []int

	// ColumnIDs holds the local physical column indices to read from the
	// file, in the order the decoder must produce them.
	ColumnIDs []int

	// CastMap maps a local column index to the global type its values must
	// be cast to. Only present where local and global types differ.
	CastMap map[int]arrow.DataType

	// FilterMap is built only when filters are supplied; see FilterEntry.
	FilterMap []FilterEntry

	// EmptyColumns is true when the file contributes no physically read
	// columns to the projection.
	EmptyColumns bool

	// OutputSchema is the physical layout of the projected output batch,
	// one field per requested column, in projection order.
	OutputSchema *arrow.Schema
}

// rowIDField is the output field used for the reserved row identifier
// pseudo column.
var rowIDField = arrow.Field{Name: "rowid", Type: arrow.PrimitiveTypes.Int64}

// CreateMapping resolves every requested global column for one file, to
// either a constant value or a local physical column (with an optional
// cast).
//
// columnIDs is the projection: the requested global column indices in output
// order, possibly including RowIDColumnID. filters, when non-nil, additionally
// populates the FilterMap. The invariant
// len(ConstantMap)+len(ColumnMapping) == len(columnIDs) always holds on
// success.
func (r *Reader) CreateMapping(fileName string, local *arrow.Schema, global *arrow.Schema,
	bind *BindData, opts Options, columnIDs []int, filters []filter.Expression) (*ReaderData, error) {
	if bind == nil {
		bind = NewBindData()
	}
	data := &ReaderData{CastMap: make(map[int]arrow.DataType)}

	outFields := make([]arrow.Field, len(columnIDs))
	for i, columnID := range columnIDs {
		if IsRowIDColumnID(columnID) {
			outFields[i] = rowIDField
			continue
		}
		if columnID >= global.NumFields() {
			return nil, fmt.Errorf("create mapping: global column id %d out of range for %d global columns: %w",
				columnID, global.NumFields(), ErrInternal)
		}
		outFields[i] = global.Field(columnID)
	}
	data.OutputSchema = arrow.NewSchema(outFields, nil)

	if err := r.resolveConstants(fileName, local, global, bind, opts, columnIDs, data); err != nil {
		return nil, err
	}
	if err := resolveColumns(fileName, local, global, columnIDs, data); err != nil {
		return nil, err
	}
	data.EmptyColumns = len(data.ColumnIDs) == 0

	if filters != nil {
		data.FilterMap = make([]FilterEntry, global.NumFields())
		for c, pos := range data.ColumnMapping {
			if pos < len(data.FilterMap) {
				data.FilterMap[pos] = FilterEntry{Index: c, IsConstant: false}
			}
		}
		for c, entry := range data.ConstantMap {
			if entry.ColumnID < len(data.FilterMap) {
				data.FilterMap[entry.ColumnID] = FilterEntry{Index: c, IsConstant: true}
			}
		}
	}
	return data, nil
}

// resolveConstants emits the constant entries of the projection: the rowid
// placeholder, the filename column, hive partition values and, under
// union_by_name, typed NULLs for columns the file does not have.
func (r *Reader) resolveConstants(fileName string, local *arrow.Schema, global *arrow.Schema,
	bind *BindData, opts Options, columnIDs []int, data *ReaderData) error {
	var localNames map[string]int
	if opts.UnionByName {
		localNames = nameMap(local)
	}

	var partitions hive.Partitions
	for i, columnID := range columnIDs {
		if IsRowIDColumnID(columnID) {
			data.ConstantMap = append(data.ConstantMap, ConstantEntry{ColumnID: i, Value: scalar.NewInt64Scalar(42)})
			continue
		}
		if columnID == bind.FilenameIndex {
			data.ConstantMap = append(data.ConstantMap, ConstantEntry{ColumnID: i, Value: scalar.NewStringScalar(fileName)})
			continue
		}
		if len(bind.PartitionIndexes) > 0 {
			if partitions == nil {
				partitions = hive.Parse(fileName)
				if len(partitions) != len(bind.PartitionIndexes) {
					return fmt.Errorf("file %q has %d hive partitions, bind data expects %d: %w",
						fileName, len(partitions), len(bind.PartitionIndexes), ErrInternal)
				}
			}
			foundPartition := false
			for _, entry := range bind.PartitionIndexes {
				if columnID != entry.Index {
					continue
				}
				value, ok := partitions.Find(entry.Key)
				if !ok {
					return fmt.Errorf("file %q is missing hive partition key %q validated at bind time: %w",
						fileName, entry.Key, ErrInternal)
				}
				data.ConstantMap = append(data.ConstantMap, ConstantEntry{ColumnID: i, Value: scalar.NewStringScalar(value)})
				foundPartition = true
				break
			}
			if foundPartition {
				continue
			}
		}
		if opts.UnionByName {
			globalField := global.Field(columnID)
			if _, ok := localNames[strings.ToLower(globalField.Name)]; !ok {
				// the file lacks this column entirely: project a typed NULL
				data.ConstantMap = append(data.ConstantMap, ConstantEntry{
					ColumnID: i,
					Value:    scalar.MakeNullScalar(globalField.Type),
				})
				continue
			}
		}
	}
	return nil
}

// resolveColumns maps every non-constant projected column onto a local
// physical column, registering a cast when the stored type differs from the
// global type.
func resolveColumns(fileName string, local *arrow.Schema, global *arrow.Schema,
	columnIDs []int, data *ReaderData) error {
	localNames := nameMap(local)

	constant := make(map[int]struct{}, len(data.ConstantMap))
	for _, entry := range data.ConstantMap {
		constant[entry.ColumnID] = struct{}{}
	}

	for i, columnID := range columnIDs {
		if _, ok := constant[i]; ok {
			continue
		}
		if columnID >= global.NumFields() {
			return fmt.Errorf("create mapping: global column id %d out of range for this file: %w",
				columnID, ErrInternal)
		}
		globalField := global.Field(columnID)
		localID, ok := localNames[strings.ToLower(globalField.Name)]
		if !ok {
			candidates := make([]string, local.NumFields())
			for c := range candidates {
				candidates[c] = local.Field(c).Name
			}
			return &SchemaMismatchError{File: fileName, Column: globalField.Name, Candidates: candidates}
		}
		localField := local.Field(localID)
		if !arrow.TypeEqual(localField.Type, globalField.Type) {
			data.CastMap[localID] = globalField.Type
		}
		data.ColumnMapping = append(data.ColumnMapping, i)
		data.ColumnIDs = append(data.ColumnIDs, localID)
	}
	return nil
}

// nameMap builds a case-insensitive column name lookup for one schema.
// On duplicate names the first column wins.
func nameMap(s *arrow.Schema) map[string]int {
	m := make(map[string]int, s.NumFields())
	for i := 0; i < s.NumFields(); i++ {
		key := strings.ToLower(s.Field(i).Name)
		if _, ok := m[key]; !ok {
			m[key] = i
		}
	}
	return m
}
