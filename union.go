package multifile

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// SchemaUnion incrementally merges per-file schemas by column name.
// Apply Add for every file before binding; later files may introduce columns
// unseen in earlier ones. The merged field list is independent of the order
// files are added in: positions follow first appearance, and types are
// widened with MaxLogicalType, which is commutative and associative.
//
// SchemaUnion is not safe for concurrent use; merging is part of the
// single-threaded bind phase.
type SchemaUnion struct {
	fields []arrow.Field
	byName map[string]int // lower-cased name -> index in fields
	files  int
}

// NewSchemaUnion returns an empty schema union.
func NewSchemaUnion() *SchemaUnion {
	return &SchemaUnion{byName: make(map[string]int)}
}

// Add merges one file's fields into the union. A column whose name (matched
// case-insensitively) is already present widens the stored type; a new name
// is appended, keeping the casing of its first appearance. A column absent
// from any merged file is marked nullable, since files without it will carry
// NULLs for it.
func (u *SchemaUnion) Add(fields []arrow.Field) {
	seen := make(map[int]struct{}, len(fields))
	for _, field := range fields {
		key := strings.ToLower(field.Name)
		if idx, ok := u.byName[key]; ok {
			u.fields[idx].Type = MaxLogicalType(u.fields[idx].Type, field.Type)
			u.fields[idx].Nullable = u.fields[idx].Nullable || field.Nullable
			seen[idx] = struct{}{}
			continue
		}
		idx := len(u.fields)
		u.byName[key] = idx
		if u.files > 0 {
			// earlier files lack this column
			field.Nullable = true
		}
		u.fields = append(u.fields, field)
		seen[idx] = struct{}{}
	}
	for i := range u.fields {
		if _, ok := seen[i]; !ok {
			u.fields[i].Nullable = true
		}
	}
	u.files++
}

// Fields returns the merged field list. The returned slice is shared with
// the union; do not modify it while merging continues.
func (u *SchemaUnion) Fields() []arrow.Field { return u.fields }

// numeric ranks for MaxLogicalType. Signedness shares a ladder so that the
// widening result stays independent of argument order.
func numericRank(id arrow.Type) (rank int, unsigned, ok bool) {
	switch id {
	case arrow.INT8:
		return 1, false, true
	case arrow.UINT8:
		return 1, true, true
	case arrow.INT16:
		return 2, false, true
	case arrow.UINT16:
		return 2, true, true
	case arrow.INT32:
		return 3, false, true
	case arrow.UINT32:
		return 3, true, true
	case arrow.INT64:
		return 4, false, true
	case arrow.UINT64:
		return 4, true, true
	}
	return 0, false, false
}

func signedForRank(rank int) arrow.DataType {
	switch rank {
	case 1:
		return arrow.PrimitiveTypes.Int8
	case 2:
		return arrow.PrimitiveTypes.Int16
	case 3:
		return arrow.PrimitiveTypes.Int32
	default:
		return arrow.PrimitiveTypes.Int64
	}
}

func unsignedForRank(rank int) arrow.DataType {
	switch rank {
	case 1:
		return arrow.PrimitiveTypes.Uint8
	case 2:
		return arrow.PrimitiveTypes.Uint16
	case 3:
		return arrow.PrimitiveTypes.Uint32
	default:
		return arrow.PrimitiveTypes.Uint64
	}
}

// MaxLogicalType returns the least-upper-bound "compatible type" of a and b:
// the narrowest type both can be widened to without reordering sensitivity.
// Integers widen along their ladder, mixed signedness widens to the signed
// type one step above the unsigned operand, integer/float mixes widen to
// float, and temporal types widen to the finer timestamp. When no common
// numeric or temporal supertype exists the result falls back to VARCHAR
// (utf8), which can represent every value textually.
//
// The function is total, commutative and associative.
func MaxLogicalType(a, b arrow.DataType) arrow.DataType {
	if arrow.TypeEqual(a, b) {
		return a
	}

	aid, bid := a.ID(), b.ID()

	// float beats integer; float64 beats float32
	if aid == arrow.FLOAT64 || bid == arrow.FLOAT64 {
		if isNumericID(aid) && isNumericID(bid) {
			return arrow.PrimitiveTypes.Float64
		}
		return arrow.BinaryTypes.String
	}
	if aid == arrow.FLOAT32 || bid == arrow.FLOAT32 {
		if isNumericID(aid) && isNumericID(bid) {
			// an int64/uint64 mixed with float32 needs the double range
			if ra, _, ok := numericRank(aid); ok && ra == 4 {
				return arrow.PrimitiveTypes.Float64
			}
			if rb, _, ok := numericRank(bid); ok && rb == 4 {
				return arrow.PrimitiveTypes.Float64
			}
			return arrow.PrimitiveTypes.Float32
		}
		return arrow.BinaryTypes.String
	}

	if ra, ua, ok := numericRank(aid); ok {
		if rb, ub, ok := numericRank(bid); ok {
			switch {
			case ua == ub:
				if ra >= rb {
					return pickNumeric(ra, ua)
				}
				return pickNumeric(rb, ub)
			default:
				// mixed signedness: one step above the unsigned operand
				unsignedRank := ra
				signedRank := rb
				if ub {
					unsignedRank = rb
					signedRank = ra
				}
				if unsignedRank >= 4 {
					// no signed integer holds a full uint64
					return arrow.PrimitiveTypes.Float64
				}
				rank := unsignedRank + 1
				if signedRank > rank {
					rank = signedRank
				}
				return signedForRank(rank)
			}
		}
		return arrow.BinaryTypes.String
	}

	if widened, ok := maxTemporalType(a, b); ok {
		return widened
	}

	if aid == arrow.STRING || bid == arrow.STRING {
		return arrow.BinaryTypes.String
	}
	if aid == arrow.LARGE_STRING || bid == arrow.LARGE_STRING {
		return arrow.BinaryTypes.LargeString
	}
	return arrow.BinaryTypes.String
}

func pickNumeric(rank int, unsigned bool) arrow.DataType {
	if unsigned {
		return unsignedForRank(rank)
	}
	return signedForRank(rank)
}

func isNumericID(id arrow.Type) bool {
	if _, _, ok := numericRank(id); ok {
		return true
	}
	return id == arrow.FLOAT32 || id == arrow.FLOAT64
}

// maxTemporalType widens date and timestamp combinations. Two timestamps
// widen to the finer unit; a date mixed with a timestamp widens to the
// timestamp; date32 and date64 widen to date64.
func maxTemporalType(a, b arrow.DataType) (arrow.DataType, bool) {
	aid, bid := a.ID(), b.ID()
	if aid == arrow.TIMESTAMP && bid == arrow.TIMESTAMP {
		at, bt := a.(*arrow.TimestampType), b.(*arrow.TimestampType)
		switch {
		case at.Unit > bt.Unit:
			return at, true
		case bt.Unit > at.Unit:
			return bt, true
		case at.TimeZone == bt.TimeZone:
			return at, true
		default:
			// same unit, differing zones: normalize so the result does not
			// depend on argument order
			return &arrow.TimestampType{Unit: at.Unit, TimeZone: "UTC"}, true
		}
	}
	if aid == arrow.TIMESTAMP && (bid == arrow.DATE32 || bid == arrow.DATE64) {
		return a, true
	}
	if bid == arrow.TIMESTAMP && (aid == arrow.DATE32 || aid == arrow.DATE64) {
		return b, true
	}
	if (aid == arrow.DATE32 && bid == arrow.DATE64) || (aid == arrow.DATE64 && bid == arrow.DATE32) {
		return arrow.FixedWidthTypes.Date64, true
	}
	return nil, false
}
