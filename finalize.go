package multifile

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
)

// FinalizeChunk applies the constant columns of a per-file mapping onto a
// produced row batch, yielding the projected output batch.
//
// Two input layouts are accepted:
//   - a physical batch whose columns correspond 1:1 to data.ColumnIDs order
//     (what the file decoder produces); physical columns are scattered to
//     their projected positions per data.ColumnMapping, and
//   - an already projected batch (data.OutputSchema width), in which case
//     only the constant slots are rewritten.
//
// Either way every constant slot is bound to a broadcast of the stored
// scalar sized to the batch row count. The operation is idempotent:
// finalizing an already finalized batch with the same mapping yields an
// identical batch. The caller owns the returned record and must Release it;
// the input record is not released.
func FinalizeChunk(mem memory.Allocator, bind *BindData, data *ReaderData, rec arrow.Record) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	out := data.OutputSchema
	if out == nil {
		return nil, fmt.Errorf("finalize chunk: mapping has no output schema: %w", ErrInternal)
	}
	nOut := out.NumFields()
	nRows := rec.NumRows()

	cols := make([]arrow.Array, nOut)
	switch int(rec.NumCols()) {
	case nOut:
		for i := 0; i < nOut; i++ {
			cols[i] = rec.Column(i)
		}
	case len(data.ColumnMapping):
		for c, pos := range data.ColumnMapping {
			cols[pos] = rec.Column(c)
		}
	default:
		return nil, fmt.Errorf("finalize chunk: batch has %d columns, mapping expects %d physical or %d projected: %w",
			rec.NumCols(), len(data.ColumnMapping), nOut, ErrInternal)
	}

	var constants []arrow.Array
	defer func() {
		for _, arr := range constants {
			arr.Release()
		}
	}()
	for _, entry := range data.ConstantMap {
		if entry.ColumnID >= nOut {
			return nil, fmt.Errorf("finalize chunk: constant column %d out of range for %d projected columns: %w",
				entry.ColumnID, nOut, ErrInternal)
		}
		arr, err := scalar.MakeArrayFromScalar(entry.Value, int(nRows), mem)
		if err != nil {
			return nil, fmt.Errorf("finalize chunk: failed to broadcast constant for column %d: %w",
				entry.ColumnID, err)
		}
		constants = append(constants, arr)
		cols[entry.ColumnID] = arr
	}

	// structural consistency: every slot filled, uniform row count
	for i, col := range cols {
		if col == nil {
			return nil, fmt.Errorf("finalize chunk: projected column %d was neither read nor constant: %w",
				i, ErrInternal)
		}
		if int64(col.Len()) != nRows {
			return nil, fmt.Errorf("finalize chunk: column %d has %d rows, batch has %d: %w",
				i, col.Len(), nRows, ErrInternal)
		}
	}

	return array.NewRecord(out, cols, nRows), nil
}

// ApplyCasts converts the physical batch columns registered in the cast map
// to their global types. The input batch columns must correspond 1:1 to
// data.ColumnIDs order. Returns the input record unchanged (retained) when
// no casts apply; otherwise the caller owns the returned record.
func ApplyCasts(ctx context.Context, data *ReaderData, rec arrow.Record) (arrow.Record, error) {
	if len(data.CastMap) == 0 {
		rec.Retain()
		return rec, nil
	}
	if int(rec.NumCols()) != len(data.ColumnIDs) {
		return nil, fmt.Errorf("apply casts: batch has %d columns, mapping reads %d: %w",
			rec.NumCols(), len(data.ColumnIDs), ErrInternal)
	}

	fields := make([]arrow.Field, rec.NumCols())
	cols := make([]arrow.Array, rec.NumCols())
	var casted []arrow.Array
	defer func() {
		for _, arr := range casted {
			arr.Release()
		}
	}()
	for c := 0; c < int(rec.NumCols()); c++ {
		fields[c] = rec.Schema().Field(c)
		cols[c] = rec.Column(c)
		target, ok := data.CastMap[data.ColumnIDs[c]]
		if !ok {
			continue
		}
		arr, err := compute.CastArray(ctx, rec.Column(c), compute.SafeCastOptions(target))
		if err != nil {
			return nil, fmt.Errorf("apply casts: column %d to %s: %w", c, target, err)
		}
		casted = append(casted, arr)
		cols[c] = arr
		fields[c].Type = target
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), cols, rec.NumRows()), nil
}
