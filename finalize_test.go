package multifile

import (
	"context"
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
	"github.com/spf13/afero"
)

// physicalBatch builds a single int64 column batch as a file decoder would
// produce it.
func physicalBatch(t *testing.T, mem memory.Allocator, values ...int64) arrow.Record {
	t.Helper()
	schema := schemaOf(arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64})
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(values, nil)
	return b.NewRecord()
}

func finalizeMapping(t *testing.T, r *Reader, file string) (*BindData, *ReaderData) {
	t.Helper()
	local := schemaOf(arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64})
	global := schemaOf(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: "filename", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "year", Type: arrow.BinaryTypes.String},
	)
	bind := &BindData{
		FilenameIndex:    1,
		PartitionIndexes: []PartitionIndex{{Key: "year", Index: 2}},
	}
	opts := Options{Filename: true, HivePartitioning: true}
	data, err := r.CreateMapping(file, local, global, bind, opts, []int{0, 1, 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return bind, data
}

func TestFinalizeChunk(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)
	r := NewReader(Config{FS: afero.NewMemMapFs(), Allocator: mem})

	file := "/data/year=2024/part-0.parquet"
	bind, data := finalizeMapping(t, r, file)

	rec := physicalBatch(t, mem, 1, 2, 3)
	defer rec.Release()

	out, err := FinalizeChunk(mem, bind, data, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Release()

	if out.NumCols() != 3 || out.NumRows() != 3 {
		t.Fatalf("out = %d cols x %d rows, want 3x3", out.NumCols(), out.NumRows())
	}
	ids := out.Column(0).(*array.Int64)
	if ids.Value(0) != 1 || ids.Value(2) != 3 {
		t.Errorf("id column = %v", ids)
	}
	names := out.Column(1).(*array.String)
	years := out.Column(2).(*array.String)
	for i := 0; i < 3; i++ {
		if names.Value(i) != file {
			t.Errorf("filename[%d] = %q, want %q", i, names.Value(i), file)
		}
		if years.Value(i) != "2024" {
			t.Errorf("year[%d] = %q, want 2024", i, years.Value(i))
		}
	}
}

func TestFinalizeChunkIdempotent(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)
	r := NewReader(Config{FS: afero.NewMemMapFs(), Allocator: mem})

	bind, data := finalizeMapping(t, r, "/data/year=2024/part-0.parquet")

	rec := physicalBatch(t, mem, 10, 20)
	defer rec.Release()

	once, err := FinalizeChunk(mem, bind, data, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer once.Release()

	twice, err := FinalizeChunk(mem, bind, data, once)
	if err != nil {
		t.Fatal(err)
	}
	defer twice.Release()

	if !array.RecordEqual(once, twice) {
		t.Error("finalizing a finalized batch should not change it")
	}
}

func TestFinalizeChunkNullConstant(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)
	r := NewReader(Config{FS: afero.NewMemMapFs(), Allocator: mem})

	local := schemaOf(arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64})
	global := schemaOf(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: "extra", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	)
	data, err := r.CreateMapping("old.parquet", local, global, nil, Options{UnionByName: true}, []int{0, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	rec := physicalBatch(t, mem, 1, 2)
	defer rec.Release()

	out, err := FinalizeChunk(mem, nil, data, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Release()

	extra := out.Column(1)
	if extra.NullN() != 2 {
		t.Errorf("missing column should be all NULL, got %d nulls of %d", extra.NullN(), extra.Len())
	}
	if !arrow.TypeEqual(extra.DataType(), arrow.PrimitiveTypes.Float64) {
		t.Errorf("missing column type = %s, want float64", extra.DataType())
	}
}

func TestFinalizeChunkLayoutMismatch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)
	r := NewReader(Config{FS: afero.NewMemMapFs(), Allocator: mem})

	bind, data := finalizeMapping(t, r, "/data/year=2024/part-0.parquet")

	schema := schemaOf(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: "junk", Type: arrow.PrimitiveTypes.Int64},
	)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).Append(1)
	b.Field(1).(*array.Int64Builder).Append(2)
	rec := b.NewRecord()
	defer rec.Release()

	_, err := FinalizeChunk(mem, bind, data, rec)
	if !errors.Is(err, ErrInternal) {
		t.Errorf("err = %v, want ErrInternal for unexpected column count", err)
	}
}

func TestFinalizeChunkMissingOutputSchema(t *testing.T) {
	rec := physicalBatch(t, memory.DefaultAllocator, 1)
	defer rec.Release()

	_, err := FinalizeChunk(nil, NewBindData(), &ReaderData{}, rec)
	if !errors.Is(err, ErrInternal) {
		t.Errorf("err = %v, want ErrInternal", err)
	}
}

func TestApplyCasts(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)
	r := NewReader(Config{FS: afero.NewMemMapFs(), Allocator: mem})

	global := schemaOf(arrow.Field{Name: "v", Type: arrow.PrimitiveTypes.Int64})
	local := schemaOf(arrow.Field{Name: "v", Type: arrow.PrimitiveTypes.Int32})

	data, err := r.CreateMapping("a.parquet", local, global, nil, Options{}, []int{0}, nil)
	if err != nil {
		t.Fatal(err)
	}

	b := array.NewRecordBuilder(mem, local)
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2, 3}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	out, err := ApplyCasts(context.Background(), data, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Release()

	col, ok := out.Column(0).(*array.Int64)
	if !ok {
		t.Fatalf("casted column has type %s, want int64", out.Column(0).DataType())
	}
	if col.Value(0) != 1 || col.Value(2) != 3 {
		t.Errorf("casted values = %v", col)
	}
}

func TestApplyCastsNoop(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := physicalBatch(t, mem, 1)
	defer rec.Release()

	out, err := ApplyCasts(context.Background(), &ReaderData{ColumnIDs: []int{0}}, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Release()

	if out != rec {
		t.Error("batch without casts should be returned as-is")
	}
}

func TestMakeConstantArrayTypes(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	arr, err := scalar.MakeArrayFromScalar(scalar.NewInt64Scalar(42), 4, mem)
	if err != nil {
		t.Fatal(err)
	}
	defer arr.Release()

	ints := arr.(*array.Int64)
	for i := 0; i < 4; i++ {
		if ints.Value(i) != 42 {
			t.Fatalf("broadcast[%d] = %d, want 42", i, ints.Value(i))
		}
	}
}
