package multifile

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/afero"
)

func TestBindOptionsFilename(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	fields := []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "value", Type: arrow.PrimitiveTypes.Float64},
	}

	out, bind, err := r.BindOptions(Options{Filename: true}, []string{"a.parquet"}, fields)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d columns, want 3", len(out))
	}
	if out[2].Name != FilenameColumnName || !arrow.TypeEqual(out[2].Type, arrow.BinaryTypes.String) {
		t.Errorf("appended column = %v, want filename utf8", out[2])
	}
	if bind.FilenameIndex != 2 {
		t.Errorf("FilenameIndex = %d, want 2", bind.FilenameIndex)
	}
	if len(fields) != 2 {
		t.Errorf("input slice was modified: %v", fields)
	}
}

func TestBindOptionsFilenameCollision(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	fields := []arrow.Field{{Name: "filename", Type: arrow.BinaryTypes.String}}

	_, _, err := r.BindOptions(Options{Filename: true}, []string{"a.parquet"}, fields)
	if !errors.Is(err, ErrBind) {
		t.Fatalf("err = %v, want ErrBind", err)
	}
	var collision *ColumnCollisionError
	if !errors.As(err, &collision) || collision.Column != FilenameColumnName {
		t.Errorf("err = %v, want ColumnCollisionError for filename", err)
	}
}

func TestBindOptionsHivePartitioning(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	files := []string{
		"/data/year=2024/month=01/a.parquet",
		"/data/year=2024/month=02/b.parquet",
	}
	fields := []arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}

	out, bind, err := r.BindOptions(Options{HivePartitioning: true}, files, fields)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d columns, want 3", len(out))
	}
	want := []PartitionIndex{{Key: "year", Index: 1}, {Key: "month", Index: 2}}
	if len(bind.PartitionIndexes) != 2 || bind.PartitionIndexes[0] != want[0] || bind.PartitionIndexes[1] != want[1] {
		t.Errorf("PartitionIndexes = %v, want %v", bind.PartitionIndexes, want)
	}
	for _, p := range bind.PartitionIndexes {
		if !arrow.TypeEqual(out[p.Index].Type, arrow.BinaryTypes.String) {
			t.Errorf("partition column %q has type %s, want utf8", p.Key, out[p.Index].Type)
		}
	}
}

func TestBindOptionsPartitionOverridesExistingColumn(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	files := []string{"/data/year=2024/a.parquet"}
	fields := []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "year", Type: arrow.PrimitiveTypes.Int32},
	}

	out, bind, err := r.BindOptions(Options{HivePartitioning: true}, files, fields)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d columns, want 2 (no new column appended)", len(out))
	}
	if !arrow.TypeEqual(out[1].Type, arrow.BinaryTypes.String) {
		t.Errorf("overridden column type = %s, want utf8", out[1].Type)
	}
	if len(bind.PartitionIndexes) != 1 || bind.PartitionIndexes[0].Index != 1 {
		t.Errorf("PartitionIndexes = %v, want index 1", bind.PartitionIndexes)
	}
}

func TestBindOptionsPartitionOverrideIsCaseSensitive(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	files := []string{"/data/year=2024/a.parquet"}
	fields := []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "Year", Type: arrow.PrimitiveTypes.Int32},
	}

	// "Year" is not an exact match for the key "year"; a new column is
	// appended and the original column keeps its type
	out, bind, err := r.BindOptions(Options{HivePartitioning: true}, files, fields)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d columns, want 3", len(out))
	}
	if !arrow.TypeEqual(out[1].Type, arrow.PrimitiveTypes.Int32) {
		t.Errorf("existing column type = %s, want untouched int32", out[1].Type)
	}
	if out[2].Name != "year" || !arrow.TypeEqual(out[2].Type, arrow.BinaryTypes.String) {
		t.Errorf("appended column = %v, want year utf8", out[2])
	}
	if len(bind.PartitionIndexes) != 1 || bind.PartitionIndexes[0].Index != 2 {
		t.Errorf("PartitionIndexes = %v, want index 2", bind.PartitionIndexes)
	}
}

func TestBindOptionsPartitionMismatch(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	fields := []arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}

	tests := []struct {
		name  string
		files []string
	}{
		{
			name: "missing key",
			files: []string{
				"/data/year=2024/month=01/a.parquet",
				"/data/year=2024/b.parquet",
			},
		},
		{
			name: "extra key",
			files: []string{
				"/data/year=2024/a.parquet",
				"/data/year=2024/month=01/b.parquet",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.BindOptions(Options{HivePartitioning: true}, tt.files, fields)
			if !errors.Is(err, ErrBind) {
				t.Fatalf("err = %v, want ErrBind", err)
			}
			var mismatch *PartitionMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("err = %v, want PartitionMismatchError", err)
			}
			if mismatch.ReferenceFile != tt.files[0] || mismatch.File != tt.files[1] {
				t.Errorf("error names files %q and %q, want %q and %q",
					mismatch.ReferenceFile, mismatch.File, tt.files[0], tt.files[1])
			}
		})
	}
}

func TestBindOptionsCombined(t *testing.T) {
	r := NewReader(Config{FS: afero.NewMemMapFs()})
	files := []string{"/data/region=eu/a.parquet", "/data/region=us/b.parquet"}
	fields := []arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}

	out, bind, err := r.BindOptions(Options{Filename: true, HivePartitioning: true}, files, fields)
	if err != nil {
		t.Fatal(err)
	}
	// filename is appended before partition columns
	if bind.FilenameIndex != 1 {
		t.Errorf("FilenameIndex = %d, want 1", bind.FilenameIndex)
	}
	if len(bind.PartitionIndexes) != 1 || bind.PartitionIndexes[0] != (PartitionIndex{Key: "region", Index: 2}) {
		t.Errorf("PartitionIndexes = %v", bind.PartitionIndexes)
	}
	if len(out) != 3 {
		t.Errorf("got %d columns, want 3", len(out))
	}
}

func TestBindDataEqual(t *testing.T) {
	a := &BindData{FilenameIndex: 2, PartitionIndexes: []PartitionIndex{{Key: "year", Index: 3}}}
	b := &BindData{FilenameIndex: 2, PartitionIndexes: []PartitionIndex{{Key: "year", Index: 3}}}
	c := &BindData{FilenameIndex: 2, PartitionIndexes: []PartitionIndex{{Key: "year", Index: 4}}}

	if !a.Equal(b) {
		t.Error("identical bind data should compare equal")
	}
	if a.Equal(c) {
		t.Error("differing partition index should compare unequal")
	}
	if a.Equal(nil) {
		t.Error("non-nil should not equal nil")
	}
}
