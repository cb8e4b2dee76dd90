// Package multifile reconciles the schemas of many independently stored
// files into a single virtual table and plans how each file is read.
//
// The package decides, once per query, what the combined output schema looks
// like, and, once per physical file, how that file's actual columns map onto
// the combined schema - including synthesizing columns that do not physically
// exist in a given file (the file path, hive partition keys, columns missing
// under union-by-name) and recording any type casts needed.
//
// The multifile package simplifies building multi-file table functions by:
//   - Expanding scalar-or-list path/glob arguments into a deduplicated file list
//   - Injecting filename and hive partition columns into the bound schema
//   - Merging heterogeneous per-file schemas by name with type widening
//   - Pruning files from the scan using partition/filename metadata and
//     already-planned filter expressions
//   - Producing an immutable per-file column mapping (constants, physical
//     column ids, cast map, filter map) consumed by the execution layer
//   - Finalizing produced Arrow record batches with broadcast constant columns
//
// # Pipeline
//
// Binding runs once, single threaded, at query compile time:
//
//	r := multifile.NewReader(multifile.Config{})
//	files, _ := r.GetFileList(ctx, "data/*/*.parquet", "parquet", multifile.GlobDisallowEmpty)
//
//	var opts multifile.Options
//	opts.ParseOption("hive_partitioning", true)
//
//	fields, bind, _ := r.BindOptions(opts, files, localFields)
//	files, _ = r.PruneFileList(files, opts, tableIndex, columnLookup, filters)
//
// After binding, the global schema and BindData are immutable and may be
// shared by any number of concurrent per-file tasks:
//
//	data, _ := r.CreateMapping(file, localSchema, globalSchema, bind, opts, columnIDs, filters)
//	rec, _ = multifile.FinalizeChunk(mem, bind, data, rec)
//
// Arrow (github.com/apache/arrow-go) supplies the type system: schemas are
// *arrow.Schema, column types are arrow.DataType, constant column values are
// arrow/scalar values, and row batches are arrow.Record.
//
// Reading and decoding physical file columns is out of scope; the execution
// layer owns I/O and hands produced batches to FinalizeChunk.
package multifile
