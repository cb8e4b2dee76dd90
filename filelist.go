package multifile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FileGlobOptions controls how an empty glob result is treated.
type FileGlobOptions int

const (
	// GlobDisallowEmpty reports ErrIO when the expanded file list is empty.
	GlobDisallowEmpty FileGlobOptions = iota
	// GlobAllowEmpty permits an empty file list.
	GlobAllowEmpty
)

// GetFileList expands a single path or glob pattern into an ordered,
// deduplicated list of files. The name argument identifies the calling table
// function and is used in error messages only.
//
// Returns ErrPermission when external access is disabled, ErrInvalidInput for
// an empty pattern, and ErrIO when the result is empty under
// GlobDisallowEmpty.
func (r *Reader) GetFileList(ctx context.Context, pattern, name string, opts FileGlobOptions) ([]string, error) {
	return r.GetFileLists(ctx, []string{pattern}, name, opts)
}

// GetFileLists is the list call shape of GetFileList: every pattern is
// expanded in order and the results are concatenated, preserving first
// occurrence order across patterns.
func (r *Reader) GetFileLists(ctx context.Context, patterns []string, name string, opts FileGlobOptions) ([]string, error) {
	if r.disableExternalAccess {
		return nil, fmt.Errorf("scanning %s files is disabled through configuration: %w", name, ErrPermission)
	}
	if patterns == nil {
		return nil, fmt.Errorf("%s reader cannot take a NULL list as parameter: %w", name, ErrInvalidInput)
	}

	var files []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pattern == "" {
			return nil, fmt.Errorf("%s reader cannot take a NULL input as parameter: %w", name, ErrInvalidInput)
		}
		matches, err := r.expand(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s reader failed to expand %q: %w", name, pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	if len(files) == 0 && opts == GlobDisallowEmpty {
		return nil, fmt.Errorf("%s reader needs at least one file to read: %w", name, ErrIO)
	}
	r.logger.Debug("expanded file list", "function", name, "patterns", len(patterns), "files", len(files))
	return files, nil
}

// expand resolves one pattern. A plain path (no glob metacharacters) is
// returned as-is if it exists; glob patterns are matched and sorted for a
// deterministic file order.
func (r *Reader) expand(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		ok, err := afero.Exists(r.fs, pattern)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []string{pattern}, nil
	}
	matches, err := afero.Glob(r.fs, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
