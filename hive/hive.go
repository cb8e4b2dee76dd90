// Package hive parses hive-style partition metadata out of file paths.
//
// A hive-partitioned layout encodes column values in key=value directory
// segments, e.g. /data/year=2024/month=07/part-0.parquet carries
// year="2024" and month="07". The package only looks at path structure;
// it never touches the filesystem.
package hive

import "strings"

// Partition is a single key=value path segment.
type Partition struct {
	Key   string
	Value string
}

// Partitions is the ordered list of partitions parsed from one path,
// in path order.
type Partitions []Partition

// Parse extracts the ordered key=value segments from path. Both slash styles
// are accepted. Segments without an "=", or with an empty key or value, are
// skipped. Keys keep their original casing.
func Parse(path string) Partitions {
	path = strings.ReplaceAll(path, `\`, "/")
	var parts Partitions
	for _, segment := range strings.Split(path, "/") {
		eq := strings.IndexByte(segment, '=')
		if eq <= 0 || eq == len(segment)-1 {
			continue
		}
		parts = append(parts, Partition{Key: segment[:eq], Value: segment[eq+1:]})
	}
	return parts
}

// Find returns the value for key, matched case-insensitively.
func (p Partitions) Find(key string) (string, bool) {
	for _, part := range p {
		if strings.EqualFold(part.Key, key) {
			return part.Value, true
		}
	}
	return "", false
}

// Keys returns the partition keys in path order.
func (p Partitions) Keys() []string {
	keys := make([]string, len(p))
	for i, part := range p {
		keys[i] = part.Key
	}
	return keys
}
