package multifile

import (
	"fmt"

	"github.com/hugr-lab/multifile-go/internal/serialize"
)

// Wire representations of the persisted bind state. Field tags fix the
// layout; the order matches the documented external interface.

type optionsState struct {
	Filename         bool `msgpack:"filename"`
	HivePartitioning bool `msgpack:"hive_partitioning"`
	UnionByName      bool `msgpack:"union_by_name"`
}

type partitionIndexState struct {
	Key   string `msgpack:"key"`
	Index uint64 `msgpack:"index"`
}

type bindDataState struct {
	FilenameIndex    *uint64               `msgpack:"filename_index"`
	PartitionIndexes []partitionIndexState `msgpack:"partition_indexes"`
}

// Serialize encodes the options for plan persistence.
func (o Options) Serialize() ([]byte, error) {
	return serialize.Marshal(optionsState{
		Filename:         o.Filename,
		HivePartitioning: o.HivePartitioning,
		UnionByName:      o.UnionByName,
	})
}

// DeserializeOptions reverses Options.Serialize.
func DeserializeOptions(data []byte) (Options, error) {
	var state optionsState
	if err := serialize.Unmarshal(data, &state); err != nil {
		return Options{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return Options{
		Filename:         state.Filename,
		HivePartitioning: state.HivePartitioning,
		UnionByName:      state.UnionByName,
	}, nil
}

// Serialize encodes the bind data for plan persistence.
func (b *BindData) Serialize() ([]byte, error) {
	state := bindDataState{}
	if b.FilenameIndex >= 0 {
		idx := uint64(b.FilenameIndex)
		state.FilenameIndex = &idx
	}
	for _, p := range b.PartitionIndexes {
		state.PartitionIndexes = append(state.PartitionIndexes, partitionIndexState{
			Key:   p.Key,
			Index: uint64(p.Index),
		})
	}
	return serialize.Marshal(state)
}

// DeserializeBindData reverses BindData.Serialize.
func DeserializeBindData(data []byte) (*BindData, error) {
	var state bindDataState
	if err := serialize.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	bind := NewBindData()
	if state.FilenameIndex != nil {
		bind.FilenameIndex = int(*state.FilenameIndex)
	}
	for _, p := range state.PartitionIndexes {
		bind.PartitionIndexes = append(bind.PartitionIndexes, PartitionIndex{
			Key:   p.Key,
			Index: int(p.Index),
		})
	}
	return bind, nil
}
