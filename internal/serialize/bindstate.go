// Package serialize persists multi-file bind state (options and injected
// column indexes) for plan caching and distribution. Values are encoded as
// field-tagged MessagePack inside a small versioned envelope, with the body
// zstd-compressed so serialized plans stay compact on the wire.
package serialize

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the current bind-state envelope version.
const Version = 1

// envelope wraps a serialized body with its format version. Field tags keep
// the layout stable; unknown future fields are ignored on decode.
type envelope struct {
	Version int    `msgpack:"version"`
	Body    []byte `msgpack:"body"`
}

// Marshal encodes v as field-tagged MessagePack, compresses the body and
// wraps it in a versioned envelope.
func Marshal(v any) ([]byte, error) {
	body, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bind state: %w", err)
	}
	compressed, err := compress(body)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(envelope{Version: Version, Body: compressed})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bind state envelope: %w", err)
	}
	return data, nil
}

// Unmarshal decodes data produced by Marshal into v. The v parameter should
// be a pointer to the target structure.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty bind state data")
	}
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode bind state envelope: %w", err)
	}
	if env.Version != Version {
		return fmt.Errorf("unsupported bind state version %d (expected %d)", env.Version, Version)
	}
	body, err := decompress(env.Body)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode bind state: %w", err)
	}
	return nil
}
