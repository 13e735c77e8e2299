package state

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode packs the snapshot with msgpack, the compact form the recorder
// stores. Map keys are sorted so equal snapshots encode to equal bytes.
func Encode(snap *Snapshot) ([]byte, error) {
	snap.Version = Version
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode unpacks a snapshot produced by Encode.
func Decode(b []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, Version)
	}
	snap.normalize()
	return &snap, nil
}

// Clone deep-copies a snapshot through the codec.
func Clone(snap *Snapshot) (*Snapshot, error) {
	b, err := Encode(snap)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}
