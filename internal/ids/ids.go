// Package ids hands out deterministic UUIDs so restored games reproduce the same identifiers.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// Sequence derives name-based UUIDs from a namespace and a counter.
// Both fields are part of the game snapshot.
type Sequence struct {
	Namespace string `json:"namespace" msgpack:"namespace"`
	Counter   uint64 `json:"counter" msgpack:"counter"`
}

// NewSequence returns a sequence namespaced by seed.
func NewSequence(seed uint64) *Sequence {
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("agency-engine/%d", seed)))
	return &Sequence{Namespace: ns.String()}
}

// Next returns the next id, prefixed by kind for readability in logs.
func (s *Sequence) Next(kind string) string {
	s.Counter++
	ns, err := uuid.Parse(s.Namespace)
	if err != nil {
		ns = uuid.NameSpaceOID
	}
	id := uuid.NewSHA1(ns, []byte(fmt.Sprintf("%s/%d", kind, s.Counter)))
	return kind + "_" + id.String()
}
