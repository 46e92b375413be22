package uuidify

import (
	"fmt"
	"strings"
)

// DefaultCount is the number of identifiers requested when the caller has no preference.
const DefaultCount = 1

// Kind identifies which identifier the service should generate
type Kind int

const (
	KindUUIDv1 Kind = iota
	KindUUIDv4
	KindUUIDv7
	KindULID
)

type kindSpec struct {
	algorithm string
	version   string
	single    string
	plural    string
}

var kindSpecs = map[Kind]kindSpec{
	KindUUIDv1: {algorithm: "uuid", version: "v1", single: "uuid", plural: "uuids"},
	KindUUIDv4: {algorithm: "uuid", version: "v4", single: "uuid", plural: "uuids"},
	KindUUIDv7: {algorithm: "uuid", version: "v7", single: "uuid", plural: "uuids"},
	KindULID:   {algorithm: "ulid", version: "ulid", single: "ulid", plural: "ulids"},
}

// String returns the wire version name of the kind
func (k Kind) String() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.version
	}
	return "unknown"
}

// Algorithm returns the algorithm family sent to the service
func (k Kind) Algorithm() string {
	return kindSpecs[k].algorithm
}

// IsUUID reports whether the kind is one of the UUID versions
func (k Kind) IsUUID() bool {
	return kindSpecs[k].algorithm == "uuid"
}

// key returns the envelope key to read for the given requested count
func (k Kind) key(count int) string {
	if count == 1 {
		return kindSpecs[k].single
	}
	return kindSpecs[k].plural
}

// ParseKind maps a user supplied name such as "v4", "uuidv7" or "ulid" to a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "v1", "uuidv1", "uuid-v1":
		return KindUUIDv1, nil
	case "v4", "uuidv4", "uuid-v4":
		return KindUUIDv4, nil
	case "v7", "uuidv7", "uuid-v7":
		return KindUUIDv7, nil
	case "ulid":
		return KindULID, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Request describes a single generation call
type Request struct {
	Kind  Kind
	Count int
}

// Result holds the identifiers returned for one call.
// ID is set when exactly one identifier was requested, IDs otherwise.
type Result struct {
	Kind  Kind
	Count int
	ID    string
	IDs   []string
}

// IsBatch reports whether the result was shaped from the plural key
func (r Result) IsBatch() bool {
	return r.Count != 1
}

// Values returns the identifiers as a slice regardless of shape
func (r Result) Values() []string {
	if r.IsBatch() {
		return r.IDs
	}
	return []string{r.ID}
}
