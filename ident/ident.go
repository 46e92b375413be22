// Package ident inspects identifiers returned by the uuidify service.
//
// It only checks format; it never generates identifiers and never checks
// uniqueness.
package ident

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/uuidify/uuidify-go/uuidify"
)

var (
	// ErrMalformed indicates the value does not parse as the expected identifier
	ErrMalformed = errors.New("malformed identifier")
	// ErrVersionMismatch indicates a UUID of a different version than requested
	ErrVersionMismatch = errors.New("uuid version mismatch")
)

// Info describes a parsed identifier
type Info struct {
	Value   string
	Kind    uuidify.Kind
	Version int
	// Timestamp is zero for identifiers that embed no time (UUIDv4)
	Timestamp time.Time
}

var uuidVersions = map[uuidify.Kind]uuid.Version{
	uuidify.KindUUIDv1: 1,
	uuidify.KindUUIDv4: 4,
	uuidify.KindUUIDv7: 7,
}

// Inspect parses value as an identifier of the given kind
func Inspect(kind uuidify.Kind, value string) (Info, error) {
	if kind == uuidify.KindULID {
		return inspectULID(value)
	}

	want, ok := uuidVersions[kind]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", uuidify.ErrUnknownKind, kind)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q: %v", ErrMalformed, value, err)
	}
	if id.Version() != want {
		return Info{}, fmt.Errorf("%w: %q is version %d, want %d", ErrVersionMismatch, value, id.Version(), want)
	}

	info := Info{Value: value, Kind: kind, Version: int(want)}
	if kind != uuidify.KindUUIDv4 {
		sec, nsec := id.Time().UnixTime()
		info.Timestamp = time.Unix(sec, nsec).UTC()
	}
	return info, nil
}

func inspectULID(value string) (Info, error) {
	id, err := ulid.ParseStrict(value)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q: %v", ErrMalformed, value, err)
	}
	return Info{
		Value:     value,
		Kind:      uuidify.KindULID,
		Timestamp: ulid.Time(id.Time()).UTC(),
	}, nil
}

// InspectResult inspects every identifier in r and stops at the first malformed one
func InspectResult(r uuidify.Result) ([]Info, error) {
	values := r.Values()
	infos := make([]Info, 0, len(values))
	for _, v := range values {
		info, err := Inspect(r.Kind, v)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
