package database

import (
	"github.com/google/uuid"
)

// BinaryUUIDs encodes ids for BINARY(16) columns.
func BinaryUUIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// NullableBinaryUUID encodes an optional id for a nullable BINARY(16) column.
func NullableBinaryUUID(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}
