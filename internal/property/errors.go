package property

import "errors"

var (
	// ErrNotFound is returned by Get/Set when the key is not in the table.
	ErrNotFound = errors.New("property: key not found")
	// ErrIndexRange is returned when an index >= the definition's Count is used.
	ErrIndexRange = errors.New("property: index out of range")
	// ErrReadOnly is returned when a wire write targets a READ_ONLY key.
	ErrReadOnly = errors.New("property: key is read-only")
	// ErrValue is returned when a parse or type conversion fails.
	ErrValue = errors.New("property: invalid value")
)
