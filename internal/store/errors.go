package store

import "errors"

var (
	// ErrWrongType indicates the key holds a different kind of value than the
	// operation requires.
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")
	// ErrIndexOutOfRange indicates an index-based write outside the list bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotAnInteger indicates the stored value does not parse as an integer.
	ErrNotAnInteger = errors.New("value is not an integer or out of range")
	// ErrNotAFloat indicates the stored value does not parse as a float.
	ErrNotAFloat = errors.New("value is not a valid float")
	// ErrWrongArgumentCount indicates a field/value list with an odd length.
	ErrWrongArgumentCount = errors.New("wrong number of arguments")
	// ErrSyntax indicates a malformed argument, such as a non-numeric score.
	ErrSyntax = errors.New("syntax error")
)
