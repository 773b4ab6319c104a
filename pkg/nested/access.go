package nested

import (
	"errors"
	"fmt"
	"strings"
)

// Accessor errors.
var (
	ErrMissingKey = errors.New("missing key")
	ErrNotString  = errors.New("value is not a string")
)

// KeyError reports the key that could not be resolved during Access and the
// zero-based position of that key in the path.
type KeyError struct {
	Key   string
	Depth int
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Key)
}

// Is makes errors.Is(err, ErrMissingKey) true for every *KeyError.
func (e *KeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// Access walks root one key at a time and returns the value found after the
// last key. Every node indexed along the way must be a mapping holding the
// key; otherwise a *KeyError naming the offending key is returned. An empty
// path returns root itself.
func Access(root Map, path ...string) (Value, error) {
	current := Nested(root)
	for depth, key := range path {
		switch current.Kind() {
		case KindMap:
			child, ok := current.m[key]
			if !ok {
				return Value{}, &KeyError{Key: key, Depth: depth}
			}
			current = child
		case KindNull, KindScalar, KindList:
			return Value{}, &KeyError{Key: key, Depth: depth}
		default:
			return Value{}, fmt.Errorf("unknown value kind %v: %w", current.Kind(), &KeyError{Key: key, Depth: depth})
		}
	}
	return current, nil
}

// AccessString is Access followed by a string check on the leaf.
func AccessString(root Map, path ...string) (string, error) {
	v, err := Access(root, path...)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", fmt.Errorf("%s is %v: %w", strings.Join(path, "."), v.Kind(), ErrNotString)
	}
	return s, nil
}

// ParsePath splits a dotted path such as "license.key" into its keys. Empty
// segments are dropped, so "" and "." yield an empty path.
func ParsePath(expr string) []string {
	parts := strings.Split(expr, ".")
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			path = append(path, p)
		}
	}
	return path
}
