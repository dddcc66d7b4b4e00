package sexp

import (
	"fmt"
	"strconv"
)

// Navigation and typed extraction helpers shared by readers of KiCad
// S-expression trees. A "node" is a list whose first element is the key
// symbol, e.g. (at 1.0 2.0 90).

// NodeKey returns the key symbol of a list node.
func NodeKey(s Sexp) (string, bool) {
	list, ok := s.(*List)
	if !ok || list.Len() == 0 {
		return "", false
	}
	atom, ok := list.Get(0).(Symbol)
	if !ok {
		return "", false
	}
	return string(atom), true
}

// FindNode returns the first child list of s whose key matches.
// Example: FindNode(fp, "at") finds (at 100 50) inside a footprint.
func FindNode(s Sexp, key string) (Sexp, bool) {
	list, ok := s.(*List)
	if !ok {
		return nil, false
	}
	for _, elem := range list.Elements() {
		if k, ok := NodeKey(elem); ok && k == key {
			return elem, true
		}
	}
	return nil, false
}

// FindAllNodes returns every child list of s whose key matches, in
// document order.
func FindAllNodes(s Sexp, key string) []Sexp {
	list, ok := s.(*List)
	if !ok {
		return nil
	}
	var nodes []Sexp
	for _, elem := range list.Elements() {
		if k, ok := NodeKey(elem); ok && k == key {
			nodes = append(nodes, elem)
		}
	}
	return nodes
}

// Items returns the elements of a node after its key.
func Items(s Sexp) []Sexp {
	list, ok := s.(*List)
	if !ok || list.Len() <= 1 {
		return nil
	}
	return list.Elements()[1:]
}

// HasFlag reports whether the node carries the given bare symbol, e.g.
// the standalone "locked" marker inside a footprint.
func HasFlag(s Sexp, flag string) bool {
	list, ok := s.(*List)
	if !ok {
		return false
	}
	for _, elem := range list.Elements() {
		if atom, ok := elem.(Symbol); ok && string(atom) == flag {
			return true
		}
	}
	return false
}

// GetString extracts the atom text at the given index in a list. Index 0
// is the key, 1 the first value, and so on. Quoted and unquoted atoms
// are both accepted.
func GetString(s Sexp, index int) (string, error) {
	list, ok := s.(*List)
	if !ok {
		return "", fmt.Errorf("sexp: expected list, got leaf")
	}
	if index < 0 || index >= list.Len() {
		return "", fmt.Errorf("sexp: index %d out of bounds (length %d)", index, list.Len())
	}
	switch atom := list.Get(index).(type) {
	case Symbol:
		return string(atom), nil
	case Str:
		return string(atom), nil
	default:
		return "", fmt.Errorf("sexp: expected atom at index %d, got %T", index, list.Get(index))
	}
}

// GetFloat extracts a float64 value at the given index.
func GetFloat(s Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("sexp: failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index.
func GetInt(s Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("sexp: failed to parse int %q: %w", str, err)
	}
	return val, nil
}
