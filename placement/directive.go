package placement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/topomap/matrix"
)

// FormatDirective renders perm as KEY=0.s0,1.s1,...,N-1.sN-1, the
// environment directive a runtime reads to remap its ranks: process i is
// placed on slot perm[i]. No spaces, no trailing comma; N = 0 gives "KEY=".
//
// Errors: ErrBadDirective for an empty key or one containing '=' or ',',
// matrix.ErrInvalidPermutation when perm is not a bijection.
func FormatDirective(key string, perm []int) (string, error) {
	if key == "" || strings.ContainsAny(key, "=,") {
		return "", fmt.Errorf("%w: key %q", ErrBadDirective, key)
	}
	if err := matrix.ValidatePermutation(perm, len(perm)); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(key) + 1 + len(perm)*8)
	sb.WriteString(key)
	sb.WriteByte('=')
	for i, s := range perm {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(s))
	}

	return sb.String(), nil
}

// ParseDirective is the inverse of FormatDirective. Entries must list
// processes 0..N-1 in order and the slots must form a permutation.
//
// Errors: ErrBadDirective, matrix.ErrInvalidPermutation.
func ParseDirective(s string) (key string, perm []int, err error) {
	key, body, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("%w: missing KEY= in %q", ErrBadDirective, s)
	}
	if body == "" {
		return key, []int{}, nil
	}

	entries := strings.Split(body, ",")
	perm = make([]int, len(entries))
	var (
		i, pi, sv   int
		entry, proc string
		slot        string
	)
	for i, entry = range entries {
		if proc, slot, ok = strings.Cut(entry, "."); !ok {
			return "", nil, fmt.Errorf("%w: entry %d %q lacks '.'", ErrBadDirective, i, entry)
		}
		if pi, err = strconv.Atoi(proc); err != nil || pi != i {
			return "", nil, fmt.Errorf("%w: entry %d names process %q", ErrBadDirective, i, proc)
		}
		if sv, err = strconv.Atoi(slot); err != nil {
			return "", nil, fmt.Errorf("%w: entry %d slot %q", ErrBadDirective, i, slot)
		}
		perm[i] = sv
	}
	if err = matrix.ValidatePermutation(perm, len(perm)); err != nil {
		return "", nil, err
	}

	return key, perm, nil
}
