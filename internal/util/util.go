// Package util provides some basic utility functions.
package util

import (
	"strings"
)

// Min returns the smallest of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// BinaryChunks splits s into chunks of size characters, joined by single spaces.
// It's used to make long binary strings readable, e.g. "0000 0111".
func BinaryChunks(s string, size int) string {
	if size <= 0 || len(s) <= size {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += size {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i:Min(i+size, len(s))])
	}
	return b.String()
}
