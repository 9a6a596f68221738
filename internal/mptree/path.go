// Package mptree implements the materialized path encoding of the category
// tree. A path is the concatenation of fixed width segments, one per level;
// sorting rows by path yields a pre-order (depth-first) walk of the tree.
package mptree

import (
	"strings"

	"open-producten/internal/domain"
)

const (
	// StepLen is the width of one path segment.
	StepLen = 4
	// Alphabet orders segment characters; it sorts identically as bytes.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// MaxSegment is the largest segment value, so a parent holds at most
// MaxSegment children.
var MaxSegment = pow(len(Alphabet), StepLen) - 1

func pow(b, e int) int {
	out := 1
	for i := 0; i < e; i++ {
		out *= b
	}
	return out
}

// Segment encodes n (1-based) as a fixed width segment.
func Segment(n int) (string, error) {
	if n < 0 || n > MaxSegment {
		return "", domain.ErrPathOverflow
	}
	buf := make([]byte, StepLen)
	for i := StepLen - 1; i >= 0; i-- {
		buf[i] = Alphabet[n%len(Alphabet)]
		n /= len(Alphabet)
	}
	return string(buf), nil
}

// SegmentValue decodes a segment produced by Segment.
func SegmentValue(seg string) int {
	n := 0
	for i := 0; i < len(seg); i++ {
		n = n*len(Alphabet) + strings.IndexByte(Alphabet, seg[i])
	}
	return n
}

// Depth is the tree level of path; roots have depth 1.
func Depth(path string) int {
	return len(path) / StepLen
}

// Parent returns the parent path, or "" for roots.
func Parent(path string) string {
	if len(path) <= StepLen {
		return ""
	}
	return path[:len(path)-StepLen]
}

// Last returns the final segment of path.
func Last(path string) string {
	if len(path) < StepLen {
		return path
	}
	return path[len(path)-StepLen:]
}

// Child builds the path of the n-th child slot under parent ("" for roots).
func Child(parent string, n int) (string, error) {
	seg, err := Segment(n)
	if err != nil {
		return "", err
	}
	return parent + seg, nil
}

// Next returns the path right after the last existing child of parent.
// last is the path of that child, or "" when parent has no children.
func Next(parent, last string) (string, error) {
	if last == "" {
		return Child(parent, 1)
	}
	return Child(parent, SegmentValue(Last(last))+1)
}

// Ancestors lists the ancestor paths of path from the root down.
func Ancestors(path string) []string {
	var out []string
	for end := StepLen; end < len(path); end += StepLen {
		out = append(out, path[:end])
	}
	return out
}

// IsDescendant reports whether path lies strictly below ancestor.
func IsDescendant(path, ancestor string) bool {
	return len(path) > len(ancestor) && strings.HasPrefix(path, ancestor)
}

// InSubtree reports whether path is root or lies below it.
func InSubtree(path, root string) bool {
	return strings.HasPrefix(path, root)
}

// Rebase swaps the oldPrefix of path for newPrefix.
func Rebase(path, oldPrefix, newPrefix string) string {
	return newPrefix + strings.TrimPrefix(path, oldPrefix)
}

// TempPrefix is a staging prefix used while relocating subtrees. It starts
// with a byte outside Alphabet so it can never collide with a real path.
func TempPrefix(n int) string {
	seg, _ := Segment(n % pow(len(Alphabet), StepLen-1))
	return "~" + seg[1:]
}
