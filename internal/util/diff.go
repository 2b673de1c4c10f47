package util

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a diff segment.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffSegment is a run of text that is kept, inserted or deleted.
type DiffSegment struct {
	Op   DiffOp
	Text string
}

// InlineDiff computes a character diff between two short values, cleaned
// up so that segments fall on word boundaries where possible.
func InlineDiff(oldText, newText string) []DiffSegment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	segs := make([]DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = DiffEqual
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		segs = append(segs, DiffSegment{Op: op, Text: d.Text})
	}
	return segs
}

// Changed reports whether any segment inserts or deletes text.
func Changed(segs []DiffSegment) bool {
	for _, s := range segs {
		if s.Op != DiffEqual {
			return true
		}
	}
	return false
}

// PlainDiff renders segments without color: deletions as [-x-] and
// insertions as {+x+}.
func PlainDiff(segs []DiffSegment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Op {
		case DiffInsert:
			sb.WriteString("{+" + s.Text + "+}")
		case DiffDelete:
			sb.WriteString("[-" + s.Text + "-]")
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
