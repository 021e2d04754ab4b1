// Package segment splits a statement's description column into one block
// per transaction.
package segment

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/stmt2csv/internal/config"
)

// Block is the description lines of one transaction. Lines[0] is the header.
type Block struct {
	Index int // position of the header in the description column
	Lines []string
}

// Header returns the first line of the block's header.
func (b Block) Header() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return firstLine(b.Lines[0])
}

// Text joins the block's lines with newlines.
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// Segmenter detects header lines by keyword.
type Segmenter struct {
	header  *regexp.Regexp
	repeats map[string]bool
}

// New builds a Segmenter from the layout's header patterns and repeat markers.
func New(cfg *config.Config) (*Segmenter, error) {
	re, err := cfg.HeaderRegexp()
	if err != nil {
		return nil, err
	}
	repeats := make(map[string]bool, len(cfg.RepeatMarkers))
	for _, m := range cfg.RepeatMarkers {
		repeats[m] = true
	}
	return &Segmenter{header: re, repeats: repeats}, nil
}

// IsHeader reports whether the first line of s matches a header pattern.
func (s *Segmenter) IsHeader(line string) bool {
	return s.header.MatchString(firstLine(line))
}

// Headers returns the indices of the lines that start a transaction.
//
// A repeat marker arms a one-shot suppression: the next header candidate
// with exactly the same text belongs to the same transaction. Any header
// candidate disarms it.
func (s *Segmenter) Headers(lines []string) []int {
	var indices []int
	var suppress string
	armed := false
	for i, line := range lines {
		if !s.IsHeader(line) {
			continue
		}
		head := firstLine(line)
		if armed && head == suppress {
			armed = false
			continue
		}
		armed = false
		indices = append(indices, i)
		if s.repeats[head] {
			armed, suppress = true, head
		}
	}
	return indices
}

// Segment splits lines into blocks. Lines before the first header belong
// to no block.
func (s *Segmenter) Segment(lines []string) []Block {
	indices := s.Headers(lines)
	blocks := make([]Block, len(indices))
	for i, start := range indices {
		end := len(lines)
		if i+1 < len(indices) {
			end = indices[i+1]
		}
		blocks[i] = Block{Index: start, Lines: lines[start:end]}
	}
	return blocks
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
