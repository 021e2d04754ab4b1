// Package columns groups positioned fragments into statement columns and
// strips the rows that are not transaction data.
package columns

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/model"
)

// UnknownColumnError reports a column name with no configured offsets.
type UnknownColumnError struct {
	Column model.Column
}

func (e UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// Classifier assigns fragments to columns by horizontal offset.
type Classifier struct {
	ranges  map[model.Column][]config.OffsetRange
	filters map[model.Column]Filter
}

// NewClassifier builds a classifier from a layout.
func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{
		ranges:  cfg.Columns,
		filters: Filters(cfg),
	}
}

// Column returns the text of every fragment in the named column, top to
// bottom. Fragments at the same Y keep their extraction order.
func (c *Classifier) Column(doc *layout.Document, name model.Column) ([]string, error) {
	ranges, ok := c.ranges[name]
	if !ok {
		return nil, UnknownColumnError{Column: name}
	}

	var frags []layout.Fragment
	for _, f := range doc.Fragments() {
		if inRanges(ranges, f.X) {
			frags = append(frags, f)
		}
	}
	SortByY(frags)

	texts := make([]string, len(frags))
	for i, f := range frags {
		texts[i] = f.Text
	}
	return texts, nil
}

// Classify returns the column a fragment falls into, checking columns in
// output order.
func (c *Classifier) Classify(f layout.Fragment) (model.Column, bool) {
	for _, col := range model.Columns {
		if inRanges(c.ranges[col], f.X) {
			return col, true
		}
	}
	return "", false
}

// SortByY orders fragments top to bottom, keeping extraction order for ties.
func SortByY(frags []layout.Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Y < frags[j].Y
	})
}

func inRanges(ranges []config.OffsetRange, x int) bool {
	for _, r := range ranges {
		if r.Contains(x) {
			return true
		}
	}
	return false
}
