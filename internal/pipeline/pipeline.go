// Package pipeline runs the full reconstruction of one statement document.
package pipeline

import (
	"fmt"

	"github.com/cleared-dev/stmt2csv/internal/columns"
	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/model"
	"github.com/cleared-dev/stmt2csv/internal/reconcile"
	"github.com/cleared-dev/stmt2csv/internal/segment"
)

// Pipeline holds the read-only stages built from one layout. It keeps no
// per-document state, so one Pipeline serves any number of documents.
type Pipeline struct {
	classifier *columns.Classifier
	segmenter  *segment.Segmenter
	engine     *reconcile.Engine
}

// Result is the outcome of one document.
type Result struct {
	Transactions []model.Transaction
	Columns      *columns.Set
	Blocks       []segment.Block
	Counts       reconcile.Counts
}

// New builds a Pipeline for cfg.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	seg, err := segment.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		classifier: columns.NewClassifier(cfg),
		segmenter:  seg,
		engine:     reconcile.NewEngine(cfg),
	}, nil
}

// Classifier returns the column classifier.
func (p *Pipeline) Classifier() *columns.Classifier { return p.classifier }

// Analyze extracts and segments the columns without reconciling them.
func (p *Pipeline) Analyze(doc *layout.Document) (*Result, error) {
	set, err := p.classifier.Extract(doc)
	if err != nil {
		return nil, err
	}
	blocks := p.segmenter.Segment(set.Descriptions)
	return &Result{
		Columns: set,
		Blocks:  blocks,
		Counts:  reconcile.CountsOf(set, blocks),
	}, nil
}

// Run reconstructs every transaction in doc. On error the result still
// carries the columns and counts, but no transactions.
func (p *Pipeline) Run(doc *layout.Document) (*Result, error) {
	res, err := p.Analyze(doc)
	if err != nil {
		return nil, err
	}
	txns, err := p.engine.Reconcile(res.Columns, res.Blocks)
	if err != nil {
		return res, err
	}
	res.Transactions = txns
	return res, nil
}
