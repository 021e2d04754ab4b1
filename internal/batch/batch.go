// Package batch converts statement documents one after another, isolating
// each document's failure from the rest.
package batch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/pipeline"
	"github.com/cleared-dev/stmt2csv/internal/reconcile"
	"github.com/cleared-dev/stmt2csv/internal/runlog"
	"github.com/cleared-dev/stmt2csv/internal/sink"
)

// Options controls where and how results are written.
type Options struct {
	Format  sink.Format
	OutDir  string // empty: next to each input
	LogPath string // empty: no run log
}

// Result is the outcome of one document.
type Result struct {
	Document string
	Output   string
	Records  int
	Counts   reconcile.Counts
	Err      error
}

// Runner converts documents sequentially.
type Runner struct {
	pipeline *pipeline.Pipeline
	sources  *layout.Registry
	opts     Options
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(p *pipeline.Pipeline, sources *layout.Registry, opts Options, log logrus.FieldLogger) *Runner {
	if opts.Format == "" {
		opts.Format = sink.FormatCSV
	}
	return &Runner{pipeline: p, sources: sources, opts: opts, log: log, now: time.Now}
}

// Run converts every path in order and returns one result per path.
func (r *Runner) Run(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		res := r.convert(path)
		r.report(res)
		results = append(results, res)
	}

	if r.opts.LogPath != "" {
		if err := runlog.Append(r.opts.LogPath, r.entries(results)); err != nil {
			r.log.WithError(err).Warn("failed to write run log")
		}
	}
	return results
}

func (r *Runner) convert(path string) Result {
	res := Result{Document: path}

	doc, err := r.sources.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	r.log.WithFields(logrus.Fields{"document": path, "fragments": doc.Len()}).Debug("read document")

	out, err := r.pipeline.Run(doc)
	if out != nil {
		res.Counts = out.Counts
	}
	if err != nil {
		res.Err = err
		return res
	}

	if r.opts.OutDir != "" {
		if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
			res.Err = fmt.Errorf("creating output dir: %w", err)
			return res
		}
	}
	outPath := sink.OutputPath(path, r.opts.OutDir, r.opts.Format)
	if err := sink.WriteFile(outPath, r.opts.Format, out.Transactions); err != nil {
		res.Err = err
		return res
	}
	res.Output = outPath
	res.Records = len(out.Transactions)
	return res
}

func (r *Runner) report(res Result) {
	entry := r.log.WithField("document", res.Document)
	if res.Err == nil {
		entry.WithFields(logrus.Fields{
			"output":  res.Output,
			"records": res.Records,
		}).Info("converted statement")
		return
	}

	var verr reconcile.ValidationError
	var merr reconcile.MalformedAmountError
	switch {
	case errors.As(res.Err, &verr):
		entry = entry.WithFields(logrus.Fields{
			"balances":          verr.Counts.Balances,
			"transaction_dates": verr.Counts.TransactionDates,
			"value_dates":       verr.Counts.ValueDates,
			"headers":           verr.Counts.Headers,
			"withdrawals":       verr.Counts.Withdrawals,
			"deposits":          verr.Counts.Deposits,
		})
	case errors.As(res.Err, &merr):
		entry = entry.WithFields(logrus.Fields{
			"column": merr.Column,
			"row":    merr.Index + 1,
			"text":   merr.Text,
		})
	}
	entry.WithError(res.Err).Error("statement failed")
}

func (r *Runner) entries(results []Result) []runlog.Entry {
	ts := r.now()
	entries := make([]runlog.Entry, len(results))
	for i, res := range results {
		e := runlog.Entry{
			Timestamp: ts,
			Document:  res.Document,
			Output:    res.Output,
			Status:    runlog.StatusOK,
			Records:   res.Records,
		}
		if res.Err != nil {
			e.Status = runlog.StatusFailed
			e.Error = res.Err.Error()
		}
		entries[i] = e
	}
	return entries
}

// Failed returns the number of results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
