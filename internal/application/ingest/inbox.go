// Package ingest feeds reports into the analysis service from sources other
// than the HTTP API: a watched inbox directory and the Kafka submitted-report
// topic.
package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

const (
	defaultPattern = "*.txt"
	defaultSettle  = 200 * time.Millisecond
	resultExt      = ".json"
)

// InboxOptions configures a Watcher.
type InboxOptions struct {
	// Dir is the watched directory.
	Dir string
	// OutputDir receives <name>.json results; empty writes next to the input.
	OutputDir string
	// Pattern is a filepath.Match glob applied to base names.
	Pattern string
	// Concurrency bounds parallel parses.
	Concurrency int
	// ProcessExisting parses matching files already present at start.
	ProcessExisting bool
	// Settle is how long a file must go without events before it is read.
	Settle time.Duration
	// OnResult, when set, is called after every processed file.
	OnResult func(path string, resp *analysis.AnalyzeResponse, err error)
}

// Watcher parses report files dropped into a directory.
type Watcher struct {
	svc     analysis.Service
	opts    InboxOptions
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewWatcher validates opts and returns a Watcher.  Dir must exist.
func NewWatcher(svc analysis.Service, opts InboxOptions, logger logging.Logger, m *prometheus.AppMetrics) (*Watcher, error) {
	if svc == nil {
		return nil, errors.New(errors.ErrCodeValidation, "analysis service required")
	}
	if opts.Pattern == "" {
		opts.Pattern = defaultPattern
	}
	if _, err := filepath.Match(opts.Pattern, "probe"); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid inbox pattern")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	if err := requireDir(opts.Dir); err != nil {
		return nil, err
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInboxUnavailable, "create output dir")
		}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Watcher{
		svc:     svc,
		opts:    opts,
		logger:  logger.Named("inbox").With(logging.String("dir", opts.Dir)),
		metrics: m,
	}, nil
}

func requireDir(dir string) error {
	if dir == "" {
		return errors.New(errors.ErrCodeInboxUnavailable, "inbox dir not set")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "stat inbox dir")
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInboxUnavailable, "inbox directory unavailable").WithDetail(dir + " is not a directory")
	}
	return nil
}

// Matches reports whether path is an inbox input.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ok, _ := filepath.Match(w.opts.Pattern, base)
	return ok
}

// OutputPath returns where the result for path is written.
func (w *Watcher) OutputPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + resultExt
	if w.opts.OutputDir != "" {
		return filepath.Join(w.opts.OutputDir, base)
	}
	return filepath.Join(filepath.Dir(path), base)
}

// Run watches the inbox until ctx is done, then waits for in-flight parses.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "create fsnotify watcher")
	}
	defer fw.Close()
	if err := fw.Add(w.opts.Dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "watch inbox dir")
	}

	g := new(errgroup.Group)
	g.SetLimit(w.opts.Concurrency)
	submit := func(path string) {
		g.Go(func() error {
			w.process(ctx, path)
			return nil
		})
	}

	if w.opts.ProcessExisting {
		existing, err := w.existing()
		if err != nil {
			return err
		}
		for _, p := range existing {
			submit(p)
		}
	}

	w.logger.Info("inbox watcher started", logging.String("pattern", w.opts.Pattern))

	ready := make(chan string, 64)
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			w.logger.Info("inbox watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				_ = g.Wait()
				return nil
			}
			if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) || !w.Matches(ev.Name) {
				continue
			}
			path := ev.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Reset(w.opts.Settle)
			} else {
				timers[path] = time.AfterFunc(w.opts.Settle, func() {
					mu.Lock()
					delete(timers, path)
					mu.Unlock()
					select {
					case ready <- path:
					case <-ctx.Done():
					}
				})
			}
			mu.Unlock()

		case path := <-ready:
			submit(path)

		case err, ok := <-fw.Errors:
			if !ok {
				_ = g.Wait()
				return nil
			}
			w.logger.WithError(err).Warn("fsnotify error")
		}
	}
}

func (w *Watcher) existing() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(w.opts.Dir, w.opts.Pattern))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInboxUnavailable, "list inbox")
	}
	out := matches[:0]
	for _, m := range matches {
		if !w.Matches(m) {
			continue
		}
		if _, err := os.Stat(w.OutputPath(m)); err == nil {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func (w *Watcher) process(ctx context.Context, path string) {
	if w.metrics != nil {
		g := w.metrics.IngestInFlight.WithLabelValues(analysis.SourceInbox)
		g.Inc()
		defer g.Dec()
	}
	resp, err := w.ProcessFile(ctx, path)
	outcome := prometheus.OutcomeSuccess
	if err != nil {
		outcome = prometheus.OutcomeFailure
		w.logger.WithError(err).Error("inbox file failed", logging.String("file", filepath.Base(path)))
	}
	prometheus.RecordIngest(w.metrics, analysis.SourceInbox, outcome)
	if w.opts.OnResult != nil {
		w.opts.OnResult(path, resp, err)
	}
}

// ProcessFile parses one file and writes its result.  The report ID is the
// file's base name without extension.
func (w *Watcher) ProcessFile(ctx context.Context, path string) (*analysis.AnalyzeResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInboxUnavailable, "read report file")
	}
	text := string(raw)
	resp, err := w.svc.Analyze(ctx, &analysis.AnalyzeRequest{
		ReportID: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Text:     &text,
		Source:   analysis.SourceInbox,
	})
	if err != nil {
		return nil, err
	}
	if err := writeJSONAtomic(w.OutputPath(path), resp); err != nil {
		return resp, err
	}
	w.logger.Debug("result written", logging.String("file", filepath.Base(path)))
	return resp, nil
}

// writeJSONAtomic writes v to a temp file next to path and renames it into
// place so readers never see a partial document.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode result")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".result-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "create temp result")
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "write result")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "close result")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInboxUnavailable, "rename result")
	}
	return nil
}

//Personal.AI order the ending
