package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/application/ingest"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

type watchOptions struct {
	outputDir   string
	pattern     string
	concurrency int
	existing    bool
	settle      time.Duration
}

// NewWatchCmd returns `skiptrace watch <dir>`.
func NewWatchCmd() *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Parse report files as they appear in a directory",
		Long: "Watch parses every file matching --pattern that is created in <dir>\n" +
			"and writes <name>.json next to it, or into --output-dir.  It runs\n" +
			"until interrupted.  The command always parses in-process.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.outputDir, "output-dir", "", "directory for JSON results (default: next to the input)")
	f.StringVar(&opts.pattern, "pattern", "", "glob of files to parse (default: from config, *.txt)")
	f.IntVar(&opts.concurrency, "concurrency", 0, "parallel parses (default: from config)")
	f.BoolVar(&opts.existing, "existing", false, "also parse matching files already in the directory")
	f.DurationVar(&opts.settle, "settle", 0, "quiet period before a changed file is read")
	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts *watchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if cliCtx.Remote() {
		return errors.InvalidParam("watch does not support --server")
	}

	in := cliCtx.Config.Ingest.Inbox
	inbox := ingest.InboxOptions{
		Dir:             dir,
		OutputDir:       firstNonEmpty(opts.outputDir, in.OutputDir),
		Pattern:         firstNonEmpty(opts.pattern, in.Pattern),
		Concurrency:     in.Concurrency,
		ProcessExisting: opts.existing || in.ProcessExisting,
		Settle:          opts.settle,
	}
	if opts.concurrency > 0 {
		inbox.Concurrency = opts.concurrency
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	inbox.OnResult = func(path string, resp *analysis.AnalyzeResponse, err error) {
		mu.Lock()
		defer mu.Unlock()
		name := filepath.Base(path)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%s %s: %v\n", colorizeStatus(false), name, err)
		case !resp.Result.Success:
			fmt.Fprintf(out, "%s %s: %s\n", colorizeStatus(false), name, resp.Result.Error)
		default:
			fmt.Fprintf(out, "%s %s: %s  confidence %s  %dms\n", colorizeStatus(true), name,
				resp.Result.Data.Subject.FullName, colorizeConfidence(resp.Result.Confidence), resp.DurationMS)
		}
	}

	w, err := ingest.NewWatcher(cliCtx.Service, inbox, cliCtx.Logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (Ctrl-C to stop)\n", color.CyanString("watching"), dir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

//Personal.AI order the ending
