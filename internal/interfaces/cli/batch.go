package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/client"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

type batchOptions struct {
	outputDir string
	mode      string
}

// NewBatchCmd returns `skiptrace batch <files...>`.
func NewBatchCmd() *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Parse several reports and summarise the results",
		Long: "Batch parses every file given, in parallel, and prints one summary row\n" +
			"per report.  With --output-dir each result is also written to\n" +
			"<output-dir>/<name>.json.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for per-report JSON results")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "analysis mode (auto, deterministic)")
	return cmd
}

func runBatch(cmd *cobra.Command, files []string, opts *batchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	mode, err := parseMode(opts.mode)
	if err != nil {
		return err
	}

	ids := make([]string, len(files))
	texts := make([]string, len(files))
	for i, f := range files {
		if texts[i], err = readInput(cmd.InOrStdin(), f); err != nil {
			return err
		}
		ids[i] = reportIDFromPath(f)
	}

	ctx, cancel := cliCtx.commandContext(cmd.Context())
	defer cancel()

	views, err := cliCtx.parseMany(ctx, ids, texts, mode)
	if err != nil {
		return err
	}

	if opts.outputDir != "" {
		if err := writeResults(opts.outputDir, views); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if cliCtx.OutputFormat == FormatJSON {
		if err := printJSON(out, views); err != nil {
			return err
		}
	} else {
		renderBatchSummary(out, files, views)
	}

	failed := 0
	for _, v := range views {
		if !v.Result.Success {
			failed++
		}
	}
	if failed > 0 {
		return errors.Newf(errors.ErrCodeReportParseFailed, "%d of %d reports failed to parse", failed, len(views))
	}
	return nil
}

func (c *CLIContext) parseMany(ctx context.Context, ids, texts []string, mode analysis.Mode) ([]reportView, error) {
	views := make([]reportView, len(texts))
	if c.Remote() {
		req := &client.BatchParseRequest{Mode: string(mode)}
		for i := range texts {
			req.Reports = append(req.Reports, client.ParseRequest{ReportID: ids[i], Text: &texts[i]})
		}
		resp, err := c.Client.Reports().ParseBatch(ctx, req)
		if err != nil {
			return nil, err
		}
		for i, r := range resp.Results {
			if i < len(views) && r != nil {
				views[i] = viewFromClient(r)
			}
		}
		return views, nil
	}

	reqs := make([]analysis.AnalyzeRequest, len(texts))
	for i := range texts {
		reqs[i] = analysis.AnalyzeRequest{ReportID: ids[i], Text: &texts[i], Mode: mode, Source: analysis.SourceCLI}
	}
	resps, err := c.Service.AnalyzeBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}
	for i, r := range resps {
		if r != nil {
			views[i] = viewFromAnalysis(r)
		}
	}
	return views, nil
}

func writeResults(dir string, views []reportView) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create output dir").WithDetail(dir)
	}
	for _, v := range views {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "encode result")
		}
		path := filepath.Join(dir, v.ReportID+".json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write result").WithDetail(path)
		}
	}
	return nil
}

func renderBatchSummary(w io.Writer, files []string, views []reportView) {
	rows := make([][]string, 0, len(views))
	ok := 0
	for i, v := range views {
		row := []string{files[i], colorizeStatus(v.Result.Success), "", "", "", "", ""}
		if d := v.Result.Data; v.Result.Success && d != nil {
			ok++
			row[2] = colorizeConfidence(v.Result.Confidence)
			row[3] = d.Subject.FullName
			row[4] = strconv.Itoa(len(d.Addresses))
			row[5] = strconv.Itoa(len(d.Phones))
			row[6] = strconv.Itoa(len(d.Flags))
		} else {
			row[3] = v.Result.Error
		}
		rows = append(rows, row)
	}
	renderTable(w, []string{"File", "Status", "Confidence", "Subject", "Addresses", "Phones", "Flags"}, rows)
	fmt.Fprintf(w, "%d/%d parsed\n", ok, len(views))
}

//Personal.AI order the ending
