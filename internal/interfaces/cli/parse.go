package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/client"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

type parseOptions struct {
	reportID string
	mode     string
}

// NewParseCmd returns `skiptrace parse [file|-]`.
func NewParseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse one skip-trace report",
		Long: "Parse reads a report from a file, or from stdin when the argument is\n" +
			"omitted or '-', and prints the structured result.  The command exits\n" +
			"non-zero when the report could not be parsed.",
		Example: "  skiptrace parse report.txt\n  cat report.txt | skiptrace parse -o json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.reportID, "report-id", "", "report ID echoed in the result (default: file name)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "analysis mode (auto, deterministic)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *parseOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	mode, err := parseMode(opts.mode)
	if err != nil {
		return err
	}

	src := "-"
	if len(args) == 1 {
		src = args[0]
	}
	text, err := readInput(cmd.InOrStdin(), src)
	if err != nil {
		return err
	}
	reportID := opts.reportID
	if reportID == "" && src != "-" {
		reportID = reportIDFromPath(src)
	}

	ctx, cancel := cliCtx.commandContext(cmd.Context())
	defer cancel()

	view, err := cliCtx.parseOne(ctx, reportID, text, mode)
	if err != nil {
		return err
	}
	if err := renderReport(cmd.OutOrStdout(), view, cliCtx.OutputFormat); err != nil {
		return err
	}
	if !view.Result.Success {
		return errors.New(errors.ErrCodeReportParseFailed, view.Result.Error)
	}
	return nil
}

// parseOne runs one report through the local service or the API server.
func (c *CLIContext) parseOne(ctx context.Context, reportID, text string, mode analysis.Mode) (reportView, error) {
	if c.Remote() {
		resp, err := c.Client.Reports().ParseWithOptions(ctx, &client.ParseRequest{
			ReportID: reportID, Text: &text, Mode: string(mode),
		})
		if err != nil {
			return reportView{}, err
		}
		return viewFromClient(resp), nil
	}
	resp, err := c.Service.Analyze(ctx, &analysis.AnalyzeRequest{
		ReportID: reportID, Text: &text, Mode: mode, Source: analysis.SourceCLI,
	})
	if err != nil {
		return reportView{}, err
	}
	return viewFromAnalysis(resp), nil
}

func viewFromAnalysis(r *analysis.AnalyzeResponse) reportView {
	return reportView{ReportID: r.ReportID, Result: r.Result, DurationMS: r.DurationMS, FallbackReason: r.FallbackReason}
}

func viewFromClient(r *client.ParseResponse) reportView {
	return reportView{ReportID: r.ReportID, Result: r.Result, DurationMS: r.DurationMS, FallbackReason: r.FallbackReason}
}

func parseMode(s string) (analysis.Mode, error) {
	switch m := analysis.Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return "", nil
	case analysis.ModeAuto, analysis.ModeDeterministic:
		return m, nil
	default:
		return "", errors.InvalidParam("unsupported mode").WithDetail(s)
	}
}

// readInput returns the contents of path, or of stdin for "-".
func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidParam, "read report input").WithDetail(path)
	}
	return string(b), nil
}

func reportIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

//Personal.AI order the ending
