package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/testutil"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

func init() {
	color.NoColor = true
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// stubService is an analysis.Service with overridable behaviour.
type stubService struct {
	analyzeFn func(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error)
	batchFn   func(ctx context.Context, reqs []analysis.AnalyzeRequest) ([]*analysis.AnalyzeResponse, error)
	lookupFn  func(code string) (report.PhoneLocation, error)
}

func (s *stubService) Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	return s.analyzeFn(ctx, req)
}

func (s *stubService) AnalyzeBatch(ctx context.Context, reqs []analysis.AnalyzeRequest) ([]*analysis.AnalyzeResponse, error) {
	return s.batchFn(ctx, reqs)
}

func (s *stubService) LookupAreaCode(code string) (report.PhoneLocation, error) {
	return s.lookupFn(code)
}

// testFactories wires default config, a mock logger, and svc (the real
// service when nil).
func testFactories(svc analysis.Service) (Factories, *testutil.MockLogger) {
	logger := testutil.NewMockLogger()
	return Factories{
		LoadConfig: func(string) (*config.Config, error) { return config.NewDefaultConfig(), nil },
		NewLogger:  func(*config.Config, *RootOptions) (logging.Logger, error) { return logger, nil },
		NewService: func(cfg *config.Config, l logging.Logger) analysis.Service {
			if svc != nil {
				return svc
			}
			return analysis.NewFromConfig(cfg, l, nil)
		},
	}, logger
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, f Factories, stdin string, args ...string) runResult {
	t.Helper()
	cmd := NewRootCommandWith(f)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// ----------------------------------------------------------------------------
// Root command
// ----------------------------------------------------------------------------

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "skiptrace", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"parse", "batch", "lookup", "watch", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()
	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout", "server"} {
		assert.NotNil(t, pf.Lookup(name), name)
	}
	assert.Equal(t, "c", pf.Lookup("config").Shorthand)
	assert.Equal(t, "o", pf.Lookup("output").Shorthand)
	assert.Equal(t, FormatText, pf.Lookup("output").DefValue)
}

func TestPersistentPreRun_RejectsUnknownFormat(t *testing.T) {
	f, _ := testFactories(nil)
	res := runCLI(t, f, "", "-o", "yaml", "lookup", "214")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unsupported output format")
}

func TestPersistentPreRun_LocalAndRemote(t *testing.T) {
	f, _ := testFactories(nil)

	var local, remote *CLIContext
	capture := func(dst **CLIContext) *cobra.Command {
		root := NewRootCommandWith(f)
		root.AddCommand(&cobra.Command{
			Use: "probe",
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := GetCLIContext(cmd)
				*dst = c
				return err
			},
		})
		return root
	}

	root := capture(&local)
	root.SetArgs([]string{"probe"})
	require.NoError(t, root.Execute())
	require.NotNil(t, local)
	assert.False(t, local.Remote())
	assert.NotNil(t, local.Service)
	assert.NotNil(t, local.Config)

	root = capture(&remote)
	root.SetArgs([]string{"--server", "http://localhost:1", "-o", "JSON", "probe"})
	require.NoError(t, root.Execute())
	require.NotNil(t, remote)
	assert.True(t, remote.Remote())
	assert.Nil(t, remote.Service)
	assert.Equal(t, FormatJSON, remote.OutputFormat)
}

func TestPersistentPreRun_BadServerURL(t *testing.T) {
	f, _ := testFactories(nil)
	res := runCLI(t, f, "", "--server", "ftp://nope", "lookup", "214")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "client initialization failed")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestInitLogger_Levels(t *testing.T) {
	for _, opts := range []*RootOptions{
		{LogLevel: "debug"},
		{LogLevel: "bogus"},
		{LogLevel: "error", Verbose: true},
	} {
		l, err := initLogger(nil, opts)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := loadConfig("/definitely/not/here.yaml")
	assert.Error(t, err)
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetErr(&buf)
	PrintError(cmd, nil)
	assert.Empty(t, buf.String())
	PrintError(cmd, assert.AnError)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}

//Personal.AI order the ending
