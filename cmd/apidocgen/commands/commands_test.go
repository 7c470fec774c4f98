package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/docgen"
	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/toolchain"
)

type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }

type stubRunner struct {
	calls     [][]string
	bundleErr error
}

func (s *stubRunner) Run(_ context.Context, args ...string) error {
	s.calls = append(s.calls, args)
	body := `<html><head><title>Pets API</title></head><body><div id="redoc"></div></body></html>`
	if args[0] == "bundle" {
		if s.bundleErr != nil {
			return s.bundleErr
		}
		body = `{"openapi":"3.1.0","info":{"title":"Pets","version":"2.0.0"},"paths":{"/pets":{},"/owners":{}}}`
	}
	return os.WriteFile(args[3], []byte(body), 0o600)
}

// setup swaps the runner and stdout seams and returns a CLI pointing at a
// config file whose output directory lives in a temp dir.
func setup(t *testing.T, extraYAML string) (*CLI, *stubRunner, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	outDir := filepath.Join(dir, "docs")
	cfgPath := filepath.Join(dir, "apidocgen.yaml")
	content := fmt.Sprintf("output:\n  directory: %s\n%s", outDir, extraYAML)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	runner := &stubRunner{}
	var out bytes.Buffer
	origRunner, origStdout := newRunner, stdout
	newRunner = func(*config.Config) toolchain.Runner { return runner }
	stdout = &out
	t.Cleanup(func() { newRunner, stdout = origRunner, origStdout })

	return &CLI{Config: cfgPath}, runner, &out, outDir
}

func TestGenerate_Success(t *testing.T) {
	root, runner, out, outDir := setup(t, "")

	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, root))

	assert.FileExists(t, filepath.Join(outDir, "openapi.json"))
	assert.FileExists(t, filepath.Join(outDir, "api-docs.html"))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, config.DefaultSourceURL, runner.calls[0][1])

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		docgen.MsgFetching,
		docgen.MsgGenerating,
		docgen.MsgGenerated,
		"   " + filepath.Join(outDir, "api-docs.html"),
	}, lines)
}

func TestGenerate_FlagOverrides(t *testing.T) {
	root, runner, _, _ := setup(t, "")
	override := filepath.Join(t.TempDir(), "site")

	cmd := &GenerateCmd{Source: "http://localhost:9090/openapi", Output: override}
	require.NoError(t, cmd.Run(&Global{}, root))
	assert.Equal(t, "http://localhost:9090/openapi", runner.calls[0][1])
	assert.FileExists(t, filepath.Join(override, "api-docs.html"))
}

func TestGenerate_BundleFailurePropagatesExitCode(t *testing.T) {
	root, runner, out, outDir := setup(t, "")
	runner.bundleErr = fmt.Errorf("%w: %w", toolchain.ErrToolchainFailed, exitStatus(5))

	err := (&GenerateCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Len(t, runner.calls, 1)
	assert.NoFileExists(t, filepath.Join(outDir, "api-docs.html"))
	assert.NotContains(t, out.String(), docgen.MsgGenerated)
	assert.Equal(t, 5, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestGenerate_WritesMetricsTextfile(t *testing.T) {
	promPath := filepath.Join(t.TempDir(), "apidocgen.prom")
	root, _, _, _ := setup(t, fmt.Sprintf("metrics:\n  textfile: %s\n", promPath))

	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, root))
	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `apidocgen_run_outcomes_total{result="success"} 1`)
}

func TestGenerate_UnreachableNATSDoesNotFailRun(t *testing.T) {
	root, _, _, _ := setup(t, "notify:\n  nats_url: nats://127.0.0.1:1\n")
	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, root))
}

func TestGenerate_MissingExplicitConfig(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")}
	err := (&GenerateCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, ferrors.ExitConfig, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestGenerate_InvalidOverride(t *testing.T) {
	root, runner, _, _ := setup(t, "")
	err := (&GenerateCmd{Output: " "}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Empty(t, runner.calls)
}

func TestInspect(t *testing.T) {
	root, _, out, _ := setup(t, "")
	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, root))
	out.Reset()

	require.NoError(t, (&InspectCmd{}).Run(&Global{}, root))
	assert.Contains(t, out.String(), "title:   Pets")
	assert.Contains(t, out.String(), "paths:   2")
	assert.Contains(t, out.String(), "title: Pets API")
}

func TestInspect_WebhooksOnlyDocument(t *testing.T) {
	root, _, out, outDir := setup(t, "")
	require.NoError(t, os.MkdirAll(outDir, 0o750))
	spec := `{"openapi":"3.1.0","info":{"title":"Pet Events","version":"1.0"},"webhooks":{"newPet":{"post":{}}}}`
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "openapi.json"), []byte(spec), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "api-docs.html"), []byte(`<html><body><div id="redoc"></div></body></html>`), 0o600))

	require.NoError(t, (&InspectCmd{}).Run(&Global{}, root))
	assert.Contains(t, out.String(), "title:   Pet Events")
	assert.Contains(t, out.String(), "webhooks: 1")
}

func TestInspect_NothingGenerated(t *testing.T) {
	root, runner, _, _ := setup(t, "")
	err := (&InspectCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Empty(t, runner.calls)
}

func TestInit(t *testing.T) {
	var out bytes.Buffer
	orig := stdout
	stdout = &out
	t.Cleanup(func() { stdout = orig })

	path := filepath.Join(t.TempDir(), "apidocgen.yaml")
	root := &CLI{Config: path}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "initialized successfully")

	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSourceURL, cfg.Source.URL)
}

func TestWatch_RequiresLocalSource(t *testing.T) {
	root, runner, _, _ := setup(t, "")
	err := (&WatchCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Equal(t, ferrors.ExitUsage, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Empty(t, runner.calls)
}

func TestRunWatch_GeneratesInitially(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(source, []byte("openapi: 3.0.0\n"), 0o600))
	root, runner, _, _ := setup(t, fmt.Sprintf("source:\n  url: %s\n", source))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, runWatch(ctx, source, cfg.Watch.DebounceDuration(), newPipeline(cfg)))
	assert.Len(t, runner.calls, 2)
	assert.Equal(t, source, runner.calls[0][1])
}

func TestSchedule_RejectsShortInterval(t *testing.T) {
	root, runner, _, _ := setup(t, "")
	err := (&ScheduleCmd{Every: "10ms"}).Run(&Global{}, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Empty(t, runner.calls)
}

func TestCLI_DefaultCommandIsGenerate(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "generate", ctx.Command())

	ctx, err = parser.Parse([]string{"-c", "custom.yaml", "inspect"})
	require.NoError(t, err)
	assert.Equal(t, "inspect", ctx.Command())
	assert.Equal(t, "custom.yaml", cli.Config)
}
