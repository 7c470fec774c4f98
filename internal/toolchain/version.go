package toolchain

import (
	"bytes"
	"context"
	"regexp"
	"strings"
)

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// Version runs the toolchain with --version and returns the detected semantic
// version. Detection is best-effort: failures yield an empty string.
func (r *ExecRunner) Version(ctx context.Context) string {
	var out bytes.Buffer
	probe := &ExecRunner{
		command:  r.command,
		stdout:   &out,
		stderr:   &bytes.Buffer{},
		timeout:  r.timeout,
		lookPath: r.lookPath,
	}
	if err := probe.Run(ctx, "--version"); err != nil {
		return ""
	}
	return parseVersion(out.String())
}

// parseVersion extracts X.Y.Z from version output such as "@redocly/cli v1.25.3".
func parseVersion(output string) string {
	if m := versionPattern.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return strings.TrimSpace(output)
}
