package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# apidocgen configuration. Every value shown is the default.
source:
  url: %s

output:
  directory: %s
  spec_file: %s
  html_file: %s

toolchain:
  command: [npx, "@redocly/cli"]
  # bundle_args: [--dereferenced]
  # render_args: [--title, "My API"]
  # timeout: 5m

retry:
  max_retries: 0
  backoff: linear
  initial_delay: 1s
  max_delay: 30s

checks:
  spec: true
  html: true

logging:
  level: info
  format: text

# metrics:
#   textfile: /var/lib/node_exporter/textfile/apidocgen.prom

# notify:
#   nats_url: nats://localhost:4222
#   subject: %s

watch:
  debounce: %s

schedule:
  interval: %s
`

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	content := fmt.Sprintf(exampleConfig,
		DefaultSourceURL, DefaultOutputDir, DefaultSpecFile, DefaultHTMLFile,
		DefaultNATSSubject, DefaultDebounce, DefaultInterval)

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
