// Package analyzer owns the external spectrum analyzer process: generating
// its configuration file, spawning and terminating the binary, and framing
// its raw stdout stream into spectrum frames.
//
// The analyzer contract is deliberately narrow. The binary is launched with
// a single flag pointing at a generated config file, and from then on it
// writes an unframed stream of fixed-size records to stdout: bar count
// consecutive little-endian uint16 magnitudes per record, at the configured
// frame rate. There is no header, length prefix, or trailer — framing is
// purely by byte count agreed through the config file.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
)

// configTemplate is the cava configuration written before launch. Only the
// bar count varies; the output section must stay in raw/binary/16bit mono
// mode or the wire framing assumptions break. The smoothing parameters are
// part of the visual calibration and are fixed on purpose.
const configTemplate = `[general]
bars = %d
framerate = 60

[output]
method = raw
channels = mono
raw_target = /dev/stdout
data_format = binary
bit_format = 16bit

[smoothing]
integral = 70
monstercat = 0
waves = 1
gravity = 100
`

// defaultConfigName is the file name used under the system temp directory
// when no explicit config path is configured.
const defaultConfigName = "barvis-cava.conf"

// WriteConfig renders the analyzer configuration for the given bar count and
// writes it to path. When path is empty, a well-known location under
// [os.TempDir] is used. Returns the path actually written.
func WriteConfig(path string, bars int) (string, error) {
	if bars < 1 {
		return "", fmt.Errorf("analyzer: bar count must be >= 1, got %d", bars)
	}
	if path == "" {
		path = filepath.Join(os.TempDir(), defaultConfigName)
	}
	content := fmt.Sprintf(configTemplate, bars)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("analyzer: write config %q: %w", path, err)
	}
	return path, nil
}
