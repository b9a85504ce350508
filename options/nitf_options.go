package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxInMemoryPayload is used when MaxInMemoryPayload is zero.
const DefaultMaxInMemoryPayload int64 = 64 * 1024 * 1024

type NITFOptions struct {
	// HeadersOnly skips segment payloads. Files parsed this way cannot be
	// written back.
	HeadersOnly bool `yaml:"headersOnly"`

	// Payloads larger than MaxInMemoryPayload are spooled to TempDir when
	// SpoolToDisk is set.
	MaxInMemoryPayload int64  `yaml:"maxInMemoryPayload"`
	SpoolToDisk        bool   `yaml:"spoolToDisk"`
	TempDir            string `yaml:"tempDir"`

	// GrammarFiles are extra TRE grammar documents, XML or YAML, loaded on
	// top of the bundled one.
	GrammarFiles []string `yaml:"grammarFiles"`

	// StrictTres fails a parse when a registered TRE does not decode rather
	// than keeping it raw.
	StrictTres bool `yaml:"strictTres"`

	Debug bool `yaml:"debug"`
}

func NewNITFOptions(options *NITFOptions) *NITFOptions {

	opt := &NITFOptions{MaxInMemoryPayload: DefaultMaxInMemoryPayload}
	if options != nil {
		opt.HeadersOnly = options.HeadersOnly
		if options.MaxInMemoryPayload > 0 {
			opt.MaxInMemoryPayload = options.MaxInMemoryPayload
		}
		opt.SpoolToDisk = options.SpoolToDisk
		opt.TempDir = options.TempDir
		opt.GrammarFiles = append([]string(nil), options.GrammarFiles...)
		opt.StrictTres = options.StrictTres
		opt.Debug = options.Debug
	}
	return opt
}

// LoadOptions reads options from a YAML file. Missing keys take their
// defaults.
func LoadOptions(path string) (*NITFOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var opt NITFOptions
	if err := yaml.Unmarshal(data, &opt); err != nil {
		return nil, fmt.Errorf("options %s: %w", path, err)
	}
	if opt.MaxInMemoryPayload < 0 {
		return nil, fmt.Errorf("options %s: negative maxInMemoryPayload %d", path, opt.MaxInMemoryPayload)
	}
	return NewNITFOptions(&opt), nil
}

// SaveOptions writes opt to path as YAML.
func SaveOptions(path string, opt *NITFOptions) error {
	data, err := yaml.Marshal(opt)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0666)
}
