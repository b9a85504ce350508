package tre

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

//go:embed grammar/nitf_tres.xml
var defaultGrammar []byte

// Registry maps TRE tags to their grammar.
//
// Lookups may run from any number of goroutines. Register, RegisterYAML,
// RegisterFile and Add change the table in place and must not run while
// anything else is using the Registry.
type Registry struct {
	defs map[string]*Definition
}

var (
	sharedOnce     sync.Once
	sharedRegistry *Registry
	sharedErr      error
)

func NewEmptyRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// NewRegistry returns a Registry loaded with the bundled grammar.
func NewRegistry() (*Registry, error) {
	r := NewEmptyRegistry()
	if err := r.Register(bytes.NewReader(defaultGrammar)); err != nil {
		return nil, fmt.Errorf("bundled grammar: %w", err)
	}
	return r, nil
}

// SharedRegistry returns the process wide Registry, loading the bundled
// grammar on first use.
func SharedRegistry() (*Registry, error) {
	sharedOnce.Do(func() {
		sharedRegistry, sharedErr = NewRegistry()
	})
	return sharedRegistry, sharedErr
}

// Register adds every TRE in an XML grammar document. Nothing is added if
// any definition in the document is invalid.
func (r *Registry) Register(in io.Reader) error {
	raws, err := loadXML(in)
	if err != nil {
		return err
	}
	return r.merge(raws)
}

// RegisterYAML is Register for YAML grammar documents.
func (r *Registry) RegisterYAML(in io.Reader) error {
	raws, err := loadYAML(in)
	if err != nil {
		return err
	}
	return r.merge(raws)
}

// RegisterFile picks the loader from the file extension.
func (r *Registry) RegisterFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = r.RegisterYAML(f)
	default:
		err = r.Register(f)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (r *Registry) merge(raws []rawTre) error {
	defs, err := compile(raws)
	if err != nil {
		return err
	}
	for name, def := range defs {
		if _, ok := r.defs[name]; ok {
			log.Debugf("replacing grammar for TRE %s", name)
		}
		r.defs[name] = def
	}
	return nil
}

// Add registers a Definition built in code.
func (r *Registry) Add(def *Definition) {
	r.defs[def.Name] = def
}

func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names lists the registered tags in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
