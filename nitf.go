// Package nitf_go reads and writes NITF 2.0, NITF 2.1 and NSIF 1.0 files.
package nitf_go

import (
	"bytes"
	"io"
	"os"

	"github.com/kpfaulkner/nitf-go/core"
	"github.com/kpfaulkner/nitf-go/options"
	log "github.com/sirupsen/logrus"
)

// Parse reads a NITF file from r. Streaming files need r to be an
// io.ReadSeeker.
func Parse(r io.Reader, opts *options.NITFOptions) (*core.DataSource, error) {
	return core.NewNITFReader(r, opts).Parse()
}

// ParseFile reads the named file. With readIntoMemory the whole file is
// loaded first, otherwise it is read through the open file. Callers must
// Cleanup the result when payloads may have been spooled to disk.
func ParseFile(filename string, readIntoMemory bool, opts *options.NITFOptions) (*core.DataSource, error) {
	if readIntoMemory {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return Parse(bytes.NewReader(data), opts)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("closing %s: %v", filename, err)
		}
	}()
	return Parse(f, opts)
}

// Write assembles ds into w, recomputing every declared length.
func Write(w io.Writer, ds *core.DataSource, opts *options.NITFOptions) error {
	return core.NewNITFWriter(opts).Write(w, ds)
}

// WriteFile writes ds to the named file.
func WriteFile(filename string, ds *core.DataSource, opts *options.NITFOptions) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, ds, opts)
}
