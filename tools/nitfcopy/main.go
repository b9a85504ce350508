package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	nitf "github.com/kpfaulkner/nitf-go"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/storage"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// nitfcopy parses each input and writes it back out, reporting whether the
// copy is byte identical to the original.
func main() {
	outdir := flag.String("o", "", "output directory")
	configFile := flag.String("config", "", "yaml options file")
	workers := flag.Int("j", runtime.NumCPU(), "files processed at once")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	storage.RemoveOnExit()

	if *outdir == "" || flag.NArg() == 0 {
		fmt.Printf("usage: nitfcopy -o outdir file...\n")
		os.Exit(1)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	opts := options.NewNITFOptions(nil)
	if *configFile != "" {
		var err error
		if opts, err = options.LoadOptions(*configFile); err != nil {
			log.Fatalf("loading options: %v", err)
		}
	}
	if opts.HeadersOnly {
		log.Fatalf("headersOnly cannot be used when copying")
	}

	var g errgroup.Group
	g.SetLimit(*workers)
	for _, in := range flag.Args() {
		g.Go(func() error {
			return copyFile(in, filepath.Join(*outdir, filepath.Base(in)), opts)
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("copy failed: %v", err)
		os.Exit(1)
	}
}

func copyFile(in string, out string, opts *options.NITFOptions) error {
	start := time.Now()
	original, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	ds, err := nitf.Parse(bytes.NewReader(original), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	defer func() {
		if err := ds.Cleanup(); err != nil {
			log.Errorf("cleanup %s: %v", in, err)
		}
	}()

	var buf bytes.Buffer
	if err := nitf.Write(&buf, ds, opts); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0666); err != nil {
		return err
	}

	same := bytes.Equal(original, buf.Bytes())
	fmt.Printf("%s -> %s: %d bytes, identical %v, %d ms\n", in, out, buf.Len(), same, time.Since(start).Milliseconds())
	return nil
}
