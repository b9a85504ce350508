package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	nitf "github.com/kpfaulkner/nitf-go"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	count := flag.Int("n", 10, "parse and write cycles per file")
	mode := flag.String("profile", "cpu", "cpu or mem")
	flag.Parse()

	filePaths := flag.Args()
	if len(filePaths) == 0 {
		fmt.Printf("usage: bench [-n count] [-profile cpu|mem] file...\n")
		os.Exit(1)
	}

	//p := profile.Start(profile.MemProfileRate(1), profile.ProfilePath("."))
	var p interface{ Stop() }
	if *mode == "mem" {
		p = profile.Start(profile.MemProfileHeap, profile.ProfilePath("."))
	} else {
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}
	defer p.Stop()

	// load the grammar once up front; every worker shares it read only
	if _, err := tre.SharedRegistry(); err != nil {
		log.Fatalf("loading grammar: %v", err)
	}

	opts := options.NewNITFOptions(nil)
	var total atomic.Int64
	start := time.Now()

	var g errgroup.Group
	for _, file := range filePaths {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			fileStart := time.Now()
			for i := 0; i < *count; i++ {
				ds, err := nitf.Parse(bytes.NewReader(data), opts)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				err = nitf.Write(io.Discard, ds, opts)
				if cerr := ds.Cleanup(); cerr != nil {
					log.Errorf("cleanup %s: %v", file, cerr)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				total.Add(int64(len(data)))
			}
			fmt.Printf("file %s: %d cycles in %d ms\n", file, *count, time.Since(fileStart).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("benchmark failed: %v", err)
		return
	}

	elapsed := time.Since(start)
	fmt.Printf("processed %d bytes in %d ms\n", total.Load(), elapsed.Milliseconds())
}
