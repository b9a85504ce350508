package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	nitf "github.com/kpfaulkner/nitf-go"
	"github.com/kpfaulkner/nitf-go/core"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/storage"
	"github.com/kpfaulkner/nitf-go/tre"
	log "github.com/sirupsen/logrus"
)

func main() {
	infile := flag.String("i", "", "input nitf file")
	configFile := flag.String("config", "", "yaml options file")
	headersOnly := flag.Bool("headers", false, "skip segment payloads")
	inMemory := flag.Bool("mem", false, "read the whole file into memory first")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	storage.RemoveOnExit()

	if *infile == "" {
		fmt.Printf("input file must be specified\n")
		os.Exit(1)
	}

	opts := options.NewNITFOptions(nil)
	if *configFile != "" {
		var err error
		if opts, err = options.LoadOptions(*configFile); err != nil {
			log.Fatalf("loading options: %v", err)
		}
	}
	if *headersOnly {
		opts.HeadersOnly = true
	}
	if *verbose || opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	start := time.Now()
	ds, err := nitf.ParseFile(*infile, *inMemory, opts)
	if err != nil {
		log.Errorf("Error parsing %s: %v", *infile, err)
		os.Exit(1)
	}
	defer func() {
		if err := ds.Cleanup(); err != nil {
			log.Errorf("cleanup: %v", err)
		}
	}()
	fmt.Printf("parsing took %d ms\n", time.Since(start).Milliseconds())

	dump(ds)
}

func dump(ds *core.DataSource) {
	h := ds.Header
	fmt.Printf("%s  CLEVEL %02d  FL %d  HL %d\n", h.FileType, h.ComplexityLevel, h.FileLength, h.HeaderLength)
	fmt.Printf("  title %q  station %q  date %s  class %s\n", h.Title, h.OriginatingStationID, h.DateTime, h.Security.Classification)
	dumpTres("  ", "file", ds.MergedFileTres())

	for i, s := range ds.Segments() {
		c := segment.CommonOf(s)
		fmt.Printf("segment %d: %s %q, %d data bytes\n", i, s.Kind(), c.Identifier, c.DataLength())

		switch seg := s.(type) {
		case *segment.Image:
			fmt.Printf("  %dx%d, %d bands, IC %s, ICORDS %q\n", seg.Columns, seg.Rows, len(seg.Bands), seg.Compression, seg.CoordinateSystem)
			if seg.Corners != nil {
				fmt.Printf("  corners %v %v %v %v\n", seg.Corners[0], seg.Corners[1], seg.Corners[2], seg.Corners[3])
			}
			for _, comment := range seg.Comments {
				fmt.Printf("  comment %q\n", comment)
			}
			dumpSection("  ", "UDID", seg.UserDefined)
			dumpSection("  ", "IXSHD", seg.Extended)
		case *segment.Graphic:
			dumpSection("  ", "SXSHD", seg.Extended)
		case *segment.Symbol:
			dumpSection("  ", "SXSHD", seg.Extended)
		case *segment.Label:
			dumpSection("  ", "LXSHD", seg.Extended)
		case *segment.Text:
			fmt.Printf("  format %s, title %q\n", seg.Format, seg.Title)
			dumpSection("  ", "TXSHD", seg.Extended)
		case *segment.DataExtension:
			if seg.IsOverflow() {
				fmt.Printf("  overflow from %s %d\n", seg.OverflowedHeaderType, seg.OverflowedItem)
				dumpTres("  ", "overflow", seg.OverflowTres)
			}
			if seg.StreamingPlaceholder {
				fmt.Printf("  streaming header copy\n")
			}
		}
	}
}

func dumpSection(indent string, name string, s *tre.Section) {
	if s.IsEmpty() {
		return
	}
	if s.Overflow != 0 {
		fmt.Printf("%s%s overflows into DES %d\n", indent, name, s.Overflow)
	}
	dumpTres(indent, name, s.Tres)
}

func dumpTres(indent string, where string, tres tre.Collection) {
	for _, t := range tres {
		if t.IsRaw() {
			fmt.Printf("%s%s TRE %s: %d raw bytes\n", indent, where, t.Name, len(t.Raw))
			continue
		}
		fmt.Printf("%s%s TRE %s\n", indent, where, t.Name)
		dumpEntries(indent+"  ", t.Entries)
	}
}

func dumpEntries(indent string, entries []*tre.Entry) {
	for _, e := range entries {
		if !e.Loop {
			fmt.Printf("%s%s = %q\n", indent, e.Name, strings.TrimRight(e.Value, " "))
			continue
		}
		fmt.Printf("%s%s (%d)\n", indent, e.Name, len(e.Groups))
		for i, g := range e.Groups {
			fmt.Printf("%s  [%d]\n", indent, i)
			dumpEntries(indent+"    ", g.Entries)
		}
	}
}
