package storage

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kpfaulkner/nitf-go/nitfio"
	log "github.com/sirupsen/logrus"
)

// FilePayload is a payload spooled to a temporary file.
type FilePayload struct {
	path   string
	length int64
}

func (p *FilePayload) Len() int64 {
	return p.length
}

func (p *FilePayload) Path() string {
	return p.path
}

func (p *FilePayload) Open() (io.ReadCloser, error) {
	return os.Open(p.path)
}

func (p *FilePayload) WriteTo(w io.Writer) (int64, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

// TempFile spools each payload into its own file under Dir, or the system
// temporary directory when Dir is empty. Cleanup removes every file it made.
type TempFile struct {
	Dir string

	mu    sync.Mutex
	files []string
}

func NewTempFile(dir string) *TempFile {
	return &TempFile{Dir: dir}
}

func (t *TempFile) Handle(r *nitfio.Reader, length int64) (Payload, error) {
	f, err := os.CreateTemp(t.Dir, "nitf-segment-*")
	if err != nil {
		return nil, err
	}
	t.track(f.Name())

	copyErr := r.CopyTo(f, length)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return nil, err
	}

	log.Debugf("spooled %d byte payload to %s", length, f.Name())
	return &FilePayload{path: f.Name(), length: length}, nil
}

func (t *TempFile) track(path string) {
	t.mu.Lock()
	t.files = append(t.files, path)
	t.mu.Unlock()

	spools.mu.Lock()
	spools.live[t] = struct{}{}
	spools.mu.Unlock()
}

// spools holds every TempFile that still has files on disk.
var spools = struct {
	mu   sync.Mutex
	live map[*TempFile]struct{}
}{live: map[*TempFile]struct{}{}}

// CleanupAll deletes the files of every TempFile in the process that has
// not been cleaned up yet.
func CleanupAll() error {
	spools.mu.Lock()
	live := make([]*TempFile, 0, len(spools.live))
	for t := range spools.live {
		live = append(live, t)
	}
	spools.mu.Unlock()

	var errs []error
	for _, t := range live {
		errs = append(errs, t.Cleanup())
	}
	return errors.Join(errs...)
}

// RemoveOnExit arranges for CleanupAll to run when the process is stopped by
// log.Fatal, SIGINT or SIGTERM. Normal returns from main still need a
// deferred CleanupAll or DataSource.Cleanup.
func RemoveOnExit() {
	log.RegisterExitHandler(func() {
		if err := CleanupAll(); err != nil {
			log.Errorf("removing spooled payloads: %v", err)
		}
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Debugf("received %v, removing spooled payloads", sig)
		if err := CleanupAll(); err != nil {
			log.Errorf("removing spooled payloads: %v", err)
		}
		os.Exit(1)
	}()
}

// Cleanup deletes every file created so far.
func (t *TempFile) Cleanup() error {
	t.mu.Lock()
	files := t.files
	t.files = nil
	t.mu.Unlock()

	spools.mu.Lock()
	delete(spools.live, t)
	spools.mu.Unlock()

	var errs []error
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
