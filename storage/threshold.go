package storage

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/kpfaulkner/nitf-go/nitfio"
	log "github.com/sirupsen/logrus"
)

// Threshold keeps payloads up to MaxInMemory bytes in memory. Larger
// payloads, or any payload that would not fit under the runtime memory
// limit, go to Disk when SpoolToDisk is set.
type Threshold struct {
	MaxInMemory int64
	SpoolToDisk bool
	Disk        *TempFile

	// Available reports free memory. AvailableMemory is used when nil.
	Available func() int64
}

func NewThreshold(maxInMemory int64, spoolToDisk bool, tempDir string) *Threshold {
	return &Threshold{
		MaxInMemory: maxInMemory,
		SpoolToDisk: spoolToDisk,
		Disk:        NewTempFile(tempDir),
	}
}

func (t *Threshold) Handle(r *nitfio.Reader, length int64) (Payload, error) {
	if t.InMemory(length) || !t.SpoolToDisk {
		return Memory{}.Handle(r, length)
	}
	if t.Disk == nil {
		t.Disk = NewTempFile("")
	}
	return t.Disk.Handle(r, length)
}

// InMemory reports whether a payload of length bytes stays in memory.
func (t *Threshold) InMemory(length int64) bool {
	if t.MaxInMemory > 0 && length > t.MaxInMemory {
		return false
	}
	available := t.Available
	if available == nil {
		available = AvailableMemory
	}
	if free := available(); length > free {
		log.Debugf("payload of %d bytes exceeds %d bytes of free memory", length, free)
		return false
	}
	return true
}

func (t *Threshold) Cleanup() error {
	if t.Disk == nil {
		return nil
	}
	return t.Disk.Cleanup()
}

// AvailableMemory is the runtime soft memory limit less the heap in use.
// Without a limit it is effectively unbounded.
func AvailableMemory() int64 {
	limit := debug.SetMemoryLimit(-1)
	if limit == math.MaxInt64 {
		return math.MaxInt64
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	free := limit - int64(ms.HeapInuse)
	if free < 0 {
		return 0
	}
	return free
}
