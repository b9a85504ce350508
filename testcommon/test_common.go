package testcommon

import (
	"bytes"
	"os"
	"testing"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// GenerateTestReader opens a NITF file from disk as a seekable Reader.
func GenerateTestReader(t *testing.T, filepath string) *nitfio.Reader {
	data, err := os.ReadFile(filepath)
	if err != nil {
		t.Errorf("error reading test nitf file : %v", err)
		return nil
	}
	return nitfio.NewBytesReader(data)
}

// ReaderFor returns a seekable Reader over data with its file type set.
func ReaderFor(data []byte, ft nitfio.FileType) *nitfio.Reader {
	r := nitfio.NewReader(bytes.NewReader(data))
	r.SetFileType(ft)
	return r
}
