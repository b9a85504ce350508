package nitfio

// FileType is the format version marker found at the start of every file.
type FileType int

const (
	UNKNOWN FileType = iota
	NITF_TWO_ZERO
	NITF_TWO_ONE
	NSIF_ONE_ZERO
)

var fileTypeMarkers = map[FileType]string{
	NITF_TWO_ZERO: "NITF02.00",
	NITF_TWO_ONE:  "NITF02.10",
	NSIF_ONE_ZERO: "NSIF01.00",
}

// FileTypeFromMarker maps the 9 byte FHDR+FVER value to a FileType.
func FileTypeFromMarker(marker string) FileType {
	for ft, m := range fileTypeMarkers {
		if m == marker {
			return ft
		}
	}
	return UNKNOWN
}

// Marker returns the FHDR+FVER text for the file type.
func (ft FileType) Marker() string {
	return fileTypeMarkers[ft]
}

// IsTwoZero reports whether the older NITF 2.0 layouts apply.
func (ft FileType) IsTwoZero() bool {
	return ft == NITF_TWO_ZERO
}

func (ft FileType) String() string {
	switch ft {
	case NITF_TWO_ZERO:
		return "NITF 2.0"
	case NITF_TWO_ONE:
		return "NITF 2.1"
	case NSIF_ONE_ZERO:
		return "NSIF 1.0"
	}
	return "unknown"
}
