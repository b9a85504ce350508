package segment

import "github.com/kpfaulkner/nitf-go/nitfio"

// DowngradeEventCode in a NITF 2.0 downgrade field means a 40 character
// downgrade event follows.
const DowngradeEventCode = "999998"

// Security is the classification block found in the file header and every
// subheader. NITF 2.0 uses wider codeword, control and release fields and
// a downgrade code in place of the 2.1 declassification fields.
type Security struct {
	Classification string

	// NITF 2.1 and NSIF 1.0
	ClassificationSystem        string
	DeclassificationType        string
	DeclassificationDate        string
	DeclassificationExemption   string
	Downgrade                   string
	DowngradeDate               string
	ClassificationText          string
	ClassificationAuthorityType string
	ClassificationReason        string
	SourceDate                  string

	// shared, with version dependent widths
	Codewords               string
	ControlAndHandling      string
	Releasing               string
	ClassificationAuthority string
	ControlNumber           string

	// NITF 2.0
	DowngradeCode  string
	DowngradeEvent string
}

// ExtraLength is the number of bytes the block adds beyond its fixed size,
// which is only the 2.0 downgrade event.
func (s *Security) ExtraLength(ft nitfio.FileType) int {
	if ft.IsTwoZero() && s.DowngradeCode == DowngradeEventCode {
		return 40
	}
	return 0
}

func readSecurity(f *fields) Security {
	var s Security
	s.Classification = f.trimmed(1, "CLAS")

	if f.r.FileType().IsTwoZero() {
		s.Codewords = f.trimmed(40, "CODE")
		s.ControlAndHandling = f.trimmed(40, "CTLH")
		s.Releasing = f.trimmed(40, "REL")
		s.ClassificationAuthority = f.trimmed(20, "CAUT")
		s.ControlNumber = f.trimmed(20, "CTLN")
		s.DowngradeCode = f.trimmed(6, "DWNG")
		if s.DowngradeCode == DowngradeEventCode {
			s.DowngradeEvent = f.trimmed(40, "DEVT")
		}
		return s
	}

	s.ClassificationSystem = f.trimmed(2, "CLSY")
	s.Codewords = f.trimmed(11, "CODE")
	s.ControlAndHandling = f.trimmed(2, "CTLH")
	s.Releasing = f.trimmed(20, "REL")
	s.DeclassificationType = f.trimmed(2, "DCTP")
	s.DeclassificationDate = f.trimmed(8, "DCDT")
	s.DeclassificationExemption = f.trimmed(4, "DCXM")
	s.Downgrade = f.trimmed(1, "DG")
	s.DowngradeDate = f.trimmed(8, "DGDT")
	s.ClassificationText = f.trimmed(43, "CLTX")
	s.ClassificationAuthorityType = f.trimmed(1, "CATP")
	s.ClassificationAuthority = f.trimmed(40, "CAUT")
	s.ClassificationReason = f.trimmed(1, "CRSN")
	s.SourceDate = f.trimmed(8, "SRDT")
	s.ControlNumber = f.trimmed(15, "CTLN")
	return s
}

func writeSecurity(w *nitfio.Writer, s *Security) {
	w.WriteText(s.Classification, 1)

	if w.FileType().IsTwoZero() {
		w.WriteText(s.Codewords, 40)
		w.WriteText(s.ControlAndHandling, 40)
		w.WriteText(s.Releasing, 40)
		w.WriteText(s.ClassificationAuthority, 20)
		w.WriteText(s.ControlNumber, 20)
		w.WriteText(s.DowngradeCode, 6)
		if s.DowngradeCode == DowngradeEventCode {
			w.WriteText(s.DowngradeEvent, 40)
		}
		return
	}

	w.WriteText(s.ClassificationSystem, 2)
	w.WriteText(s.Codewords, 11)
	w.WriteText(s.ControlAndHandling, 2)
	w.WriteText(s.Releasing, 20)
	w.WriteText(s.DeclassificationType, 2)
	w.WriteText(s.DeclassificationDate, 8)
	w.WriteText(s.DeclassificationExemption, 4)
	w.WriteText(s.Downgrade, 1)
	w.WriteText(s.DowngradeDate, 8)
	w.WriteText(s.ClassificationText, 43)
	w.WriteText(s.ClassificationAuthorityType, 1)
	w.WriteText(s.ClassificationAuthority, 40)
	w.WriteText(s.ClassificationReason, 1)
	w.WriteText(s.SourceDate, 8)
	w.WriteText(s.ControlNumber, 15)
}
