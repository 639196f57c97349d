package oxml

import (
	"bytes"
	"fmt"

	sax "github.com/midbel/codecs/xml"
	"github.com/midbel/sheetkit/layout"
)

// Probe summarizes a worksheet without building its model.
type Probe struct {
	Range      layout.Range
	Declared   layout.Range
	Cells      int
	Protection SheetProtection
}

func (p Probe) Empty() bool {
	return p.Cells == 0
}

// ProbeWorksheet scans the raw xml of a worksheet part and reports the
// bounding box of its cells, the dimension declared in the document and
// its protection flags.
func ProbeWorksheet(data []byte) (Probe, error) {
	var (
		probe Probe
		rs    = sax.NewReader(bytes.NewReader(data))
	)
	rs.Element(sax.LocalName("dimension"), func(_ *sax.Reader, el sax.E) error {
		rg, err := layout.ParseRange(el.GetAttributeValue("ref"))
		if err == nil {
			probe.Declared = rg
		}
		return nil
	})
	rs.Element(sax.LocalName("sheetProtection"), func(_ *sax.Reader, el sax.E) error {
		for _, a := range protectionAttrs {
			if v := el.GetAttributeValue(a.Name); v == "1" || v == "true" {
				probe.Protection |= a.Flag
			}
		}
		return nil
	})
	rs.Element(sax.LocalName("c"), func(_ *sax.Reader, el sax.E) error {
		ref := el.GetAttributeValue("r")
		if ref == "" {
			return nil
		}
		pos, err := layout.ParsePosition(ref)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrFile, err)
		}
		if probe.Cells == 0 {
			probe.Range = layout.SingleRange(pos)
		} else {
			probe.Range = probe.Range.Extend(pos)
		}
		probe.Cells++
		return nil
	})
	if err := rs.Start(); err != nil {
		return probe, fmt.Errorf("%w: %s", ErrFile, err)
	}
	if probe.Cells == 0 {
		probe.Range = probe.Declared
	}
	return probe, nil
}
