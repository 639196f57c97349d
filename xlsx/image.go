package xlsx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/oxml"
)

// Anchor is a corner of an image: a cell and an offset in EMU from the
// top left corner of this cell.
type Anchor struct {
	Pos    layout.Position
	RowOff int64
	ColOff int64
}

// Offset gives a copy of the anchor moved x pixels right and y pixels down
// from the top left corner of its cell.
func (a Anchor) Offset(x, y int) Anchor {
	a.ColOff = int64(x) * oxml.EMU
	a.RowOff = int64(y) * oxml.EMU
	return a
}

func (a Anchor) marker() oxml.Marker {
	return oxml.Marker{
		Col:    a.Pos.Col,
		ColOff: a.ColOff,
		Row:    a.Pos.Row,
		RowOff: a.RowOff,
	}
}

type Image struct {
	Data []byte
	// Ext is the extension of the media file. It is guessed from Data when
	// empty.
	Ext   string
	Descr string
	From  Anchor
	// To defaults to the cell one row and one column after From.
	To *Anchor
}

// AddImage stores the image in the workbook and anchors it on the sheet.
// The drawing of the sheet is created if the sheet does not have one yet.
func (w *Worksheet) AddImage(img Image) error {
	if err := w.book.check(); err != nil {
		return err
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: no data", ErrImage)
	}
	mime := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return fmt.Errorf("%w: unsupported type %s", ErrImage, mime.String())
	}
	ext := strings.TrimPrefix(img.Ext, ".")
	if ext == "" {
		ext = strings.TrimPrefix(mime.Extension(), ".")
	}
	if ext == "" {
		return fmt.Errorf("%w: unknown extension for %s", ErrImage, mime.String())
	}
	to := Anchor{
		Pos: img.From.Pos.Offset(1, 1),
	}
	if img.To != nil {
		to = *img.To
	}
	for _, a := range []Anchor{img.From, to} {
		if _, err := a.Pos.Format(); err != nil {
			return err
		}
	}

	ct, err := w.book.cache.ContentTypes()
	if err != nil {
		return err
	}
	doc, err := w.doc()
	if err != nil {
		return err
	}
	rels, err := w.book.cache.EnsureRelations(w.path)
	if err != nil {
		return err
	}
	drawing, err := w.drawing(doc, rels)
	if err != nil {
		return err
	}

	media := w.book.nextPart("xl/media/image%d." + ext)
	w.book.cache.SetBytes(media, img.Data)
	ct.Add(media, mime.String())

	if drawing == nil {
		part := w.book.nextPart("xl/drawings/drawing%d.xml")
		drawing = oxml.NewDrawing(part)
		w.book.cache.Set(part, drawing)
		ct.Add(part, oxml.MimeDrawing)
		doc.DrawingID = rels.Add(oxml.TypeDrawingUrl, oxml.RelativePath(w.path, part))
		w.book.logger.Debug("drawing created", "sheet", w.path, "part", part)
	}
	drels, err := w.book.cache.EnsureRelations(drawing.Name())
	if err != nil {
		return err
	}
	rid := drels.Add(oxml.TypeImageUrl, oxml.RelativePath(drawing.Name(), media))
	pic := drawing.AddPicture(rid, img.From.marker(), to.marker(), img.Descr)

	w.book.logger.Debug("image added", "sheet", w.path, "media", media, "picture", pic.ID)
	return nil
}

// drawing gives the drawing of the sheet or nil when it has none.
func (w *Worksheet) drawing(doc *oxml.Worksheet, rels *oxml.Relationships) (*oxml.Drawing, error) {
	if doc.DrawingID == "" {
		return nil, nil
	}
	rel, ok := rels.Get(doc.DrawingID)
	if !ok {
		return nil, fmt.Errorf("drawing %s %w", doc.DrawingID, ErrNotFound)
	}
	dw, err := w.book.cache.Drawing(rels.Resolve(rel))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return dw, err
}
