package xlsx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/midbel/sheetkit/internal/archive"
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/oxml"
)

const maxSheetName = 31

var ErrSheetName = errors.New("invalid worksheet name")

// SheetInfo describes a worksheet of a workbook.
type SheetInfo struct {
	Name       string
	Index      int
	State      oxml.SheetState
	Range      layout.Range
	Cells      int
	Protection oxml.SheetProtection
}

func (s SheetInfo) Empty() bool {
	return s.Cells == 0
}

// Workbook is the entry point to read and write a xlsx file. Parts of the
// file are decoded the first time they are needed. A workbook is not safe
// for concurrent use.
type Workbook struct {
	archive *archive.Archive
	cache   *oxml.Cache
	sheets  map[string]*Worksheet
	closed  bool

	config
}

func create(a *archive.Archive, opts []Option) *Workbook {
	wb := Workbook{
		archive: a,
		sheets:  make(map[string]*Worksheet),
		config:  defaultConfig(),
	}
	for _, o := range opts {
		o(&wb.config)
	}
	wb.cache = oxml.NewCache(a, wb.logger)
	return &wb
}

// New creates an empty workbook with only the parts required by a valid
// package.
func New(opts ...Option) *Workbook {
	wb := create(archive.New(), opts)

	ct := oxml.NewContentTypes()
	ct.Add(oxml.PathWorkbook, oxml.MimeWorkbook)

	root := oxml.NewRelationships(oxml.PathRootRelations)
	root.Add(oxml.TypeDocUrl, oxml.PathWorkbook)

	wb.cache.Set(oxml.PathContentTypes, ct)
	wb.cache.Set(oxml.PathRootRelations, root)
	wb.cache.Set(oxml.PathWorkbook, oxml.NewWorkbook())
	wb.cache.Set(oxml.PathWorkbookRels, oxml.NewRelationships(oxml.PathWorkbookRels))
	return wb
}

// Open wraps the content of a xlsx file. Nothing is decoded until a part
// is requested.
func Open(data []byte, opts ...Option) (*Workbook, error) {
	a, err := archive.Open(data)
	if err != nil {
		return nil, err
	}
	wb := create(a, opts)
	wb.logger.Debug("workbook opened", "size", len(data), "parts", len(a.Names()))
	return wb, nil
}

func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Open(data, opts...)
}

func OpenFile(file string, opts ...Option) (*Workbook, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Open(data, opts...)
}

func (w *Workbook) check() error {
	if w.closed {
		return ErrClosed
	}
	return nil
}

func (w *Workbook) WorksheetNames() ([]string, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	wb, err := w.cache.Workbook()
	if err != nil {
		return nil, err
	}
	return wb.Names(), nil
}

func (w *Workbook) Worksheet(name string) (*Worksheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	wb, err := w.cache.Workbook()
	if err != nil {
		return nil, err
	}
	sh, ok := wb.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("worksheet %s %w", name, ErrNotFound)
	}
	return w.sheet(sh.RID)
}

// WorksheetAt gives the worksheet at the given 0-based index.
func (w *Workbook) WorksheetAt(ix int) (*Worksheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	wb, err := w.cache.Workbook()
	if err != nil {
		return nil, err
	}
	if ix < 0 || ix >= len(wb.Sheets) {
		return nil, fmt.Errorf("worksheet #%d %w", ix, ErrNotFound)
	}
	return w.sheet(wb.Sheets[ix].RID)
}

// CreateWorksheet adds an empty worksheet at the end of the workbook.
func (w *Workbook) CreateWorksheet(name string) (*Worksheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	wb, err := w.cache.Workbook()
	if err != nil {
		return nil, err
	}
	if err := checkSheetName(wb, name); err != nil {
		return nil, err
	}
	rels, err := w.cache.EnsureRelations(oxml.PathWorkbook)
	if err != nil {
		return nil, err
	}
	ct, err := w.cache.ContentTypes()
	if err != nil {
		return nil, err
	}
	part := w.nextPart("xl/worksheets/sheet%d.xml")
	rid := rels.Add(oxml.TypeSheetUrl, oxml.RelativePath(oxml.PathWorkbook, part))
	wb.AddSheet(name, rid)
	ct.Add(part, oxml.MimeWorksheet)
	w.cache.Set(part, oxml.NewWorksheet(part))

	w.logger.Debug("worksheet created", "name", name, "part", part, "rid", rid)
	return w.sheet(rid)
}

// Infos describes every worksheet. Worksheets not yet decoded are only
// scanned.
func (w *Workbook) Infos() ([]SheetInfo, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	wb, err := w.cache.Workbook()
	if err != nil {
		return nil, err
	}
	var list []SheetInfo
	for i, sh := range wb.Sheets {
		ws, err := w.sheet(sh.RID)
		if err != nil {
			return nil, err
		}
		info := SheetInfo{
			Name:  sh.Name,
			Index: i,
			State: sh.State,
		}
		if w.cache.Loaded(ws.path) {
			doc, err := ws.doc()
			if err != nil {
				return nil, err
			}
			info.Range, _ = doc.Range()
			info.Cells = doc.Len()
			info.Protection = doc.Protection()
		} else {
			data, err := w.cache.Raw(ws.path)
			if err != nil {
				return nil, err
			}
			probe, err := oxml.ProbeWorksheet(data)
			if err != nil {
				return nil, err
			}
			info.Range = probe.Range
			info.Cells = probe.Cells
			info.Protection = probe.Protection
		}
		list = append(list, info)
	}
	return list, nil
}

// Bytes encodes the workbook as a xlsx file.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Save(context.Background(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Workbook) WriteTo(ws io.Writer) (int64, error) {
	data, err := w.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := ws.Write(data)
	return int64(n), err
}

// Save writes the workbook to ws. Parts that were never decoded are
// copied as they are. ctx is checked between two parts.
func (w *Workbook) Save(ctx context.Context, ws io.Writer) error {
	if err := w.check(); err != nil {
		return err
	}
	parts, err := w.cache.Export()
	if err != nil {
		return err
	}
	if err := w.archive.Write(ctx, ws, parts, w.level); err != nil {
		return err
	}
	w.logger.Debug("workbook saved", "parts", len(parts))
	return nil
}

func (w *Workbook) SaveFile(file string) error {
	data, err := w.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

// Close releases the workbook. Calling Close more than once has no
// effect.
func (w *Workbook) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.sheets = nil
	return w.cache.Close()
}

func (w *Workbook) sheet(rid string) (*Worksheet, error) {
	if ws, ok := w.sheets[rid]; ok {
		return ws, nil
	}
	rels, err := w.cache.Relations(oxml.PathWorkbook)
	if err != nil {
		return nil, err
	}
	rel, ok := rels.Get(rid)
	if !ok {
		return nil, fmt.Errorf("relationship %s %w", rid, ErrNotFound)
	}
	ws := &Worksheet{
		book: w,
		rid:  rid,
		path: rels.Resolve(rel),
	}
	w.sheets[rid] = ws
	return ws, nil
}

func (w *Workbook) nextPart(pattern string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf(pattern, i)
		if !w.cache.Has(name) {
			return name
		}
	}
}

func (w *Workbook) sharedStrings(create bool) (*oxml.SharedStrings, error) {
	ss, err := w.cache.SharedStrings()
	if err == nil || !create || !errors.Is(err, ErrNotFound) {
		return ss, err
	}
	if err := w.link(oxml.PathSharedStrings, oxml.MimeSharedString, oxml.TypeSharedUrl); err != nil {
		return nil, err
	}
	ss = oxml.NewSharedStrings()
	w.cache.Set(oxml.PathSharedStrings, ss)
	return ss, nil
}

func (w *Workbook) styles(create bool) (*oxml.StyleSheet, error) {
	ss, err := w.cache.Styles()
	if err == nil || !create || !errors.Is(err, ErrNotFound) {
		return ss, err
	}
	if err := w.link(oxml.PathStyles, oxml.MimeStyle, oxml.TypeStyleUrl); err != nil {
		return nil, err
	}
	ss = oxml.NewStyleSheet()
	w.cache.Set(oxml.PathStyles, ss)
	return ss, nil
}

// link registers a part of the workbook in the content types and in the
// relationships of the workbook.
func (w *Workbook) link(part, mime, kind string) error {
	ct, err := w.cache.ContentTypes()
	if err != nil {
		return err
	}
	rels, err := w.cache.EnsureRelations(oxml.PathWorkbook)
	if err != nil {
		return err
	}
	ct.Add(part, mime)
	rels.Add(kind, oxml.RelativePath(oxml.PathWorkbook, part))
	w.logger.Debug("part linked", "part", part, "type", kind)
	return nil
}

func checkSheetName(wb *oxml.Workbook, name string) error {
	if name == "" || len([]rune(name)) > maxSheetName {
		return fmt.Errorf("%w: %q should have between 1 and %d characters", ErrSheetName, name, maxSheetName)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("%w: %q contains forbidden characters", ErrSheetName, name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with a quote", ErrSheetName, name)
	}
	for _, other := range wb.Names() {
		if strings.EqualFold(other, name) {
			return fmt.Errorf("%w: %q already used", ErrSheetName, name)
		}
	}
	return nil
}
