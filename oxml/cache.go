package oxml

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/midbel/sheetkit/internal/archive"
)

type PartKind int8

const (
	PartUnknown PartKind = iota
	PartContentTypes
	PartRelations
	PartWorkbook
	PartWorksheet
	PartSharedStrings
	PartStyles
	PartDrawing
	PartMedia
)

func (k PartKind) String() string {
	switch k {
	case PartContentTypes:
		return "content-types"
	case PartRelations:
		return "relationships"
	case PartWorkbook:
		return "workbook"
	case PartWorksheet:
		return "worksheet"
	case PartSharedStrings:
		return "shared-strings"
	case PartStyles:
		return "styles"
	case PartDrawing:
		return "drawing"
	case PartMedia:
		return "media"
	default:
		return "unknown"
	}
}

// Classify gives the kind of document stored at the given path.
func Classify(name string) PartKind {
	dir, file := path.Split(name)
	switch {
	case name == PathContentTypes:
		return PartContentTypes
	case strings.HasSuffix(file, ".rels"):
		return PartRelations
	case name == PathWorkbook:
		return PartWorkbook
	case dir == "xl/worksheets/" && path.Ext(file) == ".xml":
		return PartWorksheet
	case name == PathSharedStrings:
		return PartSharedStrings
	case name == PathStyles:
		return PartStyles
	case dir == "xl/drawings/" && path.Ext(file) == ".xml":
		return PartDrawing
	case path.Ext(file) == ".xml":
		return PartUnknown
	default:
		return PartMedia
	}
}

// Cache materializes the parts of a package on first access and keeps
// them until the package is closed. Errors met while decoding a part are
// kept too and returned on every later access.
type Cache struct {
	archive *archive.Archive
	parts   map[string]Document
	errs    map[string]error
	logger  *slog.Logger
}

func NewCache(a *archive.Archive, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		archive: a,
		parts:   make(map[string]Document),
		errs:    make(map[string]error),
		logger:  logger,
	}
}

// Has reports whether the part exists, materialized or not.
func (c *Cache) Has(name string) bool {
	if _, ok := c.parts[name]; ok {
		return true
	}
	return c.archive.Has(name)
}

// Loaded reports whether the part has already been materialized.
func (c *Cache) Loaded(name string) bool {
	_, ok := c.parts[name]
	return ok
}

func (c *Cache) Names() []string {
	names := c.archive.Names()
	for n := range c.parts {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// Raw gives the bytes of a part as stored in the package.
func (c *Cache) Raw(name string) ([]byte, error) {
	data, err := c.archive.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, err
}

// Get returns the model of the part, decoding it the first time it is
// requested.
func (c *Cache) Get(name string) (Document, error) {
	if doc, ok := c.parts[name]; ok {
		return doc, nil
	}
	if err, ok := c.errs[name]; ok {
		return nil, err
	}
	data, err := c.Raw(name)
	if err != nil {
		return nil, err
	}
	kind := Classify(name)
	doc, err := decodePart(kind, name, data)
	if err != nil {
		c.errs[name] = err
		c.logger.Debug("part decoding failed", "part", name, "kind", kind.String(), "err", err)
		return nil, err
	}
	c.logger.Debug("part materialized", "part", name, "kind", kind.String(), "size", len(data))
	c.parts[name] = doc
	return doc, nil
}

// Set registers doc as the model of the part, replacing any previous one.
func (c *Cache) Set(name string, doc Document) {
	delete(c.errs, name)
	c.parts[name] = doc
}

func (c *Cache) SetBytes(name string, data []byte) *Blob {
	b := NewBlob(name, data)
	c.Set(name, b)
	return b
}

func (c *Cache) ContentTypes() (*ContentTypes, error) {
	return getPart[*ContentTypes](c, PathContentTypes)
}

// Relations gives the relationships of the given source part.
func (c *Cache) Relations(source string) (*Relationships, error) {
	return getPart[*Relationships](c, RelationsPath(source))
}

// EnsureRelations gives the relationships of source, creating an empty
// manifest when the part has none.
func (c *Cache) EnsureRelations(source string) (*Relationships, error) {
	rels, err := c.Relations(source)
	if errors.Is(err, ErrNotFound) {
		name := RelationsPath(source)
		rels = NewRelationships(name)
		c.Set(name, rels)
		return rels, nil
	}
	return rels, err
}

func (c *Cache) Workbook() (*Workbook, error) {
	return getPart[*Workbook](c, PathWorkbook)
}

func (c *Cache) Worksheet(name string) (*Worksheet, error) {
	return getPart[*Worksheet](c, name)
}

func (c *Cache) SharedStrings() (*SharedStrings, error) {
	return getPart[*SharedStrings](c, PathSharedStrings)
}

func (c *Cache) Styles() (*StyleSheet, error) {
	return getPart[*StyleSheet](c, PathStyles)
}

func (c *Cache) Drawing(name string) (*Drawing, error) {
	return getPart[*Drawing](c, name)
}

func (c *Cache) Blob(name string) (*Blob, error) {
	return getPart[*Blob](c, name)
}

// Export encodes every materialized part. Parts are normalized right
// before being encoded.
func (c *Cache) Export() (map[string][]byte, error) {
	files := make(map[string][]byte)
	for _, name := range slices.Sorted(maps.Keys(c.parts)) {
		data, err := c.parts[name].Encode()
		if err != nil {
			return nil, err
		}
		files[name] = data
	}
	c.logger.Debug("parts encoded", "count", len(files))
	return files, nil
}

func (c *Cache) Close() error {
	c.parts = nil
	c.errs = nil
	return c.archive.Close()
}

func getPart[T Document](c *Cache, name string) (T, error) {
	var zero T
	doc, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	part, ok := doc.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is not a %T", ErrPart, name, zero)
	}
	return part, nil
}

func decodePart(kind PartKind, name string, data []byte) (Document, error) {
	switch kind {
	case PartContentTypes:
		return decodeContentTypes(name, data)
	case PartRelations:
		return decodeRelationships(name, data)
	case PartWorkbook:
		return decodeWorkbook(name, data)
	case PartWorksheet:
		return decodeWorksheet(name, data)
	case PartSharedStrings:
		return decodeSharedStrings(name, data)
	case PartStyles:
		return decodeStyleSheet(name, data)
	case PartDrawing:
		return decodeDrawing(name, data)
	case PartMedia:
		return NewBlob(name, data), nil
	default:
		return NewUnknown(name, data), nil
	}
}
