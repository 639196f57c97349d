package oxml

const (
	PathContentTypes  = "[Content_Types].xml"
	PathRootRelations = "_rels/.rels"
	PathWorkbook      = "xl/workbook.xml"
	PathWorkbookRels  = "xl/_rels/workbook.xml.rels"
	PathSharedStrings = "xl/sharedStrings.xml"
	PathStyles        = "xl/styles.xml"
)

const (
	nsMain         = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelations    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	nsDrawingMain  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsMarkupCompat = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsXML          = "http://www.w3.org/XML/1998/namespace"
)

const (
	TypeSheetUrl   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	TypeDocUrl     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	TypeSharedUrl  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	TypeStyleUrl   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	TypeDrawingUrl = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	TypeImageUrl   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

const (
	MimeRels         = "application/vnd.openxmlformats-package.relationships+xml"
	MimeXml          = "application/xml"
	MimeWorkbook     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	MimeWorksheet    = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	MimeStyle        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	MimeSharedString = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	MimeDrawing      = "application/vnd.openxmlformats-officedocument.drawing+xml"
)

// prefixes used when a document is written from scratch.
var knownPrefixes = map[string]string{
	nsRelations:    "r",
	nsDrawing:      "xdr",
	nsDrawingMain:  "a",
	nsMarkupCompat: "mc",
	nsXML:          "xml",
}
