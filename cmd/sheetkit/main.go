package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/sheetkit/csv"
	"github.com/midbel/sheetkit/format"
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/value"
	"github.com/midbel/sheetkit/xlsx"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var errFail = errors.New("fail")

var (
	summary = "sheetkit"
	help    = "read and edit xlsx spreadsheets"
)

var verbose bool

func main() {
	var (
		set  = cli.NewFlagSet("sheetkit")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	set.BoolVar(&verbose, "v", false, "trace parts read and written")
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"info"}, &infoCmd)
	root.Register([]string{"print"}, &printCmd)
	root.Register([]string{"new"}, &newCmd)
	root.Register([]string{"extract"}, &extractCmd)
	root.Register([]string{"rename"}, &renameCmd)
	root.Register([]string{"insert"}, &insertCmd)
	root.Register([]string{"image"}, &imageCmd)
	root.Register([]string{"refs"}, &refsCmd)
	return root
}

var infoCmd = cli.Command{
	Name:    "info",
	Summary: "get informations about sheets in given file",
	Usage:   "info <spreadsheet>",
	Handler: &GetInfoCommand{},
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"view", "show", "dump"},
	Summary: "print content of a sheet",
	Usage:   "print [-s <sep>] [-w <width>] [-n] <spreadsheet> [<sheet>,...]",
	Handler: &PrintSheetCommand{},
}

var newCmd = cli.Command{
	Name:    "new",
	Alias:   []string{"create"},
	Summary: "create a new spreadsheet from csv files",
	Usage:   "new [-o file] [-s sep] [-e charset] [-t] <file, [file,...]>",
	Handler: &CreateFileCommand{},
}

var extractCmd = cli.Command{
	Name:    "extract",
	Summary: "extract sheets of a spreadsheet to csv files",
	Usage:   "extract [-d dir] [-s sep] <spreadsheet> [<sheet>,...]",
	Handler: &ExtractSheetCommand{},
}

var renameCmd = cli.Command{
	Name:    "rename",
	Alias:   []string{"mv"},
	Summary: "rename a sheet of a spreadsheet",
	Usage:   "rename [-o file] <spreadsheet> <sheet> <name>",
	Handler: &RenameSheetCommand{},
}

var insertCmd = cli.Command{
	Name:    "insert",
	Summary: "insert a copy of a row before another row",
	Usage:   "insert [-o file] <spreadsheet> <sheet> <source> <target>",
	Handler: &InsertRowCommand{},
}

var imageCmd = cli.Command{
	Name:    "image",
	Alias:   []string{"picture"},
	Summary: "add an image to a sheet",
	Usage:   "image [-o file] [-t text] [-to cell] [-x px] [-y px] <spreadsheet> <sheet> <cell> <image>",
	Handler: &AddImageCommand{},
}

var refsCmd = cli.Command{
	Name:    "refs",
	Alias:   []string{"deps"},
	Summary: "list the ranges read by the formulas of a sheet",
	Usage:   "refs <spreadsheet> <sheet> [<cell>,...]",
	Handler: &ListRefsCommand{},
}

func options() []xlsx.Option {
	var opts []xlsx.Option
	if verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		opts = append(opts, xlsx.WithLogger(slog.New(h)))
	}
	return opts
}

func openFile(file string) (*xlsx.Workbook, error) {
	return xlsx.OpenFile(file, options()...)
}

func openSheet(file, name string) (*xlsx.Workbook, *xlsx.Worksheet, error) {
	wb, err := openFile(file)
	if err != nil {
		return nil, nil, err
	}
	ws, err := wb.Worksheet(name)
	if err != nil {
		wb.Close()
		return nil, nil, err
	}
	return wb, ws, nil
}

// selectSheets gives the requested sheets or every sheet of the workbook
// when none is given.
func selectSheets(wb *xlsx.Workbook, names []string) ([]*xlsx.Worksheet, error) {
	if len(names) == 0 {
		all, err := wb.WorksheetNames()
		if err != nil {
			return nil, err
		}
		names = all
	}
	var list []*xlsx.Worksheet
	for _, n := range names {
		ws, err := wb.Worksheet(n)
		if err != nil {
			return nil, err
		}
		list = append(list, ws)
	}
	return list, nil
}

func saveFile(wb *xlsx.Workbook, file string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	return wb.SaveFile(file)
}

// parseRow reads a row number as displayed by spreadsheet applications.
func parseRow(str string) (int, error) {
	n, err := strconv.Atoi(str)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: invalid row number", str)
	}
	return n - 1, nil
}

type GetInfoCommand struct{}

func (c GetInfoCommand) Run(args []string) error {
	set := cli.NewFlagSet("info")
	if err := set.Parse(args); err != nil {
		return err
	}
	wb, err := openFile(set.Arg(0))
	if err != nil {
		return err
	}
	defer wb.Close()

	infos, err := wb.Infos()
	if err != nil {
		return err
	}
	var (
		pattern = "%d %s(%s): %s, %d lines, %d columns, %d cells - %s"
		largest layout.Dimension
	)
	for _, i := range infos {
		var (
			dim    layout.Dimension
			where  = "empty"
			locked = "unlocked"
		)
		if !i.Empty() {
			dim = layout.DimensionOf(i.Range)
			where = i.Range.String()
		}
		if i.Protection.Locked() {
			locked = "locked"
		}
		largest = largest.Max(dim)
		fmt.Fprintf(os.Stdout, pattern, i.Index+1, i.Name, i.State, where, dim.Lines, dim.Columns, i.Cells, locked)
		fmt.Fprintln(os.Stdout)
	}
	if len(infos) > 1 {
		fmt.Fprintf(os.Stdout, "largest: %d lines, %d columns", largest.Lines, largest.Columns)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type PrintSheetCommand struct {
	Width  int
	Sep    string
	Lino   bool
	Number string
	Date   string
	Bool   string

	formatter *format.ValueFormatter
}

func (c PrintSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	set.StringVar(&c.Sep, "s", "|", "column separator")
	set.IntVar(&c.Width, "w", 12, "column width")
	set.BoolVar(&c.Lino, "n", false, "print line number")
	set.StringVar(&c.Number, "f", "", "pattern used to print numbers")
	set.StringVar(&c.Date, "d", "", "pattern used to print dates")
	set.StringVar(&c.Bool, "b", "", "text used to print booleans (yes:no)")
	if err := set.Parse(args); err != nil {
		return err
	}
	if err := c.setup(); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no spreadsheet given")
	}
	wb, err := openFile(set.Arg(0))
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := selectSheets(wb, set.Args()[1:])
	if err != nil {
		return err
	}
	for i, ws := range sheets {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		if err := c.Print(os.Stdout, ws); err != nil {
			return err
		}
	}
	return nil
}

func (c *PrintSheetCommand) setup() error {
	c.formatter = format.FormatValue()
	if c.Number != "" {
		if err := c.formatter.Number(c.Number); err != nil {
			return err
		}
	}
	if c.Date != "" {
		if err := c.formatter.Date(c.Date); err != nil {
			return err
		}
	}
	if c.Bool != "" {
		yes, no, ok := strings.Cut(c.Bool, ":")
		if !ok {
			return fmt.Errorf("%s: booleans should be given as yes:no", c.Bool)
		}
		c.formatter.Set(value.KindBool, format.FormatBool(yes, no))
	}
	return nil
}

func (c PrintSheetCommand) Print(w io.Writer, ws *xlsx.Worksheet) error {
	if c.Width <= 0 {
		c.Width = 16
	}
	rows, err := ws.Cells()
	if err != nil {
		return err
	}
	for lino, row := range rows {
		if c.Lino {
			fmt.Fprintf(w, "%-5d ", row[0].Position().Row+1)
			fmt.Fprint(w, c.Sep)
		}
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, c.Sep)
			}
			str, err := c.display(cell)
			if err != nil {
				return fmt.Errorf("line %d: %w", lino+1, err)
			}
			fmt.Fprintf(w, " %-*s ", c.Width, str)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (c PrintSheetCommand) display(cell *xlsx.Cell) (string, error) {
	val, err := cell.Value()
	if err != nil {
		var cerr *xlsx.CellError
		if errors.As(err, &cerr) {
			return cerr.Code.String(), nil
		}
		return "", err
	}
	if value.IsEmpty(val) {
		return "", nil
	}
	if c.formatter == nil {
		return val.String(), nil
	}
	return c.formatter.Format(val)
}

type CreateFileCommand struct {
	OutFile string
	Sep     string
	Charset string
	Infer   bool
}

func (c CreateFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("new")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	set.StringVar(&c.Sep, "s", "", "fields separator")
	set.StringVar(&c.Charset, "e", "", "encoding of input files")
	set.BoolVar(&c.Infer, "t", false, "detect numbers, booleans and dates")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no input files given")
	}
	if c.OutFile == "" {
		c.OutFile = "new.xlsx"
	}
	wb := xlsx.New(options()...)
	defer wb.Close()

	for _, a := range set.Args() {
		if err := c.importFile(wb, a); err != nil {
			return err
		}
	}
	return saveFile(wb, c.OutFile)
}

func (c CreateFileCommand) importFile(wb *xlsx.Workbook, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if c.Charset != "" {
		enc, err := htmlindex.Get(c.Charset)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Charset, err)
		}
		r = transform.NewReader(f, enc.NewDecoder())
	}

	name := filepath.Base(file)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	ws, err := wb.CreateWorksheet(name)
	if err != nil {
		return err
	}
	rs := csv.NewReader(r)
	if rs.Comma, err = csv.Separator(c.Sep); err != nil {
		return err
	}
	_, err = csv.Import(rs, ws, c.Infer)
	return err
}

type ExtractSheetCommand struct {
	OutDir string
	Sep    string
	CRLF   bool
}

func (c ExtractSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("extract")
	set.StringVar(&c.OutDir, "d", "", "write result to directory")
	set.StringVar(&c.Sep, "s", "", "fields separator")
	set.BoolVar(&c.CRLF, "r", false, "end lines with carriage return")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no spreadsheet given")
	}
	if c.OutDir != "" {
		if err := os.MkdirAll(c.OutDir, 0755); err != nil {
			return err
		}
	}
	wb, err := openFile(set.Arg(0))
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := selectSheets(wb, set.Args()[1:])
	if err != nil {
		return err
	}
	for _, ws := range sheets {
		if err := c.Extract(ws); err != nil {
			return err
		}
	}
	return nil
}

func (c ExtractSheetCommand) Extract(ws *xlsx.Worksheet) error {
	name, err := ws.Name()
	if err != nil {
		return err
	}
	w, err := os.Create(filepath.Join(c.OutDir, name+".csv"))
	if err != nil {
		return err
	}
	defer w.Close()

	cw := csv.NewWriter(w)
	cw.UseCRLF = c.CRLF
	if cw.Comma, err = csv.Separator(c.Sep); err != nil {
		return err
	}
	return csv.Export(cw, ws)
}

type RenameSheetCommand struct {
	OutFile string
}

func (c RenameSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("rename")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 3 {
		return fmt.Errorf("invalid number of arguments")
	}
	wb, ws, err := openSheet(set.Arg(0), set.Arg(1))
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := ws.SetName(set.Arg(2)); err != nil {
		return err
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return saveFile(wb, c.OutFile)
}

type InsertRowCommand struct {
	OutFile string
}

func (c InsertRowCommand) Run(args []string) error {
	set := cli.NewFlagSet("insert")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 4 {
		return fmt.Errorf("invalid number of arguments")
	}
	src, err := parseRow(set.Arg(2))
	if err != nil {
		return err
	}
	dst, err := parseRow(set.Arg(3))
	if err != nil {
		return err
	}
	wb, ws, err := openSheet(set.Arg(0), set.Arg(1))
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := ws.InsertCopyRow(src, dst); err != nil {
		return err
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return saveFile(wb, c.OutFile)
}

type AddImageCommand struct {
	OutFile string
	Descr   string
	To      string
	OffX    int
	OffY    int
}

func (c AddImageCommand) Run(args []string) error {
	set := cli.NewFlagSet("image")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	set.StringVar(&c.Descr, "t", "", "alternative text of the image")
	set.StringVar(&c.To, "to", "", "cell where the image ends")
	set.IntVar(&c.OffX, "x", 0, "horizontal offset in pixels inside the first cell")
	set.IntVar(&c.OffY, "y", 0, "vertical offset in pixels inside the first cell")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 4 {
		return fmt.Errorf("invalid number of arguments")
	}
	img := xlsx.Image{
		Descr: c.Descr,
	}
	from, err := layout.ParsePosition(set.Arg(2))
	if err != nil {
		return err
	}
	img.From = xlsx.Anchor{Pos: from}.Offset(c.OffX, c.OffY)
	if c.To != "" {
		to, err := layout.ParsePosition(c.To)
		if err != nil {
			return err
		}
		img.To = &xlsx.Anchor{Pos: to}
	}
	if img.Data, err = os.ReadFile(set.Arg(3)); err != nil {
		return err
	}
	wb, ws, err := openSheet(set.Arg(0), set.Arg(1))
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := ws.AddImage(img); err != nil {
		return err
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return saveFile(wb, c.OutFile)
}

type ListRefsCommand struct{}

func (c ListRefsCommand) Run(args []string) error {
	set := cli.NewFlagSet("refs")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	wb, ws, err := openSheet(set.Arg(0), set.Arg(1))
	if err != nil {
		return err
	}
	defer wb.Close()

	var cells []*xlsx.Cell
	if set.NArg() == 2 {
		rows, err := ws.Cells()
		if err != nil {
			return err
		}
		for _, row := range rows {
			cells = append(cells, row...)
		}
	} else {
		for _, a := range set.Args()[2:] {
			cell, err := ws.CellAt(a)
			if err != nil {
				return err
			}
			cells = append(cells, cell)
		}
	}
	for _, cell := range cells {
		formula, err := cell.Formula()
		if err != nil {
			return err
		}
		if formula == "" {
			continue
		}
		refs, err := cell.References()
		if err != nil {
			return err
		}
		list := make([]string, 0, len(refs))
		for _, r := range refs {
			list = append(list, r.String())
		}
		fmt.Fprintf(os.Stdout, "%s: =%s -> %s", cell.Addr(), formula, strings.Join(list, ", "))
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
