package schema

import (
	"errors"
	"fmt"

	"github.com/midbel/sheetkit/value"
	"github.com/midbel/sheetkit/xlsx"
)

const DefaultSheet = "Sheet1"

// Record holds the decoded values of one row keyed by the keys of the
// fields.
type Record map[string]any

// Schema maps the columns of a sheet to a list of fields.
type Schema struct {
	Sheet     string
	Validator Validator

	fields []Field
}

// New checks the fields and creates a schema validating the rules of its
// fields with a RuleValidator.
func New(fields ...Field) (*Schema, error) {
	seen := make(map[string]struct{})
	for _, f := range fields {
		if err := f.check(); err != nil {
			return nil, err
		}
		if _, ok := seen[f.Key]; ok {
			return nil, fmt.Errorf("%w: %s: duplicate key", ErrField, f.Key)
		}
		seen[f.Key] = struct{}{}
	}
	s := Schema{
		Sheet:     DefaultSheet,
		Validator: NewRuleValidator(fields...),
		fields:    fields,
	}
	return &s, nil
}

func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Write creates a workbook with one sheet holding the records.
func (s *Schema) Write(records []Record) ([]byte, error) {
	wb := xlsx.New()
	defer wb.Close()

	ws, err := wb.CreateWorksheet(s.sheetName())
	if err != nil {
		return nil, err
	}
	if err := s.WriteSheet(ws, records); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

// WriteSheet writes the headers in the first row of ws then one record per
// row. Missing values are replaced by the default of their field.
func (s *Schema) WriteSheet(ws *xlsx.Worksheet, records []Record) error {
	for c, f := range s.fields {
		cell, err := ws.Cell(0, c)
		if err != nil {
			return err
		}
		if err := cell.Set(f.Header()); err != nil {
			return err
		}
	}
	for r, rec := range records {
		for c, f := range s.fields {
			v, ok := rec[f.Key]
			if !ok || v == nil {
				v = f.Default
			}
			val, err := f.encode(v)
			if err != nil {
				return fmt.Errorf("record %d: %s: %w", r, f.Key, err)
			}
			cell, err := ws.Cell(r+1, c)
			if err != nil {
				return err
			}
			if err := cell.SetValue(val); err != nil {
				return fmt.Errorf("record %d: %s: %w", r, f.Key, err)
			}
		}
	}
	return nil
}

// Read opens data as a workbook and reads the sheet of the schema. The
// first sheet is read when Sheet is empty and no sheet has the default name.
func (s *Schema) Read(data []byte) ([]Record, error) {
	wb, err := xlsx.Open(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	ws, err := wb.Worksheet(s.sheetName())
	if errors.Is(err, xlsx.ErrNotFound) && s.Sheet == "" {
		ws, err = wb.WorksheetAt(0)
	}
	if err != nil {
		return nil, err
	}
	return s.ReadSheet(ws)
}

// ReadSheet reads the records of ws. The first row of the used range is
// the header. Rows without any value are skipped. Every invalid row is
// reported as a *ValidationError.
func (s *Schema) ReadSheet(ws *xlsx.Worksheet) ([]Record, error) {
	name, err := ws.Name()
	if err != nil {
		return nil, err
	}
	rg, err := ws.Range()
	if err != nil {
		return nil, err
	}
	headers := make(map[string]struct{})
	for _, f := range s.fields {
		headers[f.Header()] = struct{}{}
	}
	rows, err := ws.Table(xlsx.TableOptions{
		Accept: func(str string) bool {
			_, ok := headers[str]
			return ok
		},
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkHeaders(name, rg.Starts.Row+1, ws); err != nil {
		return nil, err
	}
	var (
		list []Record
		errs []error
	)
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, fails := s.decode(row)
		if len(fails) == 0 && s.Validator != nil {
			fails = s.Validator.Validate(rec)
		}
		if len(fails) > 0 {
			errs = append(errs, &ValidationError{
				Sheet:  name,
				Row:    rg.Starts.Row + i + 2,
				Errors: fails,
			})
			continue
		}
		list = append(list, rec)
	}
	return list, errors.Join(errs...)
}

func (s *Schema) checkHeaders(sheet string, row int, ws *xlsx.Worksheet) error {
	r, err := ws.Row(row - 1)
	if err != nil {
		return err
	}
	values, err := r.Values()
	if err != nil {
		return err
	}
	found := make(map[string]struct{})
	for _, v := range values {
		if str, ok := v.(value.Text); ok {
			found[string(str)] = struct{}{}
		}
	}
	var fails []FieldError
	for _, f := range s.fields {
		if _, ok := found[f.Header()]; ok || !f.Required {
			continue
		}
		fails = append(fails, FieldError{
			Field:   f.Key,
			Message: fmt.Sprintf("column %q not found", f.Header()),
		})
	}
	if len(fails) == 0 {
		return nil
	}
	return &ValidationError{
		Sheet:  sheet,
		Row:    row,
		Errors: fails,
	}
}

func (s *Schema) decode(row xlsx.Record) (Record, []FieldError) {
	var (
		rec   = make(Record)
		fails []FieldError
	)
	for _, f := range s.fields {
		v := row[f.Header()]
		if value.IsEmpty(v) {
			switch {
			case f.Default != nil:
				rec[f.Key] = f.Default
			case f.Required:
				fails = append(fails, FieldError{Field: f.Key, Message: "required"})
			default:
				rec[f.Key] = nil
			}
			continue
		}
		got, err := f.decode(v)
		if err != nil {
			fails = append(fails, FieldError{Field: f.Key, Message: err.Error()})
			continue
		}
		rec[f.Key] = got
	}
	return rec, fails
}

func (s *Schema) sheetName() string {
	if s.Sheet == "" {
		return DefaultSheet
	}
	return s.Sheet
}

func blank(row xlsx.Record) bool {
	for _, v := range row {
		if !value.IsEmpty(v) {
			return false
		}
	}
	return true
}
