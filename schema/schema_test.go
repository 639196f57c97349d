package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/midbel/sheetkit/format"
	"github.com/midbel/sheetkit/xlsx"
)

func peopleSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New(
		Field{Key: "name", Name: "Name", Type: TypeText, Required: true, Rules: "min=2"},
		Field{Key: "age", Name: "Age", Type: TypeInt, Rules: "gte=0,lte=150"},
		Field{Key: "active", Name: "Active", Type: TypeBool, Default: false},
		Field{Key: "born", Name: "Born", Type: TypeDate},
	)
	if err != nil {
		t.Fatalf("fail to create schema: %s", err)
	}
	return s
}

func TestSchemaNew(t *testing.T) {
	tests := []struct {
		Name   string
		Fields []Field
	}{
		{Name: "empty key", Fields: []Field{{Type: TypeText}}},
		{Name: "unknown type", Fields: []Field{{Key: "x", Type: "decimal"}}},
		{Name: "duplicate", Fields: []Field{{Key: "x", Type: TypeText}, {Key: "x", Type: TypeInt}}},
	}
	for _, c := range tests {
		if _, err := New(c.Fields...); !errors.Is(err, ErrField) {
			t.Errorf("%s: expected invalid field error, got %v", c.Name, err)
		}
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	loc := format.Location
	format.Location = time.UTC
	defer func() {
		format.Location = loc
	}()

	s := peopleSchema(t)
	born := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	data, err := s.Write([]Record{
		{"name": "alice", "age": 34, "active": true, "born": born},
		{"name": "bob", "age": 27},
	})
	if err != nil {
		t.Fatalf("fail to write records: %s", err)
	}
	records, err := s.Read(data)
	if err != nil {
		t.Fatalf("fail to read records: %s", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: results mismatched! want %d - got %d", 2, len(records))
	}
	first := records[0]
	if first["name"] != "alice" || first["age"] != int64(34) || first["active"] != true {
		t.Errorf("first record: unexpected values %v", first)
	}
	if got, ok := first["born"].(time.Time); !ok || !got.Equal(born) {
		t.Errorf("born: results mismatched! want %s - got %v", born, first["born"])
	}
	second := records[1]
	if second["active"] != false || second["born"] != nil {
		t.Errorf("second record: unexpected values %v", second)
	}
}

func TestSchemaValidation(t *testing.T) {
	wb := xlsx.New()
	defer wb.Close()
	ws, err := wb.CreateWorksheet("people")
	if err != nil {
		t.Fatalf("fail to create worksheet: %s", err)
	}
	ws.SetMatrix([][]any{
		{"Name", "Age", "Active", "Other"},
		{"alice", 34, true, "x"},
		{nil, 27, false},
		{"carol", 12.5},
		{},
		{"d", 200, "maybe"},
	})
	records, err := peopleSchema(t).ReadSheet(ws)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "alice" {
		t.Errorf("valid records: unexpected values %v", records)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("validation error not found in %v", err)
	}
	if verr.Sheet != "people" || verr.Row != 3 {
		t.Errorf("first error: results mismatched! want people!3 - got %s!%d", verr.Sheet, verr.Row)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "name" {
		t.Errorf("first error: unexpected fields %v", verr.Errors)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("errors not joined")
	}
	rows := make(map[int][]FieldError)
	for _, e := range joined.Unwrap() {
		var v *ValidationError
		if errors.As(e, &v) {
			rows[v.Row] = v.Errors
		}
	}
	if len(rows) != 3 {
		t.Fatalf("invalid rows: results mismatched! want %d - got %d", 3, len(rows))
	}
	if fe := rows[4]; len(fe) != 1 || fe[0].Field != "age" {
		t.Errorf("row 4: unexpected errors %v", fe)
	}
	if fe := rows[6]; len(fe) != 1 || fe[0].Field != "active" {
		t.Errorf("row 6: unexpected errors %v", fe)
	}
}

func TestSchemaRules(t *testing.T) {
	wb := xlsx.New()
	defer wb.Close()
	ws, _ := wb.CreateWorksheet("people")
	ws.SetMatrix([][]any{
		{"Name", "Age"},
		{"d", 200},
	})
	_, err := peopleSchema(t).ReadSheet(ws)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("errors: results mismatched! want %d - got %d (%v)", 2, len(verr.Errors), verr.Errors)
	}
	for i, want := range []string{"name", "age"} {
		if verr.Errors[i].Field != want {
			t.Errorf("error %d: results mismatched! want %s - got %s", i, want, verr.Errors[i].Field)
		}
	}
}

func TestSchemaMissingColumn(t *testing.T) {
	wb := xlsx.New()
	defer wb.Close()
	ws, _ := wb.CreateWorksheet("people")
	ws.SetMatrix([][]any{
		{"Age"},
		{31},
	})
	_, err := peopleSchema(t).ReadSheet(ws)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Row != 1 {
		t.Fatalf("expected header validation error, got %v", err)
	}
}

func TestSchemaCustomValidator(t *testing.T) {
	s := peopleSchema(t)
	s.Validator = ValidatorFunc(func(rec Record) []FieldError {
		if rec["name"] == "root" {
			return []FieldError{{Field: "name", Message: "reserved"}}
		}
		return nil
	})
	data, err := s.Write([]Record{{"name": "root"}, {"name": "x"}})
	if err != nil {
		t.Fatalf("fail to write records: %s", err)
	}
	records, err := s.Read(data)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "x" {
		t.Errorf("records: unexpected values %v", records)
	}
}
