package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
	space = ' '
)

var (
	ErrFormat       = errors.New("invalid csv")
	errUnterminated = errors.New("unterminated quoted field")
)

// Separator gives the byte used to split fields from its name.
func Separator(str string) (byte, error) {
	var comma byte
	switch str {
	case "semi", "semicolon", ";":
		comma = ';'
	case "comma", ",", "":
		comma = ','
	case "tab", "\t":
		comma = '\t'
	case "colon", ":":
		comma = ':'
	case "pipe", "|":
		comma = '|'
	default:
		return 0, fmt.Errorf("%s: unsupported separator", str)
	}
	return comma, nil
}

type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int
	TrimSpace     bool

	line  int
	atEOF bool
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) Done() bool {
	return r.atEOF
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

// Read gives the fields of the next record. Blank lines are skipped.
func (r *Reader) Read() ([]string, error) {
	for {
		line, err := r.next()
		if err != nil {
			return nil, err
		}
		if len(strings.TrimRight(string(line), "\r\n")) == 0 {
			continue
		}
		return r.parse(line)
	}
}

func (r *Reader) next() ([]byte, error) {
	if r.Done() {
		return nil, io.EOF
	}
	line, err := r.inner.ReadBytes(nl)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		r.atEOF = true
		if len(line) == 0 {
			return nil, io.EOF
		}
	}
	r.line++
	return line, nil
}

func (r *Reader) parse(line []byte) ([]string, error) {
	var res []string
	for i := 0; ; {
		var (
			field []byte
			size  int
			err   error
		)
		if i < len(line) && line[i] == quote {
			for {
				field, size, err = readQuotedField(line[i:])
				if err == nil {
					break
				}
				if r.Done() {
					return nil, r.error(err)
				}
				more, err1 := r.next()
				if err1 != nil {
					return nil, r.error(err)
				}
				line = append(line, more...)
			}
		} else {
			field, size, err = r.readDefaultField(line[i:])
			if err != nil {
				return nil, r.error(err)
			}
		}
		str := string(field)
		if r.TrimSpace {
			str = strings.TrimSpace(str)
		}
		res = append(res, str)

		i += size
		if i >= len(line) || line[i] == nl {
			break
		}
		if line[i] == cr {
			if i+1 < len(line) && line[i+1] != nl {
				return nil, r.error(fmt.Errorf("carriage return only allowed before newline"))
			}
			break
		}
		if line[i] != r.Comma {
			return nil, r.error(fmt.Errorf("unexpected character %q after field", line[i]))
		}
		i++
	}
	if r.FieldsPerLine > 0 && len(res) != r.FieldsPerLine {
		return nil, r.error(fmt.Errorf("want %d fields - got %d", r.FieldsPerLine, len(res)))
	}
	return res, nil
}

func (r *Reader) error(err error) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, r.line, err)
}

func readQuotedField(line []byte) ([]byte, int, error) {
	var field []byte
	for offset := 1; offset < len(line); offset++ {
		if line[offset] != quote {
			field = append(field, line[offset])
			continue
		}
		if offset+1 < len(line) && line[offset+1] == quote {
			field = append(field, quote)
			offset++
			continue
		}
		return field, offset + 1, nil
	}
	return nil, 0, errUnterminated
}

func (r *Reader) readDefaultField(line []byte) ([]byte, int, error) {
	var offset int
	for offset < len(line) {
		switch line[offset] {
		case quote:
			return nil, 0, fmt.Errorf("unexpected quote")
		case r.Comma, cr, nl:
			return line[:offset], offset, nil
		default:
			offset++
		}
	}
	return line[:offset], offset, nil
}
