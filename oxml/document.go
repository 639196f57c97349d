package oxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Document is the in memory model of one part of the package.
type Document interface {
	Encode() ([]byte, error)
}

type normalizer interface {
	Normalize()
}

func encodeXML(name string, doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: fail to write data to %s", err, name)
	}
	return buf.Bytes(), nil
}

func decodeXML(name string, data []byte, ptr any) error {
	if err := xml.Unmarshal(data, ptr); err != nil {
		return fmt.Errorf("%w: fail to read data from %s: %s", ErrFile, name, err)
	}
	return nil
}

func encodeElement(e *xml.Encoder, name string, v any) error {
	return e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: name}})
}

// namespaces maps namespace urls to the prefix declared for them on the
// root element of a document.
type namespaces map[string]string

func collectNamespaces(attrs []xml.Attr) namespaces {
	ns := make(namespaces)
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			ns[a.Value] = a.Name.Local
		}
	}
	return ns
}

func (ns namespaces) prefix(url string) (string, bool) {
	if p, ok := ns[url]; ok {
		return p, ok
	}
	p, ok := knownPrefixes[url]
	return p, ok
}

// qualify turns a resolved name back into the name written in the
// document. Names in an undeclared namespace are dropped.
func (ns namespaces) qualify(name xml.Name, def string) xml.Name {
	switch name.Space {
	case "", def:
		return xml.Name{Local: name.Local}
	case "xmlns":
		return xml.Name{Local: "xmlns:" + name.Local}
	}
	if p, ok := ns.prefix(name.Space); ok {
		return xml.Name{Local: p + ":" + name.Local}
	}
	return xml.Name{}
}

// rootAttrs gives back the attributes of a decoded root element except
// the default namespace and the prefixes listed in skip, that the
// document declares itself.
func (ns namespaces) rootAttrs(attrs []xml.Attr, def string, skip ...string) []xml.Attr {
	var list []xml.Attr
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			continue
		}
		if a.Name.Space == "xmlns" && slices.Contains(skip, a.Name.Local) {
			continue
		}
		n := ns.qualify(a.Name, def)
		if n.Local == "" {
			continue
		}
		list = append(list, xml.Attr{Name: n, Value: a.Value})
	}
	return list
}

// rawElement keeps an element the engine does not model so that it can
// be written back untouched.
type rawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

func (r rawElement) localize(ns namespaces, def string) rawElement {
	x := rawElement{
		XMLName: ns.qualify(r.XMLName, def),
		Inner:   r.Inner,
	}
	if x.XMLName.Local == "" {
		x.XMLName.Local = r.XMLName.Local
	}
	for _, a := range r.Attrs {
		n := ns.qualify(a.Name, def)
		if n.Local == "" {
			continue
		}
		x.Attrs = append(x.Attrs, xml.Attr{Name: n, Value: a.Value})
	}
	return x
}

func (r rawElement) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: r.XMLName.Local},
		Attr: r.Attrs,
	}
	inner := struct {
		Inner []byte `xml:",innerxml"`
	}{
		Inner: r.Inner,
	}
	return e.EncodeElement(inner, start)
}

func (r *rawElement) clone() *rawElement {
	if r == nil {
		return nil
	}
	x := *r
	x.Attrs = slices.Clone(r.Attrs)
	x.Inner = slices.Clone(r.Inner)
	return &x
}

type extra struct {
	rank int
	elem rawElement
}

// schemaOrder lists the children of an element in the order mandated by
// the schema.
type schemaOrder []string

func (o schemaOrder) rank(name string, last int) int {
	if ix := slices.Index(o, name); ix >= 0 {
		return ix
	}
	return last
}

// decodeChildren walks the children of the element being decoded. fn
// decodes the children it knows and reports false for the others that
// are then kept as raw elements.
func decodeChildren(d *xml.Decoder, order schemaOrder, ns namespaces, def string, fn func(xml.StartElement) (bool, error)) ([]extra, error) {
	var (
		list []extra
		last int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			ok, err := fn(el)
			if err != nil {
				return nil, err
			}
			if el.Name.Space == def || el.Name.Space == "" {
				last = order.rank(el.Name.Local, last)
			}
			if ok {
				continue
			}
			var raw rawElement
			if err := d.DecodeElement(&raw, &el); err != nil {
				return nil, err
			}
			list = append(list, extra{
				rank: last,
				elem: raw.localize(ns, def),
			})
		case xml.EndElement:
			return list, nil
		}
	}
}

// encodeChildren writes the children in schema order. fn writes the
// modeled child with the given name, if any, raw elements follow.
func encodeChildren(e *xml.Encoder, order schemaOrder, extras []extra, fn func(string) error) error {
	for i, name := range order {
		if err := fn(name); err != nil {
			return err
		}
		for _, x := range extras {
			if x.rank != i {
				continue
			}
			if err := e.Encode(x.elem); err != nil {
				return err
			}
		}
	}
	return nil
}
