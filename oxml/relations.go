package oxml

import (
	"encoding/xml"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
)

type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships is the manifest linking a part to the parts it refers to.
type Relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Items   []Relationship `xml:"Relationship"`

	name string
}

func NewRelationships(name string) *Relationships {
	return &Relationships{
		Xmlns: nsPackageRels,
		name:  name,
	}
}

func decodeRelationships(name string, data []byte) (*Relationships, error) {
	rs := NewRelationships(name)
	if err := decodeXML(name, data, rs); err != nil {
		return nil, err
	}
	rs.Xmlns = nsPackageRels
	return rs, nil
}

// Add appends a relationship and returns its id. Ids are allocated after
// the highest numeric id in use.
func (r *Relationships) Add(kind, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, Relationship{
		ID:     id,
		Type:   kind,
		Target: target,
	})
	return id
}

func (r *Relationships) Get(id string) (Relationship, bool) {
	ix := slices.IndexFunc(r.Items, func(rel Relationship) bool {
		return rel.ID == id
	})
	if ix < 0 {
		return Relationship{}, false
	}
	return r.Items[ix], true
}

// Find returns the relationships whose type ends with the given suffix.
func (r *Relationships) Find(suffix string) []Relationship {
	var list []Relationship
	for _, rel := range r.Items {
		if strings.HasSuffix(rel.Type, suffix) {
			list = append(list, rel)
		}
	}
	return list
}

func (r *Relationships) Remove(id string) {
	r.Items = slices.DeleteFunc(r.Items, func(rel Relationship) bool {
		return rel.ID == id
	})
}

// Resolve gives the path of the target of the relationship inside the
// package.
func (r *Relationships) Resolve(rel Relationship) string {
	return ResolvePath(SourcePath(r.name), rel.Target)
}

func (r *Relationships) Encode() ([]byte, error) {
	return encodeXML(r.name, r)
}

func (r *Relationships) nextID() string {
	var last int
	for _, rel := range r.Items {
		n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId"))
		if err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("rId%d", last+1)
}

// RelationsPath gives the path of the relationships part of a part.
func RelationsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// SourcePath is the inverse of RelationsPath.
func SourcePath(rels string) string {
	dir, file := path.Split(rels)
	dir = strings.TrimSuffix(strings.TrimSuffix(dir, "/"), "_rels")
	return dir + strings.TrimSuffix(file, ".rels")
}

// ResolvePath resolves target relative to the directory of source.
func ResolvePath(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// RelativePath gives the target to store in the relationships of source
// to point to part.
func RelativePath(source, part string) string {
	var (
		from = strings.Split(path.Dir(source), "/")
		to   = strings.Split(part, "/")
	)
	if path.Dir(source) == "." {
		from = nil
	}
	var i int
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}
