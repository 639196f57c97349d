package oxml

import (
	"encoding/xml"
	"path"
	"slices"
	"strings"
)

type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypes is the manifest giving the media type of every part of
// the package.
type ContentTypes struct {
	XMLName   xml.Name   `xml:"Types"`
	Xmlns     string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

func NewContentTypes() *ContentTypes {
	ct := ContentTypes{
		Xmlns: nsContentTypes,
	}
	ct.AddDefault("rels", MimeRels)
	ct.AddDefault("xml", MimeXml)
	return &ct
}

func decodeContentTypes(name string, data []byte) (*ContentTypes, error) {
	var ct ContentTypes
	if err := decodeXML(name, data, &ct); err != nil {
		return nil, err
	}
	ct.Xmlns = nsContentTypes
	return &ct, nil
}

func (c *ContentTypes) AddDefault(ext, mime string) {
	ext = strings.TrimPrefix(ext, ".")
	ix := slices.IndexFunc(c.Defaults, func(d Default) bool {
		return strings.EqualFold(d.Extension, ext)
	})
	if ix >= 0 {
		return
	}
	c.Defaults = append(c.Defaults, Default{
		Extension:   ext,
		ContentType: mime,
	})
}

// Add registers or replaces the override of the given part.
func (c *ContentTypes) Add(part, mime string) {
	part = partName(part)
	ix := slices.IndexFunc(c.Overrides, func(o Override) bool {
		return o.PartName == part
	})
	if ix >= 0 {
		c.Overrides[ix].ContentType = mime
		return
	}
	c.Overrides = append(c.Overrides, Override{
		PartName:    part,
		ContentType: mime,
	})
}

func (c *ContentTypes) Remove(part string) {
	part = partName(part)
	c.Overrides = slices.DeleteFunc(c.Overrides, func(o Override) bool {
		return o.PartName == part
	})
}

// Get gives the media type of a part, looking first at the overrides
// then at the defaults registered for its extension.
func (c *ContentTypes) Get(part string) (string, bool) {
	part = partName(part)
	ix := slices.IndexFunc(c.Overrides, func(o Override) bool {
		return o.PartName == part
	})
	if ix >= 0 {
		return c.Overrides[ix].ContentType, true
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	ix = slices.IndexFunc(c.Defaults, func(d Default) bool {
		return strings.EqualFold(d.Extension, ext)
	})
	if ix >= 0 {
		return c.Defaults[ix].ContentType, true
	}
	return "", false
}

func (c *ContentTypes) Encode() ([]byte, error) {
	return encodeXML(PathContentTypes, c)
}

func partName(part string) string {
	if !strings.HasPrefix(part, "/") {
		part = "/" + part
	}
	return part
}
