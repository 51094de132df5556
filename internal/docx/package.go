package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

const (
	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	typeDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	typeCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	typeRels     = "application/vnd.openxmlformats-package.relationships+xml"

	// ContentType is the MIME type of a .docx package.
	ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	creator = "papergen"
)

type xTypes struct {
	XMLName   xml.Name    `xml:"Types"`
	NS        string      `xml:"xmlns,attr"`
	Defaults  []xDefault  `xml:"Default"`
	Overrides []xOverride `xml:"Override"`
}

type xDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xRelationships struct {
	XMLName xml.Name        `xml:"Relationships"`
	NS      string          `xml:"xmlns,attr"`
	Rels    []xRelationship `xml:"Relationship"`
}

type xRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type xCoreProperties struct {
	XMLName xml.Name `xml:"cp:coreProperties"`
	CP      string   `xml:"xmlns:cp,attr"`
	DC      string   `xml:"xmlns:dc,attr"`
	Title   string   `xml:"dc:title"`
	Creator string   `xml:"dc:creator"`
}

type part struct {
	name string
	data []byte
}

// parts builds every package part in write order.
func (d *Document) parts() ([]part, error) {
	b := &builder{}
	doc, err := b.document(d)
	if err != nil {
		return nil, err
	}

	types := xTypes{
		NS: "http://schemas.openxmlformats.org/package/2006/content-types",
		Defaults: []xDefault{
			{Extension: "rels", ContentType: typeRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xOverride{
			{PartName: "/word/document.xml", ContentType: typeDocument},
			{PartName: "/docProps/core.xml", ContentType: typeCore},
		},
	}
	seen := map[string]bool{}
	for _, m := range b.media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		types.Defaults = append(types.Defaults, xDefault{Extension: m.ext, ContentType: m.contentType})
	}
	sort.Slice(types.Defaults, func(i, j int) bool {
		return types.Defaults[i].Extension < types.Defaults[j].Extension
	})

	rootRels := xRelationships{
		NS: "http://schemas.openxmlformats.org/package/2006/relationships",
		Rels: []xRelationship{
			{ID: "rId1", Type: relTypeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relTypeCore, Target: "docProps/core.xml"},
		},
	}
	docRels := xRelationships{NS: rootRels.NS}
	for _, m := range b.media {
		docRels.Rels = append(docRels.Rels, xRelationship{ID: m.relID, Type: relTypeImage, Target: "media/" + m.name})
	}
	core := xCoreProperties{
		CP:      "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:      "http://purl.org/dc/elements/1.1/",
		Title:   d.Title,
		Creator: creator,
	}

	var out []part
	for _, x := range []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", types},
		{"_rels/.rels", rootRels},
		{"docProps/core.xml", core},
		{"word/document.xml", doc},
		{"word/_rels/document.xml.rels", docRels},
	} {
		data, err := marshal(x.v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", x.name, err)
		}
		out = append(out, part{name: x.name, data: data})
	}
	for _, m := range b.media {
		out = append(out, part{name: "word/media/" + m.name, data: m.data})
	}
	return out, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the document as a .docx package. Nothing is written when
// the tree is malformed.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	parts, err := d.parts()
	if err != nil {
		return 0, err
	}
	cw := &countWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, p := range parts {
		// Zero modification time keeps output byte-identical across runs.
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return cw.n, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("close package: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the document as a .docx package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
