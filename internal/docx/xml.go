package docx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	emuPerPixel = 9525
)

type xDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	WP      string   `xml:"xmlns:wp,attr"`
	A       string   `xml:"xmlns:a,attr"`
	Pic     string   `xml:"xmlns:pic,attr"`
	Body    xBody    `xml:"w:body"`
}

type xBody struct {
	Content []any
	SectPr  xSectPr `xml:"w:sectPr"`
}

type xSectPr struct {
	PgSz  xPgSz  `xml:"w:pgSz"`
	PgMar xPgMar `xml:"w:pgMar"`
}

type xPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type xPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type xParagraph struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *xPPr    `xml:"w:pPr,omitempty"`
	Runs    []xRun   `xml:"w:r"`
}

type xPPr struct {
	Border  *xPBdr    `xml:"w:pBdr,omitempty"`
	Spacing *xSpacing `xml:"w:spacing,omitempty"`
	Jc      *xVal     `xml:"w:jc,omitempty"`
}

type xPBdr struct {
	Bottom xBorder `xml:"w:bottom"`
}

type xBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type xSpacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type xVal struct {
	Val string `xml:"w:val,attr"`
}

type xRun struct {
	Props   *xRPr `xml:"w:rPr,omitempty"`
	Content []any
}

type xRPr struct {
	Fonts     *xFonts   `xml:"w:rFonts,omitempty"`
	Bold      *struct{} `xml:"w:b,omitempty"`
	Size      *xVal     `xml:"w:sz,omitempty"`
	SizeCs    *xVal     `xml:"w:szCs,omitempty"`
	Underline *xVal     `xml:"w:u,omitempty"`
}

type xFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type xText struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr"`
	Value   string   `xml:",chardata"`
}

type xBreak struct {
	XMLName xml.Name `xml:"w:br"`
}

type xDrawing struct {
	XMLName xml.Name `xml:"w:drawing"`
	Inline  xInline  `xml:"wp:inline"`
}

type xInline struct {
	DistT   int      `xml:"distT,attr"`
	DistB   int      `xml:"distB,attr"`
	DistL   int      `xml:"distL,attr"`
	DistR   int      `xml:"distR,attr"`
	Extent  xExtent  `xml:"wp:extent"`
	DocPr   xDocPr   `xml:"wp:docPr"`
	Graphic xGraphic `xml:"a:graphic"`
}

type xExtent struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type xDocPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xGraphic struct {
	Data xGraphicData `xml:"a:graphicData"`
}

type xGraphicData struct {
	URI string `xml:"uri,attr"`
	Pic xPic   `xml:"pic:pic"`
}

type xPic struct {
	NvPicPr  xNvPicPr  `xml:"pic:nvPicPr"`
	BlipFill xBlipFill `xml:"pic:blipFill"`
	SpPr     xSpPr     `xml:"pic:spPr"`
}

type xNvPicPr struct {
	CNvPr    xDocPr   `xml:"pic:cNvPr"`
	CNvPicPr struct{} `xml:"pic:cNvPicPr"`
}

type xBlipFill struct {
	Blip    xBlip    `xml:"a:blip"`
	Stretch xStretch `xml:"a:stretch"`
}

type xBlip struct {
	Embed string `xml:"r:embed,attr"`
}

type xStretch struct {
	FillRect struct{} `xml:"a:fillRect"`
}

type xSpPr struct {
	Xfrm xXfrm `xml:"a:xfrm"`
	Geom xGeom `xml:"a:prstGeom"`
}

type xXfrm struct {
	Off xOff    `xml:"a:off"`
	Ext xExtent `xml:"a:ext"`
}

type xOff struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type xGeom struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

type xTable struct {
	XMLName xml.Name `xml:"w:tbl"`
	Props   xTblPr   `xml:"w:tblPr"`
	Grid    xTblGrid `xml:"w:tblGrid"`
	Rows    []xRow   `xml:"w:tr"`
}

type xTblPr struct {
	Width   xWidth   `xml:"w:tblW"`
	Borders xBorders `xml:"w:tblBorders"`
	Layout  *xType   `xml:"w:tblLayout,omitempty"`
}

type xWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type xBorders struct {
	Top     xBorder `xml:"w:top"`
	Left    xBorder `xml:"w:left"`
	Bottom  xBorder `xml:"w:bottom"`
	Right   xBorder `xml:"w:right"`
	InsideH xBorder `xml:"w:insideH"`
	InsideV xBorder `xml:"w:insideV"`
}

type xType struct {
	Type string `xml:"w:type,attr"`
}

type xTblGrid struct {
	Cols []xWidthOnly `xml:"w:gridCol"`
}

type xWidthOnly struct {
	W int `xml:"w:w,attr"`
}

type xRow struct {
	Cells []xCell `xml:"w:tc"`
}

type xCell struct {
	Props   xTcPr `xml:"w:tcPr"`
	Content []any
}

type xTcPr struct {
	Width   xWidth    `xml:"w:tcW"`
	Borders xBorders  `xml:"w:tcBorders"`
	Margins *xCellMar `xml:"w:tcMar,omitempty"`
	VAlign  *xVal     `xml:"w:vAlign,omitempty"`
}

type xCellMar struct {
	Top    xWidth `xml:"w:top"`
	Left   xWidth `xml:"w:left"`
	Bottom xWidth `xml:"w:bottom"`
	Right  xWidth `xml:"w:right"`
}

var noBorder = xBorder{Val: "none", Color: "FFFFFF"}

var noBorders = xBorders{
	Top: noBorder, Left: noBorder, Bottom: noBorder,
	Right: noBorder, InsideH: noBorder, InsideV: noBorder,
}

// media is an embedded image part.
type media struct {
	relID       string
	name        string // file name under word/media
	ext         string
	contentType string
	data        []byte
}

var mediaTypes = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
	"tiff": {"tiff", "image/tiff"},
}

// builder converts the tree into its XML form, collecting media in document order.
type builder struct {
	textWidth int
	media     []media
}

func (b *builder) document(d *Document) (*xDocument, error) {
	page := d.Page
	if page.Width == 0 || page.Height == 0 {
		page = A4
	}
	b.textWidth = page.Width - d.Margins.Left - d.Margins.Right

	content, err := b.blocks(d.Body, "body")
	if err != nil {
		return nil, err
	}
	return &xDocument{
		W: nsW, R: nsR, WP: nsWP, A: nsA, Pic: nsPic,
		Body: xBody{
			Content: content,
			SectPr: xSectPr{
				PgSz: xPgSz{W: page.Width, H: page.Height},
				PgMar: xPgMar{
					Top: d.Margins.Top, Right: d.Margins.Right,
					Bottom: d.Margins.Bottom, Left: d.Margins.Left,
					Header: 708, Footer: 708,
				},
			},
		},
	}, nil
}

func (b *builder) blocks(blocks []Block, where string) ([]any, error) {
	out := make([]any, 0, len(blocks))
	for i, bl := range blocks {
		switch v := bl.(type) {
		case *Paragraph:
			if v == nil {
				return nil, fmt.Errorf("%w: nil paragraph at %s[%d]", ErrMalformed, where, i)
			}
			p, err := b.paragraph(v)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", where, i, err)
			}
			out = append(out, p)
		case *Table:
			if v == nil {
				return nil, fmt.Errorf("%w: nil table at %s[%d]", ErrMalformed, where, i)
			}
			t, err := b.table(v, fmt.Sprintf("%s[%d]", where, i))
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		default:
			return nil, fmt.Errorf("%w: unsupported block %T at %s[%d]", ErrMalformed, bl, where, i)
		}
	}
	return out, nil
}

func (b *builder) paragraph(p *Paragraph) (*xParagraph, error) {
	xp := &xParagraph{}
	var props xPPr
	if p.Rule != nil {
		props.Border = &xPBdr{Bottom: xBorder{Val: "single", Sz: p.Rule.Size, Space: 1, Color: p.Rule.Color}}
	}
	if p.Before != 0 || p.After != 0 {
		props.Spacing = &xSpacing{Before: p.Before, After: p.After}
	}
	if p.Align != "" {
		props.Jc = &xVal{Val: string(p.Align)}
	}
	if props != (xPPr{}) {
		xp.Props = &props
	}
	for _, in := range p.Inlines {
		switch v := in.(type) {
		case Run:
			xp.Runs = append(xp.Runs, textRun(v))
		case Picture:
			r, err := b.picture(v)
			if err != nil {
				return nil, err
			}
			xp.Runs = append(xp.Runs, r)
		default:
			return nil, fmt.Errorf("%w: unsupported inline %T", ErrMalformed, in)
		}
	}
	return xp, nil
}

func textRun(r Run) xRun {
	var props xRPr
	if r.Font != "" {
		props.Fonts = &xFonts{ASCII: r.Font, HAnsi: r.Font, CS: r.Font}
	}
	if r.Bold {
		props.Bold = &struct{}{}
	}
	if r.Size > 0 {
		size := fmt.Sprint(r.Size)
		props.Size = &xVal{Val: size}
		props.SizeCs = &xVal{Val: size}
	}
	if r.Underline {
		props.Underline = &xVal{Val: "single"}
	}
	xr := xRun{}
	if props != (xRPr{}) {
		xr.Props = &props
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			xr.Content = append(xr.Content, xBreak{})
		}
		xr.Content = append(xr.Content, xText{Space: "preserve", Value: line})
	}
	return xr
}

func (b *builder) picture(p Picture) (xRun, error) {
	mt, ok := mediaTypes[p.Format]
	if !ok {
		return xRun{}, fmt.Errorf("%w: unsupported image format %q", ErrMalformed, p.Format)
	}
	if len(p.Data) == 0 {
		return xRun{}, fmt.Errorf("%w: empty image", ErrMalformed)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return xRun{}, fmt.Errorf("%w: image size %dx%d", ErrMalformed, p.Width, p.Height)
	}

	n := len(b.media) + 1
	m := media{
		relID:       fmt.Sprintf("rId%d", n),
		name:        fmt.Sprintf("image%d.%s", n, mt.ext),
		ext:         mt.ext,
		contentType: mt.contentType,
		data:        p.Data,
	}
	b.media = append(b.media, m)

	ext := xExtent{Cx: int64(p.Width) * emuPerPixel, Cy: int64(p.Height) * emuPerPixel}
	pr := xDocPr{ID: n, Name: fmt.Sprintf("Picture %d", n)}
	return xRun{Content: []any{xDrawing{Inline: xInline{
		Extent: ext,
		DocPr:  pr,
		Graphic: xGraphic{Data: xGraphicData{
			URI: nsPic,
			Pic: xPic{
				NvPicPr:  xNvPicPr{CNvPr: xDocPr{ID: n, Name: m.name}},
				BlipFill: xBlipFill{Blip: xBlip{Embed: m.relID}},
				SpPr:     xSpPr{Xfrm: xXfrm{Ext: ext}, Geom: xGeom{Prst: "rect"}},
			},
		}},
	}}}}, nil
}

func (b *builder) table(t *Table, where string) (*xTable, error) {
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: table without rows at %s", ErrMalformed, where)
	}
	cols := 0
	for i, r := range t.Rows {
		if len(r.Cells) == 0 {
			return nil, fmt.Errorf("%w: row %d without cells at %s", ErrMalformed, i, where)
		}
		cols = max(cols, len(r.Cells))
	}

	tableWidth := b.resolve(t.Width, b.textWidth, b.textWidth)
	xt := &xTable{
		Props: xTblPr{Width: xmlWidth(t.Width), Borders: noBorders},
		Grid:  xTblGrid{Cols: b.grid(t, cols, tableWidth)},
	}
	if t.Layout != "" {
		xt.Props.Layout = &xType{Type: string(t.Layout)}
	}

	outer := b.textWidth
	for ri, r := range t.Rows {
		var xr xRow
		for ci, c := range r.Cells {
			cellWhere := fmt.Sprintf("%s.row[%d].cell[%d]", where, ri, ci)
			b.textWidth = b.resolve(c.Width, tableWidth, tableWidth/len(r.Cells))
			content, err := b.blocks(c.Blocks, cellWhere)
			b.textWidth = outer
			if err != nil {
				return nil, err
			}
			// A cell must end with a paragraph.
			if len(content) == 0 {
				content = append(content, &xParagraph{})
			} else if _, ok := content[len(content)-1].(*xTable); ok {
				content = append(content, &xParagraph{})
			}
			xc := xCell{
				Props:   xTcPr{Width: xmlWidth(c.Width), Borders: noBorders},
				Content: content,
			}
			if c.Margins != nil {
				xc.Props.Margins = &xCellMar{
					Top:    xWidth{W: c.Margins.Top, Type: "dxa"},
					Left:   xWidth{W: c.Margins.Left, Type: "dxa"},
					Bottom: xWidth{W: c.Margins.Bottom, Type: "dxa"},
					Right:  xWidth{W: c.Margins.Right, Type: "dxa"},
				}
			}
			if c.VAlign != "" {
				xc.Props.VAlign = &xVal{Val: string(c.VAlign)}
			}
			xr.Cells = append(xr.Cells, xc)
		}
		xt.Rows = append(xt.Rows, xr)
	}
	return xt, nil
}

// grid derives column widths in twips from the first row spanning every column.
func (b *builder) grid(t *Table, cols, tableWidth int) []xWidthOnly {
	var row Row
	for _, r := range t.Rows {
		if len(r.Cells) == cols {
			row = r
			break
		}
	}
	widths := make([]int, cols)
	used, auto := 0, 0
	for i, c := range row.Cells {
		if c.Width.Unit == WidthAuto {
			auto++
			continue
		}
		widths[i] = b.resolve(c.Width, tableWidth, 0)
		used += widths[i]
	}
	if auto > 0 {
		share := max((tableWidth-used)/auto, 100)
		for i, c := range row.Cells {
			if c.Width.Unit == WidthAuto {
				widths[i] = share
			}
		}
	}
	out := make([]xWidthOnly, cols)
	for i, w := range widths {
		out[i] = xWidthOnly{W: w}
	}
	return out
}

// resolve converts w to twips relative to the available width.
func (b *builder) resolve(w Width, available, auto int) int {
	switch w.Unit {
	case WidthPercent:
		return available * w.Value / 100
	case WidthTwips:
		return w.Value
	default:
		return auto
	}
}

func xmlWidth(w Width) xWidth {
	switch w.Unit {
	case WidthPercent:
		return xWidth{W: w.Value * 50, Type: "pct"}
	case WidthTwips:
		return xWidth{W: w.Value, Type: "dxa"}
	default:
		return xWidth{W: 0, Type: "auto"}
	}
}
