// Package docx models a word-processing document as a tree of paragraphs and
// tables and writes it as an Office Open XML (.docx) package.
package docx

import "errors"

// ErrMalformed reports a fragment that cannot be serialized.
var ErrMalformed = errors.New("malformed document fragment")

// PageSize is a page size in twips (1/1440 inch).
type PageSize struct {
	Width  int
	Height int
}

// A4 is the default page size.
var A4 = PageSize{Width: 11906, Height: 16838}

// Margins are page or cell margins in twips.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Document is the root of the tree.
type Document struct {
	Title   string // written to the package core properties
	Page    PageSize
	Margins Margins
	Body    []Block
}

// Block is a body-level element: *Paragraph or *Table.
type Block interface {
	block()
}

// Inline is paragraph content: Run or Picture.
type Inline interface {
	inline()
}

// Alignment is a paragraph justification.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Paragraph is a run of inline content.
type Paragraph struct {
	Align   Alignment
	Before  int   // spacing before, twips
	After   int   // spacing after, twips
	Rule    *Rule // bottom border drawn under the paragraph
	Inlines []Inline
}

// Rule is a paragraph bottom border.
type Rule struct {
	Size  int    // eighths of a point
	Color string // hex RGB
}

// Run is styled text. Newlines become line breaks.
type Run struct {
	Text      string
	Font      string
	Size      int // half-points
	Bold      bool
	Underline bool
}

// Picture is an embedded image shown at a fixed size.
type Picture struct {
	Data   []byte
	Format string // png, jpeg, gif, bmp or tiff
	Width  int    // display size in pixels
	Height int
}

// WidthUnit selects how a Width value is interpreted.
type WidthUnit int

const (
	WidthAuto    WidthUnit = iota
	WidthPercent           // Value is a percentage of the available width
	WidthTwips
)

// Width is a table or cell width.
type Width struct {
	Unit  WidthUnit
	Value int
}

// Pct returns a percentage width.
func Pct(n int) Width { return Width{Unit: WidthPercent, Value: n} }

// Twips returns an absolute width.
func Twips(n int) Width { return Width{Unit: WidthTwips, Value: n} }

// Layout is the table layout algorithm.
type Layout string

const (
	LayoutFixed   Layout = "fixed"
	LayoutAutofit Layout = "autofit"
)

// VAlign is a cell's vertical alignment.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignCenter VAlign = "center"
	VAlignBottom VAlign = "bottom"
)

// Table is a borderless grid of cells.
type Table struct {
	Width  Width
	Layout Layout
	Rows   []Row
}

// Row is one table row.
type Row struct {
	Cells []Cell
}

// Cell holds block content. An empty cell is written with one empty paragraph.
type Cell struct {
	Width   Width
	VAlign  VAlign
	Margins *Margins
	Blocks  []Block
}

func (*Paragraph) block() {}
func (*Table) block()     {}
func (Run) inline()       {}
func (Picture) inline()   {}
