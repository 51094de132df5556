// Package render lays out question groups, the paper header and section
// titles as docx blocks. Renderers take group totals from the caller and
// never compute marks themselves.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/papergen/internal/asset"
	"github.com/pavelanni/papergen/internal/docx"
	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
)

// Font is used for every run.
const Font = "Times New Roman"

// Font sizes in half-points.
const (
	sizeBody    = 26
	sizeGroup   = 24
	sizePassage = 24
	sizeOption  = 22
)

// Options configure a Set.
type Options struct {
	Labels         Labels // zero value means DefaultLabels
	SplitTrueFalse bool   // legacy per-question true/false layout
	Logger         *slog.Logger
}

// Set renders groups of every question type.
type Set struct {
	labels Labels
	split  bool
	log    *slog.Logger
}

// New returns a renderer set.
func New(opts Options) *Set {
	s := &Set{labels: opts.Labels, split: opts.SplitTrueFalse, log: opts.Logger}
	if s.labels == (Labels{}) {
		s.labels = DefaultLabels()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Labels returns the labels in use.
func (s *Set) Labels() Labels {
	return s.labels
}

// GroupHeader returns the group line: "<n>. <instruction>" on the left and
// "[<total> Marks]" on the right, blank when total is 0.
func (s *Set) GroupHeader(g paper.Group, total int) docx.Block {
	line := g.Instruction
	if s.inline(g) {
		line = g.First().Text
	}
	right := ""
	if total > 0 {
		right = fmt.Sprintf("[%d %s]", total, s.labels.Marks)
	}
	return &docx.Table{
		Width:  docx.Pct(100),
		Layout: docx.LayoutFixed,
		Rows: []docx.Row{{Cells: []docx.Cell{
			{Width: docx.Pct(85), Blocks: []docx.Block{
				para(text(fmt.Sprintf("%d. %s", g.Number, line), sizeGroup, true)),
			}},
			{Width: docx.Pct(15), Blocks: []docx.Block{
				alignedPara(docx.AlignRight, text(right, sizeGroup, false)),
			}},
		}}},
	}
}

// Render lays out the group's items. Unknown types render as normal.
func (s *Set) Render(g paper.Group) []docx.Block {
	switch g.Type {
	case model.TypeNormal, model.TypeFill:
		return s.merged(g)
	case model.TypeTrueFalse:
		if s.split {
			return s.trueFalse(g)
		}
		return s.merged(g)
	case model.TypeObjective:
		return s.objective(g)
	case model.TypeImage:
		return s.image(g)
	case model.TypeMatching:
		return s.matching(g)
	case model.TypeComprehension:
		return s.comprehension(g)
	default:
		s.log.Warn("unmatched question variant", "type", g.Type, "group", g.Number)
		return s.merged(g)
	}
}

// inline reports whether the group line carries the question text itself:
// a single merged-layout question with no instruction.
func (s *Set) inline(g paper.Group) bool {
	if g.Instruction != "" || len(g.Items) != 1 {
		return false
	}
	switch g.Type {
	case model.TypeObjective, model.TypeImage, model.TypeMatching, model.TypeComprehension:
		return false
	case model.TypeTrueFalse:
		return !s.split
	}
	return true
}

// picture decodes a data URI for display at the given size. Undecodable
// payloads are logged and skipped.
func (s *Set) picture(uri string, width, height int) (docx.Picture, bool) {
	if strings.TrimSpace(uri) == "" {
		return docx.Picture{}, false
	}
	img, err := asset.Decode(uri)
	if err != nil {
		s.log.Debug("skipping image", "error", err)
		return docx.Picture{}, false
	}
	return docx.Picture{Data: img.Data, Format: img.Format, Width: width, Height: height}, true
}

func text(s string, size int, bold bool) docx.Run {
	return docx.Run{Text: s, Font: Font, Size: size, Bold: bold}
}

func para(inlines ...docx.Inline) *docx.Paragraph {
	return &docx.Paragraph{Inlines: inlines}
}

func alignedPara(align docx.Alignment, inlines ...docx.Inline) *docx.Paragraph {
	return &docx.Paragraph{Align: align, Inlines: inlines}
}

func spacer(after int) *docx.Paragraph {
	return &docx.Paragraph{After: after}
}

var (
	itemMargins  = &docx.Margins{Top: 40, Bottom: 40, Left: 80, Right: 80}
	blankMargins = &docx.Margins{Top: 40, Bottom: 40, Left: 40, Right: 40}
)

// questionLine is a numbered question with a blank right column. Wide lines
// use a fixed 85/15 split, narrow ones autofit against a fixed right cell.
func questionLine(label string, wide bool) *docx.Table {
	left := docx.Cell{
		Margins: itemMargins,
		Blocks:  []docx.Block{para(text(label, sizeBody, false))},
	}
	right := docx.Cell{
		Margins: blankMargins,
		Blocks:  []docx.Block{alignedPara(docx.AlignRight, text("", sizeBody, false))},
	}
	if wide {
		left.Width, right.Width = docx.Pct(85), docx.Pct(15)
		left.VAlign, right.VAlign = docx.VAlignTop, docx.VAlignTop
		return &docx.Table{
			Width:  docx.Pct(100),
			Layout: docx.LayoutFixed,
			Rows:   []docx.Row{{Cells: []docx.Cell{left, right}}},
		}
	}
	right.Width = docx.Twips(1500)
	return &docx.Table{
		Layout: docx.LayoutAutofit,
		Rows:   []docx.Row{{Cells: []docx.Cell{left, right}}},
	}
}

// pairTable lays out two columns of labelled entries; empty entries leave
// their cell blank.
func pairTable(rows [][2]string, size int) *docx.Table {
	t := &docx.Table{Width: docx.Pct(100), Layout: docx.LayoutFixed}
	for _, r := range rows {
		t.Rows = append(t.Rows, docx.Row{Cells: []docx.Cell{
			{Width: docx.Pct(50), VAlign: docx.VAlignTop, Blocks: []docx.Block{alignedPara(docx.AlignLeft, text(r[0], size, false))}},
			{Width: docx.Pct(50), VAlign: docx.VAlignTop, Blocks: []docx.Block{alignedPara(docx.AlignLeft, text(r[1], size, false))}},
		}})
	}
	return t
}

func numbered(i int, s string) string {
	return fmt.Sprintf("%d. %s", i+1, s)
}
