package render

import (
	"fmt"
	"strings"

	"github.com/pavelanni/papergen/internal/docx"
	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
)

// Display sizes of embedded images in pixels.
const (
	imageWidth         = 300
	imageHeight        = 200
	passageImageWidth  = 250
	passageImageHeight = 160
)

// merged renders every item as one row of a single table.
func (s *Set) merged(g paper.Group) []docx.Block {
	if s.inline(g) {
		return []docx.Block{spacer(80)}
	}
	t := &docx.Table{Width: docx.Pct(100), Layout: docx.LayoutFixed}
	for i, it := range g.Items {
		t.Rows = append(t.Rows, docx.Row{Cells: []docx.Cell{
			{
				VAlign:  docx.VAlignTop,
				Margins: itemMargins,
				Blocks:  []docx.Block{para(text(numbered(i, it.Question.Text), sizeBody, false))},
			},
			{
				Width:   docx.Twips(1500),
				VAlign:  docx.VAlignTop,
				Margins: blankMargins,
				Blocks:  []docx.Block{alignedPara(docx.AlignRight, text("", sizeBody, false))},
			},
		}})
	}
	return []docx.Block{t, spacer(80)}
}

// trueFalse renders each statement with its own True/False options.
func (s *Set) trueFalse(g paper.Group) []docx.Block {
	var out []docx.Block
	for i, it := range g.Items {
		out = append(out,
			questionLine(numbered(i, it.Question.Text), false),
			spacer(5),
			pairTable([][2]string{{
				fmt.Sprintf("(a) %s", s.labels.True),
				fmt.Sprintf("(b) %s", s.labels.False),
			}}, sizeOption),
			spacer(100),
		)
	}
	return out
}

func (s *Set) objective(g paper.Group) []docx.Block {
	var out []docx.Block
	for i, it := range g.Items {
		out = append(out, questionLine(numbered(i, it.Question.Text), true), spacer(5))
		body, _ := it.Question.Body.(model.Objective)
		if rows := optionRows(body.Options); len(rows) > 0 {
			out = append(out, pairTable(rows, sizeOption))
		}
		out = append(out, spacer(150))
	}
	return out
}

// optionRows pairs options row-major: even indices left, odd right.
func optionRows(opts []string) [][2]string {
	var rows [][2]string
	for i := 0; i < len(opts); i += 2 {
		var r [2]string
		for j := 0; j < 2 && i+j < len(opts); j++ {
			if opts[i+j] != "" {
				r[j] = fmt.Sprintf("(%s) %s", Letter(i+j+1, false), opts[i+j])
			}
		}
		rows = append(rows, r)
	}
	return rows
}

func (s *Set) image(g paper.Group) []docx.Block {
	var out []docx.Block
	for i, it := range g.Items {
		out = append(out, questionLine(numbered(i, it.Question.Text), false))
		body, _ := it.Question.Body.(model.Picture)
		if pic, ok := s.picture(body.Image, imageWidth, imageHeight); ok {
			out = append(out, &docx.Paragraph{Align: docx.AlignCenter, After: 100, Inlines: []docx.Inline{pic}})
		}
		out = append(out, spacer(100))
	}
	return out
}

func (s *Set) matching(g paper.Group) []docx.Block {
	var out []docx.Block
	for i, it := range g.Items {
		if strings.TrimSpace(it.Question.Text) != "" {
			out = append(out, questionLine(numbered(i, it.Question.Text), true))
		}
		out = append(out, spacer(5))
		body, _ := it.Question.Body.(model.Matching)
		if rows := pairRows(body.ColumnA, body.ColumnB); len(rows) > 0 {
			out = append(out, pairTable(rows, sizeOption))
		}
		out = append(out, spacer(120))
	}
	return out
}

// pairRows aligns the two matching columns; the shorter one yields blank cells.
func pairRows(a, b []string) [][2]string {
	rows := make([][2]string, max(len(a), len(b)))
	for i := range rows {
		if i < len(a) && a[i] != "" {
			rows[i][0] = numbered(i, a[i])
		}
		if i < len(b) && b[i] != "" {
			rows[i][1] = fmt.Sprintf("%s. %s", Letter(i+1, true), b[i])
		}
	}
	return rows
}

func (s *Set) comprehension(g paper.Group) []docx.Block {
	var out []docx.Block
	for i, it := range g.Items {
		out = append(out, questionLine(numbered(i, it.Question.Text), false))
		body, _ := it.Question.Body.(model.Comprehension)
		if body.Passage != "" {
			out = append(out, &docx.Paragraph{
				Align:   docx.AlignLeft,
				After:   80,
				Inlines: []docx.Inline{text(body.Passage, sizePassage, false)},
			})
		}
		if pic, ok := s.picture(body.Image, passageImageWidth, passageImageHeight); ok {
			out = append(out, &docx.Paragraph{Align: docx.AlignCenter, After: 100, Inlines: []docx.Inline{pic}})
		}
		for si, sub := range body.SubQuestions {
			out = append(out, &docx.Table{
				Width:  docx.Pct(100),
				Layout: docx.LayoutFixed,
				Rows: []docx.Row{{Cells: []docx.Cell{
					{Width: docx.Pct(85), Blocks: []docx.Block{
						alignedPara(docx.AlignLeft, text(fmt.Sprintf("%s. %s", Roman(si+1), sub.Text), sizeOption, false)),
					}},
					{Width: docx.Pct(15), Blocks: []docx.Block{
						alignedPara(docx.AlignRight, text("", sizeOption, false)),
					}},
				}}},
			}, spacer(80))
		}
	}
	return out
}
