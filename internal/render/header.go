package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pavelanni/papergen/internal/docx"
	"github.com/pavelanni/papergen/internal/model"
)

const logoSize = 90

// Header renders the title block with total as the maximum marks. A header
// with a logo gets an 18% logo cell, left empty when the logo does not decode.
func (s *Set) Header(h model.Header, total int) docx.Block {
	school := strings.TrimSpace(h.School)
	if school == "" {
		school = s.labels.School
	}
	exam := strings.TrimSpace(h.Exam)
	if exam == "" {
		exam = s.labels.Exam
	}
	meta := fmt.Sprintf("%s: %s    %s: %s    %s: %s    %s: %s",
		s.labels.Class, h.Class,
		s.labels.Subject, h.Subject,
		s.labels.Time, h.Time,
		s.labels.MaxMarks, strconv.Itoa(total),
	)

	title := docx.Cell{
		Width:  docx.Pct(100),
		VAlign: docx.VAlignCenter,
		Blocks: []docx.Block{
			&docx.Paragraph{Align: docx.AlignCenter, After: 100, Inlines: []docx.Inline{
				docx.Run{Text: school, Font: Font, Size: 44, Bold: true},
			}},
			&docx.Paragraph{Align: docx.AlignCenter, After: 100, Inlines: []docx.Inline{
				docx.Run{Text: exam, Font: Font, Size: 34, Bold: true, Underline: true},
			}},
			&docx.Paragraph{Align: docx.AlignCenter, After: 80, Inlines: []docx.Inline{
				docx.Run{Text: meta, Font: Font, Size: 28, Bold: true},
			}},
		},
	}
	row := docx.Row{Cells: []docx.Cell{title}}
	if strings.TrimSpace(h.Logo) != "" {
		logo := docx.Cell{Width: docx.Pct(18), VAlign: docx.VAlignCenter}
		if pic, ok := s.picture(h.Logo, logoSize, logoSize); ok {
			logo.Blocks = []docx.Block{alignedPara(docx.AlignCenter, pic)}
		}
		title.Width = docx.Pct(82)
		row.Cells = []docx.Cell{logo, title}
	}
	return &docx.Table{
		Width:  docx.Pct(100),
		Layout: docx.LayoutFixed,
		Rows:   []docx.Row{row},
	}
}

// Rule returns the full-width line drawn under the header.
func (s *Set) Rule() docx.Block {
	return &docx.Paragraph{After: 200, Rule: &docx.Rule{Size: 12, Color: "000000"}}
}

// SectionTitle returns the upper-cased section title, or "SECTION <n>" for
// the 1-based n when the title is blank.
func (s *Set) SectionTitle(n int, title string) docx.Block {
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("%s %d", s.labels.Section, n)
	}
	return &docx.Paragraph{
		Align:   docx.AlignLeft,
		Before:  300,
		After:   100,
		Inlines: []docx.Inline{text(strings.ToUpper(title), 28, true)},
	}
}
