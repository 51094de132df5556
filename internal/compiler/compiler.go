// Package compiler assembles an exam paper into a .docx document.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pavelanni/papergen/internal/docx"
	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
	"github.com/pavelanni/papergen/internal/render"
)

var (
	// ErrNoQuestions rejects a paper without any question.
	ErrNoQuestions = errors.New("paper has no questions")
	// ErrSerialize reports a failure to write the assembled document.
	ErrSerialize = errors.New("serialize document")
)

// Page margins in twips.
var pageMargins = docx.Margins{Top: 720, Bottom: 720, Left: 400, Right: 400}

// Options configure a compilation.
type Options struct {
	Labels         render.Labels          // zero value means English labels
	Instructions   paper.InstructionTable // nil means paper.DefaultInstructions(false)
	SplitTrueFalse bool
	Logger         *slog.Logger
}

// Compile renders p and serializes it. It returns ErrNoQuestions before any
// rendering when p has no questions, and an error wrapping ErrSerialize when
// the document cannot be written. No bytes are returned on error.
func Compile(p model.Paper, opts Options) ([]byte, error) {
	doc, err := Assemble(p, opts)
	if err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return data, nil
}

// Assemble builds the document tree for p without serializing it.
func Assemble(p model.Paper, opts Options) (*docx.Document, error) {
	if p.QuestionCount() == 0 {
		return nil, ErrNoQuestions
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	table := opts.Instructions
	if table == nil {
		table = paper.DefaultInstructions(false)
	}
	rs := render.New(render.Options{
		Labels:         opts.Labels,
		SplitTrueFalse: opts.SplitTrueFalse,
		Logger:         log,
	})

	marks := paper.ComputeMarks(p)
	body := []docx.Block{rs.Header(p.Header, marks.Total), rs.Rule()}
	for si, s := range p.Sections {
		body = append(body, rs.SectionTitle(si+1, s.Title))
		totals := marks.Sections[si].Groups
		for gi, g := range paper.GroupQuestions(s.Questions, table) {
			body = append(body, rs.GroupHeader(g, totals[gi].Total))
			body = append(body, rs.Render(g)...)
		}
	}
	log.Debug("assembled paper",
		"sections", len(p.Sections),
		"questions", p.QuestionCount(),
		"total", marks.Total,
		"blocks", len(body),
	)

	return &docx.Document{
		Title:   strings.TrimSpace(p.Header.Exam),
		Page:    docx.A4,
		Margins: pageMargins,
		Body:    body,
	}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// DefaultFileName is used when the exam title is blank.
const DefaultFileName = "Question_Paper"

// FileName returns "<title>_<YYYY-MM-DD-HH-MM-SS>.docx" with whitespace runs
// in the trimmed title replaced by underscores.
func FileName(title string, at time.Time) string {
	base := whitespace.ReplaceAllString(strings.TrimSpace(title), "_")
	if base == "" {
		base = DefaultFileName
	}
	return base + "_" + at.Format("2006-01-02-15-04-05") + ".docx"
}
