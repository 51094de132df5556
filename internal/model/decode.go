package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// flexString accepts JSON strings, numbers and null. Editors send marks either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type subQuestionWire struct {
	Text  string     `json:"text" yaml:"text"`
	Marks flexString `json:"marks" yaml:"marks"`
}

// questionWire is the flat object the editing UI emits.
type questionWire struct {
	Type         QuestionType      `json:"type" yaml:"type"`
	Text         string            `json:"text" yaml:"text"`
	Marks        flexString        `json:"marks" yaml:"marks"`
	Instruction  string            `json:"instruction,omitempty" yaml:"instruction,omitempty"`
	Options      []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Image        string            `json:"image,omitempty" yaml:"image,omitempty"`
	ColumnA      []string          `json:"columnA,omitempty" yaml:"columnA,omitempty"`
	ColumnB      []string          `json:"columnB,omitempty" yaml:"columnB,omitempty"`
	Passage      string            `json:"passage,omitempty" yaml:"passage,omitempty"`
	SubQuestions []subQuestionWire `json:"subQuestions,omitempty" yaml:"subQuestions,omitempty"`
	GroupTotal   *flexString       `json:"groupTotal,omitempty" yaml:"groupTotal,omitempty"`
	TotalMarks   *flexString       `json:"totalMarks,omitempty" yaml:"totalMarks,omitempty"`
	MarksTotal   *flexString       `json:"marksTotal,omitempty" yaml:"marksTotal,omitempty"`
}

func (w questionWire) question() Question {
	q := Question{
		Type:        w.Type,
		Text:        w.Text,
		Marks:       string(w.Marks),
		Instruction: w.Instruction,
		GroupTotal:  w.GroupTotal.ptr(),
		TotalMarks:  w.TotalMarks.ptr(),
		MarksTotal:  w.MarksTotal.ptr(),
	}
	if q.Type == "" {
		q.Type = TypeNormal
	}
	switch q.Type {
	case TypeObjective:
		q.Body = Objective{Options: w.Options}
	case TypeImage:
		q.Body = Picture{Image: w.Image}
	case TypeMatching:
		q.Body = Matching{ColumnA: w.ColumnA, ColumnB: w.ColumnB}
	case TypeComprehension:
		subs := make([]SubQuestion, 0, len(w.SubQuestions))
		for _, s := range w.SubQuestions {
			subs = append(subs, SubQuestion{Text: s.Text, Marks: string(s.Marks)})
		}
		q.Body = Comprehension{Passage: w.Passage, Image: w.Image, SubQuestions: subs}
	}
	return q
}

func (f *flexString) ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func wireOf(q Question) questionWire {
	w := questionWire{
		Type:        q.Type,
		Text:        q.Text,
		Marks:       flexString(q.Marks),
		Instruction: q.Instruction,
		GroupTotal:  flexPtr(q.GroupTotal),
		TotalMarks:  flexPtr(q.TotalMarks),
		MarksTotal:  flexPtr(q.MarksTotal),
	}
	switch b := q.Body.(type) {
	case Objective:
		w.Options = b.Options
	case Picture:
		w.Image = b.Image
	case Matching:
		w.ColumnA, w.ColumnB = b.ColumnA, b.ColumnB
	case Comprehension:
		w.Passage, w.Image = b.Passage, b.Image
		for _, s := range b.SubQuestions {
			w.SubQuestions = append(w.SubQuestions, subQuestionWire{Text: s.Text, Marks: flexString(s.Marks)})
		}
	}
	return w
}

func flexPtr(s *string) *flexString {
	if s == nil {
		return nil
	}
	f := flexString(*s)
	return &f
}

// UnmarshalJSON decodes the flat editor representation of a question.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = w.question()
	return nil
}

// MarshalJSON encodes the question in the flat editor representation.
func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOf(q))
}

// UnmarshalYAML decodes the flat editor representation of a question.
func (q *Question) UnmarshalYAML(n *yaml.Node) error {
	var w questionWire
	if err := n.Decode(&w); err != nil {
		return err
	}
	*q = w.question()
	return nil
}

// Decode parses a paper in the given format ("json", "yaml" or "yml").
// Unknown fields are ignored; missing fields take their zero values.
func Decode(data []byte, format string) (Paper, error) {
	var p Paper
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json", "":
		if err := json.Unmarshal(data, &p); err != nil {
			return Paper{}, fmt.Errorf("parse paper: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&p); err != nil {
			if err == io.EOF {
				return Paper{}, nil
			}
			return Paper{}, fmt.Errorf("parse paper: %w", err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return Paper{}, fmt.Errorf("parse paper: multiple YAML documents are not supported")
			}
			return Paper{}, fmt.Errorf("parse paper: %w", err)
		}
	default:
		return Paper{}, fmt.Errorf("parse paper: unsupported format %s", strconv.Quote(format))
	}
	return p, nil
}
