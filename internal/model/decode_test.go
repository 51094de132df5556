package model

import (
	"strings"
	"testing"
)

const paperJSON = `{
  "header": {"school": "Green Valley", "exam": "Half Yearly", "marks": "0", "logo": null},
  "sections": [{
    "title": "",
    "questions": [
      {"type": "fill", "text": "The sky is ____.", "marks": 1, "groupTotal": null},
      {"type": "objective", "text": "Pick one", "marks": "2", "options": ["A", "B", "C"]},
      {"type": "matching", "text": "", "columnA": ["x", "y"], "columnB": ["1"], "totalMarks": "4"},
      {"type": "comprehension", "passage": "Once upon a time", "subQuestions": [{"text": "Who?", "marks": 2}, {"text": "Why?", "marks": "3"}]},
      {"text": "No type given", "extra": {"ignored": true}}
    ]
  }]
}`

func TestDecodeJSON(t *testing.T) {
	p, err := Decode([]byte(paperJSON), "json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Header.School != "Green Valley" {
		t.Errorf("school = %q, want 'Green Valley'", p.Header.School)
	}
	if p.Header.Logo != "" {
		t.Errorf("null logo should decode to empty, got %q", p.Header.Logo)
	}
	qs := p.Sections[0].Questions
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}

	if qs[0].Marks != "1" {
		t.Errorf("numeric marks = %q, want '1'", qs[0].Marks)
	}
	if _, ok := qs[0].Override(); ok {
		t.Errorf("null groupTotal should count as absent")
	}

	obj, ok := qs[1].Body.(Objective)
	if !ok {
		t.Fatalf("objective body = %T", qs[1].Body)
	}
	if strings.Join(obj.Options, ",") != "A,B,C" {
		t.Errorf("options = %v", obj.Options)
	}

	m, ok := qs[2].Body.(Matching)
	if !ok {
		t.Fatalf("matching body = %T", qs[2].Body)
	}
	if len(m.ColumnA) != 2 || len(m.ColumnB) != 1 {
		t.Errorf("columns = %v / %v", m.ColumnA, m.ColumnB)
	}
	if v, ok := qs[2].Override(); !ok || v != "4" {
		t.Errorf("Override() = %q, %v; want '4', true", v, ok)
	}

	c, ok := qs[3].Body.(Comprehension)
	if !ok {
		t.Fatalf("comprehension body = %T", qs[3].Body)
	}
	if len(c.SubQuestions) != 2 || c.SubQuestions[0].Marks != "2" || c.SubQuestions[1].Marks != "3" {
		t.Errorf("sub-questions = %+v", c.SubQuestions)
	}

	if qs[4].Type != TypeNormal {
		t.Errorf("missing type = %q, want normal", qs[4].Type)
	}
	if qs[4].Body != nil {
		t.Errorf("normal question should have no body, got %T", qs[4].Body)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
header:
  exam: Unit Test
sections:
  - title: Section A
    questions:
      - type: truefalse
        text: Water boils at 100C.
        marks: 1
      - type: image
        text: Label the diagram.
        image: "data:image/png;base64,AAAA"
        marksTotal: 5
`
	p, err := Decode([]byte(doc), "yml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	qs := p.Sections[0].Questions
	if qs[0].Type != TypeTrueFalse || qs[0].Marks != "1" {
		t.Errorf("first question = %+v", qs[0])
	}
	pic, ok := qs[1].Body.(Picture)
	if !ok || !strings.HasPrefix(pic.Image, "data:image/png") {
		t.Errorf("image body = %#v", qs[1].Body)
	}
	if v, ok := qs[1].Override(); !ok || v != "5" {
		t.Errorf("Override() = %q, %v; want '5', true", v, ok)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"broken json", `{"sections": [`, "json"},
		{"bad marks", `{"sections": [{"questions": [{"marks": true}]}]}`, "json"},
		{"two yaml docs", "header: {}\n---\nheader: {}\n", "yaml"},
		{"unknown format", `{}`, "toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestOverridePriority(t *testing.T) {
	a, b := "abc", "7"
	q := Question{GroupTotal: &a, TotalMarks: &b}
	v, ok := q.Override()
	if !ok || v != "abc" {
		t.Errorf("Override() = %q, %v; want 'abc', true", v, ok)
	}
}

func TestQuestionJSONKeepsVariantFields(t *testing.T) {
	p, err := Decode([]byte(paperJSON), "json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := p.Sections[0].Questions[1].MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !strings.Contains(string(data), `"options":["A","B","C"]`) {
		t.Errorf("marshalled objective = %s", data)
	}
}

func TestQuestionCount(t *testing.T) {
	p := Paper{Sections: []Section{
		{Questions: make([]Question, 2)},
		{},
		{Questions: make([]Question, 3)},
	}}
	if got := p.QuestionCount(); got != 5 {
		t.Errorf("QuestionCount() = %d, want 5", got)
	}
}
