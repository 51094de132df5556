package paper

import (
	"reflect"
	"testing"

	"github.com/pavelanni/papergen/internal/model"
)

func q(t model.QuestionType, marks string) model.Question {
	return model.Question{Type: t, Text: string(t) + " question", Marks: marks}
}

func ptr(s string) *string { return &s }

func TestGroupQuestionsPartition(t *testing.T) {
	qs := []model.Question{
		q(model.TypeFill, "1"),
		q(model.TypeFill, "1"),
		q(model.TypeFill, "1"),
		q(model.TypeObjective, "2"),
	}
	groups := GroupQuestions(qs, nil)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Type != model.TypeFill || len(groups[0].Items) != 3 || groups[0].Number != 1 {
		t.Errorf("group 1 = %+v", groups[0])
	}
	if groups[1].Type != model.TypeObjective || len(groups[1].Items) != 1 || groups[1].Number != 2 {
		t.Errorf("group 2 = %+v", groups[1])
	}
}

func TestGroupQuestionsPreservesOrder(t *testing.T) {
	types := []model.QuestionType{
		model.TypeNormal, model.TypeFill, model.TypeNormal, model.TypeNormal,
		model.TypeMatching, model.TypeComprehension, model.TypeComprehension, "essay",
	}
	var qs []model.Question
	for i, typ := range types {
		qq := q(typ, "")
		qq.Text = string(rune('a' + i))
		qs = append(qs, qq)
	}

	var rebuilt []model.Question
	for gi, g := range GroupQuestions(qs, nil) {
		if g.Number != gi+1 {
			t.Errorf("group %d numbered %d", gi, g.Number)
		}
		for _, it := range g.Items {
			if it.Question.Type != g.Type {
				t.Errorf("item %d of type %q in %q group", it.Index, it.Question.Type, g.Type)
			}
			if it.Index != len(rebuilt) {
				t.Errorf("item index %d, want %d", it.Index, len(rebuilt))
			}
			rebuilt = append(rebuilt, it.Question)
		}
	}
	if !reflect.DeepEqual(rebuilt, qs) {
		t.Errorf("concatenated groups do not reproduce the input")
	}
}

func TestGroupQuestionsEmpty(t *testing.T) {
	if groups := GroupQuestions(nil, nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestGroupInstruction(t *testing.T) {
	custom := q(model.TypeFill, "")
	custom.Instruction = "  Complete the sentences:  "
	later := q(model.TypeFill, "")
	later.Instruction = "ignored"

	tests := []struct {
		name  string
		qs    []model.Question
		table InstructionTable
		want  string
	}{
		{"explicit wins", []model.Question{custom, later}, nil, "Complete the sentences:"},
		{"only first question counts", []model.Question{q(model.TypeFill, ""), later}, nil, "Fill in the blank:"},
		{"truefalse default", []model.Question{q(model.TypeTrueFalse, "")}, nil, "State whether the following is True or False:"},
		{"objective default", []model.Question{q(model.TypeObjective, "")}, nil, "Choose the correct option:"},
		{"matching default", []model.Question{q(model.TypeMatching, "")}, nil, "Match the following:"},
		{"comprehension default", []model.Question{q(model.TypeComprehension, "")}, nil, "Read the passage and answer the following:"},
		{"normal suppressed", []model.Question{q(model.TypeNormal, "")}, nil, ""},
		{"normal with answer prompt", []model.Question{q(model.TypeNormal, "")}, DefaultInstructions(true), "Answer the following:"},
		{"image has none", []model.Question{q(model.TypeImage, "")}, nil, ""},
		{"custom table", []model.Question{q(model.TypeFill, "")}, InstructionTable{model.TypeFill: "Заполните пропуски:"}, "Заполните пропуски:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupQuestions(tt.qs, tt.table)[0].Instruction
			if got != tt.want {
				t.Errorf("Instruction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMarks(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"5", 5},
		{" 12 ", 12},
		{"12abc", 12},
		{"3.5", 3},
		{"+4", 4},
		{"-3", 0},
		{"abc", 0},
		{"-", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseMarks(tt.in); got != tt.want {
			t.Errorf("ParseMarks(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGroupTotal(t *testing.T) {
	withOverride := func(base model.Question, field string, v string) model.Question {
		switch field {
		case "groupTotal":
			base.GroupTotal = ptr(v)
		case "totalMarks":
			base.TotalMarks = ptr(v)
		case "marksTotal":
			base.MarksTotal = ptr(v)
		}
		return base
	}
	comp := model.Question{
		Type:  model.TypeComprehension,
		Marks: "50",
		Body: model.Comprehension{SubQuestions: []model.SubQuestion{
			{Marks: "2"}, {Marks: "3"}, {Marks: "x"},
		}},
	}

	tests := []struct {
		name string
		qs   []model.Question
		want int
	}{
		{"sum of items", []model.Question{q(model.TypeFill, "1"), q(model.TypeFill, "2")}, 3},
		{"comprehension uses sub-questions", []model.Question{comp}, 5},
		{"override when sum is zero", []model.Question{withOverride(q(model.TypeFill, ""), "groupTotal", "10"), q(model.TypeFill, "")}, 10},
		{"override ignored when sum is nonzero", []model.Question{withOverride(q(model.TypeFill, "1"), "groupTotal", "10")}, 1},
		{"totalMarks fallback", []model.Question{withOverride(q(model.TypeFill, ""), "totalMarks", "6")}, 6},
		{"marksTotal fallback", []model.Question{withOverride(q(model.TypeFill, ""), "marksTotal", "7")}, 7},
		{"override on later item ignored", []model.Question{q(model.TypeFill, ""), withOverride(q(model.TypeFill, ""), "groupTotal", "10")}, 0},
		{"zero override", []model.Question{withOverride(q(model.TypeFill, ""), "groupTotal", "0")}, 0},
		{"invalid override", []model.Question{withOverride(q(model.TypeFill, ""), "groupTotal", "many")}, 0},
		{"nothing", []model.Question{q(model.TypeFill, "")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupQuestions(tt.qs, nil)
			if len(groups) != 1 {
				t.Fatalf("expected 1 group, got %d", len(groups))
			}
			if got := GroupTotal(groups[0]); got != tt.want {
				t.Errorf("GroupTotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeMarks(t *testing.T) {
	override := q(model.TypeObjective, "")
	override.GroupTotal = ptr("10")
	p := model.Paper{Sections: []model.Section{
		{Title: "A", Questions: []model.Question{
			q(model.TypeFill, "1"), q(model.TypeFill, "2"),
			override, q(model.TypeObjective, ""),
			q(model.TypeNormal, "5"),
		}},
		{Title: "B"},
		{Title: "C", Questions: []model.Question{q(model.TypeNormal, "4")}},
	}}

	m := ComputeMarks(p)
	if m.Total != 22 {
		t.Errorf("Total = %d, want 22", m.Total)
	}
	if got := m.PerSection(); !reflect.DeepEqual(got, []int{18, 0, 4}) {
		t.Errorf("PerSection() = %v, want [18 0 4]", got)
	}
	want := []GroupMarks{
		{Number: 1, Type: model.TypeFill, Items: 2, Total: 3},
		{Number: 2, Type: model.TypeObjective, Items: 2, Total: 10},
		{Number: 3, Type: model.TypeNormal, Items: 1, Total: 5},
	}
	if !reflect.DeepEqual(m.Sections[0].Groups, want) {
		t.Errorf("groups = %+v, want %+v", m.Sections[0].Groups, want)
	}

	sum := 0
	for _, s := range m.Sections {
		for _, g := range s.Groups {
			sum += g.Total
		}
	}
	if sum != m.Total {
		t.Errorf("sum of group totals %d != paper total %d", sum, m.Total)
	}
}

func TestSync(t *testing.T) {
	p := model.Paper{
		Header:   model.Header{Marks: "999"},
		Sections: []model.Section{{Questions: []model.Question{q(model.TypeNormal, "7")}}},
	}
	synced := Sync(p)
	if synced.Header.Marks != "7" {
		t.Errorf("synced marks = %q, want '7'", synced.Header.Marks)
	}
	if p.Header.Marks != "999" {
		t.Errorf("Sync mutated its input")
	}
}
