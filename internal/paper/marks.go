package paper

import (
	"strconv"
	"strings"

	"github.com/pavelanni/papergen/internal/model"
)

// Marks is the aggregated mark breakdown of a paper.
type Marks struct {
	Total    int            `json:"total"`
	Sections []SectionMarks `json:"sections"`
}

// SectionMarks holds one section's total and its groups in order.
type SectionMarks struct {
	Total  int          `json:"total"`
	Groups []GroupMarks `json:"groups"`
}

// GroupMarks is the resolved total of one question group.
type GroupMarks struct {
	Number int                `json:"number"`
	Type   model.QuestionType `json:"type"`
	Items  int                `json:"items"`
	Total  int                `json:"total"`
}

// PerSection returns the section totals in order.
func (m Marks) PerSection() []int {
	out := make([]int, len(m.Sections))
	for i, s := range m.Sections {
		out[i] = s.Total
	}
	return out
}

// ComputeMarks aggregates group, section and paper totals.
func ComputeMarks(p model.Paper) Marks {
	m := Marks{Sections: make([]SectionMarks, 0, len(p.Sections))}
	for _, s := range p.Sections {
		var sm SectionMarks
		for _, g := range GroupQuestions(s.Questions, InstructionTable{}) {
			total := GroupTotal(g)
			sm.Groups = append(sm.Groups, GroupMarks{
				Number: g.Number,
				Type:   g.Type,
				Items:  len(g.Items),
				Total:  total,
			})
			sm.Total += total
		}
		m.Sections = append(m.Sections, sm)
		m.Total += sm.Total
	}
	return m
}

// GroupTotal sums the group's item marks. When that sum is zero, a positive
// override on the group's first question is used instead.
func GroupTotal(g Group) int {
	sum := 0
	for _, it := range g.Items {
		sum += QuestionMarks(it.Question)
	}
	if sum != 0 {
		return sum
	}
	if raw, ok := g.First().Override(); ok {
		if v := ParseMarks(raw); v > 0 {
			return v
		}
	}
	return 0
}

// QuestionMarks returns a question's own marks; a comprehension question
// contributes the sum of its sub-question marks instead.
func QuestionMarks(q model.Question) int {
	if q.Type == model.TypeComprehension {
		c, _ := q.Body.(model.Comprehension)
		n := 0
		for _, s := range c.SubQuestions {
			n += ParseMarks(s.Marks)
		}
		return n
	}
	return ParseMarks(q.Marks)
}

// ParseMarks reads the leading integer of s. Empty, non-numeric and negative
// values are 0.
func ParseMarks(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Sync returns a copy of p whose header marks equal the computed paper total.
func Sync(p model.Paper) model.Paper {
	p.Header.Marks = strconv.Itoa(ComputeMarks(p).Total)
	return p
}
