// Package paper derives the grouped, marked view of an exam paper that the
// document compiler lays out. Nothing here mutates the paper it is given.
package paper

import (
	"strings"

	"github.com/pavelanni/papergen/internal/model"
)

// Item is a question together with its position in the section.
type Item struct {
	Index    int
	Question model.Question
}

// Group is a maximal run of consecutive same-type questions within a section.
type Group struct {
	Number      int // 1-based, resets per section
	Type        model.QuestionType
	Instruction string
	Items       []Item
}

// First returns the group's first question.
func (g Group) First() model.Question {
	if len(g.Items) == 0 {
		return model.Question{}
	}
	return g.Items[0].Question
}

// GroupQuestions partitions questions into runs of identical type, in order.
// Each group's instruction is the first question's explicit instruction, or the
// table default for the group's type. A nil table yields DefaultInstructions(false).
func GroupQuestions(qs []model.Question, table InstructionTable) []Group {
	if table == nil {
		table = DefaultInstructions(false)
	}
	var groups []Group
	for i, q := range qs {
		if i == 0 || q.Type != qs[i-1].Type {
			groups = append(groups, Group{
				Number: len(groups) + 1,
				Type:   q.Type,
			})
		}
		g := &groups[len(groups)-1]
		g.Items = append(g.Items, Item{Index: i, Question: q})
	}
	for i := range groups {
		groups[i].Instruction = resolveInstruction(groups[i], table)
	}
	return groups
}

func resolveInstruction(g Group, table InstructionTable) string {
	if inst := strings.TrimSpace(g.First().Instruction); inst != "" {
		return inst
	}
	return table.For(g.Type)
}
