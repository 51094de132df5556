package paper

import "github.com/pavelanni/papergen/internal/model"

// AnswerPrompt is the normal-question default used when the answer-prompt policy is on.
const AnswerPrompt = "Answer the following:"

// InstructionTable maps a question type to its default group instruction.
type InstructionTable map[model.QuestionType]string

// For returns the default instruction for t, or "" when there is none.
func (t InstructionTable) For(qt model.QuestionType) string {
	return t[qt]
}

// DefaultInstructions returns the English instruction table. Normal questions get
// no boilerplate unless answerPrompt is set.
func DefaultInstructions(answerPrompt bool) InstructionTable {
	t := InstructionTable{
		model.TypeTrueFalse:     "State whether the following is True or False:",
		model.TypeFill:          "Fill in the blank:",
		model.TypeMatching:      "Match the following:",
		model.TypeObjective:     "Choose the correct option:",
		model.TypeComprehension: "Read the passage and answer the following:",
	}
	if answerPrompt {
		t[model.TypeNormal] = AnswerPrompt
	}
	return t
}
