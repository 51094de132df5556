package i18n

import (
	"context"

	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
	"github.com/pavelanni/papergen/internal/render"
)

// Labels returns the document labels for the context's language.
func Labels(ctx context.Context) render.Labels {
	return render.Labels{
		School:   T(ctx, "LabelSchool"),
		Exam:     T(ctx, "LabelExam"),
		Class:    T(ctx, "LabelClass"),
		Subject:  T(ctx, "LabelSubject"),
		Time:     T(ctx, "LabelTime"),
		MaxMarks: T(ctx, "LabelMaxMarks"),
		Section:  T(ctx, "LabelSection"),
		Marks:    T(ctx, "LabelMarks"),
		True:     T(ctx, "LabelTrue"),
		False:    T(ctx, "LabelFalse"),
	}
}

var instructionIDs = map[model.QuestionType]string{
	model.TypeFill:          "InstructionFill",
	model.TypeTrueFalse:     "InstructionTrueFalse",
	model.TypeObjective:     "InstructionObjective",
	model.TypeMatching:      "InstructionMatching",
	model.TypeComprehension: "InstructionComprehension",
}

// Instructions returns the default instruction table for the context's
// language. Normal questions get an instruction only with answerPrompt.
func Instructions(ctx context.Context, answerPrompt bool) paper.InstructionTable {
	table := make(paper.InstructionTable, len(instructionIDs)+1)
	for typ, id := range instructionIDs {
		table[typ] = T(ctx, id)
	}
	if answerPrompt {
		table[model.TypeNormal] = T(ctx, "InstructionNormal")
	}
	return table
}
