package model

// QuestionType is the discriminant of a Question.
type QuestionType string

const (
	TypeNormal        QuestionType = "normal"
	TypeFill          QuestionType = "fill"
	TypeTrueFalse     QuestionType = "truefalse"
	TypeObjective     QuestionType = "objective"
	TypeImage         QuestionType = "image"
	TypeMatching      QuestionType = "matching"
	TypeComprehension QuestionType = "comprehension"
)

var knownTypes = map[QuestionType]bool{
	TypeNormal:        true,
	TypeFill:          true,
	TypeTrueFalse:     true,
	TypeObjective:     true,
	TypeImage:         true,
	TypeMatching:      true,
	TypeComprehension: true,
}

// Known reports whether t is one of the supported question types.
func (t QuestionType) Known() bool {
	return knownTypes[t]
}

// Paper is the full exam paper: header plus ordered sections.
type Paper struct {
	Header   Header    `json:"header" yaml:"header"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Header holds the paper's title block. Marks is derived from the questions.
type Header struct {
	School  string `json:"school" yaml:"school"`
	Exam    string `json:"exam" yaml:"exam"`
	Class   string `json:"class" yaml:"class"`
	Subject string `json:"subject" yaml:"subject"`
	Time    string `json:"time" yaml:"time"`
	Marks   string `json:"marks" yaml:"marks"`
	Logo    string `json:"logo,omitempty" yaml:"logo,omitempty"` // data URI
}

// Section is an ordered run of questions under one title.
type Section struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// QuestionCount returns the number of questions across all sections.
func (p Paper) QuestionCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Questions)
	}
	return n
}

// Question is a tagged union over QuestionType. Fields that do not apply to the
// type are ignored. Body carries the variant payload, nil for plain types.
type Question struct {
	Type        QuestionType
	Text        string
	Marks       string
	Instruction string

	// Group-total overrides; only the first question of a group is consulted.
	GroupTotal *string
	TotalMarks *string
	MarksTotal *string

	Body Body
}

// Override returns the first present group-total override in priority order.
func (q Question) Override() (string, bool) {
	for _, v := range []*string{q.GroupTotal, q.TotalMarks, q.MarksTotal} {
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

// Body is the type-specific payload of a Question.
type Body interface {
	questionBody()
}

// Objective is a multiple-choice payload.
type Objective struct {
	Options []string
}

// Picture is the payload of an image question.
type Picture struct {
	Image string // data URI, may be empty
}

// Matching holds two independently sized columns.
type Matching struct {
	ColumnA []string
	ColumnB []string
}

// Comprehension is a passage with sub-questions.
type Comprehension struct {
	Passage      string
	Image        string
	SubQuestions []SubQuestion
}

// SubQuestion is one item of a comprehension question.
type SubQuestion struct {
	Text  string
	Marks string
}

func (Objective) questionBody()     {}
func (Picture) questionBody()       {}
func (Matching) questionBody()      {}
func (Comprehension) questionBody() {}

// CompileConfig holds runtime compilation parameters set via CLI flags.
type CompileConfig struct {
	Lang           string // label language (en, ru)
	AnswerPrompt   bool   // default "Answer the following:" for normal groups
	SplitTrueFalse bool   // legacy per-question true/false layout
	MaxUploadBytes int64  // HTTP request body limit
}
