package render

// Labels are the fixed strings printed on a paper.
type Labels struct {
	School   string // fallback when the header has no school name
	Exam     string // fallback when the header has no exam title
	Class    string
	Subject  string
	Time     string
	MaxMarks string
	Section  string // positional section title prefix
	Marks    string // unit in "[10 Marks]"
	True     string
	False    string
}

// DefaultLabels returns the English labels.
func DefaultLabels() Labels {
	return Labels{
		School:   "SCHOOL NAME",
		Exam:     "EXAMINATION",
		Class:    "CLASS",
		Subject:  "SUB",
		Time:     "TIME",
		MaxMarks: "M.M",
		Section:  "Section",
		Marks:    "Marks",
		True:     "True",
		False:    "False",
	}
}
