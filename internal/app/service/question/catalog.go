package question

import "sort"

// Catalog is the static list of subjects, grade levels and question types the
// product supports. Served to clients so pickers stay consistent with the
// validation layer.
type Catalog struct {
	Subjects      []string `json:"subjects"`
	GradeLevels   []string `json:"grade_levels"`
	QuestionTypes []string `json:"question_types"`
}

var subjects = []string{
	"Mathematics", "Physics", "Chemistry", "Biology",
	"French", "English", "Spanish", "German",
	"History", "Geography", "Philosophy", "Economics",
	"Computer Science", "Literature", "Word", "Excel",
	"TSSR", "DWWM", "CDA", "BTS SIO",
}

var gradeLevels = []string{
	"CE1", "6ème", "4ème", "Terminale",
	"BTS SIO", "TSSR", "DWWM", "CDA",
	"Licence", "Master", "Reconversion",
}

var questionTypes = []string{"explanation", "exercise", "quiz"}

// AvailableCatalog returns the subject/grade/type catalog, subjects sorted.
func AvailableCatalog() *Catalog {
	subs := make([]string, len(subjects))
	copy(subs, subjects)
	sort.Strings(subs)
	return &Catalog{
		Subjects:      subs,
		GradeLevels:   gradeLevels,
		QuestionTypes: questionTypes,
	}
}
