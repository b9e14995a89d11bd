package domain

// Answer is the public result of the pipeline.
// Procedure is never nil so it always serialises as a JSON array.
type Answer struct {
	Procedure []string `json:"procedure"`
	Article   string   `json:"article"`
	Script    string   `json:"script"`
}

// IsEmpty reports whether nothing matched.
func (a Answer) IsEmpty() bool {
	return len(a.Procedure) == 0 && a.Article == "" && a.Script == ""
}
