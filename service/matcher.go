package service

import "strings"

const (
	CategoryExam       = "exam"
	CategoryHostel     = "hostel"
	CategoryCurriculum = "curriculum"
)

// Category is one topical group of facts and the keywords that select it.
type Category struct {
	Name     string
	Triggers []string
	Facts    []string
}

// KnowledgeBase holds the curated facts in their fixed matching order.
// It is built once and only read afterwards, so it is safe to share
// between requests.
type KnowledgeBase struct {
	categories []Category
}

func NewKnowledgeBase(categories ...Category) *KnowledgeBase {
	kb := &KnowledgeBase{categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		kb.categories = append(kb.categories, Category{
			Name:     c.Name,
			Triggers: append([]string(nil), c.Triggers...),
			Facts:    append([]string(nil), c.Facts...),
		})
	}
	return kb
}

func DefaultKnowledgeBase() *KnowledgeBase {
	return NewKnowledgeBase(
		Category{
			Name:     CategoryExam,
			Triggers: []string{"exam", "attendance", "passing", "form"},
			Facts: []string{
				"Students must have a minimum of 75% attendance to be eligible for exams.",
				"The passing criteria is 40% in each subject.",
				"Exam forms must be filled before the deadline announced by the university.",
			},
		},
		Category{
			Name:     CategoryHostel,
			Triggers: []string{"hostel", "visitor", "mess", "gate", "timing"},
			Facts: []string{
				"Hostel gate closes at 10:00 PM.",
				"Visitors are allowed only between 5:00 PM and 8:00 PM.",
				"Mess timings: Breakfast 8–10 AM, Lunch 1–2 PM, Dinner 8–9:30 PM.",
			},
		},
		Category{
			Name:     CategoryCurriculum,
			Triggers: []string{"semester", "subject", "course", "curriculum"},
			Facts: []string{
				"Semester 1: DBMS, Data Structures, Java Programming, Operating Systems.",
				"Semester 2: Computer Networks, Advanced Java, Web Development, AI Basics.",
			},
		},
	)
}

// Categories lists the category names in matching order.
func (kb *KnowledgeBase) Categories() []string {
	names := make([]string, 0, len(kb.categories))
	for _, c := range kb.categories {
		names = append(names, c.Name)
	}
	return names
}

// Facts returns a copy of the facts stored under the named category.
func (kb *KnowledgeBase) Facts(name string) []string {
	for _, c := range kb.categories {
		if c.Name == name {
			return append([]string(nil), c.Facts...)
		}
	}
	return nil
}

// FindRelevant returns every fact of every category with at least one
// trigger contained in the lower-cased query. Categories keep their
// configured order and facts keep their stored order.
func (kb *KnowledgeBase) FindRelevant(query string) []string {
	lower := strings.ToLower(query)
	relevant := make([]string, 0)
	if lower == "" {
		return relevant
	}
	for _, c := range kb.categories {
		if matchesAny(lower, c.Triggers) {
			relevant = append(relevant, c.Facts...)
		}
	}
	return relevant
}

func matchesAny(query string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(query, t) {
			return true
		}
	}
	return false
}
