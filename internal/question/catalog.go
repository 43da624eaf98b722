package question

import (
	"fmt"
	"sort"
)

// Catalog is a read-only, ordered set of questions indexed by id. It is
// safe for concurrent use because nothing mutates it after NewCatalog.
type Catalog struct {
	questions []Question
	index     map[string]int
}

// NewCatalog indexes already validated questions. Duplicate ids are
// rejected.
func NewCatalog(questions []Question) (*Catalog, error) {
	catalog := &Catalog{
		questions: append([]Question(nil), questions...),
		index:     make(map[string]int, len(questions)),
	}
	for i, question := range catalog.questions {
		if _, exists := catalog.index[question.ID]; exists {
			return nil, fmt.Errorf("duplicate question id %q", question.ID)
		}
		catalog.index[question.ID] = i
	}
	return catalog, nil
}

// Len returns the number of questions.
func (catalog *Catalog) Len() int {
	return len(catalog.questions)
}

// Get returns the question with the given id.
func (catalog *Catalog) Get(id string) (Question, bool) {
	i, ok := catalog.index[id]
	if !ok {
		return Question{}, false
	}
	return catalog.questions[i], true
}

// List returns all questions in catalog order.
func (catalog *Catalog) List() []Question {
	return append([]Question(nil), catalog.questions...)
}

// Topics returns the sorted unique topics.
func (catalog *Catalog) Topics() []string {
	seen := map[string]struct{}{}
	topics := []string{}
	for _, question := range catalog.questions {
		if _, ok := seen[question.Topic]; ok {
			continue
		}
		seen[question.Topic] = struct{}{}
		topics = append(topics, question.Topic)
	}
	sort.Strings(topics)
	return topics
}

// SingleResult returns the questions with exactly one result, in catalog
// order.
func (catalog *Catalog) SingleResult() []Question {
	var out []Question
	for _, question := range catalog.questions {
		if question.SingleResult() {
			out = append(out, question)
		}
	}
	return out
}
