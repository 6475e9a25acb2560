package services

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"
)

// LabelOrganization is the entity tag treated as a skill candidate when
// ORG-entities-as-skills is enabled.
const LabelOrganization = "ORG"

// Entity is one named entity found in a text.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is the named-entity recognition backend, injected into
// the analyzer at construction. Implementations are stateless after load and
// safe for concurrent calls.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

type proseRecognizer struct{}

// NewProseRecognizer returns a recognizer backed by the prose NLP library.
func NewProseRecognizer() EntityRecognizer {
	return &proseRecognizer{}
}

// prose's embedded model emits ORGANIZATION rarely and tags most company
// and product names as GPE, so both translate to the analyzer's
// organization label.
var organizationLabels = map[string]bool{
	"ORGANIZATION":   true,
	"B-ORGANIZATION": true,
	"I-ORGANIZATION": true,
	"GPE":            true,
}

func (r *proseRecognizer) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("failed to build NER document: %w", err)
	}

	var entities []Entity
	for _, ent := range doc.Entities() {
		label := ent.Label
		if organizationLabels[label] {
			label = LabelOrganization
		}
		entities = append(entities, Entity{Text: ent.Text, Label: label})
	}

	return entities, nil
}
