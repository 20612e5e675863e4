package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ElementType discriminates the element union.
type ElementType string

const (
	ElementQuestion ElementType = "question"
	ElementInfo     ElementType = "info"
	ElementDocument ElementType = "document"
	ElementDefault  ElementType = "default"
)

// Element is one renderable unit bound to exactly one step.
//
// Attributes is kept as a raw map so the wire shape round-trips untouched;
// typed views are decoded on demand via QuestionAttrs/InfoAttrs/DocumentAttrs.
// Renderers should switch on Type and fall back to the default variant for
// keys they do not recognize.
type Element struct {
	ElementID  string         `json:"elementId" yaml:"elementId"`
	StepID     string         `json:"stepId" yaml:"stepId"`
	Type       ElementType    `json:"type" yaml:"type"`
	Sort       int            `json:"sort" yaml:"sort"`
	IsVisible  bool           `json:"isVisible" yaml:"isVisible"`
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
}

// QuestionOption is one choice for select/radio style questions.
type QuestionOption struct {
	OptionID string `json:"optionId" mapstructure:"optionId"`
	Sort     int    `json:"sort" mapstructure:"sort"`
	Label    string `json:"label" mapstructure:"label"`
	Value    string `json:"value" mapstructure:"value"`
}

// BaseAttributes are common to every element variant.
type BaseAttributes struct {
	ComponentTypeKey string `json:"componentTypeKey" mapstructure:"componentTypeKey"`
}

// QuestionAttributes describe an input-collecting element.
type QuestionAttributes struct {
	BaseAttributes `mapstructure:",squash"`

	QuestionID   string           `json:"questionId" mapstructure:"questionId"`
	SemanticTag  string           `json:"semanticTag" mapstructure:"semanticTag"`
	QuestionText string           `json:"questionText" mapstructure:"questionText"`
	HelperText   string           `json:"helperText,omitempty" mapstructure:"helperText"`
	Options      []QuestionOption `json:"options,omitempty" mapstructure:"options"`
	Validation   []string         `json:"validation,omitempty" mapstructure:"validation"`
}

// InfoAttributes describe a static display element.
type InfoAttributes struct {
	BaseAttributes `mapstructure:",squash"`

	InfoID  string `json:"infoId" mapstructure:"infoId"`
	Title   string `json:"title" mapstructure:"title"`
	Content string `json:"content" mapstructure:"content"`
}

// DocumentAttributes describe a downloadable reference.
type DocumentAttributes struct {
	BaseAttributes `mapstructure:",squash"`

	Name        string `json:"name" mapstructure:"name"`
	FileName    string `json:"fileName" mapstructure:"fileName"`
	DownloadURL string `json:"downloadUrl" mapstructure:"downloadUrl"`
}

// QuestionAttrs decodes the typed question view of the element.
func (e Element) QuestionAttrs() (QuestionAttributes, error) {
	var attrs QuestionAttributes
	if e.Type != ElementQuestion {
		return attrs, fmt.Errorf("element %s is %q, not a question", e.ElementID, e.Type)
	}
	if err := mapstructure.Decode(e.Attributes, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to decode question attributes for %s: %w", e.ElementID, err)
	}
	return attrs, nil
}

// InfoAttrs decodes the typed info view of the element.
func (e Element) InfoAttrs() (InfoAttributes, error) {
	var attrs InfoAttributes
	if e.Type != ElementInfo {
		return attrs, fmt.Errorf("element %s is %q, not an info card", e.ElementID, e.Type)
	}
	if err := mapstructure.Decode(e.Attributes, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to decode info attributes for %s: %w", e.ElementID, err)
	}
	return attrs, nil
}

// DocumentAttrs decodes the typed document view of the element.
func (e Element) DocumentAttrs() (DocumentAttributes, error) {
	var attrs DocumentAttributes
	if e.Type != ElementDocument {
		return attrs, fmt.Errorf("element %s is %q, not a document", e.ElementID, e.Type)
	}
	if err := mapstructure.Decode(e.Attributes, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to decode document attributes for %s: %w", e.ElementID, err)
	}
	return attrs, nil
}

// BaseAttrs decodes only the variant-independent attributes. It never fails
// on unknown type keys, making it the fallback for the default variant.
func (e Element) BaseAttrs() BaseAttributes {
	var attrs BaseAttributes
	_ = mapstructure.Decode(e.Attributes, &attrs)
	return attrs
}
