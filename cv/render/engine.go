package render

import (
	"errors"
	"fmt"

	"cvision-backend/cv/model"
)

// ErrNothingToRender is returned when a CV carries neither personal info nor
// a title; every other missing field degrades to section omission.
var ErrNothingToRender = errors.New("cv has no renderable content")

// Engine turns a loaded CV aggregate into a paginated PDF document using one
// of the registered layouts. It is stateless and safe for concurrent use.
type Engine struct {
	Registry *Registry
}

// NewEngine builds an Engine with the default template registry.
func NewEngine() *Engine {
	return &Engine{Registry: NewRegistry()}
}

// Render produces the document bytes for the aggregate using the layout the
// template identifier resolves to. Rendering never mutates the aggregate.
func (e *Engine) Render(cv model.CV, templateID string) ([]byte, error) {
	if !cv.HasRenderableContent() {
		return nil, ErrNothingToRender
	}

	layout := e.Registry.Resolve(templateID)
	bands := layout.arrange(sortedForRender(cv))
	doc := paginate(bands)

	out := encodePDF(doc)
	if len(out) == 0 {
		return nil, fmt.Errorf("render %s: empty document", layout.Name())
	}
	return out, nil
}
