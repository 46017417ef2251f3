package render

import "cvision-backend/cv/model"

// TemplateInfo describes one selectable template for catalog endpoints.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry maps template identifiers to layout strategies.
type Registry struct {
	layouts map[string]Layout
	order   []string
	def     Layout
}

// NewRegistry builds the registry with the built-in layouts, with Modern as
// the fallback for unknown identifiers.
func NewRegistry() *Registry {
	r := &Registry{layouts: make(map[string]Layout)}
	for _, l := range []Layout{modernLayout{}, classicLayout{}, executiveLayout{}} {
		r.layouts[l.Name()] = l
		r.order = append(r.order, l.Name())
	}
	r.def = r.layouts[model.TemplateModern]
	return r
}

// Resolve returns the layout for the given template identifier. Empty or
// unknown identifiers resolve to the default layout.
func (r *Registry) Resolve(templateID string) Layout {
	if l, ok := r.layouts[templateID]; ok {
		return l
	}
	return r.def
}

// Templates lists the available templates in registration order.
func (r *Registry) Templates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(r.order))
	for _, name := range r.order {
		l := r.layouts[name]
		out = append(out, TemplateInfo{ID: l.Name(), Name: l.Name(), Description: l.Description()})
	}
	return out
}
