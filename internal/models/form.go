package models

// ExtractedField describes a single fillable control found on a page.
// Label carries text resolved from a label element or aria attributes;
// NearbyText carries text scavenged from surrounding elements when no
// label exists.
type ExtractedField struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Label       string `json:"label,omitempty"`
	NearbyText  string `json:"nearbyText,omitempty"`
}

// ExtractedForm is one form element and its controls, in DOM order
type ExtractedForm struct {
	FormContext string           `json:"formContext,omitempty"`
	Fields      []ExtractedField `json:"fields"`
}

// PageForms is the full extraction result for one page
type PageForms struct {
	PageTitle string          `json:"pageTitle"`
	FormURL   string          `json:"formUrl"`
	Forms     []ExtractedForm `json:"forms"`
}

// FieldCount returns the total number of controls across all forms
func (p *PageForms) FieldCount() int {
	n := 0
	for _, f := range p.Forms {
		n += len(f.Fields)
	}
	return n
}

// CleanedField is an extracted field with a display-ready name, produced by
// the field name cleaner for connector authoring.
type CleanedField struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Label       string `json:"label,omitempty"`
	CleanName   string `json:"cleanName"`
}
