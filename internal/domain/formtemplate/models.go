package formtemplate

import "time"

// Field describes one input on the public application form.
type Field struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Section     string   `json:"section,omitempty"`
}

type Template struct {
	Fields       []Field           `json:"fields"`
	FieldMapping map[string]string `json:"fieldMapping"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	UpdatedBy    string            `json:"updatedBy"`
	IsDefault    bool              `json:"isDefault"`
}

type UpdateInput struct {
	Fields       []Field           `json:"fields"`
	FieldMapping map[string]string `json:"fieldMapping"`
}
