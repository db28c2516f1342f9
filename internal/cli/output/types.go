package output

import "time"

// ViewInfo describes one view of a definition.
type ViewInfo struct {
	Name    string   `json:"name"`
	Visible []string `json:"visible"`
	Focus   []string `json:"focus"`
}

// ViewListOutput is the JSON form of `views list`.
type ViewListOutput struct {
	File  string     `json:"file"`
	Views []ViewInfo `json:"views"`
	Count int        `json:"count"`
}

// ValidateOutput is the JSON form of `views validate`.
type ValidateOutput struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Views int    `json:"views"`
	Error string `json:"error,omitempty"`
}

// LayoutInfo describes a stored layout.
type LayoutInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ViewCount int        `json:"view_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Views     []ViewInfo `json:"views,omitempty"`
}

// LayoutListOutput is the JSON form of `layouts list`.
type LayoutListOutput struct {
	Layouts []LayoutInfo `json:"layouts"`
	Count   int          `json:"count"`
}
