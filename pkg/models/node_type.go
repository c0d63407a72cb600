package models

// NodeType describes a node kind the editor palette can place on the canvas.
type NodeType struct {
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
}
