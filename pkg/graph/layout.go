package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the serialization format for a computed layout: the canvas it was
// computed for, the algorithm and one position per node.
type Layout struct {
	Algorithm string    `json:"algorithm" bson:"algorithm"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
	Positions Positions `json:"positions" bson:"positions"`
}

// MarshalLayout encodes a layout as JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout decodes a layout. A missing positions object decodes as empty.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if l.Positions == nil {
		l.Positions = Positions{}
	}
	return l, nil
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
