package export

import (
	"encoding/json"
	"fmt"
)

// JSONExporter renders an arbitrary report document as indented JSON.
// Analytics reports are composed documents rather than flat tables, so this
// exporter takes the document directly instead of a Dataset.
type JSONExporter struct{}

// NewJSONExporter constructs a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Render produces indented JSON bytes for the document.
func (e *JSONExporter) Render(doc interface{}) ([]byte, error) {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json report: %w", err)
	}
	return payload, nil
}
