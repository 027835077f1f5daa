package reporting

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/secreport/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONRenderer serializes the report structure as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render implements Renderer.
func (r *JSONRenderer) Render(report *schemas.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// ContentType implements Renderer.
func (r *JSONRenderer) ContentType() string { return "application/json" }

// DecodeJSON parses a document produced by JSONRenderer.
func DecodeJSON(data []byte) (*schemas.Report, error) {
	var report schemas.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
