package sessionize

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"schedgen/internal/models"
)

// Schema reflects the JSON Schema of the exported document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
	}
	schema := r.Reflect(&models.Document{})
	schema.Title = "Sessionize view/all export"
	schema.Description = "Schedule document produced by schedgen."
	return schema
}

// MarshalSchema renders Schema as indented JSON.
func MarshalSchema() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
