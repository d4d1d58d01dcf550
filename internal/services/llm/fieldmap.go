package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoFieldMap is returned when a model response contains no JSON object
var ErrNoFieldMap = errors.New("no field map found in model response")

// ExtractFieldMap pulls the field-id-to-value mapping out of a model
// response. Parsing is deliberately permissive about surrounding prose:
// everything from the first "{" to the last "}" is treated as the JSON
// object, whatever the model wrapped it in. A response that fails here is
// rejected whole; no partial mapping is ever returned.
func ExtractFieldMap(response string) (map[string]string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return nil, ErrNoFieldMap
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("field map is not valid JSON: %w", err)
	}

	fieldMap := make(map[string]string, len(raw))
	for id, value := range raw {
		switch v := value.(type) {
		case string:
			fieldMap[id] = v
		case nil:
			// Model declined this field
		default:
			fieldMap[id] = fmt.Sprintf("%v", v)
		}
	}

	return fieldMap, nil
}
