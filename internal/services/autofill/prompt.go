package autofill

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/formfill/internal/models"
)

// BuildPrompt assembles the completion prompt: the page title, the
// extracted forms as pretty JSON, and the matching connectors as pretty
// JSON. The model is asked for a bare JSON object mapping element ids to
// values.
func BuildPrompt(page *models.PageForms, connectors []*models.Connector) (string, error) {
	formsJSON, err := json.MarshalIndent(page.Forms, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode forms: %w", err)
	}

	credentials := make([]models.Connector, 0, len(connectors))
	for _, c := range connectors {
		credentials = append(credentials, *c)
	}
	credentialsJSON, err := json.MarshalIndent(credentials, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	prompt := fmt.Sprintf(`You are a form filling assistant. Given the form fields of a web page and a set of stored credentials, decide which credential value belongs in which form field.

Page title: %s

Form fields on the page:
%s

Stored credentials:
%s

Respond with a single JSON object that maps form field element ids to the values to fill in, for example {"username": "admin", "password": "secret"}. Only use element ids that exist in the form fields above. Only use values from the stored credentials. If no value fits a field, leave that field out. Respond with the JSON object only, no explanation.`,
		page.PageTitle, formsJSON, credentialsJSON)

	return prompt, nil
}
