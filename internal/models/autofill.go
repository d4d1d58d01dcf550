package models

// AutofillStatus summarizes how an autofill run ended
type AutofillStatus string

const (
	AutofillStatusFilled       AutofillStatus = "filled"
	AutofillStatusNoConnectors AutofillStatus = "no_connectors"
	AutofillStatusNoMatch      AutofillStatus = "no_match"
	AutofillStatusNoAPIKey     AutofillStatus = "no_api_key"
	AutofillStatusFailed       AutofillStatus = "failed"
)

// AutofillResult reports the outcome of one autofill run
type AutofillResult struct {
	Status       AutofillStatus    `json:"status"`
	Message      string            `json:"message,omitempty"`
	Connectors   []string          `json:"connectors,omitempty"` // titles of the matched connectors
	FieldMap     map[string]string `json:"fieldMap,omitempty"`
	Applied      []string          `json:"applied,omitempty"` // element ids that were filled
	Missing      []string          `json:"missing,omitempty"` // element ids not present on the page
	FormsScanned int               `json:"formsScanned"`
}
