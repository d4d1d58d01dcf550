package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/common"
)

func newTestService() *Service {
	return NewService(common.GetLogger())
}

func TestExtractFormsNoForms(t *testing.T) {
	svc := newTestService()

	result, err := svc.ExtractForms(`<html><head><title>Empty</title></head><body><p>nothing here</p></body></html>`, "https://example.com/page")
	require.NoError(t, err)

	assert.Equal(t, "Empty", result.PageTitle)
	assert.Empty(t, result.Forms)
}

func TestExtractFormsDOMOrder(t *testing.T) {
	svc := newTestService()

	html := `<html><body><form>
		<input id="first" type="text">
		<select id="second"></select>
		<textarea id="third"></textarea>
		<input id="fourth" type="password">
	</form></body></html>`

	result, err := svc.ExtractForms(html, "https://example.com/login")
	require.NoError(t, err)
	require.Len(t, result.Forms, 1)

	fields := result.Forms[0].Fields
	require.Len(t, fields, 4)
	assert.Equal(t, "first", fields[0].ID)
	assert.Equal(t, "second", fields[1].ID)
	assert.Equal(t, "third", fields[2].ID)
	assert.Equal(t, "fourth", fields[3].ID)
	assert.Equal(t, "password", fields[3].Type)
}

func TestExtractFieldTypeDefaultsToText(t *testing.T) {
	svc := newTestService()

	result, err := svc.ExtractForms(`<form><input id="plain"></form>`, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, result.Forms, 1)
	require.Len(t, result.Forms[0].Fields, 1)
	assert.Equal(t, "text", result.Forms[0].Fields[0].Type)
}

func TestExtractFieldExplicitLabel(t *testing.T) {
	svc := newTestService()

	html := `<form>
		<label for="username">User Name</label>
		<input id="username" type="text">
	</form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "User Name", result.Forms[0].Fields[0].Label)
}

func TestExtractFieldWrappingLabelStripsValue(t *testing.T) {
	svc := newTestService()

	html := `<form>
		<label>API Key <input id="apikey" type="text" value="abc123"></label>
	</form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "API Key", result.Forms[0].Fields[0].Label)
}

func TestExtractFieldPrecedingSiblingText(t *testing.T) {
	svc := newTestService()

	html := `<form>
		<span>Database Host</span>
		<input id="dbhost" type="text">
	</form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	field := result.Forms[0].Fields[0]
	assert.Empty(t, field.Label)
	assert.Equal(t, "Database Host", field.NearbyText)
}

func TestExtractFieldAncestorText(t *testing.T) {
	svc := newTestService()

	html := `<form>
		<div>
			<p>Secret Token</p>
			<div><input id="token" type="text"></div>
		</div>
	</form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Secret Token", result.Forms[0].Fields[0].NearbyText)
}

func TestExtractFieldAriaLabel(t *testing.T) {
	svc := newTestService()

	html := `<form><input id="search" type="text" aria-label="Search Terms"></form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Search Terms", result.Forms[0].Fields[0].Label)
}

func TestExtractFieldAriaLabelledBy(t *testing.T) {
	svc := newTestService()

	html := `<html><body>
		<h4 id="region-heading">Region Code</h4>
		<div><div><form><input id="region" type="text" aria-labelledby="region-heading"></form></div></div>
	</body></html>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Region Code", result.Forms[0].Fields[0].Label)
}

func TestExtractFieldAriaLabelledByMetacharacterID(t *testing.T) {
	svc := newTestService()

	html := `<html><body>
		<h4 id="section.region">Region Code</h4>
		<div><div><form><input id="region" type="text" aria-labelledby="section.region"></form></div></div>
	</body></html>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Region Code", result.Forms[0].Fields[0].Label)
}

func TestExtractFieldExplicitLabelBeatsAriaLabel(t *testing.T) {
	svc := newTestService()

	html := `<form>
		<label for="username">User Name</label>
		<input id="username" type="text" aria-label="Search Terms">
	</form>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "User Name", result.Forms[0].Fields[0].Label)
}

func TestFormContextHeading(t *testing.T) {
	svc := newTestService()

	html := `<section>
		<h2>Create Account</h2>
		<form><input id="email" type="email"></form>
	</section>`

	result, err := svc.ExtractForms(html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Create Account", result.Forms[0].FormContext)
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "drops query string",
			input:    "https://example.com/login?next=/home",
			expected: "https://example.com/login",
		},
		{
			name:     "drops fragment",
			input:    "https://example.com/settings#api",
			expected: "https://example.com/settings",
		},
		{
			name:     "keeps path",
			input:    "https://console.aws.amazon.com/iam/home",
			expected: "https://console.aws.amazon.com/iam/home",
		},
		{
			name:     "unparseable input passes through",
			input:    "not a url",
			expected: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageURL(tt.input))
		})
	}
}
