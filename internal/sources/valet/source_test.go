package valet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/valetmerge/pkg/errors"
)

func TestDefaultSources(t *testing.T) {
	srcs := DefaultSources()
	assert.Len(t, srcs, 6)
	assert.Equal(t, Source{
		Name: "AUC_TBILL",
		URL:  "https://www.bankofcanada.ca/valet/observations/group/AUC_TBILL/json",
	}, srcs[0])
	assert.Equal(t, "AUC_BOND_R", srcs[5].Name)
	for _, s := range srcs {
		assert.NoError(t, s.Validate())
	}
}

func TestGroupURL(t *testing.T) {
	assert.Equal(t, "http://local/valet/observations/group/X/json", GroupURL("http://local/valet/", "X"))
	assert.Equal(t, "https://www.bankofcanada.ca/valet/observations/group/X/json", GroupURL("", "X"))
}

func TestGroupSourcesSkipsBlank(t *testing.T) {
	srcs := GroupSources("http://local", "A", " ", "B ")
	assert.Equal(t, []Source{
		{Name: "A", URL: "http://local/observations/group/A/json"},
		{Name: "B", URL: "http://local/observations/group/B/json"},
	}, srcs)
}

func TestURLSources(t *testing.T) {
	srcs := URLSources(
		"https://www.bankofcanada.ca/valet/observations/group/AUC_BOND/json",
		"",
		"http://example.com/feed.json",
	)
	assert.Equal(t, []Source{
		{Name: "AUC_BOND", URL: "https://www.bankofcanada.ca/valet/observations/group/AUC_BOND/json"},
		{Name: "http://example.com/feed.json", URL: "http://example.com/feed.json"},
	}, srcs)
}

func TestSourceValidate(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/a", true},
		{"http://127.0.0.1:8080/a", true},
		{"ftp://example.com/a", false},
		{"/relative/path", false},
		{"http://", false},
		{"://bad", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := Source{URL: tt.url}.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "A", Source{Name: "A", URL: "u"}.String())
	assert.Equal(t, "u", Source{URL: "u"}.String())
}
