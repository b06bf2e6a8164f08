// Package valet fetches observation feeds from the Bank of Canada Valet API
// and turns each one into a table.
package valet

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
)

// DefaultGroups are the auction series groups merged by default.
var DefaultGroups = []string{
	"AUC_TBILL",
	"AUC_TBILL_C",
	"AUC_BOND",
	"AUC_BOND_U",
	"AUC_BOND_RR",
	"AUC_BOND_R",
}

// Source is one feed to fetch.
type Source struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// String returns the source name, or its URL when unnamed.
func (s Source) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

// Validate checks that the URL is an absolute http or https URL.
func (s Source) Validate() error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return errors.NewValidationError("url", s.URL, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewValidationError("url", s.URL, "must be an absolute http or https URL")
	}
	if u.Host == "" {
		return errors.NewValidationError("url", s.URL, "missing host")
	}
	return nil
}

// GroupURL returns the JSON observations URL of a series group.
func GroupURL(base, group string) string {
	if base == "" {
		base = constants.ValetBaseURL
	}
	return fmt.Sprintf("%s/observations/group/%s/json", strings.TrimRight(base, "/"), url.PathEscape(group))
}

// GroupSources returns one source per group, named after the group.
func GroupSources(base string, groups ...string) []Source {
	srcs := make([]Source, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		srcs = append(srcs, Source{Name: g, URL: GroupURL(base, g)})
	}
	return srcs
}

// URLSources returns one source per URL. Sources served from a Valet group
// path are named after the group, others after the URL.
func URLSources(urls ...string) []Source {
	srcs := make([]Source, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		srcs = append(srcs, Source{Name: nameFromURL(raw), URL: raw})
	}
	return srcs
}

// DefaultSources returns the six auction group feeds.
func DefaultSources() []Source {
	return GroupSources(constants.ValetBaseURL, DefaultGroups...)
}

func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "group" {
			return parts[i+1]
		}
	}
	return raw
}
