// Package permission answers hasPermission(action, resource) for a role.
//
// Grants are "resource:action" strings. Either side may be "*", and the
// bare "*" grant allows everything. Policies load from YAML:
//
//	roles:
//	  admin: ["*"]
//	  recruiter: ["candidates:*", "pipeline:*", "notes:*"]
//	  viewer: ["*:view"]
package permission

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Actions
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Resources
const (
	ResourceCandidates       = "candidates"
	ResourcePipeline         = "pipeline"
	ResourceSubmissions      = "submissions"
	ResourceInterviews       = "interviews"
	ResourceOffers           = "offers"
	ResourceNotes            = "notes"
	ResourceAttachments      = "attachments"
	ResourceBackgroundChecks = "background-checks"
)

// Policy maps role names to grants
type Policy struct {
	Roles map[string][]string `yaml:"roles"`
}

// DefaultPolicy is used when no policy file is configured
func DefaultPolicy() *Policy {
	return &Policy{Roles: map[string][]string{
		"admin": {"*"},
		"recruiter": {
			"candidates:*", "pipeline:*", "submissions:*", "interviews:*",
			"notes:*", "attachments:*", "offers:view", "background-checks:view",
		},
		"hr-manager": {"*:view", "offers:*", "background-checks:*", "pipeline:edit"},
		"viewer":     {"*:view"},
	}}
}

// LoadPolicy reads a YAML policy file
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML policy bytes and validates every grant
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	if len(p.Roles) == 0 {
		return nil, fmt.Errorf("policy defines no roles")
	}
	for role, grants := range p.Roles {
		for _, g := range grants {
			if g != "*" && strings.Count(g, ":") != 1 {
				return nil, fmt.Errorf("role %q: malformed grant %q", role, g)
			}
		}
	}
	return &p, nil
}

// HasPermission reports whether role may perform action on resource
func (p *Policy) HasPermission(role, action, resource string) bool {
	if p == nil {
		return false
	}
	for _, g := range p.Roles[role] {
		if matches(g, action, resource) {
			return true
		}
	}
	return false
}

func matches(grant, action, resource string) bool {
	if grant == "*" {
		return true
	}
	res, act, ok := strings.Cut(grant, ":")
	if !ok {
		return false
	}
	return (res == "*" || res == resource) && (act == "*" || act == action)
}

// Grants returns a copy of role's grants, never nil
func (p *Policy) Grants(role string) []string {
	if p == nil {
		return []string{}
	}
	return append([]string{}, p.Roles[role]...)
}
