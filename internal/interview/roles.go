package interview

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role identifies the job-title category an interview is generated for.
type Role string

// Supported interview roles.
const (
	RolePythonDeveloper Role = "python_developer"
	RoleWebDeveloper    Role = "web_developer"
	RoleDataScientist   Role = "data_scientist"
	RoleDevOpsEngineer  Role = "devops_engineer"
)

// RoleInfo describes a role as presented to users and prompts.
type RoleInfo struct {
	Key   Role   `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Focus string `yaml:"focus" json:"-"`
}

//go:embed roles.yaml
var rolesYAML []byte

var catalog = mustLoadCatalog(rolesYAML)

type roleCatalog struct {
	ordered []RoleInfo
	byKey   map[Role]RoleInfo
}

func mustLoadCatalog(data []byte) roleCatalog {
	c, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

func loadCatalog(data []byte) (roleCatalog, error) {
	var doc struct {
		Roles []RoleInfo `yaml:"roles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return roleCatalog{}, fmt.Errorf("parse role catalog: %w", err)
	}
	if len(doc.Roles) == 0 {
		return roleCatalog{}, fmt.Errorf("role catalog is empty")
	}

	c := roleCatalog{
		ordered: make([]RoleInfo, 0, len(doc.Roles)),
		byKey:   make(map[Role]RoleInfo, len(doc.Roles)),
	}
	for _, info := range doc.Roles {
		if info.Key == "" || info.Label == "" {
			return roleCatalog{}, fmt.Errorf("role catalog entry missing key or label")
		}
		if _, exists := c.byKey[info.Key]; exists {
			return roleCatalog{}, fmt.Errorf("duplicate role %q", info.Key)
		}
		c.ordered = append(c.ordered, info)
		c.byKey[info.Key] = info
	}
	return c, nil
}

// Roles returns the supported roles in display order.
func Roles() []RoleInfo {
	out := make([]RoleInfo, len(catalog.ordered))
	copy(out, catalog.ordered)
	return out
}

// ParseRole resolves a role key, failing with ErrInvalidRole for anything outside the catalog.
func ParseRole(value string) (RoleInfo, error) {
	info, ok := catalog.byKey[Role(strings.TrimSpace(value))]
	if !ok {
		return RoleInfo{}, fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
	return info, nil
}

// Label returns the display label for the role, or the raw key when unknown.
func (r Role) Label() string {
	if info, ok := catalog.byKey[r]; ok {
		return info.Label
	}
	return string(r)
}
