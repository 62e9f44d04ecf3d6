package core

import "slices"

const (
	MaxScopeNameLength = 200
)

// Scope is a named permission bundle, optionally tied to resource servers.
type Scope struct {
	id           string
	name         string
	description  string
	descriptions map[string]string
	displayName  string
	displayNames map[string]string
	resources    []string
	properties   Properties
}

type ScopeSnapshot struct {
	ID           string
	Name         string
	Description  string
	Descriptions map[string]string
	DisplayName  string
	DisplayNames map[string]string
	Resources    []string
	Properties   Properties
}

// NewScope requires the name up front; it is the scope's natural key.
func NewScope(id string, name string) (*Scope, error) {
	id, err := checkKey(id, "id", 0)
	if err != nil {
		return nil, err
	}
	scope := &Scope{
		id:           id,
		descriptions: map[string]string{},
		displayNames: map[string]string{},
		resources:    []string{},
		properties:   Properties{},
	}
	if err := scope.SetName(name); err != nil {
		return nil, err
	}
	return scope, nil
}

func RestoreScope(snapshot ScopeSnapshot) (*Scope, error) {
	scope, err := NewScope(snapshot.ID, snapshot.Name)
	if err != nil {
		return nil, err
	}
	scope.SetDescription(snapshot.Description)
	if err := scope.SetDescriptions(snapshot.Descriptions); err != nil {
		return nil, err
	}
	if err := scope.SetDisplayName(snapshot.DisplayName); err != nil {
		return nil, err
	}
	if err := scope.SetDisplayNames(snapshot.DisplayNames); err != nil {
		return nil, err
	}
	if err := scope.SetResources(snapshot.Resources); err != nil {
		return nil, err
	}
	scope.SetProperties(snapshot.Properties)
	return scope, nil
}

func (s *Scope) Snapshot() ScopeSnapshot {
	return ScopeSnapshot{
		ID:           s.id,
		Name:         s.name,
		Description:  s.description,
		Descriptions: s.Descriptions(),
		DisplayName:  s.displayName,
		DisplayNames: s.DisplayNames(),
		Resources:    s.Resources(),
		Properties:   s.Properties(),
	}
}

func (s *Scope) ID() string { return s.id }

func (s *Scope) Name() string { return s.name }

func (s *Scope) Description() string { return s.description }

func (s *Scope) Descriptions() map[string]string { return cloneStringMap(s.descriptions) }

func (s *Scope) DisplayName() string { return s.displayName }

func (s *Scope) DisplayNames() map[string]string { return cloneStringMap(s.displayNames) }

func (s *Scope) Resources() []string { return cloneStrings(s.resources) }

func (s *Scope) Properties() Properties { return s.properties.Clone() }

// HasResource is the exact membership test applied after lexical lookups.
func (s *Scope) HasResource(resource string) bool {
	_, found := slices.BinarySearch(s.resources, resource)
	return found
}

func (s *Scope) SetName(name string) error {
	value, err := checkKey(name, "name", MaxScopeNameLength)
	if err != nil {
		return err
	}
	s.name = value
	return nil
}

func (s *Scope) SetDescription(description string) {
	s.description = description
}

func (s *Scope) SetDescriptions(descriptions map[string]string) error {
	values, err := normalizeLocalized(descriptions, "descriptions")
	if err != nil {
		return err
	}
	s.descriptions = values
	return nil
}

func (s *Scope) SetDisplayName(displayName string) error {
	value, err := checkLength(displayName, "display_name", MaxDisplayNameLength)
	if err != nil {
		return err
	}
	s.displayName = value
	return nil
}

func (s *Scope) SetDisplayNames(names map[string]string) error {
	values, err := normalizeLocalized(names, "display_names")
	if err != nil {
		return err
	}
	for _, name := range values {
		if _, err := checkLength(name, "display_names", MaxDisplayNameLength); err != nil {
			return err
		}
	}
	s.displayNames = values
	return nil
}

func (s *Scope) SetResources(resources []string) error {
	values, err := normalizeSet(resources, "resources")
	if err != nil {
		return err
	}
	s.resources = values
	return nil
}

func (s *Scope) SetProperties(properties Properties) {
	s.properties = properties.Clone()
}
