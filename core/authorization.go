package core

import (
	"slices"
	"strings"
	"time"
)

const (
	MaxSubjectLength = 400
	MaxTypeLength    = 50
	MaxStatusLength  = 50
)

const (
	AuthorizationStatusValid   = "valid"
	AuthorizationStatusRevoked = "revoked"
)

const (
	AuthorizationTypePermanent = "permanent"
	AuthorizationTypeAdHoc     = "ad-hoc"
)

// Authorization records a subject's consent to a client for a set of scopes.
type Authorization struct {
	id            string
	applicationID *string
	scopes        []string
	status        string
	subject       string
	authType      string
	creationDate  *time.Time
	properties    Properties
}

type AuthorizationSnapshot struct {
	ID            string
	ApplicationID *string
	Scopes        []string
	Status        string
	Subject       string
	Type          string
	CreationDate  *time.Time
	Properties    Properties
}

func NewAuthorization(id string) (*Authorization, error) {
	id, err := checkKey(id, "id", 0)
	if err != nil {
		return nil, err
	}
	return &Authorization{
		id:         id,
		scopes:     []string{},
		properties: Properties{},
	}, nil
}

func RestoreAuthorization(snapshot AuthorizationSnapshot) (*Authorization, error) {
	authorization, err := NewAuthorization(snapshot.ID)
	if err != nil {
		return nil, err
	}
	if err := authorization.SetApplicationID(snapshot.ApplicationID); err != nil {
		return nil, err
	}
	if err := authorization.SetScopes(snapshot.Scopes); err != nil {
		return nil, err
	}
	if err := authorization.SetStatus(snapshot.Status); err != nil {
		return nil, err
	}
	if err := authorization.SetSubject(snapshot.Subject); err != nil {
		return nil, err
	}
	if err := authorization.SetType(snapshot.Type); err != nil {
		return nil, err
	}
	authorization.SetCreationDate(snapshot.CreationDate)
	authorization.SetProperties(snapshot.Properties)
	return authorization, nil
}

func (a *Authorization) Snapshot() AuthorizationSnapshot {
	return AuthorizationSnapshot{
		ID:            a.id,
		ApplicationID: cloneStringPointer(a.applicationID),
		Scopes:        a.Scopes(),
		Status:        a.status,
		Subject:       a.subject,
		Type:          a.authType,
		CreationDate:  cloneTimePointer(a.creationDate),
		Properties:    a.Properties(),
	}
}

func (a *Authorization) ID() string { return a.id }

func (a *Authorization) ApplicationID() *string { return cloneStringPointer(a.applicationID) }

func (a *Authorization) Scopes() []string { return cloneStrings(a.scopes) }

func (a *Authorization) Status() string { return a.status }

func (a *Authorization) Subject() string { return a.subject }

func (a *Authorization) Type() string { return a.authType }

func (a *Authorization) CreationDate() *time.Time { return cloneTimePointer(a.creationDate) }

func (a *Authorization) Properties() Properties { return a.properties.Clone() }

func (a *Authorization) IsValid() bool { return a.status == AuthorizationStatusValid }

func (a *Authorization) HasScope(scope string) bool {
	_, found := slices.BinarySearch(a.scopes, scope)
	return found
}

// SetApplicationID sets the owning client; nil detaches it.
func (a *Authorization) SetApplicationID(applicationID *string) error {
	if applicationID == nil {
		a.applicationID = nil
		return nil
	}
	value, err := checkKey(*applicationID, "application_id", 0)
	if err != nil {
		return err
	}
	a.applicationID = &value
	return nil
}

func (a *Authorization) SetScopes(scopes []string) error {
	values, err := normalizeSet(scopes, "scopes")
	if err != nil {
		return err
	}
	a.scopes = values
	return nil
}

func (a *Authorization) SetStatus(status string) error {
	value := strings.TrimSpace(status)
	if _, err := checkLength(value, "status", MaxStatusLength); err != nil {
		return err
	}
	value, err := checkEnum(value, "status", AuthorizationStatusValid, AuthorizationStatusRevoked)
	if err != nil {
		return err
	}
	a.status = value
	return nil
}

func (a *Authorization) SetSubject(subject string) error {
	value, err := checkLength(subject, "subject", MaxSubjectLength)
	if err != nil {
		return err
	}
	a.subject = value
	return nil
}

func (a *Authorization) SetType(authType string) error {
	value, err := checkLength(strings.TrimSpace(authType), "type", MaxTypeLength)
	if err != nil {
		return err
	}
	a.authType = value
	return nil
}

func (a *Authorization) SetCreationDate(creationDate *time.Time) {
	a.creationDate = cloneTimePointer(creationDate)
}

func (a *Authorization) SetProperties(properties Properties) {
	a.properties = properties.Clone()
}
