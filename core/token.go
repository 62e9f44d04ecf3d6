package core

import (
	"strings"
	"time"
)

const MaxReferenceIDLength = 100

const (
	TokenStatusInactive = "inactive"
	TokenStatusRedeemed = "redeemed"
	TokenStatusRejected = "rejected"
	TokenStatusRevoked  = "revoked"
	TokenStatusValid    = "valid"
)

const (
	TokenTypeAccessToken       = "access_token"
	TokenTypeAuthorizationCode = "authorization_code"
	TokenTypeDeviceCode        = "device_code"
	TokenTypeIDToken           = "id_token"
	TokenTypeRefreshToken      = "refresh_token"
	TokenTypeUserCode          = "user_code"
)

// Token is an issued protocol artifact. Payload carries the serialized
// protocol data, which is not necessarily the bearer value.
type Token struct {
	id              string
	authorizationID *string
	applicationID   *string
	creationDate    *time.Time
	expirationDate  *time.Time
	payload         string
	redemptionDate  *time.Time
	referenceID     *string
	status          string
	subject         string
	tokenType       string
	properties      Properties
}

type TokenSnapshot struct {
	ID              string
	AuthorizationID *string
	ApplicationID   *string
	CreationDate    *time.Time
	ExpirationDate  *time.Time
	Payload         string
	RedemptionDate  *time.Time
	ReferenceID     *string
	Status          string
	Subject         string
	Type            string
	Properties      Properties
}

func NewToken(id string) (*Token, error) {
	id, err := checkKey(id, "id", 0)
	if err != nil {
		return nil, err
	}
	return &Token{
		id:         id,
		properties: Properties{},
	}, nil
}

func RestoreToken(snapshot TokenSnapshot) (*Token, error) {
	token, err := NewToken(snapshot.ID)
	if err != nil {
		return nil, err
	}
	if err := token.SetAuthorizationID(snapshot.AuthorizationID); err != nil {
		return nil, err
	}
	if err := token.SetApplicationID(snapshot.ApplicationID); err != nil {
		return nil, err
	}
	if err := token.SetReferenceID(snapshot.ReferenceID); err != nil {
		return nil, err
	}
	if err := token.SetStatus(snapshot.Status); err != nil {
		return nil, err
	}
	if err := token.SetSubject(snapshot.Subject); err != nil {
		return nil, err
	}
	if err := token.SetType(snapshot.Type); err != nil {
		return nil, err
	}
	token.SetCreationDate(snapshot.CreationDate)
	token.SetExpirationDate(snapshot.ExpirationDate)
	token.SetRedemptionDate(snapshot.RedemptionDate)
	token.SetPayload(snapshot.Payload)
	token.SetProperties(snapshot.Properties)
	return token, nil
}

func (t *Token) Snapshot() TokenSnapshot {
	return TokenSnapshot{
		ID:              t.id,
		AuthorizationID: cloneStringPointer(t.authorizationID),
		ApplicationID:   cloneStringPointer(t.applicationID),
		CreationDate:    cloneTimePointer(t.creationDate),
		ExpirationDate:  cloneTimePointer(t.expirationDate),
		Payload:         t.payload,
		RedemptionDate:  cloneTimePointer(t.redemptionDate),
		ReferenceID:     cloneStringPointer(t.referenceID),
		Status:          t.status,
		Subject:         t.subject,
		Type:            t.tokenType,
		Properties:      t.Properties(),
	}
}

func (t *Token) ID() string { return t.id }

func (t *Token) AuthorizationID() *string { return cloneStringPointer(t.authorizationID) }

func (t *Token) ApplicationID() *string { return cloneStringPointer(t.applicationID) }

func (t *Token) CreationDate() *time.Time { return cloneTimePointer(t.creationDate) }

func (t *Token) ExpirationDate() *time.Time { return cloneTimePointer(t.expirationDate) }

func (t *Token) Payload() string { return t.payload }

func (t *Token) RedemptionDate() *time.Time { return cloneTimePointer(t.redemptionDate) }

func (t *Token) ReferenceID() *string { return cloneStringPointer(t.referenceID) }

func (t *Token) Status() string { return t.status }

func (t *Token) Subject() string { return t.subject }

func (t *Token) Type() string { return t.tokenType }

func (t *Token) Properties() Properties { return t.properties.Clone() }

func (t *Token) IsExpired(now time.Time) bool {
	return t.expirationDate != nil && t.expirationDate.Before(now.UTC())
}

// IsPrunable evaluates the prune predicate in memory. authorizationStatus is
// nil when the token has no authorization or the authorization is gone.
func (t *Token) IsPrunable(olderThan time.Time, now time.Time, authorizationStatus *string) bool {
	if t.creationDate == nil || !t.creationDate.Before(olderThan.UTC()) {
		return false
	}
	if t.status != TokenStatusInactive && t.status != TokenStatusValid {
		return true
	}
	if t.IsExpired(now) {
		return true
	}
	return authorizationStatus != nil && *authorizationStatus != AuthorizationStatusValid
}

func (t *Token) SetAuthorizationID(authorizationID *string) error {
	value, err := optionalIdentifier(authorizationID, "authorization_id")
	if err != nil {
		return err
	}
	t.authorizationID = value
	return nil
}

func (t *Token) SetApplicationID(applicationID *string) error {
	value, err := optionalIdentifier(applicationID, "application_id")
	if err != nil {
		return err
	}
	t.applicationID = value
	return nil
}

func (t *Token) SetCreationDate(creationDate *time.Time) {
	t.creationDate = cloneTimePointer(creationDate)
}

func (t *Token) SetExpirationDate(expirationDate *time.Time) {
	t.expirationDate = cloneTimePointer(expirationDate)
}

func (t *Token) SetPayload(payload string) {
	t.payload = payload
}

func (t *Token) SetRedemptionDate(redemptionDate *time.Time) {
	t.redemptionDate = cloneTimePointer(redemptionDate)
}

func (t *Token) SetReferenceID(referenceID *string) error {
	if referenceID == nil {
		t.referenceID = nil
		return nil
	}
	value, err := checkKey(*referenceID, "reference_id", MaxReferenceIDLength)
	if err != nil {
		return err
	}
	t.referenceID = &value
	return nil
}

func (t *Token) SetStatus(status string) error {
	value := strings.TrimSpace(status)
	if _, err := checkLength(value, "status", MaxStatusLength); err != nil {
		return err
	}
	value, err := checkEnum(value, "status",
		TokenStatusInactive,
		TokenStatusRedeemed,
		TokenStatusRejected,
		TokenStatusRevoked,
		TokenStatusValid,
	)
	if err != nil {
		return err
	}
	t.status = value
	return nil
}

func (t *Token) SetSubject(subject string) error {
	value, err := checkLength(subject, "subject", MaxSubjectLength)
	if err != nil {
		return err
	}
	t.subject = value
	return nil
}

func (t *Token) SetType(tokenType string) error {
	value, err := checkLength(strings.TrimSpace(tokenType), "type", MaxTypeLength)
	if err != nil {
		return err
	}
	t.tokenType = value
	return nil
}

func (t *Token) SetProperties(properties Properties) {
	t.properties = properties.Clone()
}

func optionalIdentifier(value *string, field string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed, err := checkKey(*value, field, 0)
	if err != nil {
		return nil, err
	}
	return &trimmed, nil
}
