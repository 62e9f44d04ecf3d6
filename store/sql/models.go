package sqlstore

import (
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

var (
	propertyCodec  core.PropertyCodec
	stringSetCodec core.StringSetCodec
	stringMapCodec core.StringMapCodec
)

type applicationRecord struct {
	bun.BaseModel `bun:"table:oauth_applications,alias:oa"`

	ID                     string    `bun:"id,pk"`
	ClientID               string    `bun:"client_id,notnull"`
	ClientSecret           *string   `bun:"client_secret"`
	ConsentType            string    `bun:"consent_type,notnull"`
	DisplayName            string    `bun:"display_name,notnull"`
	DisplayNames           string    `bun:"display_names,notnull"`
	Permissions            string    `bun:"permissions,notnull"`
	PostLogoutRedirectURIs string    `bun:"post_logout_redirect_uris,notnull"`
	RedirectURIs           string    `bun:"redirect_uris,notnull"`
	Requirements           string    `bun:"requirements,notnull"`
	Properties             string    `bun:"properties,notnull"`
	ClientType             string    `bun:"client_type,notnull"`
	CreatedAt              time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt              time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type authorizationRecord struct {
	bun.BaseModel `bun:"table:oauth_authorizations,alias:oz"`

	ID            string     `bun:"id,pk"`
	ApplicationID *string    `bun:"application_id"`
	Scopes        string     `bun:"scopes,notnull"`
	Status        string     `bun:"status,notnull"`
	Subject       string     `bun:"subject,notnull"`
	Type          string     `bun:"type,notnull"`
	CreationDate  *time.Time `bun:"creation_date,nullzero"`
	Properties    string     `bun:"properties,notnull"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type scopeRecord struct {
	bun.BaseModel `bun:"table:oauth_scopes,alias:os"`

	ID           string    `bun:"id,pk"`
	Name         string    `bun:"name,notnull"`
	Description  string    `bun:"description,notnull"`
	Descriptions string    `bun:"descriptions,notnull"`
	DisplayName  string    `bun:"display_name,notnull"`
	DisplayNames string    `bun:"display_names,notnull"`
	Resources    string    `bun:"resources,notnull"`
	Properties   string    `bun:"properties,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type tokenRecord struct {
	bun.BaseModel `bun:"table:oauth_tokens,alias:ot"`

	ID              string     `bun:"id,pk"`
	AuthorizationID *string    `bun:"authorization_id"`
	ApplicationID   *string    `bun:"application_id"`
	CreationDate    *time.Time `bun:"creation_date,nullzero"`
	ExpirationDate  *time.Time `bun:"expiration_date,nullzero"`
	Payload         string     `bun:"payload,notnull"`
	RedemptionDate  *time.Time `bun:"redemption_date,nullzero"`
	ReferenceID     *string    `bun:"reference_id"`
	Status          string     `bun:"status,notnull"`
	Subject         string     `bun:"subject,notnull"`
	Type            string     `bun:"type,notnull"`
	Properties      string     `bun:"properties,notnull"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newApplicationRecord(app *core.Application, now time.Time) (*applicationRecord, error) {
	snapshot := app.Snapshot()
	if _, err := requireKey("client_id", snapshot.ClientID); err != nil {
		return nil, err
	}
	record := &applicationRecord{
		ID:           snapshot.ID,
		ClientID:     snapshot.ClientID,
		ClientSecret: snapshot.ClientSecret,
		ConsentType:  snapshot.ConsentType,
		DisplayName:  snapshot.DisplayName,
		ClientType:   snapshot.ClientType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var err error
	if record.DisplayNames, err = stringMapCodec.Encode(snapshot.DisplayNames); err != nil {
		return nil, err
	}
	if record.Permissions, err = stringSetCodec.Encode(snapshot.Permissions); err != nil {
		return nil, err
	}
	if record.PostLogoutRedirectURIs, err = stringSetCodec.Encode(snapshot.PostLogoutRedirectURIs); err != nil {
		return nil, err
	}
	if record.RedirectURIs, err = stringSetCodec.Encode(snapshot.RedirectURIs); err != nil {
		return nil, err
	}
	if record.Requirements, err = stringSetCodec.Encode(snapshot.Requirements); err != nil {
		return nil, err
	}
	if record.Properties, err = propertyCodec.Encode(snapshot.Properties); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *applicationRecord) toDomain() (*core.Application, error) {
	snapshot := core.ApplicationSnapshot{
		ID:           r.ID,
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		ConsentType:  r.ConsentType,
		DisplayName:  r.DisplayName,
		ClientType:   r.ClientType,
	}
	var err error
	if snapshot.DisplayNames, err = stringMapCodec.Decode(r.DisplayNames); err != nil {
		return nil, err
	}
	if snapshot.Permissions, err = stringSetCodec.Decode(r.Permissions); err != nil {
		return nil, err
	}
	if snapshot.PostLogoutRedirectURIs, err = stringSetCodec.Decode(r.PostLogoutRedirectURIs); err != nil {
		return nil, err
	}
	if snapshot.RedirectURIs, err = stringSetCodec.Decode(r.RedirectURIs); err != nil {
		return nil, err
	}
	if snapshot.Requirements, err = stringSetCodec.Decode(r.Requirements); err != nil {
		return nil, err
	}
	if snapshot.Properties, err = propertyCodec.Decode(r.Properties); err != nil {
		return nil, err
	}
	return core.RestoreApplication(snapshot)
}

func newAuthorizationRecord(authorization *core.Authorization, now time.Time) (*authorizationRecord, error) {
	snapshot := authorization.Snapshot()
	record := &authorizationRecord{
		ID:            snapshot.ID,
		ApplicationID: snapshot.ApplicationID,
		Status:        snapshot.Status,
		Subject:       snapshot.Subject,
		Type:          snapshot.Type,
		CreationDate:  utcPointer(snapshot.CreationDate),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var err error
	if record.Scopes, err = stringSetCodec.Encode(snapshot.Scopes); err != nil {
		return nil, err
	}
	if record.Properties, err = propertyCodec.Encode(snapshot.Properties); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *authorizationRecord) toDomain() (*core.Authorization, error) {
	snapshot := core.AuthorizationSnapshot{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		Status:        r.Status,
		Subject:       r.Subject,
		Type:          r.Type,
		CreationDate:  utcPointer(r.CreationDate),
	}
	var err error
	if snapshot.Scopes, err = stringSetCodec.Decode(r.Scopes); err != nil {
		return nil, err
	}
	if snapshot.Properties, err = propertyCodec.Decode(r.Properties); err != nil {
		return nil, err
	}
	return core.RestoreAuthorization(snapshot)
}

func newScopeRecord(scope *core.Scope, now time.Time) (*scopeRecord, error) {
	snapshot := scope.Snapshot()
	if _, err := requireKey("name", snapshot.Name); err != nil {
		return nil, err
	}
	record := &scopeRecord{
		ID:          snapshot.ID,
		Name:        snapshot.Name,
		Description: snapshot.Description,
		DisplayName: snapshot.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var err error
	if record.Descriptions, err = stringMapCodec.Encode(snapshot.Descriptions); err != nil {
		return nil, err
	}
	if record.DisplayNames, err = stringMapCodec.Encode(snapshot.DisplayNames); err != nil {
		return nil, err
	}
	if record.Resources, err = stringSetCodec.Encode(snapshot.Resources); err != nil {
		return nil, err
	}
	if record.Properties, err = propertyCodec.Encode(snapshot.Properties); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *scopeRecord) toDomain() (*core.Scope, error) {
	snapshot := core.ScopeSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		DisplayName: r.DisplayName,
	}
	var err error
	if snapshot.Descriptions, err = stringMapCodec.Decode(r.Descriptions); err != nil {
		return nil, err
	}
	if snapshot.DisplayNames, err = stringMapCodec.Decode(r.DisplayNames); err != nil {
		return nil, err
	}
	if snapshot.Resources, err = stringSetCodec.Decode(r.Resources); err != nil {
		return nil, err
	}
	if snapshot.Properties, err = propertyCodec.Decode(r.Properties); err != nil {
		return nil, err
	}
	return core.RestoreScope(snapshot)
}

func newTokenRecord(token *core.Token, now time.Time) (*tokenRecord, error) {
	snapshot := token.Snapshot()
	record := &tokenRecord{
		ID:              snapshot.ID,
		AuthorizationID: snapshot.AuthorizationID,
		ApplicationID:   snapshot.ApplicationID,
		CreationDate:    utcPointer(snapshot.CreationDate),
		ExpirationDate:  utcPointer(snapshot.ExpirationDate),
		Payload:         snapshot.Payload,
		RedemptionDate:  utcPointer(snapshot.RedemptionDate),
		ReferenceID:     snapshot.ReferenceID,
		Status:          snapshot.Status,
		Subject:         snapshot.Subject,
		Type:            snapshot.Type,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var err error
	if record.Properties, err = propertyCodec.Encode(snapshot.Properties); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *tokenRecord) toDomain() (*core.Token, error) {
	snapshot := core.TokenSnapshot{
		ID:              r.ID,
		AuthorizationID: r.AuthorizationID,
		ApplicationID:   r.ApplicationID,
		CreationDate:    utcPointer(r.CreationDate),
		ExpirationDate:  utcPointer(r.ExpirationDate),
		Payload:         r.Payload,
		RedemptionDate:  utcPointer(r.RedemptionDate),
		ReferenceID:     r.ReferenceID,
		Status:          r.Status,
		Subject:         r.Subject,
		Type:            r.Type,
	}
	var err error
	if snapshot.Properties, err = propertyCodec.Decode(r.Properties); err != nil {
		return nil, err
	}
	return core.RestoreToken(snapshot)
}

func utcPointer(input *time.Time) *time.Time {
	if input == nil {
		return nil
	}
	value := input.UTC()
	return &value
}

func (r *applicationRecord) columns() core.Properties {
	secret := core.NullValue()
	if r.ClientSecret != nil {
		secret = core.StringValue(*r.ClientSecret)
	}
	return core.Properties{
		"client_id":                 core.StringValue(r.ClientID),
		"client_secret":             secret,
		"consent_type":              core.StringValue(r.ConsentType),
		"display_name":              core.StringValue(r.DisplayName),
		"display_names":             core.StringValue(r.DisplayNames),
		"permissions":               core.StringValue(r.Permissions),
		"post_logout_redirect_uris": core.StringValue(r.PostLogoutRedirectURIs),
		"redirect_uris":             core.StringValue(r.RedirectURIs),
		"requirements":              core.StringValue(r.Requirements),
		"properties":                core.StringValue(r.Properties),
		"client_type":               core.StringValue(r.ClientType),
	}
}

func (r *scopeRecord) columns() core.Properties {
	return core.Properties{
		"name":          core.StringValue(r.Name),
		"description":   core.StringValue(r.Description),
		"descriptions":  core.StringValue(r.Descriptions),
		"display_name":  core.StringValue(r.DisplayName),
		"display_names": core.StringValue(r.DisplayNames),
		"resources":     core.StringValue(r.Resources),
		"properties":    core.StringValue(r.Properties),
	}
}
