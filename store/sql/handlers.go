package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Writes go through bun directly so caller-chosen identifiers are stored
// verbatim. The handlers only serve keyed reads.
func recordHandlers[R any](newRecord func() *R, id func(*R) string, setID func(*R, string)) repository.ModelHandlers[*R] {
	return repository.ModelHandlers[*R]{
		NewRecord: newRecord,
		GetID: func(record *R) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(id(record))
		},
		SetID: func(record *R, value uuid.UUID) {
			if record == nil {
				return
			}
			setID(record, value.String())
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *R) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(id(record))
		},
	}
}

func applicationHandlers() repository.ModelHandlers[*applicationRecord] {
	return recordHandlers(
		func() *applicationRecord { return &applicationRecord{} },
		func(r *applicationRecord) string { return r.ID },
		func(r *applicationRecord, id string) { r.ID = id },
	)
}

func authorizationHandlers() repository.ModelHandlers[*authorizationRecord] {
	return recordHandlers(
		func() *authorizationRecord { return &authorizationRecord{} },
		func(r *authorizationRecord) string { return r.ID },
		func(r *authorizationRecord, id string) { r.ID = id },
	)
}

func scopeHandlers() repository.ModelHandlers[*scopeRecord] {
	return recordHandlers(
		func() *scopeRecord { return &scopeRecord{} },
		func(r *scopeRecord) string { return r.ID },
		func(r *scopeRecord, id string) { r.ID = id },
	)
}

func tokenHandlers() repository.ModelHandlers[*tokenRecord] {
	return recordHandlers(
		func() *tokenRecord { return &tokenRecord{} },
		func(r *tokenRecord) string { return r.ID },
		func(r *tokenRecord, id string) { r.ID = id },
	)
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
