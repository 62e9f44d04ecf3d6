package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// classifyWriteError maps unique-key violations from either driver onto
// core.UniquenessConflict. Every other error is returned unmodified.
func classifyWriteError(err error, entity string, naturalKey string, naturalValue string) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	field := naturalKey
	if naturalKey == "" || !strings.Contains(err.Error(), naturalKey) {
		field = "id"
	}
	value := naturalValue
	if field == "id" {
		value = ""
	}
	return core.UniquenessConflict(err, entity, field, value)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func requireAffected(res sql.Result, entity string, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NotFound(entity+" not found", map[string]any{"entity": entity, "id": id})
	}
	return nil
}
