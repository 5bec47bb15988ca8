package postgres

import (
	"database/sql"
	"errors"

	"swapcircle-backend/internal/domain"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// classify translates driver errors into domain errors. The driver error is
// kept as the cause so retry decisions can still see the SQLSTATE.
func classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s not found", entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.UniqueViolation:
			return &domain.Error{Kind: domain.KindStateConflict, Reason: entity + " already exists", Err: err}
		case pgerrcode.ForeignKeyViolation:
			return &domain.Error{Kind: domain.KindNotFound, Reason: entity + " refers to a record that no longer exists", Err: err}
		case pgerrcode.CheckViolation:
			return &domain.Error{Kind: domain.KindValidation, Reason: entity + " has an invalid value", Err: err}
		}
	}
	return domain.Dependency(err, "the service is temporarily unavailable, please try again")
}

// expectOne turns a zero-row write into a NotFound.
func expectOne(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err, entity)
	}
	if n == 0 {
		return domain.NotFound("%s not found", entity)
	}
	return nil
}
