package implementation

import (
	"errors"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return contract.ErrDuplicate
	}
	return err
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	return specification.All(specs).Apply(db)
}

// first runs the query and returns (false, nil) when no row matched.
func first(query *gorm.DB, dest interface{}) (bool, error) {
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
