package repository

import (
	"fmt"

	"stockroom/internal/errors"
	"stockroom/internal/infrastructure/mysql"
)

func classifyDeleteError(entity string, id int64, err error) error {
	if mysql.IsRowReferenced(err) {
		return errors.NewConflictError(fmt.Sprintf("%s %d is still referenced and cannot be deleted", entity, id))
	}
	return fmt.Errorf("deleting %s: %w", entity, err)
}

func checkAffected(entity string, id int64, rowsAffected int64) error {
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entity, id))
	}
	return nil
}
