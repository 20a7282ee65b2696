package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry      = 1062
	errOutOfRange          = 1264
	errRowIsReferenced     = 1451
	errNoReferencedRow     = 1452
	errLockWaitTimeout     = 1205
	errDeadlock            = 1213
	errCheckConstraintFail = 3819
)

func errorNumber(err error) (uint16, bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}

func IsDuplicateEntry(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errDuplicateEntry
}

// IsRowReferenced reports a delete blocked by an ON DELETE RESTRICT key.
func IsRowReferenced(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errRowIsReferenced
}

// IsMissingReference reports an insert or update pointing at a row that does
// not exist.
func IsMissingReference(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errNoReferencedRow
}

// IsOutOfRange reports a value that does not fit its column.
func IsOutOfRange(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errOutOfRange
}

func IsCheckViolation(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errCheckConstraintFail
}

func IsDeadlock(err error) bool {
	n, ok := errorNumber(err)
	return ok && (n == errDeadlock || n == errLockWaitTimeout)
}
