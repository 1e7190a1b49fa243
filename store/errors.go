package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// Error constructors
func ErrNilDependency(name string) error {
	return fmt.Errorf("store: nil dependency: %s", name)
}

func ErrMigrate(err error) error {
	return fmt.Errorf("store: migration failed: %w", err)
}

// isDuplicateKey reports whether err is a unique constraint violation,
// either GORM's portable sentinel or the raw MySQL driver error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
