package dbx

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
)

// RequireAffected turns a zero-row UPDATE or DELETE into common.ErrorNotFound.
func RequireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
