// Package validate syntax-checks generated DDL before it reaches the caller.
package validate

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Postgres parses ddl with the real PostgreSQL grammar and returns the first
// syntax error, or nil when the script is well formed. MySQL scripts cannot
// be checked this way; callers must reject the combination instead.
func Postgres(ddl string) error {
	if _, err := pg_query.Parse(ddl); err != nil {
		return fmt.Errorf("generated DDL failed PostgreSQL syntax validation: %w", err)
	}
	return nil
}
