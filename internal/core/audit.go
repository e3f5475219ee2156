package core

import (
	"context"

	"github.com/rs/zerolog"
)

// recordAudit inserts one audit row. Failures are logged and reported in
// the result, never returned.
func recordAudit(ctx context.Context, db DB, table, sql string, args ...any) AuditResult {
	logger := zerolog.Ctx(ctx)
	if db == nil {
		logger.Debug().Str("table", table).Msg("audit skipped: database not configured")
		return AuditResult{Warning: ErrStoreNotConfigured}
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		if isUndefinedTable(err) {
			logger.Warn().Str("table", table).Msg("audit table not found, skipping")
		} else {
			logger.Warn().Err(err).Str("table", table).Msg("audit insert failed")
		}
		return AuditResult{Warning: err}
	}
	return AuditResult{Recorded: true}
}
