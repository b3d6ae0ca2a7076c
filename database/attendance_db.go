package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// CountAttendancesBetween counts ledger entries for a person at a location
// whose timestamp falls inside [start, end], both RFC3339 UTC strings.
// Stored timestamps share the same format, so string BETWEEN is a correct
// chronological comparison.
func CountAttendancesBetween(db *sql.DB, personID, locationID int64, start, end string) (int, error) {
	queryBuilder := psql.Select("COUNT(*)").
		From("attendances").
		Where(sq.Eq{"personal_id": personID, "location_id": locationID}).
		Where(sq.Expr("timestamp BETWEEN ? AND ?", start, end))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for CountAttendancesBetween: %w", err)
	}

	var count int
	if err := db.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendances for person %d at location %d: %w", personID, locationID, err)
	}
	return count, nil
}

// CountUnsyncedAttendances returns the number of ledger entries not yet
// acknowledged by the remote authority. Queried live on every call so UI
// polling always sees the latest committed state.
func CountUnsyncedAttendances(db *sql.DB) (int, error) {
	queryBuilder := psql.Select("COUNT(*)").
		From("attendances").
		Where(sq.Eq{"is_synced": false})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for CountUnsyncedAttendances: %w", err)
	}

	var count int
	if err := db.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unsynced attendances: %w", err)
	}
	return count, nil
}
