package store

import (
	"context"

	"github.com/pkg/errors"
)

// AllRules returns every priority rule, sorted by priority descending.
func (s *Store) AllRules() ([]Rule, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, pattern, priority FROM rules ORDER BY priority DESC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query rules")
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Priority); err != nil {
			return nil, errors.Wrap(err, "unable to scan rule row")
		}
		rules = append(rules, r)
	}
	return rules, errors.Wrap(rows.Err(), "error iterating rules")
}

// InsertRule persists a new priority rule and returns its id. Rules are
// never mutated or deleted by the core once created.
func (s *Store) InsertRule(pattern string, priority int) (int64, error) {
	result, err := s.db.ExecContext(context.Background(),
		`INSERT INTO rules (pattern, priority) VALUES (?, ?)`, pattern, priority,
	)
	if err != nil {
		return 0, errors.Wrap(err, "unable to insert rule")
	}
	id, err := result.LastInsertId()
	return id, errors.Wrap(err, "unable to read back rule id")
}
