package library

import "database/sql"

// DB exposes the handle so tests can tamper with stored state.
func (s *Store) DB() *sql.DB { return s.db }
