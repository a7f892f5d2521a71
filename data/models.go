package data

import (
	"database/sql"
	"errors"
	"time"
)

const dbTimeout = time.Second * 3

var (
	// ErrNotFound is returned when no row matches the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert hits the unique email
	// constraint of the account table.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Models is the collection of stores handed to the handlers. Users and
// drivers share a shape but live in separate tables with independent
// uniqueness domains.
type Models struct {
	Users   AccountStore
	Drivers AccountStore
	Rides   RideStore
}

// New builds Postgres-backed stores over the given connection pool.
func New(db *sql.DB) Models {
	return Models{
		Users:   &PostgresAccountStore{DB: db, Table: "users"},
		Drivers: &PostgresAccountStore{DB: db, Table: "drivers"},
		Rides:   &PostgresRideStore{DB: db},
	}
}
