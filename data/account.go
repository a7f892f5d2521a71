package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

// Account is a user or driver registration record. The password column holds
// a bcrypt hash and is never serialized.
type Account struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), 10)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// PasswordMatches compares a plaintext password against the stored hash.
func (a *Account) PasswordMatches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AccountStore is the persistence contract for one account table.
type AccountStore interface {
	GetAll(ctx context.Context) ([]Account, error)
	GetByID(ctx context.Context, id int) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Insert(ctx context.Context, account Account) (Account, error)
}

// PostgresAccountStore implements AccountStore over a single table. The same
// type serves both the users and drivers tables.
type PostgresAccountStore struct {
	DB    *sql.DB
	Table string
}

func (s *PostgresAccountStore) GetAll(ctx context.Context) ([]Account, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := fmt.Sprintf(`select id, email, password, first_name, last_name, created_at
		from %s order by id`, s.Table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts = []Account{}
	for rows.Next() {
		var account Account
		if err = rows.Scan(
			&account.ID,
			&account.Email,
			&account.Password,
			&account.FirstName,
			&account.LastName,
			&account.CreatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *PostgresAccountStore) GetByID(ctx context.Context, id int) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := fmt.Sprintf(`select id, email, password, first_name, last_name, created_at
		from %s where id = $1`, s.Table)

	var account Account
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.Password,
		&account.FirstName,
		&account.LastName,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return account, ErrNotFound
	}
	return account, err
}

func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := fmt.Sprintf(`select id, email, password, first_name, last_name, created_at
		from %s where email = $1`, s.Table)

	var account Account
	err := s.DB.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.Password,
		&account.FirstName,
		&account.LastName,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return account, ErrNotFound
	}
	return account, err
}

// Insert stores a new account. The unique constraint on email enforces
// uniqueness at the database, so concurrent registrations with the same
// email cannot both succeed.
func (s *PostgresAccountStore) Insert(ctx context.Context, account Account) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := fmt.Sprintf(`insert into %s (email, password, first_name, last_name, created_at)
		values ($1, $2, $3, $4, $5) returning id, created_at`, s.Table)

	err := s.DB.QueryRowContext(ctx, query,
		account.Email,
		account.Password,
		account.FirstName,
		account.LastName,
		time.Now(),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return account, ErrDuplicateEmail
		}
		return account, err
	}

	return account, nil
}
