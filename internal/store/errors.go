package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should match with [errors.Is].
var (
	// ErrNoUserWasFound is returned when a query expected to match at
	// least one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when a block, task, or settings lookup
	// by key matches nothing.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrConflictNotFound is returned when resolving a conflict row that
	// does not exist or belongs to another user.
	ErrConflictNotFound = errors.New("conflict was not found")

	// ErrDuplicateRecord is returned when an INSERT violates a uniqueness
	// constraint, e.g. two clients racing to create the same id.
	ErrDuplicateRecord = errors.New("record already exists")
)

// Low-level database operation errors. These are wrapped by repository
// methods when a SQL-level operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at that point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning fails mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
