package seeder

import "fmt"

type Stage string

const (
	StageBegin  Stage = "begin"
	StageInsert Stage = "insert"
	StageCommit Stage = "commit"
)

// Error is the single failure kind of a seeding run. Whatever the stage, the
// transaction was not committed.
type Error struct {
	Stage Stage
	Table string
	Err   error
	// RollbackErr is set when the rollback after the failure failed too.
	RollbackErr error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("seeding failed during %s", e.Stage)
	if e.Table != "" {
		msg += " into " + e.Table
	}
	msg += ": " + e.Err.Error()
	if e.RollbackErr != nil {
		msg += fmt.Sprintf(" (rollback failed: %v)", e.RollbackErr)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func insertError(table string, err error) *Error {
	return &Error{Stage: StageInsert, Table: table, Err: err}
}
