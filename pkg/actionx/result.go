package actionx

import "github.com/dmichel1/vigil/pkg/mailx"

// Result is the outcome of one action execution. It is created once per
// execution, never mutated, and carries enough for downstream auditing.
// The two variants are Success and Failure.
type Result interface {
	OK() bool
}

// Success reports a delivered message: the account that carried it and the
// message exactly as rendered.
type Success struct {
	Account string
	Email   mailx.Email
}

// OK implements Result.
func (Success) OK() bool { return true }

// Failure reports why an execution did not deliver. Failures are local to
// one execution and never escalate beyond the Result.
type Failure struct {
	Reason string
}

// OK implements Result.
func (Failure) OK() bool { return false }
