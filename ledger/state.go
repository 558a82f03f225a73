package ledger

import "github.com/shopspring/decimal"

// State is the whole ledger: the starting balance plus every operation in
// the order it was recorded.
type State struct {
	InitialBalance decimal.Decimal
	Operations     []Operation
}

// NewState returns an empty ledger starting at initial.
func NewState(initial decimal.Decimal) State {
	return State{InitialBalance: initial}
}

// Append returns a copy of s with op added at the end. s itself is left
// untouched, including its backing array.
func (s State) Append(op Operation) State {
	ops := make([]Operation, len(s.Operations), len(s.Operations)+1)
	copy(ops, s.Operations)
	return State{
		InitialBalance: s.InitialBalance,
		Operations:     append(ops, op),
	}
}

// Last returns the most recently appended operation.
func (s State) Last() (Operation, bool) {
	if len(s.Operations) == 0 {
		return Operation{}, false
	}
	return s.Operations[len(s.Operations)-1], true
}

// Check validates every operation in s.
func (s State) Check() error {
	for _, op := range s.Operations {
		if err := op.Check(); err != nil {
			return err
		}
	}
	return nil
}
