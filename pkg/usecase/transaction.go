package usecase

import "fmt"

// TransactionKind classifies a Simple sentence by who exchanges data with whom.
type TransactionKind int

const (
	// Initiation is a request sent by the primary actor.
	Initiation TransactionKind = iota
	ResponseToPrimaryActor
	ResponseToSecondaryActor
	// InternalTransaction is a system-internal computation; it both consumes and
	// produces its object.
	InternalTransaction
)

var transactionNames = map[TransactionKind]string{
	Initiation:               "initiation",
	ResponseToPrimaryActor:   "response_to_primary_actor",
	ResponseToSecondaryActor: "response_to_secondary_actor",
	InternalTransaction:      "internal_transaction",
}

func (t TransactionKind) String() string {
	if name, ok := transactionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransactionKind(%d)", int(t))
}

// Valid reports whether t is one of the declared kinds.
func (t TransactionKind) Valid() bool {
	_, ok := transactionNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t TransactionKind) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTransaction, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes to
// Initiation.
func (t *TransactionKind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = Initiation
		return nil
	}
	for k, name := range transactionNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTransaction, string(text))
}
