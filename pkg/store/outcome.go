package store

// Outcome is the result kind of a record store operation.
// Absence and duplicates are outcomes, not errors.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeAdded
	OutcomeUpdated
	OutcomeDeleted
	OutcomeDuplicateName
	OutcomeNotFound
	// OutcomeNoCollection means the collection slot has never been written
	OutcomeNoCollection
)

var outcomeNames = map[Outcome]string{
	OutcomeUnknown:       "unknown",
	OutcomeAdded:         "added",
	OutcomeUpdated:       "updated",
	OutcomeDeleted:       "deleted",
	OutcomeDuplicateName: "duplicate_name",
	OutcomeNotFound:      "not_found",
	OutcomeNoCollection:  "no_collection",
}

var outcomeMessages = map[Outcome]string{
	OutcomeAdded:         "User added successfully.",
	OutcomeUpdated:       "User updated successfully.",
	OutcomeDeleted:       "User deleted successfully.",
	OutcomeDuplicateName: "Name already exists. Please use a different name.",
	OutcomeNotFound:      "User not found.",
	OutcomeNoCollection:  "No user found.",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return outcomeNames[OutcomeUnknown]
}

// Message is the human readable sentence returned to API clients
func (o Outcome) Message() string {
	return outcomeMessages[o]
}

// Succeeded reports whether the operation changed the collection
func (o Outcome) Succeeded() bool {
	return o == OutcomeAdded || o == OutcomeUpdated || o == OutcomeDeleted
}

// ParseOutcome maps a name produced by Outcome.String back to the Outcome
func ParseOutcome(name string) Outcome {
	for o, n := range outcomeNames {
		if n == name {
			return o
		}
	}
	return OutcomeUnknown
}

// Result pairs an Outcome with its message
type Result struct {
	Outcome Outcome
	Message string
}

func newResult(o Outcome) Result {
	return Result{Outcome: o, Message: o.Message()}
}
