package enums

import "fmt"

// TicketCondition describes the physical state of an archived ticket.
type TicketCondition string

const (
	ConditionAmostra      TicketCondition = "Amostra"
	ConditionSpecimen     TicketCondition = "Specimen"
	ConditionCirculated   TicketCondition = "cs (Circulated)"
	ConditionUncirculated TicketCondition = "Uncirculated"
)

var validConditions = []TicketCondition{
	ConditionAmostra,
	ConditionSpecimen,
	ConditionCirculated,
	ConditionUncirculated,
}

// Conditions returns every known condition value.
func Conditions() []TicketCondition {
	out := make([]TicketCondition, len(validConditions))
	copy(out, validConditions)
	return out
}

// String returns the literal string for the condition.
func (t TicketCondition) String() string {
	return string(t)
}

// IsValid reports whether the condition is known.
func (t TicketCondition) IsValid() bool {
	for _, candidate := range validConditions {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketCondition converts raw input into a TicketCondition.
func ParseTicketCondition(value string) (TicketCondition, error) {
	for _, candidate := range validConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket condition %q", value)
}
