package entity

import "fmt"

// Action is the closed set of user manipulations recorded in the audit log.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction accepts only the known actions.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

func (a Action) String() string {
	return string(a)
}
