package engine

import "fmt"

// ActionKind is the closed set of player actions.
type ActionKind uint8

const (
	Fold ActionKind = iota + 1
	Check
	Call
	Raise
	AllIn
)

var actionNames = map[ActionKind]string{
	Fold:  "fold",
	Check: "check",
	Call:  "call",
	Raise: "raise",
	AllIn: "all_in",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// ParseActionKind maps the wire tag ("fold", "check", "call", "raise", "all_in").
func ParseActionKind(s string) (ActionKind, error) {
	for k, name := range actionNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (k ActionKind) MarshalText() ([]byte, error) {
	if _, ok := actionNames[k]; !ok {
		return nil, fmt.Errorf("unknown action kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	parsed, err := ParseActionKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Action 玩家动作。Amount 仅用于 Raise，表示本轮下注总额（不是增量）
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int64      `json:"amount,omitempty"`
}

func FoldAction() Action  { return Action{Kind: Fold} }
func CheckAction() Action { return Action{Kind: Check} }
func CallAction() Action  { return Action{Kind: Call} }
func AllInAction() Action { return Action{Kind: AllIn} }

// RaiseTo raises the player's street bet to total.
func RaiseTo(total int64) Action { return Action{Kind: Raise, Amount: total} }

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise to %d", a.Amount)
	}
	return a.Kind.String()
}
