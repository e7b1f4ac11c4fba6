package universe

import (
	"errors"
	"fmt"
	"strings"
)

//Strategy is the seeding algorithm used by Init
type Strategy int

const (
	//Deterministic: cell i is alive iff i is even or a multiple of 7
	Deterministic Strategy = iota
	//FiftyFifty: every cell is alive with probability 0.5
	FiftyFifty
	//Empty: all cells are dead
	Empty
)

var ErrUnknownStrategy = errors.New("unknown seeding strategy")

var strategyNames = map[Strategy]string{
	Deterministic: "deterministic",
	FiftyFifty:    "random",
	Empty:         "empty",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

//Strategies returns all seeding strategies
func Strategies() []Strategy {
	return []Strategy{Deterministic, FiftyFifty, Empty}
}

//ParseStrategy resolves a strategy name, "fiftyfifty" is accepted as an alias of "random"
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "fiftyfifty" || n == "fifty-fifty" {
		return FiftyFifty, nil
	}
	for s, v := range strategyNames {
		if v == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

//alive decides the state of cell i under the strategy
func (u *Universe) alive(s Strategy, i int) bool {
	switch s {
	case Deterministic:
		return i%2 == 0 || i%7 == 0
	case FiftyFifty:
		return u.rnd.Float64() < 0.5
	default:
		return false
	}
}
