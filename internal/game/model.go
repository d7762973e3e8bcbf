package game

import (
	"errors"
	"strings"
)

// Tickers is the fixed set of tradable stocks, in display order.
var Tickers = []string{"CEN", "FBU", "AIR", "FPH", "WHS"}

type Choice string

const (
	ChoiceBuy  Choice = "Buy"
	ChoiceSell Choice = "Sell"
	ChoiceHold Choice = "Hold"
)

var (
	ErrBadConfig       = errors.New("invalid round config")
	ErrInvalidChoice   = errors.New("choice must be Buy, Sell or Hold")
	ErrInvalidTicker   = errors.New("unknown ticker")
	ErrAlreadyLocked   = errors.New("round already submitted")
	ErrNotLocked       = errors.New("submit the current round before advancing")
	ErrNoParticipant   = errors.New("participant name required")
	ErrSessionNotFound = errors.New("session not found")
	ErrAtFirstRound    = errors.New("already at the first round")
)

// ParseChoice normalizes user input ("buy", "BUY", "Buy") to a Choice.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return ChoiceBuy, nil
	case "sell":
		return ChoiceSell, nil
	case "hold":
		return ChoiceHold, nil
	default:
		return "", ErrInvalidChoice
	}
}

// Sign maps Buy to +1, Sell to -1 and Hold to 0.
func (c Choice) Sign() (float64, error) {
	switch c {
	case ChoiceBuy:
		return 1, nil
	case ChoiceSell:
		return -1, nil
	case ChoiceHold:
		return 0, nil
	default:
		return 0, ErrInvalidChoice
	}
}

func ValidTicker(ticker string) bool {
	for _, t := range Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// ScoreRound sums sign(choice) * return over every ticker in the fixed set.
// Tickers without a recorded choice count as Hold.
func ScoreRound(row RoundRow, choices map[string]Choice) (float64, error) {
	score := 0.0
	for _, t := range Tickers {
		choice, ok := choices[t]
		if !ok {
			choice = ChoiceHold
		}
		sign, err := choice.Sign()
		if err != nil {
			return 0, err
		}
		score += sign * row.Returns[t]
	}
	return score, nil
}
