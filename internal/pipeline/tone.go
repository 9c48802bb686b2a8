package pipeline

import (
	"fmt"

	"github.com/theirongolddev/goalpost/internal/model"
)

// Tone is the color bucket for a progress percentage. The theme decides the actual color.
type Tone int

const (
	ToneGreen Tone = iota
	ToneAmber
	ToneDarkOrange
	ToneRed
	ToneOrange
	ToneLightOrange
	ToneDarkGreen
)

func (t Tone) String() string {
	switch t {
	case ToneGreen:
		return "green"
	case ToneAmber:
		return "amber"
	case ToneDarkOrange:
		return "dark-orange"
	case ToneRed:
		return "red"
	case ToneOrange:
		return "orange"
	case ToneLightOrange:
		return "light-orange"
	case ToneDarkGreen:
		return "dark-green"
	default:
		return fmt.Sprintf("Tone(%d)", int(t))
	}
}

// BudgetTone maps spend percentage to a tone: green, then amber, dark orange and red at 100%.
func BudgetTone(pct float64) Tone {
	switch {
	case pct < 50:
		return ToneGreen
	case pct < 75:
		return ToneAmber
	case pct < 100:
		return ToneDarkOrange
	default:
		return ToneRed
	}
}

// GoalTone maps goal percentage to a tone. Savings goals read "more is better";
// spending goals share the budget scale.
func GoalTone(gt model.GoalType, pct float64) Tone {
	switch gt {
	case model.Savings:
		switch {
		case pct < 25:
			return ToneRed
		case pct < 50:
			return ToneOrange
		case pct < 75:
			return ToneLightOrange
		case pct < 100:
			return ToneGreen
		default:
			return ToneDarkGreen
		}
	case model.Spending:
		return BudgetTone(pct)
	default:
		return BudgetTone(pct)
	}
}
