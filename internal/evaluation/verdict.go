package evaluation

import (
	"strconv"
	"strings"
)

// Verdict is a parsed judge response.
type Verdict struct {
	Score     *float64
	Reason    string
	EvalError *string
}

const reasonPrefix = "Reason:"

// parseVerdict extracts the score and reason from the judge's raw response.
// The expected format is a numeric first line followed by "Reason: ...".
// Scores are clamped to [0, 1]. A 0.0 score always carries an evaluation
// error: a specific one when the reason flags inability, a generic one
// otherwise. Unparsable responses yield a nil score and a parsing error.
func parseVerdict(raw string) Verdict {
	raw = strings.TrimSpace(raw)

	scoreLine, rest, hasReason := strings.Cut(raw, "\n")
	scoreVal, err := strconv.ParseFloat(strings.TrimSpace(scoreLine), 64)
	if err != nil {
		msg := "Evaluation parsing failed: unexpected response format."
		return Verdict{
			Reason:    "Evaluation parsing failed: unexpected format '" + raw + "'",
			EvalError: &msg,
		}
	}
	score := clamp(scoreVal)

	v := Verdict{Score: &score}
	if hasReason {
		v.Reason = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), reasonPrefix))
	} else {
		v.Reason = "Score found, but reason missing in evaluator response."
	}

	if score == 0.0 {
		var msg string
		switch {
		case strings.HasPrefix(strings.ToLower(v.Reason), "inability:"):
			msg = "Evaluator identified inability: " + v.Reason
		case !hasReason:
			msg = "Evaluator assigned 0.0 score (reason missing)."
		default:
			msg = "Evaluator assigned 0.0 score."
		}
		v.EvalError = &msg
	}
	return v
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
