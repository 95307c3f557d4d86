package llm

// price is USD per million input and output tokens.
type price struct{ in, out float64 }

var prices = map[string]price{
	"claude-haiku":              {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-haiku-4-5":          {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"gpt-4o-mini":               {0.15, 0.6},
	"gpt-4o":                    {2.5, 10},
	"gemini-flash":              {0.1, 0.4},
	"gemini-2.0-flash":          {0.1, 0.4},
	"gemini-2.5-flash":          {0.3, 2.5},
}

// Cost estimates the USD cost of a request. ok is false for models
// without a known price.
func Cost(model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	p, ok := prices[model]
	if !ok {
		return 0, false
	}
	return (float64(inputTokens)*p.in + float64(outputTokens)*p.out) / 1e6, true
}
