package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/llm"
	"github.com/rs/zerolog/log"
)

// positiveKeywords detect appreciative utterances across the supported
// languages when the oracle is unreachable.
var positiveKeywords = []string{
	// English
	"thank", "awesome", "amazing", "great job", "well done", "love this",
	"you're the best", "that helps", "appreciate",
	// Spanish
	"gracias", "genial", "increíble", "me encanta",
	// French
	"merci", "génial", "super", "j'adore",
	// German
	"danke", "toll", "großartig", "super gemacht",
	// Portuguese
	"obrigado", "obrigada", "incrível", "adorei",
	// Italian
	"grazie", "fantastico", "bravissimo",
}

// CountPositiveUtterances counts positive/appreciative user messages in the
// transcript. The oracle judges the batch in one call; if it is unreachable
// or returns garbage the multilingual keyword scan decides instead, so the
// recompute stays deterministic against a fixed transcript.
func (c *Classifier) CountPositiveUtterances(ctx context.Context, t *domain.Transcript) int {
	msgs := t.UserMessages()
	if len(msgs) == 0 {
		return 0
	}

	if c.oracle != nil && c.oracle.IsConfigured() {
		if n, ok := c.countPositiveViaOracle(ctx, msgs); ok {
			return n
		}
	}

	return countPositiveKeywords(msgs)
}

func (c *Classifier) countPositiveViaOracle(ctx context.Context, msgs []domain.Message) (int, bool) {
	var lines []string
	for i, m := range msgs {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, m.Text))
	}

	prompt := fmt.Sprintf(`Count how many of the following student messages express appreciation, gratitude, encouragement or positivity, in any language.

Respond with ONLY this JSON shape, no markdown:
{"positive_count": <int>}

Messages:
%s`, strings.Join(lines, "\n"))

	raw, err := c.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("positive-utterance detection failed, using keyword scan")
		return 0, false
	}

	var parsed struct {
		PositiveCount int `json:"positive_count"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &parsed); err != nil {
		log.Warn().Str("raw", truncate(raw, 200)).Msg("unparseable positive-utterance response")
		return 0, false
	}
	if parsed.PositiveCount < 0 {
		return 0, false
	}
	if parsed.PositiveCount > len(msgs) {
		parsed.PositiveCount = len(msgs)
	}
	return parsed.PositiveCount, true
}

func countPositiveKeywords(msgs []domain.Message) int {
	count := 0
	for _, m := range msgs {
		lower := strings.ToLower(m.Text)
		for _, kw := range positiveKeywords {
			if strings.Contains(lower, kw) {
				count++
				break
			}
		}
	}
	return count
}
