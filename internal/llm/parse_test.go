package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	t.Run("json code fence", func(t *testing.T) {
		input := "```json\n{\"subject\": \"Math\"}\n```"
		assert.Equal(t, `{"subject": "Math"}`, ExtractJSON(input))
	})

	t.Run("bare code fence", func(t *testing.T) {
		input := "```\n{\"subject\": \"Math\"}\n```"
		assert.Equal(t, `{"subject": "Math"}`, ExtractJSON(input))
	})

	t.Run("no fence", func(t *testing.T) {
		input := "  {\"subject\": \"Math\"}  "
		assert.Equal(t, `{"subject": "Math"}`, ExtractJSON(input))
	})

	t.Run("fence with surrounding prose", func(t *testing.T) {
		input := "Here you go:\n```json\n{\"a\":1}\n```\nHope that helps."
		assert.Equal(t, `{"a":1}`, ExtractJSON(input))
	})

	t.Run("unterminated fence falls back to trimmed content", func(t *testing.T) {
		input := "```json\n{\"a\":1}"
		assert.Equal(t, "```json\n{\"a\":1}", ExtractJSON(input))
	})
}
