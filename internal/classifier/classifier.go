package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/llm"
	"github.com/rs/zerolog/log"
)

// Placeholder subjects returned when classification cannot produce a real
// answer. They never count as "real" subjects for mixed-practice collapsing.
const (
	SubjectGeneral = "General"
	SubjectUnknown = "Unknown"
)

// Result is a single-subject classification
type Result struct {
	Subject string  `json:"subject"`
	Topic   *string `json:"topic"`
}

// SubjectBucket is one subject's share of a transcript
type SubjectBucket struct {
	Subject       string  `json:"subject"`
	Topic         *string `json:"topic"`
	QuestionCount int     `json:"question_count"`
}

// Classifier wraps the completion oracle to infer subject and topic from a
// session transcript. Every method degrades to a safe default instead of
// returning an error: malformed oracle output is a data anomaly, not a
// caller-visible failure.
type Classifier struct {
	oracle llm.Oracle
}

func New(oracle llm.Oracle) *Classifier {
	return &Classifier{oracle: oracle}
}

// visualKeywords mark assistant messages that describe drawn or uploaded
// visual content; those messages count as educational interactions.
var visualKeywords = []string{
	"drawn", "drew", "drawing", "diagram", "uploaded", "sketch",
	"whiteboard", "your image", "the image", "your photo",
}

func describesVisualContent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range visualKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// countableMessages returns the transcript entries that count as
// educational interactions: non-welcome user messages plus assistant
// messages describing visual content.
func countableMessages(t *domain.Transcript) []domain.Message {
	if t == nil {
		return nil
	}
	var out []domain.Message
	for _, m := range t.Messages {
		switch {
		case m.Sender == domain.SenderUser && !m.Welcome:
			out = append(out, m)
		case m.Sender == domain.SenderAssistant && describesVisualContent(m.Text):
			out = append(out, m)
		}
	}
	return out
}

// ClassifySingle infers a single subject and topic from the transcript.
// Never returns an error: empty input, an unreachable oracle, or malformed
// output all fall back to {General, nil}.
func (c *Classifier) ClassifySingle(ctx context.Context, t *domain.Transcript) Result {
	fallback := Result{Subject: SubjectGeneral, Topic: nil}

	userText := t.UserText()
	if strings.TrimSpace(userText) == "" {
		return fallback
	}
	if c.oracle == nil || !c.oracle.IsConfigured() {
		return fallback
	}

	prompt := fmt.Sprintf(`You are classifying a student's tutoring conversation.

Identify the single school subject and, if clear, the specific topic being studied.

Respond with ONLY this JSON shape, no markdown, no explanations:
{"subject": "<subject name>", "topic": "<topic or null>"}

Student messages:
%s`, userText)

	raw, err := c.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("subject classification failed, falling back to General")
		return fallback
	}

	var parsed struct {
		Subject string  `json:"subject"`
		Topic   *string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &parsed); err != nil {
		log.Warn().Err(err).Str("raw", truncate(raw, 200)).Msg("unparseable classification response")
		return fallback
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return fallback
	}

	topic := parsed.Topic
	if topic != nil && strings.TrimSpace(*topic) == "" {
		topic = nil
	}
	return Result{Subject: strings.TrimSpace(parsed.Subject), Topic: topic}
}

// ClassifySubjects asks the oracle for per-subject question buckets over the
// countable messages, sorted descending by question count. Malformed oracle
// output yields a single {Unknown, nil, <countable message count>} bucket.
// These raw buckets drive proportional Progress splitting.
func (c *Classifier) ClassifySubjects(ctx context.Context, t *domain.Transcript) []SubjectBucket {
	countable := countableMessages(t)
	fallback := []SubjectBucket{{Subject: SubjectUnknown, Topic: nil, QuestionCount: len(countable)}}
	if len(countable) == 0 {
		return fallback
	}
	if c.oracle == nil || !c.oracle.IsConfigured() {
		return fallback
	}

	var lines []string
	for _, m := range countable {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Sender, m.Text))
	}

	prompt := fmt.Sprintf(`You are classifying a student's tutoring conversation that may span several school subjects.

Messages from the assistant describing drawn or uploaded visual work count as educational interactions for their subject.

Group the conversation into subjects and count how many questions belong to each.

Respond with ONLY this JSON shape, no markdown, no explanations:
{"subjects": [{"subject": "<name>", "topic": "<topic or null>", "question_count": <int>}]}

Conversation:
%s`, strings.Join(lines, "\n"))

	raw, err := c.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("multi-subject classification failed")
		return fallback
	}

	var parsed struct {
		Subjects []SubjectBucket `json:"subjects"`
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &parsed); err != nil || len(parsed.Subjects) == 0 {
		log.Warn().Str("raw", truncate(raw, 200)).Msg("unparseable multi-subject response")
		return fallback
	}

	buckets := make([]SubjectBucket, 0, len(parsed.Subjects))
	for _, b := range parsed.Subjects {
		if strings.TrimSpace(b.Subject) == "" {
			continue
		}
		if b.QuestionCount < 0 {
			b.QuestionCount = 0
		}
		if b.Topic != nil && strings.TrimSpace(*b.Topic) == "" {
			b.Topic = nil
		}
		b.Subject = strings.TrimSpace(b.Subject)
		buckets = append(buckets, b)
	}
	if len(buckets) == 0 {
		return fallback
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].QuestionCount > buckets[j].QuestionCount
	})
	return buckets
}

// ClassifyMulti is the collapsed form used for session subject labeling.
// When the raw buckets contain two or more distinct real subjects (placeholders
// excluded) they are merged into one synthetic mixed-practice bucket with the
// question counts summed, so callers never see more than one non-trivial
// bucket.
func (c *Classifier) ClassifyMulti(ctx context.Context, t *domain.Transcript) []SubjectBucket {
	return Collapse(c.ClassifySubjects(ctx, t))
}

// Collapse applies the mixed-practice merge to raw buckets
func Collapse(buckets []SubjectBucket) []SubjectBucket {
	var real []SubjectBucket
	total := 0
	for _, b := range buckets {
		total += b.QuestionCount
		if b.Subject != SubjectUnknown && b.Subject != SubjectGeneral {
			real = append(real, b)
		}
	}
	if len(real) < 2 {
		return buckets
	}

	names := make([]string, 0, len(real))
	for _, b := range real {
		names = append(names, b.Subject)
	}
	return []SubjectBucket{{
		Subject:       fmt.Sprintf("Mixed Practice (%s)", strings.Join(names, ", ")),
		Topic:         nil,
		QuestionCount: total,
	}}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
