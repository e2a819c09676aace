package classifier

import (
	"context"
	"testing"

	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOracle mocks llm.Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockOracle) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockOracle) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func transcriptWith(msgs ...domain.Message) *domain.Transcript {
	return &domain.Transcript{Messages: msgs}
}

func userMsg(text string) domain.Message {
	return domain.Message{Sender: domain.SenderUser, Text: text}
}

func TestClassifySingle(t *testing.T) {
	ctx := context.Background()

	t.Run("parses fenced json", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).
			Return("```json\n{\"subject\": \"Math\", \"topic\": \"Fractions\"}\n```", nil)

		c := New(oracle)
		res := c.ClassifySingle(ctx, transcriptWith(userMsg("how do I add 1/2 and 1/3?")))

		assert.Equal(t, "Math", res.Subject)
		assert.NotNil(t, res.Topic)
		assert.Equal(t, "Fractions", *res.Topic)
	})

	t.Run("non-json response falls back to General", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).
			Return("I think this is about math, probably fractions.", nil)

		c := New(oracle)
		res := c.ClassifySingle(ctx, transcriptWith(userMsg("help me")))

		assert.Equal(t, SubjectGeneral, res.Subject)
		assert.Nil(t, res.Topic)
	})

	t.Run("empty transcript falls back without calling oracle", func(t *testing.T) {
		oracle := new(MockOracle)

		c := New(oracle)
		res := c.ClassifySingle(ctx, &domain.Transcript{})

		assert.Equal(t, SubjectGeneral, res.Subject)
		oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("oracle error falls back to General", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return("", assert.AnError)

		c := New(oracle)
		res := c.ClassifySingle(ctx, transcriptWith(userMsg("help me")))

		assert.Equal(t, SubjectGeneral, res.Subject)
	})
}

func TestClassifySubjects(t *testing.T) {
	ctx := context.Background()

	t.Run("sorted descending by question count", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).
			Return(`{"subjects": [{"subject": "Science", "topic": null, "question_count": 3}, {"subject": "Math", "topic": "Algebra", "question_count": 7}]}`, nil)

		c := New(oracle)
		buckets := c.ClassifySubjects(ctx, transcriptWith(userMsg("q1"), userMsg("q2")))

		assert.Len(t, buckets, 2)
		assert.Equal(t, "Math", buckets[0].Subject)
		assert.Equal(t, 7, buckets[0].QuestionCount)
		assert.Equal(t, "Science", buckets[1].Subject)
	})

	t.Run("malformed response yields Unknown bucket with message count", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return("no json here", nil)

		c := New(oracle)
		buckets := c.ClassifySubjects(ctx, transcriptWith(userMsg("q1"), userMsg("q2"), userMsg("q3")))

		assert.Len(t, buckets, 1)
		assert.Equal(t, SubjectUnknown, buckets[0].Subject)
		assert.Nil(t, buckets[0].Topic)
		assert.Equal(t, 3, buckets[0].QuestionCount)
	})

	t.Run("assistant visual messages are countable", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return("garbage", nil)

		c := New(oracle)
		buckets := c.ClassifySubjects(ctx, transcriptWith(
			userMsg("look at this"),
			domain.Message{Sender: domain.SenderAssistant, Text: "Nice diagram you have drawn of the cell!"},
			domain.Message{Sender: domain.SenderAssistant, Text: "Keep going, you can do it."},
		))

		// one user message + one visual assistant message
		assert.Equal(t, 2, buckets[0].QuestionCount)
	})

	t.Run("welcome-only transcript yields zero-count Unknown", func(t *testing.T) {
		oracle := new(MockOracle)

		c := New(oracle)
		buckets := c.ClassifySubjects(ctx, transcriptWith(
			domain.Message{Sender: domain.SenderAssistant, Text: "Welcome back!", Welcome: true},
		))

		assert.Len(t, buckets, 1)
		assert.Equal(t, SubjectUnknown, buckets[0].Subject)
		assert.Equal(t, 0, buckets[0].QuestionCount)
		oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})
}

func TestCollapse(t *testing.T) {
	topic := "Algebra"

	t.Run("two real subjects collapse into mixed practice", func(t *testing.T) {
		buckets := Collapse([]SubjectBucket{
			{Subject: "Math", Topic: &topic, QuestionCount: 7},
			{Subject: "Science", QuestionCount: 3},
		})

		assert.Len(t, buckets, 1)
		assert.Equal(t, "Mixed Practice (Math, Science)", buckets[0].Subject)
		assert.Nil(t, buckets[0].Topic)
		assert.Equal(t, 10, buckets[0].QuestionCount)
	})

	t.Run("placeholders do not trigger collapse", func(t *testing.T) {
		buckets := Collapse([]SubjectBucket{
			{Subject: "Math", QuestionCount: 5},
			{Subject: SubjectGeneral, QuestionCount: 2},
		})

		assert.Len(t, buckets, 2)
		assert.Equal(t, "Math", buckets[0].Subject)
	})

	t.Run("single subject passes through", func(t *testing.T) {
		buckets := Collapse([]SubjectBucket{{Subject: "History", QuestionCount: 4}})
		assert.Len(t, buckets, 1)
		assert.Equal(t, "History", buckets[0].Subject)
	})
}

func TestAttribute(t *testing.T) {
	t.Run("proportional split rounds per subject", func(t *testing.T) {
		buckets := []SubjectBucket{
			{Subject: "Math", QuestionCount: 7},
			{Subject: "Science", QuestionCount: 3},
		}

		attrs := Attribute(buckets, 6, 600)

		assert.Len(t, attrs, 2)
		assert.Equal(t, 7, attrs[0].QuestionsAttempted)
		assert.Equal(t, 4, attrs[0].QuestionsCorrect) // round(6*0.7)
		assert.Equal(t, 420, attrs[0].DurationSeconds)
		assert.Equal(t, 3, attrs[1].QuestionsAttempted)
		assert.Equal(t, 2, attrs[1].QuestionsCorrect) // round(6*0.3)
		assert.Equal(t, 180, attrs[1].DurationSeconds)
	})

	t.Run("single bucket takes everything", func(t *testing.T) {
		attrs := Attribute([]SubjectBucket{{Subject: "Math", QuestionCount: 5}}, 4, 300)

		assert.Len(t, attrs, 1)
		assert.Equal(t, 4, attrs[0].QuestionsCorrect)
		assert.Equal(t, 300, attrs[0].DurationSeconds)
	})
}

func TestCountPositiveUtterances(t *testing.T) {
	ctx := context.Background()

	t.Run("oracle count wins", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return(`{"positive_count": 2}`, nil)

		c := New(oracle)
		n := c.CountPositiveUtterances(ctx, transcriptWith(
			userMsg("thanks so much!"), userMsg("what is 2+2?"), userMsg("you're awesome"),
		))

		assert.Equal(t, 2, n)
	})

	t.Run("keyword fallback covers multiple languages", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return("", assert.AnError)

		c := New(oracle)
		n := c.CountPositiveUtterances(ctx, transcriptWith(
			userMsg("merci beaucoup"), userMsg("gracias"), userMsg("what is photosynthesis?"),
		))

		assert.Equal(t, 2, n)
	})

	t.Run("oracle count clamped to message count", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("IsConfigured").Return(true)
		oracle.On("Complete", ctx, mock.Anything).Return(`{"positive_count": 99}`, nil)

		c := New(oracle)
		n := c.CountPositiveUtterances(ctx, transcriptWith(userMsg("danke!")))

		assert.Equal(t, 1, n)
	})
}
