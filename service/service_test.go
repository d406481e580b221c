package service_test

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lesson-generator/constant"
	"lesson-generator/dto"
	"lesson-generator/pkg/llm"
	"lesson-generator/repository"
	"lesson-generator/repository/repotest"
	"lesson-generator/service"
	"sync"
	"testing"
	"time"
)

const generatedResponse = "Here you go!\n```jsx\n// LESSON_TITLE: Adding Small Numbers\nfunction LessonComponent() {\n  const [sum, setSum] = useState(0);\n  return <button onClick={() => setSum(sum + 1)}>{sum}</button>;\n}\n```\n"

type recordingNotifier struct {
	mu     sync.Mutex
	events []dto.LessonEvent
}

func (n *recordingNotifier) Publish(_ context.Context, event dto.LessonEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) statuses() []constant.LessonStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]constant.LessonStatus, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Status)
	}
	return out
}

type fixture struct {
	lessons  service.LessonService
	svc      service.Service
	notifier *recordingNotifier
}

func newFixture(t *testing.T, client llm.Client, opts service.Options) fixture {
	t.Helper()
	notifier := &recordingNotifier{}
	lessons := service.NewLessonService(repotest.NewLessonRepository(t), notifier)
	generator := service.NewGenerator(client, service.ModelConfig{Smart: "smart-model", Fast: "fast-model"}, nil)
	return fixture{
		lessons:  lessons,
		svc:      service.NewService(lessons, generator, opts),
		notifier: notifier,
	}
}

func TestSubmitGeneratesLessonInBackground(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, llm.NewMock(generatedResponse), service.Options{})

	lesson, err := f.svc.Submit(ctx, "simple addition", constant.ModelTierSmart)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusGenerating, lesson.Status)
	assert.Equal(t, "simple addition", lesson.Title)

	f.svc.Wait()

	got, err := f.lessons.Get(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusGenerated, got.Status)
	assert.Equal(t, "Adding Small Numbers", got.Title)
	require.NotNil(t, got.Content)
	assert.Contains(t, *got.Content, "function LessonComponent()")
	assert.NotContains(t, *got.Content, "```")
	assert.Nil(t, got.ErrorMessage)
	assert.Equal(t, []constant.LessonStatus{constant.LessonStatusGenerating, constant.LessonStatusGenerated}, f.notifier.statuses())
}

func TestSubmitSelectsModelByTier(t *testing.T) {
	mock := llm.NewMock(generatedResponse)
	f := newFixture(t, mock, service.Options{Blocking: true})

	_, err := f.svc.Submit(context.Background(), "fractions", constant.ModelTierFast)
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), "fractions", constant.ModelTierSmart)
	require.NoError(t, err)

	requests := mock.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "fast-model", requests[0].Model)
	assert.Equal(t, "smart-model", requests[1].Model)
	assert.Contains(t, requests[0].User, `"fractions"`)
	assert.Contains(t, requests[0].System, "function LessonComponent()")
	assert.InDelta(t, 0.7, requests[0].Temperature, 0.0001)
}

type slowClient struct {
	delay time.Duration
}

func (c slowClient) Complete(ctx context.Context, _ llm.Request) (string, error) {
	select {
	case <-time.After(c.delay):
		return generatedResponse, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestBlockingSubmitSurvivesCallerCancel(t *testing.T) {
	f := newFixture(t, slowClient{delay: 200 * time.Millisecond}, service.Options{Blocking: true})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	got, err := f.svc.Submit(ctx, "long division", constant.ModelTierSmart)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusGenerated, got.Status)

	stored, err := f.lessons.Get(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusGenerated, stored.Status)
	assert.Nil(t, stored.ErrorMessage)
}

func TestSubmitQuotaFailureMarksLessonFailed(t *testing.T) {
	ctx := context.Background()
	quota := &llm.Error{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "You exceeded your current quota"}
	f := newFixture(t, llm.NewFailingMock(quota), service.Options{})

	lesson, err := f.svc.Submit(ctx, "the water cycle", constant.ModelTierSmart)
	require.NoError(t, err)
	f.svc.Wait()

	got, err := f.lessons.Get(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "API quota exceeded. Please try again later.", *got.ErrorMessage)
	assert.Nil(t, got.Content)
}

func TestSubmitValidationFailureMarksLessonFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, llm.NewMock("```js\nfunction LessonComponent() { fetch('/steal'); }\n```"), service.Options{Blocking: true})

	got, err := f.svc.Submit(ctx, "networking", constant.ModelTierSmart)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "Generated code contains forbidden patterns", *got.ErrorMessage)
	assert.Nil(t, got.Content)
}

func TestSubmitEmptyResponseFails(t *testing.T) {
	f := newFixture(t, llm.NewMock(""), service.Options{Blocking: true})

	got, err := f.svc.Submit(context.Background(), "empty", constant.ModelTierSmart)
	require.NoError(t, err)
	assert.Equal(t, constant.LessonStatusFailed, got.Status)
	assert.Equal(t, "No content generated", *got.ErrorMessage)
}

func TestSubmitRejectsBlankOutline(t *testing.T) {
	f := newFixture(t, llm.NewMock(generatedResponse), service.Options{})

	_, err := f.svc.Submit(context.Background(), "  \n ", constant.ModelTierSmart)
	assert.ErrorIs(t, err, service.ErrEmptyOutline)

	lessons, err := f.lessons.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestSubmitWithoutClientFailsFast(t *testing.T) {
	f := newFixture(t, nil, service.Options{})

	_, err := f.svc.Submit(context.Background(), "anything", constant.ModelTierSmart)
	assert.ErrorIs(t, err, service.ErrConfiguration)

	lessons, err := f.lessons.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestCompletionIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, service.Options{})

	lesson, err := f.lessons.Create(ctx, "terminal states")
	require.NoError(t, err)

	_, err = f.lessons.CompleteFailure(ctx, lesson.ID, "first")
	require.NoError(t, err)

	got, err := f.lessons.CompleteSuccess(ctx, lesson.ID, "function LessonComponent() {}", "late")
	assert.ErrorIs(t, err, service.ErrAlreadyTerminal)
	assert.Equal(t, constant.LessonStatusFailed, got.Status)
	assert.Equal(t, "first", *got.ErrorMessage)
	assert.Nil(t, got.Content)

	_, err = f.lessons.CompleteSuccess(ctx, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
}

func TestDeleteRemovesLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, service.Options{})

	lesson, err := f.lessons.Create(ctx, "to be removed")
	require.NoError(t, err)
	keep, err := f.lessons.Create(ctx, "to be kept")
	require.NoError(t, err)

	require.NoError(t, f.lessons.Delete(ctx, lesson.ID))

	_, err = f.lessons.Get(ctx, lesson.ID)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)

	lessons, err := f.lessons.List(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, keep.ID, lessons[0].ID)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Generation failed", service.UserMessage(errors.New("db down")))
	assert.Contains(t, service.UserMessage(service.ErrConfiguration), "GEMINI_API_KEY")
}
