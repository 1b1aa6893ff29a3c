package session

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/leveling"
	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/internal/repositories"
	"github.com/mroshb/beach_trivia_bot/internal/services"
)

const testChat int64 = -1001

// fakeGateway records every posted notice and answers AwaitMessage through a real Dispatcher.
type fakeGateway struct {
	*Dispatcher

	mu      sync.Mutex
	notices []Notice
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Dispatcher: NewDispatcher()}
}

func (g *fakeGateway) PostMessage(_ context.Context, _ int64, n Notice) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notices = append(g.notices, n)
	return len(g.notices), nil
}

func (g *fakeGateway) AwaitMessage(ctx context.Context, f Filter, timeout time.Duration) (Message, error) {
	return g.Await(ctx, f, timeout)
}

func (g *fakeGateway) kinds() []NoticeKind {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]NoticeKind, 0, len(g.notices))
	for _, n := range g.notices {
		out = append(out, n.Kind)
	}
	return out
}

func (g *fakeGateway) count(kind NoticeKind) int {
	n := 0
	for _, k := range g.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (g *fakeGateway) last() Notice {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.notices[len(g.notices)-1]
}

// answer retries until a waiting session takes msg.
func (g *fakeGateway) answer(t *testing.T, msg Message) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for g.Deliver(msg) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no session took message %+v", msg)
		}
		time.Sleep(time.Millisecond)
	}
}

func testBank() *questions.Bank {
	bank := questions.Default()
	bank.Quiz = []models.Question{
		{ID: 1, Prompt: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: models.ChoiceA},
		{ID: 2, Prompt: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: models.ChoiceC},
		{ID: 3, Prompt: "Q3", Options: []string{"a", "b", "c", "d"}, Answer: models.ChoiceD},
	}
	return bank
}

type harness struct {
	gw     *fakeGateway
	xp     *services.XPService
	engine *Engine
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	repo, err := repositories.NewFileXPRepository(filepath.Join(t.TempDir(), "xp.json"))
	if err != nil {
		t.Fatalf("NewFileXPRepository() error = %v", err)
	}
	gw := newFakeGateway()
	xp := services.NewXPService(repo, leveling.BeachMedics)
	return &harness{gw: gw, xp: xp, engine: NewEngine(cfg, testBank(), gw, xp)}
}

func runAsync(ctx context.Context, s *Session) <-chan Result {
	out := make(chan Result, 1)
	go func() { out <- s.Run(ctx) }()
	return out
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish")
		return Result{}
	}
}

func TestQuiz_AllCorrect(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 2 * time.Second})
	ctx := context.Background()

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	done := runAsync(ctx, s)

	for _, letter := range []string{"a", " C ", "D"} {
		h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: letter})
	}
	res := waitResult(t, done)

	if res.State != StateCompleted {
		t.Errorf("State = %v, want completed", res.State)
	}
	if res.Correct != 3 || res.XPEarned != 75 {
		t.Errorf("Correct = %d, XPEarned = %d, want 3 and 75", res.Correct, res.XPEarned)
	}
	if res.Profile == nil || res.Profile.XP != 75 {
		t.Errorf("Profile = %+v, want XP 75", res.Profile)
	}
	if _, ok := h.engine.Registry().Get("u1"); ok {
		t.Error("session still registered after completion")
	}
	if got := h.gw.last().Kind; got != NoticeQuizCompleted {
		t.Errorf("last notice = %v, want quiz_completed", got)
	}
	if got := h.gw.count(NoticeQuizAnswered); got != 3 {
		t.Errorf("answered notices = %d, want 3", got)
	}
}

func TestQuiz_WrongAnswersAdvance(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 2 * time.Second})
	ctx := context.Background()

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	done := runAsync(ctx, s)

	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "B"})
	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "C"})
	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "A"})
	res := waitResult(t, done)

	if res.Answered != 3 || res.Correct != 1 || res.XPEarned != 25 {
		t.Errorf("result = %+v, want 3 answered, 1 correct, 25 xp", res)
	}
}

func TestQuiz_IgnoresOtherUsersAndNonChoices(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 2 * time.Second})

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runAsync(ctx, s)

	deadline := time.Now().Add(2 * time.Second)
	for h.gw.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ignored := []Message{
		{ChatID: testChat, UserID: "u2", Text: "A"},
		{ChatID: 999, UserID: "u1", Text: "A"},
		{ChatID: testChat, UserID: "u1", Text: "maybe A?"},
		{ChatID: testChat, UserID: "u1", Text: "E"},
	}
	for _, m := range ignored {
		if n := h.gw.Deliver(m); n != 0 {
			t.Errorf("Deliver(%+v) = %d, want 0", m, n)
		}
	}
	if s.Step() != 0 {
		t.Errorf("Step() = %d, want 0", s.Step())
	}

	cancel()
	waitResult(t, done)
}

func TestQuiz_DuplicateStartRejected(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 2 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	done := runAsync(ctx, s)

	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "A"})
	deadline := time.Now().Add(2 * time.Second)
	for s.Step() != 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if _, err := h.engine.StartQuiz(testChat, "u1", "Ana"); !stderrors.Is(err, ErrSessionActive) {
		t.Fatalf("second StartQuiz() error = %v, want ErrSessionActive", err)
	}
	if got, ok := h.engine.Registry().Get("u1"); !ok || got != s {
		t.Error("existing session was replaced")
	}
	if s.Step() != 1 {
		t.Errorf("Step() = %d, want 1", s.Step())
	}

	if _, err := h.engine.StartQuiz(testChat, "u2", "Ben"); err != nil {
		t.Errorf("StartQuiz() for another user error = %v", err)
	}

	cancel()
	waitResult(t, done)
}

func TestQuiz_TimeoutPostsOneNotice(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 20 * time.Millisecond})

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	res := s.Run(context.Background())

	if res.State != StateExpired {
		t.Errorf("State = %v, want expired", res.State)
	}
	if got := h.gw.count(NoticeQuizExpired); got != 1 {
		t.Errorf("expiry notices = %d, want 1", got)
	}
	if h.engine.Registry().Len() != 0 {
		t.Error("registry not empty after timeout")
	}
	if h.gw.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", h.gw.Pending())
	}

	// the user may start again
	if _, err := h.engine.StartQuiz(testChat, "u1", "Ana"); err != nil {
		t.Errorf("StartQuiz() after timeout error = %v", err)
	}
}

func TestQuiz_CancelPostsNothingMore(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	done := runAsync(ctx, s)

	deadline := time.Now().Add(2 * time.Second)
	for h.gw.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	res := waitResult(t, done)

	if res.State != StateCancelled {
		t.Errorf("State = %v, want cancelled", res.State)
	}
	kinds := h.gw.kinds()
	if len(kinds) != 1 || kinds[0] != NoticeQuizQuestion {
		t.Errorf("notices = %v, want only the first question", kinds)
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Run returned")
	}
}

func TestCase_FirstCorrectReplyWins(t *testing.T) {
	h := newHarness(t, Config{CaseTimeout: 2 * time.Second})
	ctx := context.Background()

	s, err := h.engine.StartCase(testChat)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	done := runAsync(ctx, s)

	deadline := time.Now().Add(2 * time.Second)
	for h.gw.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := h.gw.Deliver(Message{ChatID: testChat, UserID: "u2", Text: "sunburn"}); n != 0 {
		t.Errorf("wrong diagnosis delivered to %d waiters", n)
	}

	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", DisplayName: "Ana", Text: " JELLYFISH Sting "})
	res := waitResult(t, done)

	if res.State != StateCompleted || res.XPEarned != 25 {
		t.Errorf("result = %+v, want completed with 25 xp", res)
	}
	if winner, ok := h.engine.Board().Winner(1); !ok || winner != "u1" {
		t.Errorf("Winner(1) = %q, %v", winner, ok)
	}
	last := h.gw.last()
	if last.Kind != NoticeCaseSolved || last.UserID != "u1" || last.Award == nil || last.Award.Total != 25 {
		t.Errorf("last notice = %+v", last)
	}
	if _, open := h.engine.Board().OpenCase(); open {
		t.Error("case still open after it was solved")
	}
	if res.Profile != nil {
		t.Error("case sessions have no owner profile")
	}

	next, err := h.engine.StartCase(testChat)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	if next.policy.(*casePolicy).item.ID != 2 {
		t.Errorf("next case = %d, want 2", next.policy.(*casePolicy).item.ID)
	}
}

func TestCase_OneOpenAtATime(t *testing.T) {
	h := newHarness(t, Config{})

	if _, err := h.engine.StartCase(testChat); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	if _, err := h.engine.StartCase(42); !stderrors.Is(err, ErrCaseOpen) {
		t.Errorf("StartCase() error = %v, want ErrCaseOpen", err)
	}
}

func TestCase_TimeoutKeepsCaseUnsolved(t *testing.T) {
	h := newHarness(t, Config{CaseTimeout: 20 * time.Millisecond})

	s, err := h.engine.StartCase(testChat)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	res := s.Run(context.Background())

	if res.State != StateExpired {
		t.Errorf("State = %v, want expired", res.State)
	}
	if got := h.gw.count(NoticeCaseExpired); got != 1 {
		t.Errorf("expiry notices = %d, want 1", got)
	}
	if h.engine.Board().Solved(1) {
		t.Error("case marked solved after timeout")
	}

	again, err := h.engine.StartCase(testChat)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	if again.policy.(*casePolicy).item.ID != 1 {
		t.Errorf("reissued case = %d, want 1", again.policy.(*casePolicy).item.ID)
	}
}

func TestCase_AllSolved(t *testing.T) {
	h := newHarness(t, Config{})
	for _, c := range h.engine.bank.Cases {
		h.engine.Board().Claim(c.ID, "u1")
	}

	if _, err := h.engine.StartCase(testChat); !stderrors.Is(err, ErrAllCasesSolved) {
		t.Errorf("StartCase() error = %v, want ErrAllCasesSolved", err)
	}
}

func TestEngine_LaunchAndWait(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 20 * time.Millisecond})

	for _, user := range []string{"u1", "u2", "u3"} {
		s, err := h.engine.StartQuiz(testChat, user, user)
		if err != nil {
			t.Fatalf("StartQuiz(%s) error = %v", user, err)
		}
		h.engine.Launch(context.Background(), s)
	}
	h.engine.Wait()

	if h.engine.Registry().Len() != 0 {
		t.Errorf("Registry().Len() = %d, want 0", h.engine.Registry().Len())
	}
	if got := h.gw.count(NoticeQuizExpired); got != 3 {
		t.Errorf("expiry notices = %d, want 3", got)
	}
}

func (g *fakeGateway) promptIDs() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var ids []int
	for i, n := range g.notices {
		if n.Kind == NoticeQuizQuestion {
			ids = append(ids, i+1)
		}
	}
	return ids
}

func TestQuiz_OldQuestionButtonsIgnored(t *testing.T) {
	h := newHarness(t, Config{QuizTimeout: 2 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := h.engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	done := runAsync(ctx, s)

	// Q1 answered by typing; its buttons stay on screen.
	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "A"})
	deadline := time.Now().Add(2 * time.Second)
	for len(h.gw.promptIDs()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	prompts := h.gw.promptIDs()
	if len(prompts) < 2 {
		t.Fatalf("prompts posted = %v, want 2", prompts)
	}
	for h.gw.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	stale := Message{ChatID: testChat, UserID: "u1", Text: "B", PromptID: prompts[0]}
	if n := h.gw.Deliver(stale); n != 0 {
		t.Errorf("press under question 1 delivered to %d waiters, want 0", n)
	}
	if s.Step() != 1 {
		t.Errorf("Step() = %d, want 1", s.Step())
	}

	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "C", PromptID: prompts[1]})
	h.gw.answer(t, Message{ChatID: testChat, UserID: "u1", Text: "D"})
	res := waitResult(t, done)

	if res.Answered != 3 || res.Correct != 3 {
		t.Errorf("result = %+v, want 3 answered, 3 correct", res)
	}
}

// failingGateway cannot post anything.
type failingGateway struct {
	*fakeGateway
}

func (g failingGateway) PostMessage(context.Context, int64, Notice) (int, error) {
	return 0, stderrors.New("chat not found")
}

func TestSession_PromptFailureEndsSession(t *testing.T) {
	repo, err := repositories.NewFileXPRepository(filepath.Join(t.TempDir(), "xp.json"))
	if err != nil {
		t.Fatalf("NewFileXPRepository() error = %v", err)
	}
	gw := failingGateway{newFakeGateway()}
	engine := NewEngine(Config{CaseTimeout: time.Minute, QuizTimeout: time.Minute}, testBank(), gw,
		services.NewXPService(repo, nil))

	c, err := engine.StartCase(testChat)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	if res := waitResult(t, runAsync(context.Background(), c)); res.State != StateCancelled {
		t.Errorf("case State = %v, want cancelled", res.State)
	}
	if _, open := engine.Board().OpenCase(); open {
		t.Error("case slot still held after failed post")
	}
	if _, err := engine.StartCase(testChat); err != nil {
		t.Errorf("StartCase() after failed post error = %v", err)
	}

	q, err := engine.StartQuiz(testChat, "u1", "Ana")
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	if res := waitResult(t, runAsync(context.Background(), q)); res.State != StateCancelled {
		t.Errorf("quiz State = %v, want cancelled", res.State)
	}
	if engine.Registry().Len() != 0 {
		t.Error("quiz still registered after failed post")
	}
	if gw.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", gw.Pending())
	}
}
