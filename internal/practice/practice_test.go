package practice

import (
	"strings"
	"testing"
	"time"

	"github.com/truthempowered/tercoach/internal/catalog"
)

func TestPlanFor_EveryPracticeHasIntroAndReflection(t *testing.T) {
	for _, def := range catalog.New().All() {
		plan := PlanFor(def)
		if len(plan.Steps) < 3 {
			t.Errorf("%s: plan has %d steps, want at least 3", def.ID, len(plan.Steps))
			continue
		}
		if plan.Steps[0].Kind != StepIntro {
			t.Errorf("%s: first step kind = %q, want intro", def.ID, plan.Steps[0].Kind)
		}
		last := plan.Steps[len(plan.Steps)-1]
		if last.Kind != StepReflection {
			t.Errorf("%s: last step kind = %q, want reflection", def.ID, last.Kind)
		}
	}
}

func TestPlanFor_PauseHasOneMinuteCountdown(t *testing.T) {
	def, _ := catalog.New().Get("pause")
	plan := PlanFor(def)

	var countdown *Step
	for i := range plan.Steps {
		if plan.Steps[i].Kind == StepCountdown {
			countdown = &plan.Steps[i]
		}
	}
	if countdown == nil {
		t.Fatal("pause plan has no countdown step")
	}
	if countdown.Duration != time.Minute {
		t.Errorf("countdown duration = %v, want 1m", countdown.Duration)
	}
}

func TestPlanFor_SevenNightsHasSevenPrompts(t *testing.T) {
	def, _ := catalog.New().Get("seven-nights")
	plan := PlanFor(def)

	prompts := 0
	for _, s := range plan.Steps {
		if s.Kind == StepPrompt && s.RequiresInput {
			prompts++
		}
	}
	if prompts != 7 {
		t.Errorf("seven-nights plan has %d nightly prompts, want 7", prompts)
	}
}

func TestPlanFor_ClosenessCounterListsDistances(t *testing.T) {
	def, _ := catalog.New().Get("closeness-counter")
	plan := PlanFor(def)

	setup := plan.Steps[1]
	if setup.Kind != StepChoice {
		t.Fatalf("setup step kind = %q, want choice", setup.Kind)
	}
	if len(setup.Options) != len(catalog.ClosenessDistances) {
		t.Fatalf("setup options = %d, want %d", len(setup.Options), len(catalog.ClosenessDistances))
	}
	for i, opt := range setup.Options {
		want, _ := catalog.ClosenessDistance(i + 1)
		if !strings.Contains(opt, want) {
			t.Errorf("option %d = %q, missing distance %q", i+1, opt, want)
		}
	}
}

func TestRuntime_RequiredInputGatesAdvance(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "intro", Kind: StepIntro},
			{ID: "share", Kind: StepPrompt, RequiresInput: true},
			{ID: "reflection", Kind: StepReflection},
		},
	}
	r, err := NewRuntime(plan)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer r.Close()

	if err := r.Advance(); err != nil {
		t.Fatalf("advance past intro: %v", err)
	}
	if err := r.Advance(); err != ErrInputRequired {
		t.Fatalf("advance without input: err = %v, want ErrInputRequired", err)
	}

	r.SetInput("share", "I resent the unanswered texts")
	if err := r.Advance(); err != nil {
		t.Fatalf("advance with input: %v", err)
	}
	if r.Current().ID != "reflection" {
		t.Errorf("current step = %q, want reflection", r.Current().ID)
	}
}

func TestRuntime_BackKeepsInput(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "intro", Kind: StepIntro},
			{ID: "share", Kind: StepPrompt, RequiresInput: true},
			{ID: "reflection", Kind: StepReflection},
		},
	}
	r, err := NewRuntime(plan)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer r.Close()

	if err := r.Back(); err != ErrAtFirstStep {
		t.Fatalf("back at first step: err = %v, want ErrAtFirstStep", err)
	}

	_ = r.Advance()
	r.SetInput("share", "something true")
	_ = r.Advance()
	if err := r.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if r.Current().ID != "share" {
		t.Fatalf("current step = %q, want share", r.Current().ID)
	}
	if v, ok := r.Input("share"); !ok || v != "something true" {
		t.Errorf("input after back = %q, %v; want kept", v, ok)
	}
}

func TestRuntime_CompletesExactlyOnce(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "intro", Kind: StepIntro},
			{ID: "reflection", Kind: StepReflection},
		},
	}
	completions := 0
	r, err := NewRuntime(plan, OnComplete(func() { completions++ }))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	if err := r.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := r.Advance(); err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if completions != 1 {
		t.Fatalf("completions = %d, want 1", completions)
	}
	if !r.Closed() {
		t.Error("runtime should be closed after completion")
	}
	if err := r.Advance(); err != ErrClosed {
		t.Errorf("advance after completion: err = %v, want ErrClosed", err)
	}
}

func TestRuntime_CountdownForceAdvances(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "hold", Kind: StepCountdown, Duration: 30 * time.Millisecond},
			{ID: "reflection", Kind: StepReflection},
		},
	}
	r, err := NewRuntime(plan, WithCountdownOptions(WithTickInterval(10*time.Millisecond)))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer r.Close()

	deadline := time.Now().Add(2 * time.Second)
	for r.Current().ID != "reflection" {
		if time.Now().After(deadline) {
			t.Fatal("countdown never force-advanced")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRuntime_StaleCountdownExpiryIgnored(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "hold", Kind: StepCountdown, Duration: time.Hour},
			{ID: "reflection", Kind: StepReflection},
		},
	}
	r, err := NewRuntime(plan)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer r.Close()

	r.mu.Lock()
	holdGen := r.gen
	r.mu.Unlock()

	// The user ends the hold early and moves on.
	if err := r.Advance(); err != nil {
		t.Fatalf("advance off countdown: %v", err)
	}
	if r.Current().ID != "reflection" {
		t.Fatalf("current step = %q, want reflection", r.Current().ID)
	}

	// An expiry queued for the abandoned countdown must not advance again.
	r.expire(holdGen)
	if r.Closed() {
		t.Fatal("stale expiry completed the runtime past reflection")
	}
	if r.Current().ID != "reflection" {
		t.Errorf("current step = %q after stale expiry, want reflection", r.Current().ID)
	}
}

func TestRuntime_CloseCancelsCountdownWithoutCompleting(t *testing.T) {
	plan := Plan{
		PracticeID: "test",
		Steps: []Step{
			{ID: "hold", Kind: StepCountdown, Duration: 20 * time.Millisecond},
		},
	}
	completions := 0
	r, err := NewRuntime(plan,
		OnComplete(func() { completions++ }),
		WithCountdownOptions(WithTickInterval(10*time.Millisecond)))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	r.Close()
	time.Sleep(60 * time.Millisecond)

	if completions != 0 {
		t.Fatalf("completions = %d, want 0 after abandon", completions)
	}
	if err := r.Advance(); err != ErrClosed {
		t.Errorf("advance after close: err = %v, want ErrClosed", err)
	}
}

func TestCountdown_PauseResumeAndEndEarly(t *testing.T) {
	expired := make(chan struct{})
	c := NewCountdown(time.Hour, nil, func() { close(expired) },
		WithTickInterval(5*time.Millisecond))
	defer c.Stop()

	c.Pause()
	before := c.Remaining()
	time.Sleep(25 * time.Millisecond)
	if got := c.Remaining(); got != before {
		t.Errorf("remaining changed while paused: %v -> %v", before, got)
	}

	c.Resume()
	c.EndEarly()

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("expire callback never fired after EndEarly")
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %v after EndEarly, want 0", c.Remaining())
	}
}

func TestCountdown_ExpiresExactlyOnce(t *testing.T) {
	fired := 0
	done := make(chan struct{})
	c := NewCountdown(10*time.Millisecond, nil, func() {
		fired++
		close(done)
	}, WithTickInterval(5*time.Millisecond))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never expired")
	}

	c.EndEarly()
	c.Stop()
	if fired != 1 {
		t.Fatalf("expire fired %d times, want 1", fired)
	}
}
