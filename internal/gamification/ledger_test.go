package gamification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/store"
)

// mockProgressRepo implements store.ProgressRepo in memory.
type mockProgressRepo struct {
	mu       sync.Mutex
	progress map[string]*store.Progress
	events   []store.AwardEventData
	saveErr  error
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{progress: make(map[string]*store.Progress)}
}

func (m *mockProgressRepo) Load(_ context.Context, userID string) (*store.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.progress[userID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (m *mockProgressRepo) Save(_ context.Context, p *store.Progress, events []store.AwardEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.progress[p.UserID] = p.Clone()
	m.events = append(m.events, events...)
	return nil
}

func (m *mockProgressRepo) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.progress, userID)
	return nil
}

func (m *mockProgressRepo) HasAwardKey(_ context.Context, userID, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.UserID == userID && e.DedupKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProgressRepo) QueryAwardEvents(_ context.Context, _ string, _ store.QueryOpts) ([]store.AwardEventRecord, error) {
	return nil, nil
}

func (m *mockProgressRepo) ListUserIDs(_ context.Context) ([]string, error) {
	return nil, nil
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *mockProgressRepo, *fakeClock) {
	t.Helper()
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	repo := newMockProgressRepo()
	clock := &fakeClock{t: t0}
	return NewLedger(repo, cat, WithClock(clock.Now)), repo, clock
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{499, 3},
		{500, 4},
		{1000, 5},
		{2000, 6},
		{3500, 7},
		{5000, 8},
		{7500, 9},
		{9999, 9},
		{10000, 10},
		{1 << 20, 10},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestNextThreshold(t *testing.T) {
	if got, ok := NextThreshold(1); !ok || got != 100 {
		t.Errorf("NextThreshold(1) = %d, %v; want 100, true", got, ok)
	}
	if _, ok := NextThreshold(MaxLevel); ok {
		t.Error("NextThreshold(MaxLevel) should report no next level")
	}
}

func TestAwardXP_FirstActivityLeavesStreak(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	res, err := l.AwardXP(ctx, "u1", 10, "theory")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.XP != 10 || res.Level != 1 || res.LeveledUp {
		t.Errorf("result = %+v, want XP 10 level 1 no level-up", res)
	}
	p := repo.progress["u1"]
	if p.StreakDays != 0 {
		t.Errorf("StreakDays = %d, want 0", p.StreakDays)
	}
	if !p.LastActivity.Equal(t0) {
		t.Errorf("LastActivity = %v, want %v", p.LastActivity, t0)
	}
}

func TestAwardXP_StreakWindows(t *testing.T) {
	tests := []struct {
		name        string
		startStreak int
		gap         time.Duration
		wantStreak  int
	}{
		{"inside window", 1, 21 * time.Hour, 2},
		{"window lower bound", 1, 20 * time.Hour, 2},
		{"window upper bound", 1, 28 * time.Hour, 2},
		{"past window resets", 2, 30 * time.Hour, 1},
		{"too soon unchanged", 2, 10 * time.Hour, 2},
		{"same instant unchanged", 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, repo, clock := newTestLedger(t)
			repo.progress["u1"] = &store.Progress{UserID: "u1", Level: 1, StreakDays: tt.startStreak, LastActivity: t0}
			clock.t = t0.Add(tt.gap)

			if _, err := l.AwardXP(context.Background(), "u1", 10, "test"); err != nil {
				t.Fatalf("AwardXP: %v", err)
			}
			p := repo.progress["u1"]
			if p.StreakDays != tt.wantStreak {
				t.Errorf("StreakDays = %d, want %d", p.StreakDays, tt.wantStreak)
			}
			if !p.LastActivity.Equal(clock.t) {
				t.Errorf("LastActivity = %v, want %v", p.LastActivity, clock.t)
			}
		})
	}
}

func TestAwardXP_ThirdDayUnlocksStreaker(t *testing.T) {
	l, repo, clock := newTestLedger(t)
	repo.progress["u1"] = &store.Progress{UserID: "u1", Level: 1, StreakDays: 2, LastActivity: t0}
	clock.t = t0.Add(24 * time.Hour)

	res, err := l.AwardXP(context.Background(), "u1", 10, "theory")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.XP != 10+AchievementXP {
		t.Errorf("XP = %d, want %d", res.XP, 10+AchievementXP)
	}

	p := repo.progress["u1"]
	if p.StreakDays != 3 {
		t.Errorf("StreakDays = %d, want 3 (bonus XP must not extend the streak)", p.StreakDays)
	}
	if !p.HasAchievement(content.AchievementStreaker) {
		t.Errorf("Achievements = %v, want streaker", p.Achievements)
	}

	var kinds []string
	for _, e := range repo.events {
		kinds = append(kinds, e.Kind)
	}
	want := []string{"streak_changed", "xp_awarded", "achievement_unlocked", "xp_awarded"}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}
}

func TestAwardXP_LevelUp(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	repo.progress["u1"] = &store.Progress{UserID: "u1", XP: 90, Level: 1}

	res, err := l.AwardXP(context.Background(), "u1", 20, "correct")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if !res.LeveledUp || res.Level != 2 || res.XP != 110 {
		t.Errorf("result = %+v, want XP 110 level 2 leveled up", res)
	}
}

func TestAwardXP_NegativeRejected(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	_, err := l.AwardXP(context.Background(), "u1", -1, "oops")
	if !errors.Is(err, ErrNegativeXP) {
		t.Fatalf("error = %v, want ErrNegativeXP", err)
	}
	if _, ok := repo.progress["u1"]; ok {
		t.Error("rejected award must not create progress")
	}
}

func TestAwardXP_KeyedAppliedOnce(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	award := func() XPResult {
		var res XPResult
		_, err := l.Update(ctx, "u1", func(tx *Tx) error {
			var err error
			res, err = tx.AwardXP(Award{Amount: 20, Reason: "correct", Key: "lesson:s1:q0"})
			return err
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		return res
	}

	first := award()
	second := award()
	if first.Duplicate || !second.Duplicate {
		t.Errorf("Duplicate = %v/%v, want false/true", first.Duplicate, second.Duplicate)
	}
	if repo.progress["u1"].XP != 20 {
		t.Errorf("XP = %d, want 20", repo.progress["u1"].XP)
	}
}

func TestAwardAchievement_Idempotent(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	granted, err := l.AwardAchievement(ctx, "u1", content.AchievementBeginner)
	if err != nil {
		t.Fatalf("AwardAchievement: %v", err)
	}
	if !granted {
		t.Error("first award should be granted")
	}

	granted, err = l.AwardAchievement(ctx, "u1", content.AchievementBeginner)
	if err != nil {
		t.Fatalf("AwardAchievement again: %v", err)
	}
	if granted {
		t.Error("second award should not be granted")
	}

	p := repo.progress["u1"]
	if p.XP != AchievementXP {
		t.Errorf("XP = %d, want %d", p.XP, AchievementXP)
	}
	if len(p.Achievements) != 1 {
		t.Errorf("len(Achievements) = %d, want 1", len(p.Achievements))
	}
	if !p.Achievements[0].EarnedAt.Equal(t0) {
		t.Errorf("EarnedAt = %v, want %v", p.Achievements[0].EarnedAt, t0)
	}
}

func TestAwardAchievement_Unknown(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.AwardAchievement(context.Background(), "u1", "wizard")
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("error = %v, want content.ErrNotFound", err)
	}
}

func TestRecordShare_ThirdShareUnlocks(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		res, err := l.RecordShare(ctx, "u1")
		if err != nil {
			t.Fatalf("RecordShare %d: %v", i, err)
		}
		if res.ShareCount != i {
			t.Errorf("ShareCount = %d, want %d", res.ShareCount, i)
		}
		if res.Unlocked != (i == 3) {
			t.Errorf("share %d: Unlocked = %v", i, res.Unlocked)
		}
	}
	p := repo.progress["u1"]
	if !p.HasAchievement(content.AchievementSocialButterfly) {
		t.Error("expected social_butterfly")
	}
	if p.XP != AchievementXP {
		t.Errorf("XP = %d, want %d", p.XP, AchievementXP)
	}
}

func TestUpdate_NothingAppliedOnFailure(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := l.Update(ctx, "u1", func(tx *Tx) error {
		if _, err := tx.AwardXP(Award{Amount: 10}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if _, ok := repo.progress["u1"]; ok {
		t.Error("failed update must not be saved")
	}

	repo.saveErr = store.ErrPersistence
	_, err = l.AwardXP(ctx, "u1", 10, "theory")
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("error = %v, want ErrPersistence", err)
	}
	if _, ok := repo.progress["u1"]; ok {
		t.Error("failed save must not be visible")
	}
}

func TestLevel_UnknownUser(t *testing.T) {
	l, _, _ := newTestLedger(t)
	level, err := l.Level(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	if level != 1 {
		t.Errorf("Level = %d, want 1", level)
	}
}

func TestAwardXP_ConcurrentSameUser(t *testing.T) {
	l, repo, _ := newTestLedger(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.AwardXP(ctx, "u1", 10, "correct"); err != nil {
				t.Errorf("AwardXP: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.progress["u1"].XP; got != 500 {
		t.Errorf("XP = %d, want 500 (lost updates)", got)
	}
}
