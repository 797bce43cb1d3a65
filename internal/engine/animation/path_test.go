package animation

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func recordLine(p *Path, n int) {
	for i := 0; i < n; i++ {
		f := float32(i)
		p.Record(mgl32.Vec3{f, 0, 0}, mgl32.Vec3{0, 0, -1})
	}
}

func TestRecordCreatesPath(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	if p.State() != StateIdle {
		t.Fatalf("expected idle, got %s", p.State())
	}

	recordLine(p, 3)

	if p.State() != StateRecording {
		t.Errorf("expected recording, got %s", p.State())
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 checkpoints, got %d", p.Len())
	}
}

func TestArmRequiresTwoCheckpoints(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	if err := p.Arm(); !errors.Is(err, ErrNotRecorded) {
		t.Errorf("arm on idle path: expected ErrNotRecorded, got %v", err)
	}

	recordLine(p, 1)
	if err := p.Arm(); !errors.Is(err, ErrTooFewCheckpoints) {
		t.Errorf("arm with 1 checkpoint: expected ErrTooFewCheckpoints, got %v", err)
	}
	if p.Triggered() {
		t.Error("path should not be triggered")
	}

	recordLine(p, 1)
	if err := p.Arm(); err != nil {
		t.Fatalf("arm with 2 checkpoints: %v", err)
	}
	if !p.Triggered() || p.State() != StateArmed {
		t.Errorf("expected armed and triggered, got %s", p.State())
	}
	if err := p.Arm(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second arm: expected ErrAlreadyStarted, got %v", err)
	}
}

func TestSmoothingLeavesTailUntouched(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	var original []mgl32.Vec3
	for i := 0; i < 25; i++ {
		pos := mgl32.Vec3{float32(i * i), float32(i), 0}
		original = append(original, pos)
		p.Record(pos, mgl32.Vec3{0, 0, -1})
	}

	if err := p.Arm(); err != nil {
		t.Fatalf("arm: %v", err)
	}

	cps := p.Checkpoints()
	for i := 0; i < 5; i++ {
		want := original[i].Add(original[i+1]).Mul(0.5)
		if !cps[i].Position.ApproxEqual(want) {
			t.Errorf("checkpoint %d: expected %v, got %v", i, want, cps[i].Position)
		}
	}
	for i := 5; i < 25; i++ {
		if cps[i].Position != original[i] {
			t.Errorf("checkpoint %d should be untouched: expected %v, got %v", i, original[i], cps[i].Position)
		}
	}
	if !p.Smoothed() {
		t.Error("expected smoothed flag")
	}
}

func TestSmoothingRunsOnce(t *testing.T) {
	p := NewPath(100, DefaultSmoothingTail)
	recordLine(p, 30)
	if err := p.Arm(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	first := p.Checkpoints()

	p.Start(1)
	for now := 1.01; p.State() == StatePlaying; now += 0.05 {
		p.Tick(now)
	}
	if err := p.Arm(); err != nil {
		t.Fatalf("re-arm after finishing: %v", err)
	}

	second := p.Checkpoints()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("checkpoint %d changed on second arm: %v -> %v", i, first[i], second[i])
		}
	}
}

func TestStartOnlyWhenArmed(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 4)
	if p.Start(5) {
		t.Error("start should fail while recording")
	}
	_ = p.Arm()
	if !p.Start(5) {
		t.Fatal("start should succeed when armed")
	}
	if p.StartTime() != 5 {
		t.Errorf("expected start time 5, got %f", p.StartTime())
	}
	if p.Start(6) {
		t.Error("start should not restamp a playing path")
	}
	if p.StartTime() != 5 {
		t.Errorf("start time changed to %f", p.StartTime())
	}
}

func TestTickBeforeStartDoesNothing(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 4)
	_ = p.Arm()
	p.Start(10)

	if _, ok := p.Tick(10); ok {
		t.Error("tick at the start time should not advance")
	}
	if _, ok := p.Tick(9); ok {
		t.Error("tick before the start time should not advance")
	}
}

func TestPlaybackMonotonic(t *testing.T) {
	const n = 10
	p := NewPath(2, DefaultSmoothingTail)
	recordLine(p, n)
	if err := p.Arm(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	p.Start(1)

	last := -1
	finished := false
	for now := 1.05; now < 20; now += 0.1 {
		s, ok := p.Tick(now)
		if !ok {
			break
		}
		if s.Index < last {
			t.Fatalf("index decreased from %d to %d at t=%f", last, s.Index, now)
		}
		last = s.Index
		if s.Finished {
			finished = true
			if s.Index != n-1 {
				t.Errorf("finished at index %d, expected %d", s.Index, n-1)
			}
			break
		}
	}

	if !finished {
		t.Fatal("playback never finished")
	}
	if p.Triggered() {
		t.Error("trigger flag should clear after finishing")
	}
	if p.StartTime() != 0 {
		t.Errorf("start time should reset to 0, got %f", p.StartTime())
	}
	if p.Len() != n {
		t.Errorf("finishing should keep checkpoints, got %d", p.Len())
	}
}

func TestPlaybackInterpolation(t *testing.T) {
	// Tail of 20 keeps this short path unsmoothed.
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 4)
	_ = p.Arm()
	p.Start(0.5)

	// elapsed*v = 1.25: index = ceil(1.25) = 2, frac = 0.75
	s, ok := p.Tick(1.75)
	if !ok {
		t.Fatal("expected a sample")
	}
	if s.Index != 2 {
		t.Fatalf("expected index 2, got %d", s.Index)
	}
	want := mgl32.Vec3{0.75*2 + 0.25*3, 0, 0}
	if !near(s.Position, want, 1e-5) {
		t.Errorf("expected position %v, got %v", want, s.Position)
	}
	if p.LastCheckpoint() != 2 {
		t.Errorf("expected last checkpoint 2, got %d", p.LastCheckpoint())
	}
}

func TestFinishLandsOnLastCheckpoint(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 3)
	_ = p.Arm()
	p.Start(1)

	s, ok := p.Tick(100)
	if !ok || !s.Finished {
		t.Fatalf("expected finished sample, got %+v ok=%v", s, ok)
	}
	if s.Position != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("expected final position (2,0,0), got %v", s.Position)
	}
	if p.State() != StateRecording {
		t.Errorf("expected recording after finish, got %s", p.State())
	}
}

func TestReset(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 5)
	_ = p.Arm()
	p.Start(1)

	p.Reset()

	if p.State() != StateIdle {
		t.Errorf("expected idle, got %s", p.State())
	}
	if p.Len() != 0 || p.Smoothed() || p.StartTime() != 0 {
		t.Errorf("reset left state behind: len=%d smoothed=%v start=%f", p.Len(), p.Smoothed(), p.StartTime())
	}
	if p.Record(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}) != true {
		t.Error("record should work after reset")
	}
}

func TestRecordIgnoredWhilePlaying(t *testing.T) {
	p := NewPath(1, DefaultSmoothingTail)
	recordLine(p, 3)
	_ = p.Arm()
	if p.Record(mgl32.Vec3{9, 9, 9}, mgl32.Vec3{}) {
		t.Error("record should be ignored while armed")
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 checkpoints, got %d", p.Len())
	}
}

func TestSmoothingWithoutTailKeepsLastCheckpoint(t *testing.T) {
	p := NewPath(1, 0)
	recordLine(p, 3)

	if err := p.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	cps := p.Checkpoints()
	want := []float32{0.5, 1.5, 2}
	for i, w := range want {
		if cps[i].Position.X() != w {
			t.Errorf("checkpoint %d: x = %v, want %v", i, cps[i].Position.X(), w)
		}
	}
}

func TestArmSmoothsCheckpointsRecordedAfterPlayback(t *testing.T) {
	p := NewPath(1, 0)
	recordLine(p, 3)
	_ = p.Arm()
	p.Start(1)
	if s, ok := p.Tick(100); !ok || !s.Finished {
		t.Fatalf("expected playback to finish, got %+v", s)
	}

	p.Record(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0, 0, -1})
	p.Record(mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, 0, -1})
	if p.Smoothed() {
		t.Error("new checkpoints should clear the smoothed flag")
	}
	if err := p.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if !p.Smoothed() {
		t.Error("expected smoothed flag after arm")
	}

	// 0.5 and 1.5 were smoothed by the first arm and stay; the old last
	// point and the new ones are averaged once.
	cps := p.Checkpoints()
	want := []float32{0.5, 1.5, 2.5, 3.5, 4}
	for i, w := range want {
		if cps[i].Position.X() != w {
			t.Errorf("checkpoint %d: x = %v, want %v", i, cps[i].Position.X(), w)
		}
	}
}

// near compares component-wise with an absolute tolerance.
func near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}
