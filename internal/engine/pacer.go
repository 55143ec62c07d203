package engine

import (
	"context"
	"fmt"
	"time"
)

// Timing holds the pauses between turn steps. Pauses are pacing only; turn
// outcomes never depend on them.
type Timing struct {
	DiceRoll     time.Duration
	StepMove     time.Duration // per board cell
	SpaceArrival time.Duration
	PassGo       time.Duration
	PostAction   time.Duration
	BotStep      time.Duration
	WinCelebrate time.Duration
}

// StandardTiming matches the pace of the board animations.
func StandardTiming() Timing {
	return Timing{
		DiceRoll:     1800 * time.Millisecond,
		StepMove:     350 * time.Millisecond,
		SpaceArrival: 1200 * time.Millisecond,
		PassGo:       1500 * time.Millisecond,
		PostAction:   1800 * time.Millisecond,
		BotStep:      1200 * time.Millisecond,
		WinCelebrate: 3000 * time.Millisecond,
	}
}

// TimingPreset resolves "standard", "fast" or "none".
func TimingPreset(name string) (Timing, error) {
	switch name {
	case "", "standard":
		return StandardTiming(), nil
	case "fast":
		t := StandardTiming()
		return Timing{
			DiceRoll:     t.DiceRoll / 10,
			StepMove:     t.StepMove / 10,
			SpaceArrival: t.SpaceArrival / 10,
			PassGo:       t.PassGo / 10,
			PostAction:   t.PostAction / 10,
			BotStep:      t.BotStep / 10,
			WinCelebrate: t.WinCelebrate / 10,
		}, nil
	case "none":
		return Timing{}, nil
	default:
		return Timing{}, fmt.Errorf("unknown timing preset %q", name)
	}
}

// Pacer suspends a turn sequence between steps.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration)
}

// SleepPacer waits in real time. A cancelled context cuts the wait short.
type SleepPacer struct{}

func (SleepPacer) Pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NoPacer never waits.
type NoPacer struct{}

func (NoPacer) Pause(context.Context, time.Duration) {}
