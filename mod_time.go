package meshview

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration

	// FPS is refreshed once per second of accumulated frame time.
	FPS float64

	fpsFrames  int
	fpsElapsed time.Duration
	now        func() time.Time
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
		now:  time.Now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	timeResource.advance(now.Sub(timeResource.Time))
	timeResource.Time = now
}

func (t *Time) advance(dt time.Duration) {
	t.Dt = dt
	t.fpsFrames++
	t.fpsElapsed += dt
	if t.fpsElapsed >= time.Second {
		t.FPS = float64(t.fpsFrames) / t.fpsElapsed.Seconds()
		t.fpsFrames = 0
		t.fpsElapsed = 0
	}
}
