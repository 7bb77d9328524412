package playback

import "time"

// DefaultHideDelay is how long the controls stay up after the last pointer movement
const DefaultHideDelay = 3 * time.Second

// Visibility decides whether the playback controls are painted.  Controls hide after a period without pointer
// movement, except while a panel is open.
type Visibility struct {
	sched     Scheduler
	delay     time.Duration
	panelOpen func() bool
	visible   bool
	timer     Timer
}

// NewVisibility creates a manager with the controls initially visible.  panelOpen gates the hide.
func NewVisibility(sched Scheduler, delay time.Duration, panelOpen func() bool) *Visibility {
	return &Visibility{
		sched:     sched,
		delay:     delay,
		panelOpen: panelOpen,
		visible:   true,
	}
}

// Visible reports whether the controls should be painted
func (v *Visibility) Visible() bool {
	return v.visible
}

// PointerMoved shows the controls and restarts the inactivity timer
func (v *Visibility) PointerMoved() {
	v.visible = true
	v.Stop()
	v.timer = v.sched.AfterFunc(v.delay, v.expire)
}

// Stop cancels the inactivity timer without changing visibility
func (v *Visibility) Stop() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *Visibility) expire() {
	v.timer = nil
	if v.panelOpen != nil && v.panelOpen() {
		return
	}
	v.visible = false
}
