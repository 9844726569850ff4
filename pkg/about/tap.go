package about

import (
	"sync"
	"time"
)

// TapAction is the outcome of tapping an entry.
type TapAction int

const (
	// TapNone means the tap falls through to default handling.
	TapNone TapAction = iota
	// TapEasterEgg opens the platform logo.
	TapEasterEgg
	// TapBlocked means the easter egg was suppressed by a restriction.
	TapBlocked
	// TapOpen launches the entry's own intent.
	TapOpen
	// TapIgnored swallows the tap because nothing handles the intent.
	TapIgnored
	// TapFeedback starts a bug report with the reporter package.
	TapFeedback
	// TapRefresh replaces the entry value with Text.
	TapRefresh
)

var tapActionNames = [...]string{
	TapNone:      "none",
	TapEasterEgg: "easter-egg",
	TapBlocked:   "blocked",
	TapOpen:      "open",
	TapIgnored:   "ignored",
	TapFeedback:  "feedback",
	TapRefresh:   "refresh",
}

func (a TapAction) String() string {
	if int(a) < len(tapActionNames) {
		return tapActionNames[a]
	}
	return "unknown"
}

// TapResult describes what the screen should do after a tap.
type TapResult struct {
	Action TapAction
	// Package is the feedback reporter for TapFeedback.
	Package string
	// Text is the new entry value for TapRefresh.
	Text string
	// AdminSupport is set on TapBlocked when the blocking restriction
	// comes from a device admin rather than the system, so the admin
	// support details can be shown.
	AdminSupport bool
}

// easterEggHits is how many taps inside the window trigger the easter egg.
const easterEggHits = 3

// DefaultTapWindow is the span in which easterEggHits taps must land.
const DefaultTapWindow = 500 * time.Millisecond

// Tapper handles taps on the about screen. It is safe for concurrent use.
type Tapper struct {
	env    *Env
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits [easterEggHits]time.Time
}

// NewTapper returns a Tapper for env. A non-positive window uses
// DefaultTapWindow; a nil clock uses time.Now.
func NewTapper(env *Env, window time.Duration, now func() time.Time) *Tapper {
	if window <= 0 {
		window = DefaultTapWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Tapper{env: env, window: window, now: now}
}

// Tap handles a tap on the entry with the given key.
func (t *Tapper) Tap(key string) TapResult {
	switch key {
	case KeyFirmwareVersion:
		return t.tapFirmware()
	case KeySecurityPatch:
		if !t.env.resolvable(ActionView) {
			t.env.log().Warn("stop click action: no activity for intent", "key", key, "action", ActionView)
			return TapResult{Action: TapIgnored}
		}
		return TapResult{Action: TapOpen}
	case KeyDeviceFeedback:
		reporter := t.env.Flags.FeedbackReporter
		if reporter == "" {
			return TapResult{Action: TapNone}
		}
		return TapResult{Action: TapFeedback, Package: reporter}
	case KeyKernelVersion:
		return TapResult{
			Action: TapRefresh,
			Text:   t.env.formatter().ReadRaw(t.env.lines()),
		}
	default:
		return TapResult{Action: TapNone}
	}
}

func (t *Tapper) tapFirmware() TapResult {
	now := t.now()

	t.mu.Lock()
	copy(t.hits[:], t.hits[1:])
	t.hits[len(t.hits)-1] = now
	oldest := t.hits[0]
	t.mu.Unlock()

	if oldest.IsZero() || now.Sub(oldest) > t.window {
		return TapResult{Action: TapNone}
	}

	r := t.env.Restrictions
	if r != nil && r.Restricted(RestrictionNoFun) {
		t.env.log().Debug("Sorry, no fun for you!")
		return TapResult{
			Action:       TapBlocked,
			AdminSupport: r.EnforcedByAdmin(RestrictionNoFun) && !r.SetBySystem(RestrictionNoFun),
		}
	}
	return TapResult{Action: TapEasterEgg}
}
