// Package navguard decides whether leaving a form needs confirmation.
//
// A Guard holds at most one pending navigation. While the draft is dirty an
// attempt opens the confirmation dialog; Stay closes it, Leave consumes the
// pending target exactly once.
package navguard

import (
	"net/url"
	"strings"
	"sync"
)

// Decision is the outcome of a navigation attempt.
type Decision struct {
	// Navigate is true when the caller should go to Target now.
	Navigate bool
	Target   string
	// Prompt is true when the confirmation dialog is now open.
	Prompt bool
}

// Guard tracks the confirmation dialog of one form. It is safe for concurrent use.
type Guard struct {
	mu      sync.Mutex
	open    bool
	pending string
}

// New returns a guard with the dialog closed.
func New() *Guard {
	return &Guard{}
}

// AttemptNavigate decides a navigation to target.
// PRE: target has passed SafeTarget
// POST: Clean drafts navigate immediately; dirty drafts open the dialog with
// target pending (a later attempt replaces the pending target)
func (g *Guard) AttemptNavigate(target string, dirty bool) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !dirty {
		g.open, g.pending = false, ""
		return Decision{Navigate: true, Target: target}
	}
	g.open, g.pending = true, target
	return Decision{Prompt: true, Target: target}
}

// Stay closes the dialog without navigating.
func (g *Guard) Stay() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open, g.pending = false, ""
}

// Leave confirms the pending navigation.
// POST: Returns the target and true once; further calls return "", false
func (g *Guard) Leave() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open || g.pending == "" {
		return "", false
	}
	target := g.pending
	g.open, g.pending = false, ""
	return target, true
}

// DialogOpen reports whether the confirmation dialog is showing.
func (g *Guard) DialogOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Pending returns the target awaiting confirmation.
func (g *Guard) Pending() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// SafeTarget returns target when it is a local absolute path, otherwise fallback.
// Scheme-relative (//host), absolute URLs and backslash tricks are rejected.
func SafeTarget(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}
