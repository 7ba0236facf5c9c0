package account

import (
	"context"
	"sync"
	"time"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/quiz"
)

// Routes reachable from the account menu.
const (
	PathAnalytics   = "/analytics"
	PathProfile     = "/profile"
	PathLeaderboard = "/leaderboard"
)

// Action is one entry of the menu.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

var (
	analyticsAction   = Action{Key: "analytics", Label: "analytics", Path: PathAnalytics}
	profileAction     = Action{Key: "profile", Label: "Profile", Path: PathProfile}
	leaderboardAction = Action{Key: "leaderboard", Label: "Leaderboard", Path: PathLeaderboard}
	signOutAction     = Action{Key: "sign_out", Label: "Sign Out", Path: quiz.HomePath}
)

// View is what the account dropdown renders.
type View struct {
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Image   string   `json:"image,omitempty"`
	Admin   bool     `json:"admin"`
	Actions []Action `json:"actions"`
}

// Build renders the menu for s. The action list depends on the role only.
func Build(s domain.Session) View {
	return View{
		Name:    s.Name,
		Email:   s.Email,
		Image:   s.Image,
		Admin:   s.IsAdmin(),
		Actions: actionsFor(s.Role),
	}
}

func actionsFor(role domain.Role) []Action {
	if role == domain.RoleAdmin {
		return []Action{analyticsAction, profileAction, leaderboardAction, signOutAction}
	}
	return []Action{profileAction, leaderboardAction, signOutAction}
}

// Terminator ends a session with the auth provider.
type Terminator interface {
	Terminate(ctx context.Context, s domain.Session) error
}

// Navigator moves the user's view to path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Menu drives the sign-out transition.
type Menu struct {
	terminator Terminator
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewMenu(terminator Terminator, timeout time.Duration) *Menu {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Menu{terminator: terminator, timeout: timeout}
}

// SignOut starts terminating s and navigates home right away. Navigation
// does not wait for, or depend on, the termination result.
func (m *Menu) SignOut(s domain.Session, nav Navigator) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		if err := m.terminator.Terminate(ctx, s); err != nil {
			logger.Error("sign out failed", "error", err, "user_id", s.UserID)
		}
	}()

	nav.Navigate(quiz.HomePath)
}

// Wait blocks until every started termination has returned.
func (m *Menu) Wait() {
	m.wg.Wait()
}
