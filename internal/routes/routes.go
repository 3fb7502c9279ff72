// Package routes defines HTTP route constants for the application.
package routes

// Screens
const (
	RootPath         = "/"
	SigninPath       = "/signin"
	SignoutPath      = "/signout"
	ResetRequestPath = "/reset-request"
	NewsPath         = "/news"
	EventPath        = "/event"
)

// Editor actions. Each is mounted under a screen path, e.g. /news/commit.
const (
	ActionNew        = "/new"
	ActionEdit       = "/edit/{id}"
	ActionField      = "/field"
	ActionImage      = "/image"
	ActionCommit     = "/commit"
	ActionCancel     = "/cancel"
	ActionClear      = "/clear"
	ActionDelete     = "/delete/{id}"
	ActionTags       = "/tags"
	ActionTagsRemove = "/tags/remove"
)

// Static, theme and notifications
const (
	RobotsPath        = "/robots.txt"
	ThemeToggle       = "/theme/toggle"
	ThemeOppositeIcon = "/theme/opposite-icon"

	SSEPath = "/sse"
)

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Icon  string
	Path  string
}

// Sidebar lists the links of the layout shell in display order. Sign in is
// rendered separately at the bottom of the sidebar.
var Sidebar = []NavItem{
	{Label: "Home", Icon: "🏠", Path: RootPath},
	{Label: "News", Path: NewsPath},
	{Label: "Event", Path: EventPath},
}

// Action joins a screen path and an action, e.g. Action(NewsPath, ActionCommit).
func Action(screen, action string) string {
	return screen + action
}
