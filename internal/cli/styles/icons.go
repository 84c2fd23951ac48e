package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "" //  tag
	IconGitBranch = "" //  git branch
	IconCalendar  = "" //  calendar
	IconGo        = "" //  go gopher

	// Doctor / diagnostics
	IconDoctor  = "" // stethoscope
	IconCheck   = "" // check
	IconX       = "" // x
	IconWarning = "" // warning

	// UI
	IconCursor = "" // chevron-right

	// Windows / sessions
	IconWindow   = "" // window
	IconTab      = "" // table
	IconFolder   = "" // folder
	IconClock    = "" // clock
	IconStop     = "" // stop (exited)
	IconRestore  = "" // rotate-left (restore)
	IconExpand   = "" // expand
	IconCollapse = "" // compress
	IconFilter   = "" // filter
)
