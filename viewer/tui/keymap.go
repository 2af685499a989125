package tui

const (
	keyQuit       = "q"
	keyCtrlC      = "ctrl+c"
	keyUp         = "up"
	keyDown       = "down"
	keyJ          = "j"
	keyK          = "k"
	keyEnter      = "enter"
	keyBack       = "esc"
	keyPlay       = " "
	keyRewind     = "left"
	keyForward    = "right"
	keyMute       = "m"
	keyVolUp      = "+"
	keyVolDown    = "-"
	keyAutoScroll = "a"
	keyNextPage   = "n"
	keyPrevPage   = "p"
	keyScrollUp   = "pgup"
	keyScrollDown = "pgdown"
	keyRefresh    = "r"
)
