package ui

import "os"

// SignalCancelMsg is delivered to the running program when the process
// catches SIGINT or SIGTERM, giving the model a chance to finish up before
// quitting.
type SignalCancelMsg struct {
	Signal os.Signal
}
