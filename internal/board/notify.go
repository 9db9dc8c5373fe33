package board

import "github.com/javiermolinar/dayboard/internal/logger"

// Notice is a user-facing message about persistence.
type Notice struct {
	Message string
	Err     error
}

// Failed reports whether the notice describes an error.
func (n Notice) Failed() bool {
	return n.Err != nil
}

func (n Notice) String() string {
	if n.Err != nil {
		return n.Message + ": " + n.Err.Error()
	}
	return n.Message
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// LogNotifier writes notices to the global logger. It is the default when
// no interactive surface is attached.
type LogNotifier struct{}

// Notify logs n.
func (LogNotifier) Notify(n Notice) {
	if n.Failed() {
		logger.Warn(n.Message, "err", n.Err)
		return
	}
	logger.Info(n.Message)
}
