package usecase

import "go.uber.org/zap"

// AlertSink receives the user-facing alerts raised when a remote call
// fails. The raw collaborator error message is passed through; nothing is
// retried and nothing is swallowed.
type AlertSink interface {
	Alert(message string)
}

// LogAlerts is the default sink when no view layer is attached.
type LogAlerts struct {
	Log *zap.SugaredLogger
}

func (a LogAlerts) Alert(message string) {
	a.Log.Warnw("alert", "message", message)
}
