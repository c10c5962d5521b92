package fetch

// Logger receives request traces (debug) and recoverable failures (warn).
// The client never logs at other levels.
type Logger interface {
	DebugObj(msg, key string, obj any)
	WarnObj(msg, key string, obj any)
}

type discard struct{}

func (discard) DebugObj(string, string, any) {}
func (discard) WarnObj(string, string, any)  {}

func orDiscard(log Logger) Logger {
	if log != nil {
		return log
	}
	return discard{}
}
