package eventlog

// Logger is a thin severity-named facade over a Log. Debug, Warning,
// Error, and Critical all record at "INFO" — append_message's level
// argument is never threaded through from the calling method's name, a
// quirk inherited unchanged from the logger this package replaces. Info
// is therefore the only method whose name matches the level it actually
// records.
type Logger struct {
	log *Log
}

// NewLogger wraps log in a Logger.
func NewLogger(log *Log) *Logger {
	return &Logger{log: log}
}

// Log returns the wrapped Log.
func (l *Logger) Log() *Log { return l.log }

func (l *Logger) Debug(message string) (MessageLogged, error) {
	return l.log.AppendMessage(message, "INFO")
}

func (l *Logger) Info(message string) (MessageLogged, error) {
	return l.log.AppendMessage(message, "INFO")
}

func (l *Logger) Warning(message string) (MessageLogged, error) {
	return l.log.AppendMessage(message, "INFO")
}

func (l *Logger) Error(message string) (MessageLogged, error) {
	return l.log.AppendMessage(message, "INFO")
}

func (l *Logger) Critical(message string) (MessageLogged, error) {
	return l.log.AppendMessage(message, "INFO")
}
