package core

// Logger is implemented by the logging services. Implementations may inspect
// args for well-known types (errors, the acting actor) and attach them to the
// report.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
