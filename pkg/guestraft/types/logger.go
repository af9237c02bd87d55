package types

// Logger is the logging contract shared by the host and every guest.
// DefaultLogger (package definition) is the only implementation backing
// it, wired to logrus so every line carries structured fields.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// ToggleDebug enables or disables Debug/Debugf output, returning the
	// new value.
	ToggleDebug(value bool) bool

	// WithFields returns a Logger that prefixes every subsequent line with
	// the given structured fields (instance id, role, term, rpc kind, ...).
	WithFields(fields map[string]interface{}) Logger
}
