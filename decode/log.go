package decode

// logger is the minimal surface the scanner needs for debug-level tracing.
// *logrus.Logger satisfies it without any adapter; library code never logs
// unconditionally, so the zero value (nopLogger) is the default.
type logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
