package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level, giving
// interactive fights an audit trail of what the RNG decided.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a LoggedSource drawing from src and logging to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("rng intn", zap.Int("n", n), zap.Int("value", v))
	return v
}

// Float64 draws from the wrapped source and logs the result.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("rng float64", zap.Float64("value", v))
	return v
}
