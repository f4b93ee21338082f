package recorder

// NoopRecorder is a no-op implementation used when no failure log is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordFailure(_ *FailureRecord) error { return nil }
func (n *NoopRecorder) Close() error                         { return nil }
