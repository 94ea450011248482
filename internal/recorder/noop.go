package recorder

// NoopRecorder discards all records. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordTrade(*TradeEvent) error { return nil }
func (*NoopRecorder) RecordCycle(*CycleEvent) error { return nil }
func (*NoopRecorder) Close() error                  { return nil }
