package ports

type InteractionMetrics interface {
	RecordPong()
	RecordDeferral(err error)
	RecordFollowUp(err error)
	RecordMissingPrompt()
	RecordDropped()
}

type CompletionMetrics interface {
	RecordCompletion(diagnostic bool)
}
