package outbound

// AuditMetrics counts audit log writes.
type AuditMetrics interface {
	AuditEntryWritten(action string)
	AuditEntryFailed(action string)
}
