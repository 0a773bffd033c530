package redisx

const (
	// session:{session_id} -> JSON session
	KeySession = "session:%s"

	// employee_sessions:{employee_id} -> set of session ids
	KeyEmployeeSessions = "employee_sessions:%s"

	// idem:{scope}:{key} -> resource id
	KeyIdempotency = "idem:%s:%s"
)
