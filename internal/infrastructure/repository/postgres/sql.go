package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUndefinedTable    = pq.ErrorCode("42P01")
	pqProtocolViolation = pq.ErrorCode("08P01")
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// isResultFormatMismatch reports the protocol error transaction poolers raise
// when a statement asks for binary results they cannot serve. The message is
// checked too because some poolers close the connection with a plain error.
func isResultFormatMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	formatMsg := strings.Contains(msg, "bind message has") && strings.Contains(msg, "result formats")
	return formatMsg && (pqCode(err) == pqProtocolViolation || strings.Contains(msg, "query has"))
}

func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	if pqCode(err) == pqUndefinedTable {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")
}
