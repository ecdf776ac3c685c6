package retry

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// MySQL server error numbers for transient conditions.
// See: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlTooManyConnections  = 1040
	mysqlOutOfResources      = 1041
	mysqlHostIsBlocked       = 1129
	mysqlLockWaitTimeout     = 1205
	mysqlTooManyUserConns    = 1203
	mysqlDeadlock            = 1213
	mysqlServerShutdown      = 1053
	mysqlConnCountError      = 1226
	mysqlReadOnlyTransaction = 1792
	mysqlServerGoneAway      = 2006
	mysqlServerLost          = 2013
	mysqlAccessDenied        = 1045
	mysqlUnknownDatabase     = 1049
	mysqlDBAccessDenied      = 1044
	mysqlUnknownAuthPlugin   = 1524
)

// MySQLErrorClassifier implements ddlcheck.ErrorClassifier for MySQL errors.
type MySQLErrorClassifier struct{}

func NewMySQLErrorClassifier() *MySQLErrorClassifier {
	return &MySQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *MySQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return isTransientServerError(myErr.Number)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	return hasTransientMessage(err)
}

// IsAuthFailure reports whether err is a credential or authorization rejection.
func IsAuthFailure(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	switch myErr.Number {
	case mysqlAccessDenied, mysqlDBAccessDenied, mysqlUnknownAuthPlugin:
		return true
	}
	return false
}

func isTransientServerError(number uint16) bool {
	switch number {
	case mysqlTooManyConnections,
		mysqlOutOfResources,
		mysqlTooManyUserConns,
		mysqlConnCountError,
		mysqlLockWaitTimeout,
		mysqlDeadlock,
		mysqlServerShutdown,
		mysqlReadOnlyTransaction,
		mysqlServerGoneAway,
		mysqlServerLost:
		return true
	case mysqlHostIsBlocked, mysqlAccessDenied, mysqlUnknownDatabase:
		return false
	}
	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{
			syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ENETUNREACH,
			syscall.EHOSTUNREACH,
		} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}

	return false
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server has gone away",
	"lost connection to mysql server",
	"unexpected eof",
	"invalid connection",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var _ ddlcheck.ErrorClassifier = (*MySQLErrorClassifier)(nil)
