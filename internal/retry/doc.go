// Package retry provides automatic retry logic with exponential backoff
// for transient MySQL connection failures.
//
// # Example Usage
//
//	classifier := retry.NewMySQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
//
// # Error Classification
//
// MySQLErrorClassifier treats server errors such as "too many connections"
// (1040), lock wait timeouts (1205) and deadlocks (1213) as transient, along
// with dropped driver connections and network failures. Authentication and
// unknown-database errors are fatal.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnRetry returns a copy.
package retry
