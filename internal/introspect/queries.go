package introspect

const (
	// queryDatabases lists every schema visible to the current principal.
	queryDatabases = `SHOW DATABASES`

	// queryTables lists base tables and views of the active database.
	queryTables = `SHOW TABLES`

	// queryUse and queryDescribe take a backtick-quoted identifier.
	queryUse      = "USE %s"
	queryDescribe = "DESCRIBE %s"
)
