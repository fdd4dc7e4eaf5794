package util

const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
