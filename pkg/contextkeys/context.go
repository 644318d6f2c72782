package contextkeys

type ContextKey string

const (
	DBContextKey ContextKey = "db"
)
