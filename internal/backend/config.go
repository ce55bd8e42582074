package backend

// Type selects the snapshot backend.
type Type string

const (
	JSONFile Type = "json"
	SQLite   Type = "sqlite"
	Memory   Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case JSONFile, SQLite, Memory:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to open its store.
type Config struct {
	Type Type

	// JSON file backend
	LedgerFile string

	// SQLite backend
	SQLiteDBPath string
}
