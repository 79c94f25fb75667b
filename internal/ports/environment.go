package ports

// EnvironmentPort reads and publishes named process variables.
type EnvironmentPort interface {
	Get(name string) (string, bool)
	Set(name string, value string) error
	Environ() []string
}
