package policies

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// VersionMatcher reports whether loaded satisfies requested.
type VersionMatcher func(requested string, loaded string) (bool, error)

// ValidateLoaded decides whether a module already loaded at version loaded
// may serve a new request. Empty and identical requests always pass, as do
// loaded test versions (anything not starting with a digit), which only
// produce a warning.
func ValidateLoaded(ctx context.Context, module string, requested string, loaded string, matches VersionMatcher) error {
	if requested == "" || requested == loaded {
		return nil
	}
	if isTestVersion(loaded) {
		log.Ctx(ctx).Warn().
			Str("module", module).
			Str("loaded", loaded).
			Str("requested", requested).
			Msg("test version already loaded")
		return nil
	}
	ok, err := matches(requested, loaded)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(conflictMessage(module, requested, loaded)).
			WithCause(err)
	}
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(conflictMessage(module, requested, loaded))
	}
	return nil
}

func conflictMessage(module string, requested string, loaded string) string {
	return fmt.Sprintf("version conflict: %s %s already loaded where %s was requested", module, loaded, requested)
}

func isTestVersion(version string) bool {
	return version == "" || version[0] < '0' || version[0] > '9'
}
