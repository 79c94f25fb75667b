package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/adapters"
)

// Snippet activates the given modules and locates a startup snippet in the
// startup folders they publish.
func (s Service) Snippet(ctx context.Context, req SnippetRequest) (SnippetResult, error) {
	name := strings.TrimSpace(req.Snippet)
	if name == "" {
		return SnippetResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("snippet name is required")
	}
	engine, _, _ := s.checkEngine(req.Config, adapters.NewMapEnvironment(s.Env.Environ()))
	for _, module := range req.Modules {
		if _, err := engine.Require(ctx, module.Module, module.Version); err != nil {
			return SnippetResult{}, err
		}
	}
	path, err := engine.LocateSnippet(name)
	if err != nil {
		return SnippetResult{}, err
	}
	return SnippetResult{Path: path}, nil
}
