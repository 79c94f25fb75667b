package cli

import "epics-require/internal/app"

func newAppService() app.Service {
	return app.NewService()
}
