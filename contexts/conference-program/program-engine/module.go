package programengine

import (
	"log/slog"

	httpadapter "confhub/contexts/conference-program/program-engine/adapters/http"
	"confhub/contexts/conference-program/program-engine/adapters/memory"
	"confhub/contexts/conference-program/program-engine/application/commands"
	"confhub/contexts/conference-program/program-engine/application/queries"
	"confhub/contexts/conference-program/program-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Notifier   ports.Notifier
	Metrics    ports.Metrics
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	repo := deps.Repository
	return Module{
		Handler: httpadapter.Handler{
			Allocations: commands.AllocateReviewersUseCase{
				UnitOfWork:  repo,
				Submissions: repo,
				Reviewers:   repo,
				Assignments: repo,
				Generations: repo,
				Notifier:    deps.Notifier,
				Metrics:     deps.Metrics,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Logger:      deps.Logger,
			},
			Manual: commands.ManualAssignmentUseCase{
				UnitOfWork:  repo,
				Submissions: repo,
				Reviewers:   repo,
				Assignments: repo,
				Notifier:    deps.Notifier,
				Metrics:     deps.Metrics,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Logger:      deps.Logger,
			},
			Programs: commands.GenerateProgramUseCase{
				UnitOfWork:  repo,
				Events:      repo,
				Submissions: repo,
				Topics:      repo,
				Sessions:    repo,
				Generations: repo,
				Metrics:     deps.Metrics,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Logger:      deps.Logger,
			},
			Sessions: commands.SessionUseCase{
				UnitOfWork:  repo,
				Events:      repo,
				Submissions: repo,
				Sessions:    repo,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Logger:      deps.Logger,
			},
			Agendas: commands.AgendaUseCase{
				UnitOfWork: repo,
				Sessions:   repo,
				Agendas:    repo,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: repo,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one memory store, which also records
// outgoing notifications.
func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Notifier:   store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
