package dispenserservice

import (
	"log/slog"

	httpadapter "drophub/contexts/claim-delivery/dispenser-service/adapters/http"
	"drophub/contexts/claim-delivery/dispenser-service/adapters/memory"
	"drophub/contexts/claim-delivery/dispenser-service/application/cache"
	"drophub/contexts/claim-delivery/dispenser-service/application/commands"
	"drophub/contexts/claim-delivery/dispenser-service/application/queries"
	"drophub/contexts/claim-delivery/dispenser-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.UseCase
	Queries  queries.UseCase
	Store    *memory.Store
}

type Dependencies struct {
	Dispensers    ports.DispenserStore
	Links         ports.LinkStore
	Whitelist     ports.WhitelistStore
	Verifications ports.VerificationStore
	Handles       ports.HandleStore
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Verifier      ports.ProofVerifier
	Notifier      ports.ScanNotifier
	Claims        ports.ClaimCounter
	ReclaimApp    commands.ReclaimAppConfig
	ScanSigPrefix string
	ServerURL     string
	AppURL        string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	counters := cache.NewPoppedCounters()
	handleCache := cache.NewHandleWhitelist()

	commandUseCase := commands.UseCase{
		Dispensers:    deps.Dispensers,
		Links:         deps.Links,
		Whitelist:     deps.Whitelist,
		Verifications: deps.Verifications,
		Handles:       deps.Handles,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		Verifier:      deps.Verifier,
		Notifier:      deps.Notifier,
		Counters:      counters,
		HandleCache:   handleCache,
		ReclaimApp:    deps.ReclaimApp,
		ScanSigPrefix: deps.ScanSigPrefix,
		Logger:        deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Dispensers: deps.Dispensers,
		Links:      deps.Links,
		Whitelist:  deps.Whitelist,
		Claims:     deps.Claims,
		Counters:   counters,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands:  commandUseCase,
			Queries:   queryUseCase,
			ServerURL: deps.ServerURL,
			AppURL:    deps.AppURL,
			Logger:    deps.Logger,
		},
		Commands: commandUseCase,
		Queries:  queryUseCase,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Dispensers:    store,
		Links:         store,
		Whitelist:     store,
		Verifications: store,
		Handles:       store,
		Clock:         store,
		IDGenerator:   store,
		Verifier:      memory.Verifier{},
		Notifier:      &memory.Notifier{},
		Claims:        memory.ClaimCounter{},
		ReclaimApp: commands.ReclaimAppConfig{
			AppID:      "test-app",
			AppSecret:  "test-secret",
			ProviderID: "test-provider",
		},
		ScanSigPrefix: "signing claim link for",
		ServerURL:     "http://localhost:4000",
		AppURL:        "http://localhost:3000",
		Logger:        logger,
	})
	module.Store = store
	return module
}
