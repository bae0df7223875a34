package router

import (
	authapp "github.com/ankicc/backend/internal/application"
	"github.com/ankicc/backend/internal/container"
	repouser "github.com/ankicc/backend/internal/domain/repository"
	pginfra "github.com/ankicc/backend/internal/infrastructure/postgres"
	handlers "github.com/ankicc/backend/internal/interface/http"
	"github.com/ankicc/backend/internal/router/modules"
)

type AuthModuleDeps struct {
	Repo    repouser.UserRepository
	Service *authapp.Service
	Handler *handlers.AuthHandler
}

func buildAuthDeps() AuthModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := authapp.NewService(
		repo,
		container.GetJWT(),
		container.GetRabbitPub(),
		container.GetLogger(),
	)

	handler := handlers.NewAuthHandler(service, container.GetLogger())

	return AuthModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	authDeps := buildAuthDeps()
	health := handlers.NewHealthHandler(container.GetPGPool(), authDeps.Service)

	r.Add(modules.NewAuthModule(authDeps.Handler, container.GetJWT()))
	r.Add(modules.NewHealthModule(health))
	if container.GetConfig().DebugEndpointsEnabled {
		r.Add(modules.NewDebugModule(health))
	}
}
