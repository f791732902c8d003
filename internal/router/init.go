package router

import (
	"github.com/jobtrackio/jobtrack-api/internal/application"
	"github.com/jobtrackio/jobtrack-api/internal/container"
	pginfra "github.com/jobtrackio/jobtrack-api/internal/infrastructure/postgres"
	handlers "github.com/jobtrackio/jobtrack-api/internal/interface/http"
	"github.com/jobtrackio/jobtrack-api/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewAuthService(
		repo,
		container.GetJWT(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetConfig().MailSendEnabled,
	)
	h := handlers.NewAuthHandler(svc, container.GetLogger())
	return modules.NewAuthModule(h, container.GetJWT())
}

func buildJobModule() *modules.JobModule {
	cfg := container.GetConfig()
	repo := pginfra.NewJobRepository(container.GetPGPool())
	svc := application.NewJobService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESJobsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)
	h := handlers.NewJobHandler(svc, container.GetLogger())
	return modules.NewJobModule(h, container.GetJWT())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
	r.Add(buildJobModule())
}
