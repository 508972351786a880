package routes

import (
	"connect/internal/config"
	"connect/internal/database"
	"connect/internal/delivery/http/handler"
	"connect/internal/delivery/http/middleware"
	"connect/internal/pkg/jwt"
	"connect/internal/repository"
	"connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health      *handler.HealthHandler
	auth        *handler.AuthHandler
	users       *handler.UserHandler
	skills      *handler.SkillHandler
	needs       *handler.NeedHandler
	categories  *handler.CategoryHandler
	requests    *handler.RequestHandler
	connections *handler.ConnectionHandler

	authMw *middleware.AuthMiddleware
}

func NewRegistry(cfg config.Config, db database.DB, cacheStore usecase.Cache) *Registry {
	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	needRepo := repository.NewPostgresNeedRepository(db)
	requestRepo := repository.NewPostgresRequestRepository(db)
	connectionRepo := repository.NewPostgresConnectionRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authUc := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUc := usecase.NewUserUsecase(userRepo, skillRepo, needRepo)
	skillUc := usecase.NewSkillUsecase(skillRepo, cacheStore, cfg.Redis.CacheTTL)
	needUc := usecase.NewNeedUsecase(needRepo)
	requestUc := usecase.NewRequestUsecase(requestRepo, skillRepo)
	connectionUc := usecase.NewConnectionUsecase(connectionRepo, userRepo)

	return &Registry{
		health:      handler.NewHealthHandler(db),
		auth:        handler.NewAuthHandler(authUc),
		users:       handler.NewUserHandler(userUc),
		skills:      handler.NewSkillHandler(skillUc),
		needs:       handler.NewNeedHandler(needUc),
		categories:  handler.NewCategoryHandler(),
		requests:    handler.NewRequestHandler(requestUc),
		connections: handler.NewConnectionHandler(connectionUc),
		authMw:      middleware.NewAuthMiddleware(jwtSvc, userRepo),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.registerAPI(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	required := r.authMw.Middleware()
	optional := r.authMw.Optional()

	r.auth.RegisterRoutes(v1.Group("/auth"))
	r.categories.RegisterRoutes(v1.Group("/categories"))

	// For groups mixing fixed and parameterized paths the protected routes
	// register first, so /users/me and /skills/mine win over /:id.
	r.users.RegisterProtectedRoutes(v1.Group("/users", required))
	r.users.RegisterPublicRoutes(v1.Group("/users"))

	r.skills.RegisterProtectedRoutes(v1.Group("/skills", required))
	r.skills.RegisterPublicRoutes(v1.Group("/skills", optional))

	r.needs.RegisterProtectedRoutes(v1.Group("/needs", required))
	r.needs.RegisterPublicRoutes(v1.Group("/needs", optional))

	r.requests.RegisterRoutes(v1.Group("/requests", required))
	r.connections.RegisterRoutes(v1.Group("/connections", required))
}
