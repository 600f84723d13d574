package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Registry  *service.SessionRegistry
	Orders    *service.OrderService
	Articles  *service.ArticleService
	Users     *service.UserService
	Stats     *service.StatsService
	Logger    *slog.Logger
	// Cookie configuration
	CookieName   string
	CookieDomain string
}

// NewRouter creates and configures a new HTTP router. Every route below the
// session middleware sees its browser session; the role gates run the
// no-session check before the role check.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Registry:     services.Registry,
		CookieName:   services.CookieName,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	orderHandlers := &OrderHandlers{Svc: services.Orders}
	articleHandlers := &ArticleHandlers{Svc: services.Articles}
	userHandlers := &UserHandlers{Svc: services.Users}
	dashboardHandlers := &DashboardHandlers{Svc: services.Stats}

	registerAuthRoutes(mux, authHandlers)
	registerOrderRoutes(mux, orderHandlers)
	registerArticleRoutes(mux, articleHandlers)
	registerUserRoutes(mux, userHandlers)
	registerDashboardRoutes(mux, dashboardHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	// Signed-in users never see the login form; they land on the dashboard.
	mux.Handle("GET /login", RedirectAuthenticated("/")(http.HandlerFunc(loginViewHandler)))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(h.Session))
	mux.Handle("PATCH /api/auth/profile", RequireAuth()(http.HandlerFunc(h.UpdateProfile)))
	mux.Handle("GET /api/notifications", RequireAuth()(http.HandlerFunc(h.Notifications)))
}

func registerOrderRoutes(mux *http.ServeMux, h *OrderHandlers) {
	manage := RequireCapability(domainauth.Role.CanManageOrders)
	del := RequireCapability(domainauth.Role.CanDeleteOrders)

	mux.Handle("GET /api/orders", RequireAuth()(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/orders", RequireAuth()(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/orders/{id}", RequireAuth()(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/orders/{id}", manage(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/orders/{id}", del(http.HandlerFunc(h.Delete)))
}

func registerArticleRoutes(mux *http.ServeMux, h *ArticleHandlers) {
	manage := RequireCapability(domainauth.Role.CanManageInventory)

	mux.Handle("GET /api/articles", RequireAuth()(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/articles/{id}", RequireAuth()(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/articles", manage(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/articles/{id}", manage(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/articles/{id}", manage(http.HandlerFunc(h.Delete)))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers) {
	admin := RequireCapability(domainauth.Role.CanAddUsers)

	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/users", admin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/users/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.Delete)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers) {
	reports := RequireCapability(domainauth.Role.CanViewReports)

	mux.Handle("GET /api/dashboard/stats", reports(http.HandlerFunc(h.Stats)))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func loginViewHandler(w http.ResponseWriter, _ *http.Request) {
	writeLoginPage(w)
}
