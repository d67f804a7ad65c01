package router

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "health-records/docs"
	mem "health-records/internal/adapters/storage/memory"
	"health-records/internal/domain/records"
	"health-records/internal/middleware"
	"health-records/internal/platform/logger"
)

type Options struct {
	// Opcional: si no viene, in-memory (se pierde al reiniciar).
	Store records.Store

	// Opcional: publica record.submitted después de cada append.
	Notifier records.Notifier

	Logger logger.Logger
	Policy records.ReadPolicy

	// Directorio con index.html y assets. Vacío = no se sirve UI.
	StaticDir string

	// Archivos dentro de StaticDir que nunca se sirven (p.ej. el data.json).
	// Los dotfiles (.env, .git) tampoco se sirven nunca.
	StaticHide []string

	// Default: ["*"].
	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log.With(logger.Fields{"component": "http"})))
	r.Use(middleware.Recover(log))
	r.Use(corsHandler(opts.CORSOrigins))

	r.Get("/health", healthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if dir := strings.TrimSpace(opts.StaticDir); dir != "" {
		mountStatic(r, dir, opts.StaticHide)
	}

	store := opts.Store
	if store == nil {
		store = mem.NewRecordRepo()
	}

	svc := records.NewService(store, records.Options{
		Notifier: opts.Notifier,
		Logger:   log,
		Policy:   opts.Policy,
	})

	records.RegisterRoutes(r, svc)

	return r
}

// healthHandler godoc
// @Summary Liveness
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// corsHandler permite cualquier método y header; solo el origen es configurable.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		// todos los métodos estándar
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
			http.MethodConnect, http.MethodTrace,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

// mountStatic sirve la UI: "/" es index.html, "/static/*" el resto del directorio.
func mountStatic(r chi.Router, dir string, hide []string) {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	hidden := make(map[string]bool, len(hide))
	for _, h := range hide {
		if abs, err := filepath.Abs(h); err == nil {
			hidden[abs] = true
		}
	}

	index := filepath.Join(root, "index.html")
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, index)
	})

	files := http.StripPrefix("/static/", http.FileServer(http.Dir(root)))
	r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rel := path.Clean("/" + strings.TrimPrefix(req.URL.Path, "/static/"))
		if hasDotSegment(rel) || hidden[filepath.Join(root, filepath.FromSlash(rel))] {
			http.NotFound(w, req)
			return
		}
		files.ServeHTTP(w, req)
	}))
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
