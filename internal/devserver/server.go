// Package devserver is an in-memory rendition of the legacy clinic backend:
// the same endpoints, wire shapes, and single-session rule, seeded with a
// small data set. Integration tests run the client core against it, and
// clinicd serves it for local development. It is not a production backend.
package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Wire shapes exactly as the legacy backend emits them.
type paciente struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Edad   int    `json:"edad"`
	Genero string `json:"genero"`
}

type inventario struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

type empleado struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Puesto string `json:"puesto"`
}

type habitacion struct {
	ID     int64  `json:"id"`
	Numero string `json:"numero"`
	Tipo   string `json:"tipo"`
}

type historial struct {
	ID          int64  `json:"id"`
	PacienteID  int64  `json:"pacienteId"`
	Fecha       string `json:"fecha"`
	Diagnostico string `json:"diagnostico"`
	Tratamiento string `json:"tratamiento"`
	Notas       string `json:"notas"`
}

type cita struct {
	ID       int64  `json:"id"`
	Paciente string `json:"paciente"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Motivo   string `json:"motivo"`
}

type userPayload struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	CreatedBy *int64 `json:"created_by"`
}

const sessionClosedMessage = "session closed from another device"

// Server hosts the reference backend.
type Server struct {
	echo   *echo.Echo
	store  *Store
	secret string
	ttl    time.Duration
	log    zerolog.Logger
}

func New(jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *Server {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	s := &Server{
		echo:   echo.New(),
		store:  newStore(),
		secret: jwtSecret,
		ttl:    tokenTTL,
		log:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// Each server owns its registry so several instances can coexist in
	// one process; registering twice in the default registry panics.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinicd",
		Registerer: reg,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: reg,
	}))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/login", s.login)

	api := e.Group("/api", s.auth)
	registerCRUD(api, "/pacientes", s.store.pacientes)
	registerCRUD(api, "/inventario", s.store.inventario)
	registerCRUD(api, "/empleados", s.store.empleados)
	registerCRUD(api, "/habitaciones", s.store.habitaciones)
	registerCRUD(api, "/historial", s.store.historial)
	registerCRUD(api, "/citas", s.store.citas)

	users := api.Group("/users", roleGate("admin", "superadmin"))
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.DELETE("/:id", s.deleteUser)
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start blocks serving on addr.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

// ── Auth ─────────────────────────────────────────────────────────────────────

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	acc, ok := s.store.findAccount(req.Username)
	if !ok || bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"username": acc.Username,
		"role":     acc.Role,
		"jti":      jti,
		"exp":      time.Now().Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token generation failed"})
	}

	// Single-session rule: this login kicks any previous token for the user.
	s.store.bindSession(acc.Username, jti)
	s.log.Info().Str("username", acc.Username).Str("role", acc.Role).Msg("login")

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":       acc.ID,
			"username": acc.Username,
			"role":     acc.Role,
		},
	})
}

// auth validates the bearer JWT and enforces the single-session rule.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		username, _ := claims["username"].(string)
		jti, _ := claims["jti"].(string)
		if !s.store.sessionActive(username, jti) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": sessionClosedMessage})
		}

		c.Set("username", username)
		c.Set("role", claims["role"])
		return next(c)
	}
}

// roleGate restricts a route group to the given roles.
func roleGate(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// ── Resource CRUD ────────────────────────────────────────────────────────────

func registerCRUD[T any](g *echo.Group, base string, col *collection[T]) {
	g.GET(base, func(c echo.Context) error {
		return c.JSON(http.StatusOK, col.list())
	})

	g.POST(base, func(c echo.Context) error {
		var in T
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		return c.JSON(http.StatusCreated, col.insert(in))
	})

	g.PUT(base+"/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		var in T
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		updated, ok := col.replace(id, in)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusOK, updated)
	})

	g.DELETE(base+"/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if !col.remove(id) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.NoContent(http.StatusNoContent)
	})
}

// ── Users ────────────────────────────────────────────────────────────────────

func (s *Server) listUsers(c echo.Context) error {
	accounts := s.store.listAccounts()
	out := make([]userPayload, len(accounts))
	for i, a := range accounts {
		out[i] = userPayload{ID: a.ID, Username: a.Username, Role: a.Role, CreatedBy: a.CreatedBy}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createUser(c echo.Context) error {
	var in userPayload
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if in.Username == "" || in.Password == "" || in.Role == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username, password and role are required"})
	}

	// Only superadmin may mint admin or superadmin accounts.
	callerRole, _ := c.Get("role").(string)
	if (in.Role == "admin" || in.Role == "superadmin") && callerRole != "superadmin" {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
	}

	var createdBy *int64
	if username, _ := c.Get("username").(string); username != "" {
		if caller, ok := s.store.findAccount(username); ok {
			createdBy = &caller.ID
		}
	}

	acc, ok := s.store.addAccount(in.Username, in.Password, in.Role, createdBy)
	if !ok {
		return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
	}
	return c.JSON(http.StatusCreated, userPayload{ID: acc.ID, Username: acc.Username, Role: acc.Role, CreatedBy: acc.CreatedBy})
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if !s.store.removeAccount(id) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
