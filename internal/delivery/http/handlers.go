package http

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/internal/service"
	"github.com/weatherapp/backend/pkg/logger"
)

// SessionCookie names the cookie carrying the session ID
const SessionCookie = "weather_session"

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	sessions *service.SessionManager
	weather  *service.WeatherService
	resolver service.Resolver // used when the page reports no position
	repo     service.HistoryRepository
	logger   *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(
	sessions *service.SessionManager,
	weather *service.WeatherService,
	resolver service.Resolver,
	repo service.HistoryRepository,
	log *logger.Logger,
) *Handler {
	return &Handler{
		sessions: sessions,
		weather:  weather,
		resolver: resolver,
		repo:     repo,
		logger:   log.Named("http"),
	}
}

// locateRequest is what the page posts after calling the browser
// geolocation API
type locateRequest struct {
	Lat   *float64 `json:"lat" form:"lat"`
	Lon   *float64 `json:"lon" form:"lon"`
	Error string   `json:"error" form:"error"`
}

type queryRequest struct {
	City string `json:"city" form:"city"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		h.logger.Warn("History storage unhealthy", logger.Error(err))
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"service": "weather-app",
		"version": Version,
	})
}

// Page renders the single page for the caller's session
func (h *Handler) Page(c *fiber.Ctx) error {
	sess := h.session(c)

	var buf bytes.Buffer
	if err := renderPage(&buf, sess.View()); err != nil {
		h.logger.Error("Failed to render page", logger.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Locate runs the mount transition with the position the page reported
func (h *Handler) Locate(c *fiber.Ctx) error {
	sess := h.session(c)

	var req locateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	view := sess.Mount(c.Context(), h.resolverFor(req))
	return h.respond(c, view)
}

// SetQuery changes the session query
func (h *Handler) SetQuery(c *fiber.Ctx) error {
	sess := h.session(c)

	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	// form values alias fiber's request buffer; the session outlives it
	view := sess.SetQuery(c.Context(), utils.CopyString(req.City))
	return h.respond(c, view)
}

// Submit is the explicit "Get Weather" action: it adopts the posted city and
// re-issues the lookup when the city did not change
func (h *Handler) Submit(c *fiber.Ctx) error {
	sess := h.session(c)

	var req queryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		req.City = utils.CopyString(req.City)
	} else {
		req.City = sess.Query()
	}

	var view domain.View
	if req.City != sess.Query() {
		view = sess.SetQuery(c.Context(), req.City)
	} else {
		view = sess.Submit(c.Context())
	}
	return h.respond(c, view)
}

// GetSession returns the caller's current view
func (h *Handler) GetSession(c *fiber.Ctx) error {
	return c.JSON(h.session(c).View())
}

// GetWeather performs a one-off lookup by city or by lat/lon
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	ctx := c.Context()

	var (
		weather domain.Weather
		err     error
	)
	city := strings.TrimSpace(c.Query("city"))
	switch {
	case city != "":
		weather, err = h.weather.FetchByName(ctx, city)
	case c.Query("lat") != "" && c.Query("lon") != "":
		pos := domain.Coordinates{
			Latitude:  c.QueryFloat("lat", 1000),
			Longitude: c.QueryFloat("lon", 1000),
		}
		if !pos.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "lat/lon out of range")
		}
		weather, err = h.weather.FetchByCoordinates(ctx, pos.Latitude, pos.Longitude)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "city or lat/lon is required")
	}

	if err != nil {
		f := domain.AsFailure(err)
		return c.Status(failureStatus(f)).JSON(fiber.Map{
			"error":   true,
			"kind":    f.Kind,
			"message": f.Message,
		})
	}

	return c.JSON(domain.WeatherResponse{
		Data:    weather,
		IconURL: h.weather.IconURL(weather.Icon),
		Success: true,
	})
}

// GetHistory returns the most recent successful lookups
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	data, err := h.repo.RecentLookups(c.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to fetch history", logger.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch lookup history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// session returns the caller's session and refreshes the cookie
func (h *Handler) session(c *fiber.Ctx) *service.Session {
	sess := h.sessions.Get(c.Cookies(SessionCookie))
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sess
}

func (h *Handler) resolverFor(req locateRequest) service.Resolver {
	switch {
	case req.Error != "":
		return service.Reported{Err: req.Error}
	case req.Lat != nil && req.Lon != nil:
		return service.Reported{Position: domain.Coordinates{Latitude: *req.Lat, Longitude: *req.Lon}}
	default:
		return h.resolver
	}
}

// respond answers JSON callers with the view and sends form posts back to
// the page
func (h *Handler) respond(c *fiber.Ctx, view domain.View) error {
	if c.Is("json") || strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(view)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func failureStatus(f *domain.Failure) int {
	switch f.Kind {
	case domain.FailureNotFound:
		return fiber.StatusNotFound
	case domain.FailureLocationUnavailable:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

// ErrorHandler renders errors as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
