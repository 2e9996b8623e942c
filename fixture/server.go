package fixture

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/aluiziolira/swell-carousel/onboarding"
	"github.com/aluiziolira/swell-carousel/parser"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

// Server answers the recommendation API from fixture data and remembers
// the interactions it received.
type Server struct {
	data *Data

	mu          sync.Mutex
	likes       map[models.ID]int
	views       map[models.ID][]int
	preferences []api.PreferencesRequest
}

// NewServer builds a server over data.
func NewServer(data *Data) *Server {
	return &Server{
		data:  data,
		likes: make(map[models.ID]int),
		views: make(map[models.ID][]int),
	}
}

// App returns a fiber app with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(AppConfig())
	s.RegisterRoutes(app)
	return app
}

// AppConfig is the fiber configuration the fixture is served with. Values
// read from a request stay valid after the handler returns.
func AppConfig() fiber.Config {
	return fiber.Config{DisableStartupMessage: true, Immutable: true}
}

// outfitID copies the route id out of the request buffer so it can be kept
// as a map key on any router.
func outfitID(c *fiber.Ctx) models.ID {
	return models.ID(utils.CopyString(c.Params("id")))
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r fiber.Router) {
	r.Get("/recommendations", s.getRecommendations)
	r.Get("/users/preferences/options", s.getOptions)
	r.Post("/users/preferences", s.postPreferences)
	r.Post("/outfits/:id/favorite", s.postFavorite)
	r.Post("/outfits/:id/view", s.postView)
}

// Likes returns how many times id was liked.
func (s *Server) Likes(id models.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[id]
}

// Views returns the durations logged for id.
func (s *Server) Views(id models.ID) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.views[id]...)
}

// Preferences returns every submission received.
func (s *Server) Preferences() []api.PreferencesRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.PreferencesRequest(nil), s.preferences...)
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func queryInt(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Server) getRecommendations(c *fiber.Ctx) error {
	page, valid := queryInt(c, "page", 1)
	if !valid || page < 1 {
		return fail(c, fiber.StatusBadRequest, "page must be a positive integer")
	}
	limit, valid := queryInt(c, "limit", defaultLimit)
	if !valid || limit < 1 || limit > maxLimit {
		return fail(c, fiber.StatusBadRequest, "limit must be between 1 and 50")
	}

	all := s.data.filter(parser.NormalizeGender(c.Query("gender")))
	total := len(all)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	slog.Debug("serving recommendations",
		slog.Int("page", page),
		slog.Int("limit", limit),
		slog.Int("count", end-start),
	)

	return ok(c, models.RecommendationPage{
		Outfits: all[start:end],
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

func (s *Server) getOptions(c *fiber.Ctx) error {
	return ok(c, s.data.Options)
}

func (s *Server) postPreferences(c *fiber.Ctx) error {
	var req api.PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if v := onboardingMessage(req); v != "" {
		return fail(c, fiber.StatusBadRequest, v)
	}

	s.mu.Lock()
	s.preferences = append(s.preferences, req)
	s.mu.Unlock()
	return ok(c, api.PreferencesResult{Message: "선호도가 저장되었습니다."})
}

// onboardingMessage returns the first failed rule for req, or "".
func onboardingMessage(req api.PreferencesRequest) string {
	if v := onboarding.ValidateTags(len(req.HashtagIDs), onboarding.MinTags, onboarding.MaxTags); !v.Valid {
		return v.Message
	}
	if v := onboarding.ValidateOutfits(len(req.SampleOutfitIDs), onboarding.RequiredOutfits); !v.Valid {
		return v.Message
	}
	return ""
}

func (s *Server) postFavorite(c *fiber.Ctx) error {
	id := outfitID(c)
	if _, found := s.data.find(id); !found {
		return fail(c, fiber.StatusNotFound, "코디를 찾을 수 없습니다.")
	}

	s.mu.Lock()
	s.likes[id]++
	s.mu.Unlock()
	return ok(c, fiber.Map{"outfitId": id, "isFavorited": true})
}

type viewBody struct {
	DurationSeconds *int `json:"durationSeconds"`
}

func (s *Server) postView(c *fiber.Ctx) error {
	id := outfitID(c)
	if _, found := s.data.find(id); !found {
		return fail(c, fiber.StatusNotFound, "코디를 찾을 수 없습니다.")
	}
	var body viewBody
	if err := c.BodyParser(&body); err != nil || body.DurationSeconds == nil || *body.DurationSeconds < 0 {
		return fail(c, fiber.StatusBadRequest, "durationSeconds must be a non-negative integer")
	}

	s.mu.Lock()
	s.views[id] = append(s.views[id], *body.DurationSeconds)
	s.mu.Unlock()
	return ok(c, fiber.Map{"outfitId": id})
}
