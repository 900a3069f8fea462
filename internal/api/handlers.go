package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunaselene/solace/internal/billing"
	"github.com/lunaselene/solace/internal/db"
	"github.com/lunaselene/solace/internal/services"
	"go.uber.org/zap"
)

const (
	authCookieName = "solace_token"

	defaultAuthTokenTTL = 7 * 24 * time.Hour
	guestAuthTokenTTL   = 24 * time.Hour
)

type Handler struct {
	users        *db.UserRepository
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	deviceID     string
	logger       *zap.Logger

	journal   *services.JournalService
	weekly    *services.WeeklyService
	analysis  *services.AnalysisService
	export    *services.ExportService
	trialGate *services.TrialGate
	billing   *billing.Client
}

// Config carries the externally constructed collaborators. Everything is
// built once at process start and passed in explicitly; there are no ambient
// singletons to initialize in the right order.
type Config struct {
	Users        *db.UserRepository
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	DeviceID     string
	Logger       *zap.Logger

	Journal   *services.JournalService
	Weekly    *services.WeeklyService
	Analysis  *services.AnalysisService
	Export    *services.ExportService
	TrialGate *services.TrialGate
	Billing   *billing.Client
}

func NewHandler(config Config) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		users:        config.Users,
		secretKey:    []byte(config.SecretKey),
		location:     location,
		cookieSecure: config.CookieSecure,
		deviceID:     config.DeviceID,
		logger:       logger,
		journal:      config.Journal,
		weekly:       config.Weekly,
		analysis:     config.Analysis,
		export:       config.Export,
		trialGate:    config.TrialGate,
		billing:      config.Billing,
	}
}

type authClaims struct {
	UserID uint `json:"uid"`
	Guest  bool `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// session is what AuthRequired leaves in the request context. Guest sessions
// carry no user id; the journal core never creates data for them.
type session struct {
	UserID uint
	Guest  bool
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type entryInput struct {
	Emotion   string `json:"emotion"`
	FeelScore int    `json:"feel_score"`
	Theme     string `json:"theme"`
	Text      string `json:"text"`
	Gratitude string `json:"gratitude"`
}

type entryPatchInput struct {
	Emotion   *string `json:"emotion"`
	FeelScore *int    `json:"feel_score"`
	Theme     *string `json:"theme"`
	Text      *string `json:"text"`
	Gratitude *string `json:"gratitude"`
}

type purchaseInput struct {
	PlanID  string `json:"plan_id"`
	Receipt string `json:"receipt"`
}
