// Package config reads process configuration from the environment. A .env file in the working
// directory is loaded first.
package config

import (
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is everything the server reads at startup.
type Config struct {
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":4101"`
	SocketAddr string `env:"SOCKET_ADDR" envDefault:":8000"`
	// AllowedOrigins is the CORS allow list of the socket.io endpoint.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	JWTSecret      string   `env:"JWT_SECRET" envDefault:"secret"`

	DB    DB    `envPrefix:"DB_"`
	Redis Redis `envPrefix:"REDIS_"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	TurnCadence        time.Duration `env:"AI_TURN_CADENCE" envDefault:"1200ms"`
	NegotiationCadence time.Duration `env:"AI_NEGOTIATION_CADENCE" envDefault:"2s"`

	// BoardPath overrides the embedded board definition when set.
	BoardPath string `env:"BOARD_PATH"`
	Game      Game   `envPrefix:"GAME_"`
}

type DB struct {
	User     string `env:"USER"`
	Addr     string `env:"ADDR" envDefault:"localhost:5432"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
}

type Redis struct {
	URL string `env:"URL" envDefault:"localhost:6379"`
	// SnapshotTTL bounds how long an abandoned session snapshot survives.
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"6h"`
}

// Game holds the default rule toggles of new sessions.
type Game struct {
	HousingScarcity   bool    `env:"HOUSING_SCARCITY" envDefault:"true"`
	BankLoans         bool    `env:"BANK_LOANS" envDefault:"true"`
	PropertyInsurance bool    `env:"PROPERTY_INSURANCE" envDefault:"true"`
	MarketEvents      bool    `env:"MARKET_EVENTS" envDefault:"true"`
	IOUInterestRate   float64 `env:"IOU_INTEREST_RATE" envDefault:"0.05"`
	InsuranceCost     float64 `env:"INSURANCE_COST_PERCENT" envDefault:"0.05"`
	Chapter11Turns    int     `env:"CHAPTER11_TURNS" envDefault:"5"`
	StartingCash      int     `env:"STARTING_CASH" envDefault:"1500"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Settings turns the game defaults into normalized session settings.
func (g Game) Settings() models.GameSettings {
	s := models.DefaultSettings()
	s.EnableHousingScarcity = g.HousingScarcity
	s.EnableBankLoans = g.BankLoans
	s.EnablePropertyInsurance = g.PropertyInsurance
	s.EnableMarketEvents = g.MarketEvents
	s.IOUInterestRate = g.IOUInterestRate
	s.InsuranceCostPercent = g.InsuranceCost
	s.Chapter11Turns = g.Chapter11Turns
	s.StartingCash = g.StartingCash
	return s.Normalize()
}
