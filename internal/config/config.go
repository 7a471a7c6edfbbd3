package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"local"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	IDChecker  IDCheckerConfig  `yaml:"id_checker"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// IDCheckerConfig - сервис проверки игровых аккаунтов.
// Ключ берём только из окружения, без него падает лишь /api/check-id
type IDCheckerConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"https://id-game-checker.p.rapidapi.com"`
	Host    string        `yaml:"host" env-default:"id-game-checker.p.rapidapi.com"`
	APIKey  string        `yaml:"-" env:"RAPIDAPI_KEY"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// SheetsConfig - вебхук таблицы заказов
type SheetsConfig struct {
	WebhookURL string        `yaml:"-" env:"SHEETS_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// StorefrontConfig настройки страницы магазина
type StorefrontConfig struct {
	DefaultGame       string        `yaml:"default_game" env-default:"mobile-legends"`
	ConfirmationDelay time.Duration `yaml:"confirmation_delay" env-default:"5s"`
	SessionTTL        time.Duration `yaml:"session_ttl" env-default:"24h"`
	MaxNotices        int           `yaml:"max_notices" env-default:"5"`
	StoreName         string        `yaml:"store_name" env-default:"MLBB Top-Up"`
	HeroName          string        `yaml:"hero_name" env-default:"Miya"`
	// /static/* отдаётся из этого каталога, если он задан
	StaticDir         string        `yaml:"static_dir"`
	ModelPath         string        `yaml:"model_path"` // пустой - модель не показывается
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %s", configPath, err)
	}

	return &cfg
}
