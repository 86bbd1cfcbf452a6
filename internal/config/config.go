package config

import (
	"flag"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config конфигурация приложения. Секреты подписи токенов живут здесь и
// передаются в нуждающиеся слои при конструировании, глобального
// состояния нет.
type Config struct {
	// Адрес на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес результирующего сокращенного URL
	BaseURL *url.URL `env:"BASE_URL"`
	// Путь к файлу базы sqlite
	SQLitePath string `env:"SQLITE_PATH" envDefault:"shortkeep.db"`

	// Адрес redis для кеша редиректов. Пусто — кеш выключен.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`

	// Путь к базе GeoLite2. Пусто — геолокация выключена.
	GeoIPPath string `env:"GEOIP_PATH"`

	// Секреты и сроки жизни токенов сессии. Ключи обязаны различаться.
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// CookieSecure выставляет Secure на сессионных куках.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	// .env опционален, в проде переменные приходят из окружения.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)

	if conf.AccessSecret == conf.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return conf, nil
}

// MustLoadConfig вызывает панику если произошла ошибка.
func MustLoadConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return conf
}

// loadFlags парсит флаги командной строки.
func loadFlags(flagsConfig *Config) {
	flag.StringVar(&flagsConfig.ServerAddress, "a", "localhost:8080", "Адрес сервера")
	flag.StringVar(&flagsConfig.SQLitePath, "d", "shortkeep.db", "Путь к файлу базы sqlite")

	bDesc := "Базовый адрес результирующего сокращенного URL (по умолчанию Scheme://Host запущенного сервера)"
	flag.Func("b", bDesc, func(rawURL string) error {
		parsedURL, err := url.ParseRequestURI(rawURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse base url")
		}

		// Отсекаем Path и Query если они заданы в базовом урле.
		flagsConfig.BaseURL = &url.URL{
			Scheme: parsedURL.Scheme,
			Host:   parsedURL.Host,
		}
		return nil
	})

	flag.Parse()
}

// mergeConfig сливает структуры для env и флагов, env приоритетнее.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	merged := *envConfig
	if merged.ServerAddress == "" {
		merged.ServerAddress = flagsConfig.ServerAddress
	}
	if merged.BaseURL == nil {
		merged.BaseURL = flagsConfig.BaseURL
	}
	if merged.SQLitePath == "" {
		merged.SQLitePath = flagsConfig.SQLitePath
	}
	return &merged
}
