package configuration

import (
	"time"

	cleanenvport "github.com/wb-go/wbf/config/cleanenv-port"
)

// ConfServer — параметры HTTP-сервера редиректов
type ConfServer struct {
	HostName string `env:"SERVICE_HOST_NAME" env-default:"localhost"`
	Port     int    `env:"SERVICE_PORT"      env-default:"5000"`
	GinMode  string `env:"GIN_MODE"          env-default:"debug"`
	// PublicURL - адрес, по которому короткие ссылки доступны снаружи
	// (подставляется перед коротким кодом в сообщении пользователю)
	PublicURL string `env:"SERVICE_PUBLIC_URL" env-default:"http://localhost:5000"`
}

// ConfDB — параметры подключения к PostgreSQL
type ConfDB struct {
	HostName string `env:"DB_HOST_NAME" env-default:"dbPostgres"`
	Port     int    `env:"DB_PORT"      env-default:"5432"`
	Name     string `env:"DB_NAME"      env-default:"db-postgres"`
	User     string `env:"DB_USER"      env-default:"postgres"`
	Password string `env:"DB_PASSWORD"  env-default:"postgres"`
}

// ConfCache — параметры Redis
type ConfCache struct {
	HostName string        `env:"REDIS_HOST_NAME" env-default:"dbRedis"`
	Port     int           `env:"REDIS_PORT"      env-default:"6379"`
	Password string        `env:"REDIS_PASSWORD"  env-default:""`
	DB       int           `env:"REDIS_DB"        env-default:"0"`
	TTL      time.Duration `env:"REDIS_TTL"       env-default:"600s"`
	Warming  time.Duration `env:"REDIS_WARMING"   env-default:"24h"`
}

// ConfBot — параметры телеграм-бота
type ConfBot struct {
	Token       string `env:"BOT_TOKEN"     env-required:"true"`
	AdminChatID int64  `env:"ADMIN_CHAT_ID" env-required:"true"`
	// ImagesDir - папка с картинками вопросов (q1.png ... q6.png), может быть пустой
	ImagesDir string `env:"BOT_IMAGES_DIR" env-default:"./images"`
}

// ConfCatalog — параметры таблицы комбинаций
type ConfCatalog struct {
	Path string `env:"CATALOG_PATH" env-default:"./Tablitsa_bez_povtoriaiushchikhsia_kombinatsii.xlsx"`
}

// ConfSession — параметры хранения сессий опроса
type ConfSession struct {
	// IdleTTL - через сколько времени бездействия сессия удаляется
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" env-default:"24h"`
	// ResolveTimeout - ограничение на обращение к сервису коротких ссылок при завершении опроса
	ResolveTimeout time.Duration `env:"SESSION_RESOLVE_TIMEOUT" env-default:"5s"`
}

// ConfReport — параметры периодических отчётов
type ConfReport struct {
	Interval time.Duration `env:"REPORT_INTERVAL" env-default:"10m"`
	// Window - за какой период выгружаются переходы в отчёт
	Window time.Duration `env:"REPORT_WINDOW" env-default:"168h"`
}

// Config — корневая структура конфигурации
type Config struct {
	Server  ConfServer
	DB      ConfDB
	Redis   ConfCache
	Bot     ConfBot
	Catalog ConfCatalog
	Session ConfSession
	Report  ConfReport
}

// ReadConfig загружает .env файл из корня проекта и возвращает заполненную структуру Config
func ReadConfig() (*Config, error) {

	var config Config

	// загружаем конфигурацию из файла .env напрямую в структуру
	if err := cleanenvport.LoadPath("./.env", &config); err != nil {
		return nil, err
	}

	return &config, nil
}
