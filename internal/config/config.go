package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// сводка
	LexiconFile    string
	VariantSuffix  string
	AnalogSuffix   string
	MetricsEnabled bool

	ConfigFile string
}

// Ключи настроек; в окружении — те же имена в верхнем регистре (PORT, LOG_LEVEL, ...).
const (
	KeyHost           = "host"
	KeyPort           = "port"
	KeyAllowOrigins   = "allow_origins"
	KeyLogLevel       = "log_level"
	KeyMaxUploadMB    = "max_upload_mb"
	KeyLogFile        = "log_file"
	KeyLexiconFile    = "lexicon_file"
	KeyVariantSuffix  = "variant_suffix"
	KeyAnalogSuffix   = "analog_suffix"
	KeyMetricsEnabled = "metrics_enabled"
)

// New собирает viper: значения по умолчанию, .env/.env.local, переменные окружения
// и необязательный kpsummary.yaml (текущий каталог или /etc/kpsummary).
// Флаги CLI привязываются поверх через BindPFlag.
func New() *viper.Viper {
	// .env.local перекрывает .env; уже заданные переменные окружения не трогаем
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.SetDefault(KeyHost, "127.0.0.1")
	v.SetDefault(KeyPort, 8082)
	v.SetDefault(KeyAllowOrigins, "*")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMaxUploadMB, 256)
	v.SetDefault(KeyLogFile, "logs/kp-summary.log")
	v.SetDefault(KeyVariantSuffix, "(variant %d)")
	v.SetDefault(KeyAnalogSuffix, "(analog %d)")
	v.SetDefault(KeyMetricsEnabled, true)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetConfigName("kpsummary")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/kpsummary")
	_ = v.ReadInConfig() // файла может не быть
	return v
}

// Load — конфигурация сервиса из окружения и файла.
func Load() Config { return FromViper(New()) }

func FromViper(v *viper.Viper) Config {
	return Config{
		Host:           v.GetString(KeyHost),
		Port:           v.GetInt(KeyPort),
		AllowOrigins:   splitList(v.Get(KeyAllowOrigins)),
		LogLevel:       v.GetString(KeyLogLevel),
		MaxUploadMB:    v.GetInt(KeyMaxUploadMB),
		LogFile:        v.GetString(KeyLogFile),
		LexiconFile:    v.GetString(KeyLexiconFile),
		VariantSuffix:  v.GetString(KeyVariantSuffix),
		AnalogSuffix:   v.GetString(KeyAnalogSuffix),
		MetricsEnabled: v.GetBool(KeyMetricsEnabled),
		ConfigFile:     v.ConfigFileUsed(),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// splitList: "a, b" из окружения или список из yaml.
func splitList(raw any) []string {
	var parts []string
	switch x := raw.(type) {
	case string:
		parts = strings.Split(x, ",")
	case []string:
		parts = x
	case []any:
		for _, p := range x {
			parts = append(parts, fmt.Sprint(p))
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
