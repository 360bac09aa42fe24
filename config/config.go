package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server
	Database      Database
	JWT           JWT
	Midtrans      Midtrans
	Storage       Storage
	GeminiApiKey  string
	PublicBaseURL string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret string
}

type Midtrans struct {
	ServerKey  string
	Production bool
}

type Storage struct {
	Provider      string // "minio" or "local"
	LocalPath     string
	MinioEndpoint string
	MinioAccessID string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("STORAGE_LOCAL_PATH", "./certificates")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWT.Secret = viper.GetString("JWT_SECRET")

	config.Midtrans.ServerKey = viper.GetString("MIDTRANS_SERVER_KEY")
	config.Midtrans.Production = viper.GetBool("MIDTRANS_PRODUCTION")

	config.Storage.Provider = viper.GetString("STORAGE_PROVIDER")
	config.Storage.LocalPath = viper.GetString("STORAGE_LOCAL_PATH")
	config.Storage.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	config.Storage.MinioAccessID = viper.GetString("MINIO_ACCESS_ID")
	config.Storage.MinioSecret = viper.GetString("MINIO_SECRET")
	config.Storage.MinioBucket = viper.GetString("MINIO_BUCKET")
	config.Storage.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.PublicBaseURL = viper.GetString("PUBLIC_BASE_URL")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
