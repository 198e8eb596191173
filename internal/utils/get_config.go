package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/piqadolf/foodgram-project-react/domain"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Validation bounds. Zero values fall back to the defaults.
	MinCookingTime int `yaml:"MIN_COOKING_TIME"`
	MaxCookingTime int `yaml:"MAX_COOKING_TIME"`
	MinAmount      int `yaml:"MIN_AMOUNT"`
	MaxAmount      int `yaml:"MAX_AMOUNT"`
	MaxUsernameLen int `yaml:"MAX_USERNAME_LENGTH"`
	MaxNameLen     int `yaml:"MAX_NAME_LENGTH"`
	MaxUnitLen     int `yaml:"MAX_MEASUREMENT_UNIT_LENGTH"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	}
	return ""
}

// GetBounds builds the validation bounds from the loaded configuration,
// filling unset fields from the defaults.
func GetBounds() domain.Bounds {
	bounds := domain.DefaultBounds()
	if config.MinCookingTime > 0 {
		bounds.MinCookingTime = config.MinCookingTime
	}
	if config.MaxCookingTime > 0 {
		bounds.MaxCookingTime = config.MaxCookingTime
	}
	if config.MinAmount > 0 {
		bounds.MinAmount = config.MinAmount
	}
	if config.MaxAmount > 0 {
		bounds.MaxAmount = config.MaxAmount
	}
	if config.MaxUsernameLen > 0 {
		bounds.MaxUsernameLen = config.MaxUsernameLen
	}
	if config.MaxNameLen > 0 {
		bounds.MaxNameLen = config.MaxNameLen
	}
	if config.MaxUnitLen > 0 {
		bounds.MaxUnitLen = config.MaxUnitLen
	}
	return bounds
}
