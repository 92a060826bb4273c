package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort         string `yaml:"APP_PORT"`
	DefaultCategory string `yaml:"DEFAULT_CATEGORY"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Admin auth
	JWTSecret   string `yaml:"JWT_SECRET"`
	AdminAPIKey string `yaml:"ADMIN_API_KEY"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSS3Prefix  string `yaml:"AWS_S3_PREFIX"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// OpenAI configuration
	OpenAIAPIKey  string `yaml:"OPENAI_API_KEY"`
	OpenAIModel   string `yaml:"OPENAI_MODEL"`
	OpenAIBaseURL string `yaml:"OPENAI_BASE_URL"`

	// Remote call timeouts, seconds
	ExtractTimeoutSeconds string `yaml:"EXTRACT_TIMEOUT_SECONDS"`
	ArchiveTimeoutSeconds string `yaml:"ARCHIVE_TIMEOUT_SECONDS"`
	PersistTimeoutSeconds string `yaml:"PERSIST_TIMEOUT_SECONDS"`
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

	// Keys that should also be accessible via os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("ADMIN_API_KEY", config.AdminAPIKey)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
	os.Setenv("OPENAI_API_KEY", config.OpenAIAPIKey)
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "DEFAULT_CATEGORY":
		return config.DefaultCategory
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
	case "ADMIN_API_KEY":
		return config.AdminAPIKey
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_PREFIX":
		return config.AWSS3Prefix
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_MODEL":
		return config.OpenAIModel
	case "OPENAI_BASE_URL":
		return config.OpenAIBaseURL
	case "EXTRACT_TIMEOUT_SECONDS":
		return config.ExtractTimeoutSeconds
	case "ARCHIVE_TIMEOUT_SECONDS":
		return config.ArchiveTimeoutSeconds
	case "PERSIST_TIMEOUT_SECONDS":
		return config.PersistTimeoutSeconds
	default:
		return ""
	}
}
