package config

import (
	"os"
)

type Config struct {
	Port                string
	MongoURI            string
	MongoDB             string
	MongoReadPreference string
	JWTSecret           string
	S3Bucket            string
	S3Host              string
	AWSRegion           string
}

func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "photoview"),
		MongoReadPreference: getEnv("MONGO_READ_PREFERENCE", "PRIMARY"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		S3Bucket:            getEnv("AWS_S3_BUCKET", ""),
		S3Host:              getEnv("AWS_S3_HOST", "https://s3.amazonaws.com"),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
