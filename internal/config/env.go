package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnvFiles loads envs/.env.<GO_ENV> from dir, falling back to envs/.env.
// Variables already set in the process environment win.
func LoadEnvFiles(dir string, log logrus.FieldLogger) string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	envFile := filepath.Join(dir, "envs", ".env."+env)
	err := godotenv.Load(envFile)
	if err == nil {
		log.WithField("file", envFile).Info("Environment loaded")
		return envFile
	}
	log.WithError(err).WithField("file", envFile).Debug("Could not load environment file")

	defaultEnvFile := filepath.Join(dir, "envs", ".env")
	if err := godotenv.Load(defaultEnvFile); err != nil {
		log.WithError(err).WithField("file", defaultEnvFile).Debug("Could not load default environment file")
		return ""
	}
	log.WithField("file", defaultEnvFile).Info("Environment loaded from default file")
	return defaultEnvFile
}
