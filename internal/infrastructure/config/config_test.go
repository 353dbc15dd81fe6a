package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsPlaceholderSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("SEED_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.False(t, cfg.Seed.OnStart)
	assert.Equal(t, "TaskFlow", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:9001", cfg.Server.GetAddress())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8000},
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "db", Name: "taskflow"},
			JWT:      JWTConfig{Secret: "s3cret", ExpiresIn: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database = DatabaseConfig{Driver: DriverMemory}
	assert.NoError(t, cfg.Validate())

	cfg.App.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.App.Environment = "production"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestEnvironment(t *testing.T) {
	app := AppConfig{Environment: "development"}
	assert.True(t, app.IsDevelopment())
	assert.False(t, app.IsProduction())

	app.Environment = "production"
	assert.False(t, app.IsDevelopment())
	assert.True(t, app.IsProduction())
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.GetDSN())
}
