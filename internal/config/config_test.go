package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "jobconnect", cfg.Database.Database)
				assert.Equal(t, "posting_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "posting_audit", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "jobconnect-api", cfg.App.Name)
				assert.Equal(t, "http://localhost:11434", cfg.Classifier.BaseURL)
				assert.Equal(t, "llama3", cfg.Classifier.Model)
				assert.Equal(t, 60*time.Second, cfg.Classifier.RequestTimeout)
				assert.Equal(t, 2*time.Second, cfg.Classifier.ProbeTimeout)
				assert.Equal(t, 2000, cfg.Chat.MaxMessageLength)
				assert.Equal(t, 10, cfg.Chat.RateLimit.Requests)
				assert.Equal(t, time.Minute, cfg.Chat.RateLimit.Window)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, 30*24*time.Hour, cfg.Worker.EventRetention)
				assert.Equal(t, "@daily", cfg.Worker.RetentionSchedule)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: 10 * time.Second},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "jobconnect",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "posting_events"},
			Queue:    QueueConfig{Name: "posting_audit"},
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Classifier: ClassifierConfig{
			BaseURL:          "http://localhost:11434",
			Model:            "llama3",
			RequestTimeout:   time.Minute,
			ProbeTimeout:     2 * time.Second,
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
		},
		Chat: ChatConfig{
			MaxMessageLength: 2000,
			RateLimit:        RateLimitConfig{Requests: 10, Window: time.Minute},
		},
		Worker: WorkerConfig{
			Concurrency:       4,
			JobTimeout:        10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
			EventRetention:    720 * time.Hour,
			RetentionSchedule: "@daily",
		},
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			errString: "invalid server port",
		},
		{
			name:      "missing shutdown timeout",
			mutate:    func(c *Config) { c.Server.ShutdownTimeout = 0 },
			errString: "server shutdown_timeout",
		},
		{
			name:      "empty database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			errString: "database host is required",
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			errString: "database name is required",
		},
		{
			name:      "empty rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			errString: "rabbitmq host is required",
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "empty classifier url",
			mutate:    func(c *Config) { c.Classifier.BaseURL = "" },
			errString: "classifier base_url is required",
		},
		{
			name:      "empty classifier model",
			mutate:    func(c *Config) { c.Classifier.Model = "" },
			errString: "classifier model is required",
		},
		{
			name:      "zero probe timeout",
			mutate:    func(c *Config) { c.Classifier.ProbeTimeout = 0 },
			errString: "probe_timeout",
		},
		{
			name:      "threshold without cooldown",
			mutate:    func(c *Config) { c.Classifier.Cooldown = 0 },
			errString: "classifier cooldown",
		},
		{
			name:      "guard disabled needs no cooldown",
			mutate:    func(c *Config) { c.Classifier.FailureThreshold = 0; c.Classifier.Cooldown = 0 },
			errString: "",
		},
		{
			name:      "zero max message length",
			mutate:    func(c *Config) { c.Chat.MaxMessageLength = 0 },
			errString: "chat max_message_length",
		},
		{
			name:      "rate limit without window",
			mutate:    func(c *Config) { c.Chat.RateLimit.Window = 0 },
			errString: "chat rate_limit window",
		},
		{
			name:      "rate limit without redis",
			mutate:    func(c *Config) { c.Redis.Addr = "" },
			errString: "redis addr is required",
		},
		{
			name:      "rate limit disabled needs no redis",
			mutate:    func(c *Config) { c.Chat.RateLimit.Requests = 0; c.Redis.Addr = "" },
			errString: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:      "server port is not required",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			errString: "worker concurrency",
		},
		{
			name:      "zero job timeout",
			mutate:    func(c *Config) { c.Worker.JobTimeout = 0 },
			errString: "worker job_timeout",
		},
		{
			name:      "zero retention",
			mutate:    func(c *Config) { c.Worker.EventRetention = 0 },
			errString: "worker event_retention",
		},
		{
			name:      "missing schedule",
			mutate:    func(c *Config) { c.Worker.RetentionSchedule = "" },
			errString: "worker retention_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})
}

func TestPortConstants(t *testing.T) {
	assert.Equal(t, 1, MinPort)
	assert.Equal(t, 65535, MaxPort)
}
