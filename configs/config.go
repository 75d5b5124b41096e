package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ImageTransportMultipart = "multipart"
	ImageTransportURL       = "image_url"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Threads struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	GraphURL     string
	TokenURL     string
	AuthorizeURL string
	RefreshURL   string
}

type Config struct {
	Threads            Threads
	FrontendURL        string
	SecretKey          string
	RequireState       bool
	RequestTimeout     time.Duration
	ImageTransport     string
	StagedUploadMaxAge time.Duration
	R2                 R2
	Port               string
	LogLevel           string
}

// MissingEnvError is returned when required configuration is missing.
type MissingEnvError struct {
	Variables []string
}

func (e MissingEnvError) Error() string {
	return fmt.Sprintf("configuration incomplete (missing %s)", strings.Join(e.Variables, ", "))
}

func LoadConfig() *Config {
	return &Config{
		Threads: Threads{
			ClientID:     getEnv("THREADS_CLIENT_ID", ""),
			ClientSecret: getEnv("THREADS_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("REDIRECT_URI", ""),
			GraphURL:     getEnv("THREADS_GRAPH_URL", "https://graph.threads.net/v1.0"),
			TokenURL:     getEnv("THREADS_TOKEN_URL", "https://api.instagram.com/oauth/access_token"),
			AuthorizeURL: getEnv("THREADS_AUTHORIZE_URL", "https://api.instagram.com/oauth/authorize"),
			RefreshURL:   getEnv("THREADS_REFRESH_URL", "https://graph.instagram.com/refresh_access_token"),
		},
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:          getEnv("SECRET_KEY", ""),
		RequireState:       getBool("OAUTH_STATE_REQUIRED", false),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 15*time.Second),
		ImageTransport:     strings.ToLower(getEnv("IMAGE_TRANSPORT", ImageTransportMultipart)),
		StagedUploadMaxAge: getDuration("STAGED_UPLOAD_MAX_AGE", 30*time.Minute),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every required variable that is absent.
func (c *Config) Validate() error {
	var missing []string
	if c.Threads.ClientID == "" {
		missing = append(missing, "THREADS_CLIENT_ID")
	}
	if c.Threads.ClientSecret == "" {
		missing = append(missing, "THREADS_CLIENT_SECRET")
	}
	if c.Threads.RedirectURI == "" {
		missing = append(missing, "REDIRECT_URI")
	}
	if c.RequireState && c.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}

	switch c.ImageTransport {
	case ImageTransportMultipart:
	case ImageTransportURL:
		if c.R2.AccountID == "" {
			missing = append(missing, "R2_ACCOUNT_ID")
		}
		if c.R2.AccessKey == "" {
			missing = append(missing, "R2_ACCESS_KEY")
		}
		if c.R2.SecretKey == "" {
			missing = append(missing, "R2_SECRET_KEY")
		}
		if c.R2.BucketName == "" {
			missing = append(missing, "R2_BUCKET_NAME")
		}
		if c.R2.PublicURL == "" {
			missing = append(missing, "R2_PUBLIC_URL")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_TRANSPORT %q", c.ImageTransport)
	}

	if len(missing) > 0 {
		return MissingEnvError{Variables: missing}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
