package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
)

const (
	defaultMongoHost       = "etuition.lmeq1nq.mongodb.net"
	defaultMongoDatabase   = "etuition"
	defaultRedisAddr       = "localhost:6379"
	defaultJWTSecret       = "change-me-in-production"
	defaultAppPort         = "3000"
	defaultAppEnv          = "local"
	defaultSiteURL         = "http://localhost:5173"
	defaultPaymentCurrency = "bdt"
)

// aliases maps legacy variable names onto their canonical key.
var aliases = map[string]string{
	"JWT_KEY": "JWT_SECRET",
	"PORT":    "APP_PORT",
}

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, .env and the process environment, in that
// order, over the built-in defaults. It only reads the files once.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":               "",
		"DB_USER":                 "",
		"DB_PASS":                 "",
		"DB_HOST":                 defaultMongoHost,
		"DB_NAME":                 defaultMongoDatabase,
		"REDIS_ADDR":              defaultRedisAddr,
		"REDIS_PASSWORD":          "",
		"JWT_SECRET":              defaultJWTSecret,
		"STRIPE_KEY":              "",
		"SITE_URL":                defaultSiteURL,
		"PAYMENT_CURRENCY":        defaultPaymentCurrency,
		"APP_PORT":                defaultAppPort,
		"APP_ENV":                 defaultAppEnv,
		"AUTH_REQUIRE_KNOWN_USER": "true",
		"LOG_TO_MONGO":            "false",
		"MAX_BODY_BYTES":          "1048576",
	}
}

// MongoURI returns MONGO_URI when set, otherwise an Atlas SRV URI built from
// DB_USER, DB_PASS and DB_HOST.
func MongoURI() string {
	_ = Load()

	if override := get("MONGO_URI", ""); override != "" {
		return override
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     get("DB_HOST", defaultMongoHost),
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=etuition",
	}
	if user := get("DB_USER", ""); user != "" {
		u.User = url.UserPassword(user, get("DB_PASS", ""))
	}
	return u.String()
}

func MongoDatabase() string {
	_ = Load()
	return get("DB_NAME", defaultMongoDatabase)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func StripeKey() string {
	_ = Load()
	return get("STRIPE_KEY", "")
}

// SiteURL is the frontend base URL used to build checkout redirects.
func SiteURL() string {
	_ = Load()
	return strings.TrimRight(get("SITE_URL", defaultSiteURL), "/")
}

func PaymentCurrency() string {
	_ = Load()
	return strings.ToLower(get("PAYMENT_CURRENCY", defaultPaymentCurrency))
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// RequireKnownUser reports whether /getToken must find the email in the
// users collection before signing.
func RequireKnownUser() bool {
	_ = Load()
	return truthy(get("AUTH_REQUIRE_KNOWN_USER", "true"))
}

func LogToMongo() bool {
	_ = Load()
	return truthy(get("LOG_TO_MONGO", "false"))
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(os.Environ(), loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}
		set(out, key, s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		set(out, key, strings.Trim(strings.TrimSpace(value), `"'`))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// mergeEnviron overlays process environment entries for keys the service
// knows about, so unrelated variables never leak into Get.
func mergeEnviron(environ []string, out map[string]string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if _, known := out[key]; !known {
			continue
		}
		set(out, key, value)
	}
}

func set(out map[string]string, key, value string) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if k == "" {
		return
	}
	if canonical, ok := aliases[k]; ok {
		k = canonical
	}
	out[k] = strings.TrimSpace(value)
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
