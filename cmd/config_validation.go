package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"

	"github.com/Laisky/twitter-clone/library/db/gormdb"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateSecretConfig(get, &validationErrs)
	validateDBConfig(get, &validationErrs)
	validateWebConfig(get, &validationErrs)
	validateAuthConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateSecretConfig validates the token signing secret.
func validateSecretConfig(get configGetter, errs *[]string) {
	validateOptionalStringNonEmpty(get, "settings.secret", errs)
}

// validateDBConfig validates the record store connection settings.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateDBConfig(get configGetter, errs *[]string) {
	if raw := get("settings.db.driver"); raw != nil {
		driver, err := parseStrictString(raw)
		if err != nil || !gormdb.IsSupportedDriver(driver) {
			appendValidationError(errs, "settings.db.driver must be one of sqlite, postgres, mysql")
		}
	}

	validateOptionalStringNonEmpty(get, "settings.db.dsn", errs)
	validateOptionalIntMin(get, "settings.db.max_open_conns", 1, errs)

	if raw := get("settings.db.postgres.addr"); raw != nil {
		addr, err := parseStrictString(raw)
		if err != nil || !isValidHost(addr) {
			appendValidationError(errs, "settings.db.postgres.addr must be a host without scheme or path")
		}
	}
	for _, key := range []string{
		"settings.db.postgres.db",
		"settings.db.postgres.user",
	} {
		validateOptionalStringNonEmpty(get, key, errs)
	}
}

// validateWebConfig validates the http surface settings.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateWebConfig(get configGetter, errs *[]string) {
	validateOptionalPathPrefix(get, "settings.web.url_prefix", errs)
	validateOptionalIntMin(get, "settings.web.request_timeout_ms", 0, errs)
	validateOptionalStringList(get, "settings.web.allowed_origins", errs)

	if get("settings.web.throttle") != nil {
		for _, key := range []string{
			"settings.web.throttle.total_per_sec",
			"settings.web.throttle.total_burst",
			"settings.web.throttle.each_per_sec",
			"settings.web.throttle.each_burst",
		} {
			if get(key) == nil {
				appendValidationError(errs, "%s is required when throttle is configured", key)
				continue
			}
			validateOptionalIntMin(get, key, 1, errs)
		}
	}
}

// validateAuthConfig validates the identity provider settings.
func validateAuthConfig(get configGetter, errs *[]string) {
	validateOptionalIntMin(get, "settings.auth.principal_cache_ttl_seconds", 0, errs)
}

// validateOptionalStringList validates an optionally configured list of non-empty strings.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringList(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		appendValidationError(errs, "%s must be a list of strings", key)
		return
	}

	for i, item := range items {
		text, err := parseStrictString(item)
		if err != nil || strings.TrimSpace(text) == "" {
			appendValidationError(errs, "%s[%d] must be a non-empty string", key, i)
		}
	}
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalPathPrefix validates an optionally configured URL base path.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalPathPrefix(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string path", key)
		return
	}

	if !isValidBasePath(value) {
		appendValidationError(errs, "%s must be empty or start with '/'", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// isValidBasePath validates a base path used for URL prefixes.
// It accepts a path string and returns whether it is empty or starts with '/'.
func isValidBasePath(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return true
	}
	return strings.HasPrefix(trimmed, "/")
}

// isValidHost validates a host string without scheme or path components.
// It accepts a host string and returns true when the host is syntactically acceptable.
func isValidHost(host string) bool {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.Contains(trimmed, "/") {
		return false
	}
	return true
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
