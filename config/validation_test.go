package config

import (
	"testing"
)

func TestValidatorRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{
			name:      "non-empty value",
			value:     "valid",
			wantError: false,
		},
		{
			name:      "empty value",
			value:     "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequireNonEmpty("test_field", tt.value)
			hasError := v.HasErrors()
			if hasError != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidatorValidateRange(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		min       int
		max       int
		wantError bool
	}{
		{
			name:      "value in range",
			value:     50,
			min:       0,
			max:       100,
			wantError: false,
		},
		{
			name:      "value below minimum",
			value:     -1,
			min:       0,
			max:       100,
			wantError: true,
		},
		{
			name:      "value above maximum",
			value:     101,
			min:       0,
			max:       100,
			wantError: true,
		},
		{
			name:      "value at minimum boundary",
			value:     0,
			min:       0,
			max:       100,
			wantError: false,
		},
		{
			name:      "value at maximum boundary",
			value:     100,
			min:       0,
			max:       100,
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.ValidateRange("test_field", tt.value, tt.min, tt.max)
			hasError := v.HasErrors()
			if hasError != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidatorValidateOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		allowed   []string
		wantError bool
	}{
		{
			name:      "value is allowed",
			value:     "model",
			allowed:   []string{"model", "form"},
			wantError: false,
		},
		{
			name:      "value not allowed",
			value:     "invalid",
			allowed:   []string{"model", "form"},
			wantError: true,
		},
		{
			name:      "empty allowed list",
			value:     "any",
			allowed:   []string{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.ValidateOneOf("field", tt.value, tt.allowed...)
			hasError := v.HasErrors()
			if hasError != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidatorMultipleErrors(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("field1", "")
	v.RequirePositive("field2", 0)
	v.ValidatePort("field3", 99999)

	if !v.HasErrors() {
		t.Errorf("HasErrors() = false, want true")
	}

	errs := v.Errors()
	if len(errs) != 3 {
		t.Errorf("Errors() count = %d, want 3", len(errs))
	}

	err := v.Error()
	if err == nil {
		t.Errorf("Error() = nil, want non-nil error")
	}
}

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		model       string
		temperature float64
		maxTokens   int
		wantError   bool
	}{
		{
			name:        "valid config",
			apiKey:      "valid-key",
			model:       "gemini-2.5-flash",
			temperature: 0.7,
			maxTokens:   2000,
			wantError:   false,
		},
		{
			name:        "missing api key",
			apiKey:      "",
			model:       "gemini-2.5-flash",
			temperature: 0.7,
			maxTokens:   2000,
			wantError:   true,
		},
		{
			name:        "invalid temperature",
			apiKey:      "valid-key",
			model:       "gemini-2.5-flash",
			temperature: 2.5,
			maxTokens:   2000,
			wantError:   true,
		},
		{
			name:        "non-positive max tokens",
			apiKey:      "valid-key",
			model:       "gemini-2.5-flash",
			temperature: 0.7,
			maxTokens:   0,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLLMConfig(tt.apiKey, tt.model, tt.temperature, tt.maxTokens)
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("ValidateLLMConfig() error = %v, wantError %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidateRedisConfig(t *testing.T) {
	tests := []struct {
		name      string
		addr      string
		db        int
		prefix    string
		wantError bool
	}{
		{
			name:      "valid config",
			addr:      "localhost:6379",
			db:        0,
			prefix:    "krishigpt:",
			wantError: false,
		},
		{
			name:      "missing addr",
			addr:      "",
			db:        0,
			prefix:    "krishigpt:",
			wantError: true,
		},
		{
			name:      "invalid db number",
			addr:      "localhost:6379",
			db:        16,
			prefix:    "krishigpt:",
			wantError: true,
		},
		{
			name:      "missing prefix",
			addr:      "localhost:6379",
			db:        0,
			prefix:    "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRedisConfig(tt.addr, tt.db, tt.prefix)
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("ValidateRedisConfig() error = %v, wantError %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidatePostgresConfig(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		port      int
		user      string
		password  string
		dbName    string
		sslMode   string
		wantError bool
	}{
		{
			name:      "valid config",
			host:      "localhost",
			port:      5432,
			user:      "postgres",
			password:  "secure_password",
			dbName:    "krishigpt",
			sslMode:   "disable",
			wantError: false,
		},
		{
			name:      "missing host",
			host:      "",
			port:      5432,
			user:      "postgres",
			password:  "password",
			dbName:    "db",
			sslMode:   "disable",
			wantError: true,
		},
		{
			name:      "invalid port",
			host:      "localhost",
			port:      99999,
			user:      "postgres",
			password:  "password",
			dbName:    "db",
			sslMode:   "disable",
			wantError: true,
		},
		{
			name:      "invalid ssl mode",
			host:      "localhost",
			port:      5432,
			user:      "postgres",
			password:  "password",
			dbName:    "db",
			sslMode:   "invalid",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostgresConfig(tt.host, tt.port, tt.user, tt.password, tt.dbName, tt.sslMode)
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("ValidatePostgresConfig() error = %v, wantError %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidateControllerConfig(t *testing.T) {
	tests := []struct {
		name             string
		historyLimit     int
		maxMessageLength int
		policy           string
		wantError        bool
	}{
		{
			name:             "valid model policy",
			historyLimit:     10,
			maxMessageLength: 4000,
			policy:           "model",
			wantError:        false,
		},
		{
			name:             "valid form policy",
			historyLimit:     5,
			maxMessageLength: 2000,
			policy:           "form",
			wantError:        false,
		},
		{
			name:             "zero history limit",
			historyLimit:     0,
			maxMessageLength: 4000,
			policy:           "model",
			wantError:        true,
		},
		{
			name:             "unknown policy",
			historyLimit:     10,
			maxMessageLength: 4000,
			policy:           "always",
			wantError:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateControllerConfig(tt.historyLimit, tt.maxMessageLength, tt.policy)
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("ValidateControllerConfig() error = %v, wantError %v", hasError, tt.wantError)
			}
		})
	}
}

func TestValidateRateLimiterConfig(t *testing.T) {
	tests := []struct {
		name          string
		maxRequests   int
		windowSeconds int
		wantError     bool
	}{
		{
			name:          "valid config",
			maxRequests:   100,
			windowSeconds: 60,
			wantError:     false,
		},
		{
			name:          "zero requests",
			maxRequests:   0,
			windowSeconds: 60,
			wantError:     true,
		},
		{
			name:          "zero window",
			maxRequests:   100,
			windowSeconds: 0,
			wantError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRateLimiterConfig(tt.maxRequests, tt.windowSeconds)
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("ValidateRateLimiterConfig() error = %v, wantError %v", hasError, tt.wantError)
			}
		})
	}
}
