package config

import (
	"time"

	"resumeready/internal/retry"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", defaultModels[ProviderGemini])
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.maxTokens", 4096)
	// Leaves headroom under a 180s request ceiling.
	v.SetDefault("ai.timeBudget", 170*time.Second)

	moduleTemperatures := map[string]float64{
		ModuleUniqueness: 0.4,
		ModuleImpact:     0.3,
		ModuleContext:    0.2,
		ModuleCompany:    0.1,
		ModuleSoftSkills: 0.3,
	}
	for _, name := range Modules {
		prefix := "ai." + name
		v.SetDefault(prefix+".provider", "")
		v.SetDefault(prefix+".model", "")
		v.SetDefault(prefix+".apiKey", "")
		v.SetDefault(prefix+".temperature", moduleTemperatures[name])
		v.SetDefault(prefix+".systemPromptFile", "")

		v.SetDefault(prefix+".circuitBreaker.enabled", true)
		v.SetDefault(prefix+".circuitBreaker.maxRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.minRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.failureThreshold", 0.6)
	}

	// Retry Configuration
	v.SetDefault("retry.maxRetries", retry.DefaultMaxRetries)
	v.SetDefault("retry.initialDelay", retry.DefaultInitialDelay)
	v.SetDefault("retry.maxDelay", retry.DefaultMaxDelay)
	v.SetDefault("retry.backoffMultiplier", retry.DefaultBackoffMultiplier)
	v.SetDefault("retry.jitterFactor", retry.DefaultJitterFactor)
	v.SetDefault("retry.retryableStatusCodes", retry.DefaultRetryableStatusCodes)
	v.SetDefault("retry.respectRetryAfterHeader", true)
	v.SetDefault("retry.minReserve", retry.DefaultMinReserve)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 190*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)

	// Store Configuration
	v.SetDefault("store.path", "resumeready.db")

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "yaml", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.anthropicKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeready")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
