package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values that depend on other settings or legacy
// environment variables.
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = providerKeyFromEnv(c.AI.Provider)
	}
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// providerKeyFromEnv reads the vendor's conventional API key variable.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMEREADY_AI_APIKEY",
		"RESUMEREADY_AI_PROVIDER",
		"RESUMEREADY_AI_MODEL",
		"RESUMEREADY_RETRY_MAXRETRIES",
		"RESUMEREADY_SERVER_PORT",
		"RESUMEREADY_SERVER_HOST",
		"RESUMEREADY_STORE_PATH",
		"RESUMEREADY_APP_LOGLEVEL",
		"RESUMEREADY_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"ANTHROPIC_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] AI Time Budget: %s", c.AI.TimeBudget)
	log.Printf("[CONFIG] Retry: maxRetries=%d initialDelay=%s maxDelay=%s", c.Retry.MaxRetries, c.Retry.InitialDelay, c.Retry.MaxDelay)
	log.Printf("[CONFIG] Server: %s:%s", c.Server.Host, c.Server.Port)
	log.Printf("[CONFIG] Store Path: %s", c.Store.Path)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Module AI Configurations ===")
	for _, name := range Modules {
		m, _ := c.rawModule(name)
		provider, model := m.Provider, m.Model
		if provider == "" {
			provider = "(global)"
		}
		if model == "" {
			model = "(global)"
		}
		log.Printf("[CONFIG] %s - Provider: %s, Model: %s", name, provider, model)
	}

	log.Println("[CONFIG] =====================================")
}
