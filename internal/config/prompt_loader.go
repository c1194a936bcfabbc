package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) modulePtr(name string) *ModuleAIConfig {
	switch name {
	case ModuleUniqueness:
		return &c.AI.Uniqueness
	case ModuleImpact:
		return &c.AI.Impact
	case ModuleContext:
		return &c.AI.Context
	case ModuleCompany:
		return &c.AI.Company
	case ModuleSoftSkills:
		return &c.AI.SoftSkills
	default:
		return nil
	}
}

// loadPromptsFromFiles replaces module system prompts with the contents of
// their systemPromptFile, when one is set. A file wins over an inline prompt.
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loaded := 0
	for _, name := range Modules {
		m := c.modulePtr(name)
		if m.SystemPromptFile == "" {
			if m.SystemPrompt != "" {
				log.Printf("[CONFIG] %s system prompt: loaded from config", name)
				loaded++
			}
			continue
		}
		content, err := loadPromptFromFile(m.SystemPromptFile, name)
		if err != nil {
			return err
		}
		m.SystemPrompt = content
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loaded)
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, module string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", module, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", module, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", module, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", module, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		module, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading, so
// that every missing file is reported at once.
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, name := range Modules {
		filePath := c.modulePtr(name).SystemPromptFile
		if filePath == "" {
			continue
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", name, filePath))
			continue
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", name, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}
