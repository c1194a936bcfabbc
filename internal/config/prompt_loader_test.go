package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	promptContent := "Rate how distinctive this resume is."
	promptFile := filepath.Join(tempDir, "uniqueness.md")
	require.NoError(t, os.WriteFile(promptFile, []byte("\n"+promptContent+"\n\n"), 0600))

	config := &Config{
		AI: AIConfig{
			Uniqueness: ModuleAIConfig{SystemPromptFile: promptFile},
			Impact:     ModuleAIConfig{SystemPrompt: "inline impact prompt"},
		},
	}

	require.NoError(t, config.loadPromptsFromFiles())

	assert.Equal(t, promptContent, config.AI.Uniqueness.SystemPrompt)
	assert.Equal(t, promptFile, config.AI.Uniqueness.SystemPromptFile, "file path is preserved")
	assert.Equal(t, "inline impact prompt", config.AI.Impact.SystemPrompt)
	assert.Empty(t, config.AI.Company.SystemPrompt)
}

func TestLoadPromptsFromFiles_FileOverridesInline(t *testing.T) {
	promptFile := filepath.Join(t.TempDir(), "company.md")
	require.NoError(t, os.WriteFile(promptFile, []byte("from file"), 0600))

	config := &Config{
		AI: AIConfig{
			Company: ModuleAIConfig{SystemPrompt: "inline", SystemPromptFile: promptFile},
		},
	}

	require.NoError(t, config.loadPromptsFromFiles())
	assert.Equal(t, "from file", config.AI.Company.SystemPrompt)
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	require.NoError(t, os.WriteFile(validFile, []byte("Valid content"), 0600))

	config := &Config{
		AI: AIConfig{
			Context: ModuleAIConfig{SystemPromptFile: validFile},
		},
	}
	assert.NoError(t, config.validatePromptFiles())

	config.AI.Context.SystemPromptFile = filepath.Join(tempDir, "missing-context.md")
	config.AI.SoftSkills.SystemPromptFile = filepath.Join(tempDir, "missing-soft.md")

	err := config.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-context.md")
	assert.Contains(t, err.Error(), "missing-soft.md", "all missing files are reported together")
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	require.NoError(t, os.WriteFile(testFile, []byte(content), 0600))

	loadedContent, err := loadPromptFromFile(testFile, ModuleImpact)
	require.NoError(t, err)
	assert.Equal(t, content, loadedContent)

	emptyFile := filepath.Join(tempDir, "empty.md")
	require.NoError(t, os.WriteFile(emptyFile, []byte("  \n\t"), 0600))

	_, err = loadPromptFromFile(emptyFile, ModuleImpact)
	assert.ErrorContains(t, err, "is empty")

	_, err = loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), ModuleImpact)
	assert.ErrorContains(t, err, "not found")
}
