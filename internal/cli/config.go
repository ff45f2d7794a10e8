package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage More Speech configuration.`,
}

// configShowCmd shows the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		fmt.Println("# Effective configuration (defaults)")
		fmt.Println("#")
		fmt.Println("# Precedence, highest first:")
		fmt.Println("#   1. command-line flags")
		fmt.Println("#   2. MORESPEECH_* environment variables")
		fmt.Println("#   3. config file ($HOME/.morespeech/config.yaml)")
		fmt.Println("#   4. built-in defaults")
		fmt.Println()
		fmt.Print(string(out))
		return nil
	},
}

// configInitCmd writes a starter config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		dir := filepath.Join(home, ".morespeech")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("✓ Created %s\n", path)
		fmt.Println()
		fmt.Println("API keys are read from the environment, not the config file:")
		fmt.Println("  export OPENAI_API_KEY=...      # for --llm-provider openai")
		fmt.Println("  export ANTHROPIC_API_KEY=...   # for --llm-provider anthropic")
		fmt.Println("  export OLLAMA_BASE_URL=...     # for --llm-provider ollama (optional)")
		return nil
	},
}

const starterConfig = `# More Speech configuration
# Values here are overridden by MORESPEECH_* environment variables and flags.

ranker:
  # Ranking strategy: formula1 or llm
  strategy: formula1
  # Override individual formula1 term constants by name, e.g.
  # weights:
  #   few_words_penalty: -5
  #   boost_replies: 5

cache:
  enabled: true
  # dir defaults to the XDG cache directory
  memory_ttl: 30m
  disk_ttl: 24h

concurrency:
  # workers defaults to the number of CPUs
  # workers: 4

rate_limiting:
  requests_per_second: 2
  burst_size: 5

output:
  dir: ./morespeech-reports
  include_footer: true

llm:
  # Provider: openai, anthropic, ollama, or empty to disable
  provider: ""
  model: gpt-4o-mini
  timeout: 30
  max_tokens: 1000
`

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
