package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spigell/matchscore/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "matchscore"
	envPrefix = "MATCHSCORE"
)

type Config struct {
	Weights    matching.Weights    `mapstructure:"weights"`
	Thresholds matching.Thresholds `mapstructure:"thresholds"`
	Credit     matching.Credit     `mapstructure:"credit"`
	Comparator *ComparatorConfig   `mapstructure:"comparator"`
	Workers    int                 `mapstructure:"workers"`
}

type ComparatorConfig struct {
	Kind      string          `mapstructure:"kind"`
	Provider  string          `mapstructure:"provider"`
	BatchSize int             `mapstructure:"batch-size"`
	Gemini    *ProviderConfig `mapstructure:"gemini"`
	OpenAI    *ProviderConfig `mapstructure:"openai"`
}

type ProviderConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

// Matching returns the scorer part of the config.
func (c *Config) Matching() matching.Config {
	return matching.Config{
		Weights:    c.Weights,
		Thresholds: c.Thresholds,
		Credit:     c.Credit,
	}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "matchscore scores how well candidate profiles fit job postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchscore.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// setDefaults registers every known key so that environment overrides apply to all of them.
func setDefaults(v *viper.Viper) {
	defaults := matching.DefaultConfig()

	v.SetDefault("weights.skill", defaults.Weights.Skill)
	v.SetDefault("weights.education", defaults.Weights.Education)
	v.SetDefault("weights.title", defaults.Weights.Title)
	v.SetDefault("weights.experience", defaults.Weights.Experience)
	v.SetDefault("thresholds.lexical", defaults.Thresholds.Lexical)
	v.SetDefault("thresholds.semantic", defaults.Thresholds.Semantic)
	v.SetDefault("credit.lexical", defaults.Credit.Lexical)
	v.SetDefault("credit.semantic", defaults.Credit.Semantic)

	v.SetDefault("comparator.kind", "lexical")
	v.SetDefault("comparator.provider", "gemini")
	v.SetDefault("comparator.batch-size", 100)
	for _, provider := range []string{"gemini", "openai"} {
		v.SetDefault("comparator."+provider+".api-key", "")
		v.SetDefault("comparator."+provider+".api-key-file", "")
		v.SetDefault("comparator."+provider+".model", "")
		v.SetDefault("comparator."+provider+".max-retries", 3)
	}

	v.SetDefault("workers", 4)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional; defaults and environment cover every key.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Comparator == nil {
		config.Comparator = &ComparatorConfig{}
	}

	return config, nil
}
