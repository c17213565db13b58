package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/assist"
	"github.com/v0xg/jobgate/internal/config"
	"github.com/v0xg/jobgate/internal/dispatch"
	"github.com/v0xg/jobgate/internal/heuristics"
	"github.com/v0xg/jobgate/internal/host"
	"github.com/v0xg/jobgate/internal/log"
)

var (
	configPath      string
	heuristicsPath  string
	credentialsPath string
	trailDir        string
	provider        string
	model           string
	headless        bool
	verbose         bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "jobgate",
		Short: "Open job application pages and log in to them automatically",
		Long: `jobgate opens job application URLs in Chrome. It can hand the URL to your
running browser, or open a separate automation browser that detects a login
form and fills it with the credentials from your personal data file.

Example:
  jobgate serve
  jobgate login "https://www.myworkday.com/asu/..."`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: ./jobgate.yaml if present)")
	pf.StringVar(&heuristicsPath, "heuristics", "", "Heuristics YAML file (default: built-in lists)")
	pf.StringVar(&credentialsPath, "credentials", "", "Personal data file with login_credentials (default: personal_data.json)")
	pf.StringVar(&trailDir, "trail", "", "Directory to write a GIF trail of each login attempt")
	pf.StringVar(&provider, "assist", "", "Model provider for locating fields the heuristics miss: claude, openai")
	pf.StringVar(&model, "model", "", "Specific model override")
	pf.BoolVar(&headless, "headless", false, "Run the automation browser headless")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	rootCmd.AddCommand(
		newServeCmd(),
		newOpenCmd(),
		newLoginCmd(),
		newProfileCheckCmd(),
		newDetectCmd(),
		newHeuristicsCmd(),
	)

	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs after flags are parsed
type app struct {
	cfg        *config.Config
	set        *heuristics.Set
	dispatcher *dispatch.Dispatcher
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("heuristics") {
		cfg.Heuristics = heuristicsPath
	}
	if flags.Changed("credentials") {
		cfg.Credentials = credentialsPath
	}
	if flags.Changed("trail") {
		cfg.Trail.Dir = trailDir
	}
	if flags.Changed("assist") {
		cfg.Assist.Provider = provider
	}
	if flags.Changed("model") {
		cfg.Assist.Model = model
	}
	if flags.Changed("headless") {
		cfg.Chrome.Headless = headless
	}

	if err := log.InitLogger(cfg.Log.Level, verbose); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	set, err := heuristics.Load(cfg.Heuristics)
	if err != nil {
		return nil, err
	}
	logVerbose("Heuristics: %d login keywords, %d/%d/%d locators",
		len(set.LoginKeywords), len(set.Username.All()), len(set.Password.All()), len(set.Submit.All()))

	d := dispatch.New(cfg, set, host.NewOS(log.Logger), dispatch.Chrome{}, log.Logger)
	if cfg.Assist.Provider != "" {
		p, err := assist.NewProvider(cfg.Assist.Provider, cfg.Assist.Model)
		if err != nil {
			return nil, fmt.Errorf("assist provider init failed: %w", err)
		}
		d.WithSuggester(assist.NewSuggester(p, log.Logger))
		logVerbose("Assist: %s", cfg.Assist.Provider)
	}

	log.Logger.Debug("configuration loaded",
		zap.String("credentials", cfg.Credentials),
		zap.Strings("chrome", cfg.Chrome.Paths),
		zap.String("profile", cfg.Chrome.AutomationProfileDir))

	return &app{cfg: cfg, set: set, dispatcher: d}, nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
