package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║                                              ║",
		"║     🌱  objseed                              ║",
		"║     Classes • Objects • Items • Links        ║",
		"║                                              ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "objseed",
	Short: "Seed a relational database with a random class/object/item graph",
	Long: `
objseed fills four tables with randomly generated, related rows:

- CLASSES           10 per run
- OBJECTS           1 to 10 per class
- ITEMS             2 to 12 per object, created for that object
- OBJECT_ITEM_LINK  one row per item

A run happens inside a single transaction: it is committed as a whole or
rolled back as a whole.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("objseed CLI version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context,
// which aborts an open seeding transaction.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./objseed.config.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log every statement")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	loadDotEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("objseed.config")
	}

	config.BindEnv(viper.GetViper())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			color.Yellow("⚠️  Could not read config file: %v", err)
		}
	}
}

// loadDotEnv reads .env.local, then .env. Neither overrides a variable that
// is already set, so .env.local wins over .env and the process environment
// wins over both. Missing files are skipped.
func loadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			color.Yellow("⚠️  Could not read %s: %v", name, err)
		}
	}
}

func setupLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
