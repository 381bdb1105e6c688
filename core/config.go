package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Shule")
	Conf.SetDefault("snapshotPath", filepath.Join(Getwd(), "data.gob"))
	Conf.SetDefault("adminUsername", "admin")
	Conf.SetDefault("adminPassword", "admin")
	Conf.SetDefault("rollbarToken", "")
	Conf.SetDefault("build", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	Build    string
	AppName  string

	// SnapshotPath is where the whole directory snapshot is persisted.
	SnapshotPath string

	// Admin is the fixed fallback credential checked after all user accounts.
	Admin struct {
		Username string
		Password string
	}

	RollbarToken string
}

// NewConfig materializes the viper state into a Config.
func NewConfig() *Config {
	conf := &Config{
		Debug:        Conf.GetBool("debug"),
		TestMode:     Conf.GetBool("testMode"),
		Env:          Conf.GetString("env"),
		Build:        Conf.GetString("build"),
		AppName:      Conf.GetString("appName"),
		SnapshotPath: Conf.GetString("snapshotPath"),
		RollbarToken: Conf.GetString("rollbarToken"),
	}
	conf.Admin.Username = Conf.GetString("adminUsername")
	conf.Admin.Password = Conf.GetString("adminPassword")
	return conf
}
