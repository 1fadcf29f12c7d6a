package config

import "github.com/joho/godotenv"

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

// LoadDotEnv loads an optional .env file. Variables already set in the
// process environment win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

func LoadApp() (AppConfig, error) {
	LoadDotEnv()
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}
