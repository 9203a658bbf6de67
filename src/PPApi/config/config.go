package config

import (
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/proposalpal/proposalpal/src/PPApi/data"
)

type Config struct {
	Port                string
	RedisURL            string
	GaiaNodeURL         string
	GaiaAPIKey          string
	GaiaModel           string
	BlockfrostURL       string
	BlockfrostProjectID string
	TreasuryAddress     string
	RequiredLovelace    string
	CIPSourceURL        string
	ForumURL            string
}

func Load(db *gorm.DB) Config {
	// Load settings from database
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	return Config{
		Port:                getenv("PORT", "3001"),
		RedisURL:            getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		GaiaNodeURL:         setting("gaia_node_url", "GAIA_NODE_URL", ""),
		GaiaAPIKey:          setting("gaia_api_key", "GAIA_API_KEY", ""),
		GaiaModel:           setting("gaia_model", "GAIA_MODEL_NAME", ""),
		BlockfrostURL:       setting("blockfrost_url", "BLOCKFROST_URL", ""),
		BlockfrostProjectID: setting("blockfrost_project_id", "BLOCKFROST_API_KEY", ""),
		TreasuryAddress:     setting("treasury_address", "PAYMENT_WALLET_ADDRESS", ""),
		RequiredLovelace:    setting("required_lovelace", "PAYMENT_AMOUNT", "5000000"),
		CIPSourceURL:        setting("cip_source_url", "CIP_SOURCE_URL", ""),
		ForumURL:            setting("forum_url", "FORUM_URL", ""),
	}
}

// setting reads from the settings table first, then the environment,
// then the default.
func setting(name, envKey, def string) string {
	if v := data.GetSetting(name); v != "" {
		return v
	}
	return getenv(envKey, def)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
