package config

import "github.com/spf13/viper"

// Admin is one entry of the static administrator list. Order in the
// config file is the display order for listings.
type Admin struct {
	ID   int64  `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// Channel is a channel the user must be subscribed to before the bot
// answers interactive requests.
type Channel struct {
	Title  string `mapstructure:"title"`
	URL    string `mapstructure:"url"`
	ChatID int64  `mapstructure:"chat_id"`
}

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token               string
		LogChannelID        int64 `mapstructure:"log_channel_id"`
		SuggestionChannelID int64 `mapstructure:"suggestion_channel_id"`
	} `mapstructure:"telegram"`

	Admins []Admin `mapstructure:"admins"`

	Channels []Channel `mapstructure:"channels"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	SQLite struct {
		Path string
	} `mapstructure:"sqlite"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	// StatusAliases maps localized free-text status names to canonical
	// status codes. Applied before validation on suggestion input.
	StatusAliases map[string]string `mapstructure:"status_aliases"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("sqlite.path", "statusbot.db")
	v.SetDefault("http.addr", ":8080")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
