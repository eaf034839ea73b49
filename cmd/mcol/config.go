package main

import (
	"github.com/spf13/viper"

	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/notify"
	"github.com/franz/music-collector/internal/util"
)

// DefaultPlaylistName is the live playlist unless overridden
const DefaultPlaylistName = "Critics' Picks"

// DefaultPlaylistDescription goes on newly created playlists
const DefaultPlaylistDescription = "New tracks recommended by music critics, collected automatically. " +
	"Archived quarterly."

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (MCOL_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigInt retrieves an int config value with proper precedence
func GetConfigInt(key string, defaultValue int) int {
	val := viper.GetInt(key)
	if val == 0 {
		return defaultValue
	}
	return val
}

// GetConfigBool retrieves a bool config value
func GetConfigBool(key string) bool {
	return viper.GetBool(key)
}

// setupLogging applies the global verbosity flags
func setupLogging() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// dataDir returns the configured data directory
func dataDir() string {
	return GetConfigString("data", "data")
}

// playlistName returns the configured live playlist name
func playlistName() string {
	return GetConfigString("playlist", DefaultPlaylistName)
}

// catalogConfig builds the Spotify client config from viper
// (MCOL_SPOTIFY_CLIENT_ID etc. or the config file)
func catalogConfig() catalog.Config {
	return catalog.Config{
		ClientID:     viper.GetString("spotify_client_id"),
		ClientSecret: viper.GetString("spotify_client_secret"),
		RefreshToken: viper.GetString("spotify_refresh_token"),
	}
}

// notifyConfig builds the LINE notifier config from viper. All fields
// are optional; notifications are skipped when unset.
func notifyConfig() notify.Config {
	return notify.Config{
		ChannelID:     viper.GetString("line_channel_id"),
		ChannelSecret: viper.GetString("line_channel_secret"),
		UserID:        viper.GetString("line_user_id"),
	}
}
