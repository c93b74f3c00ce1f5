package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Topic.Anchor == "" {
		cfg.Topic.Anchor = "kenya"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/govgpt/data/db/documents.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/govgpt/data/indices/bleve"
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".txt", ".md", ".rst"}
	}
	if cfg.Retrieval.Limit == 0 {
		cfg.Retrieval.Limit = 5
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 200
	}
	if cfg.Retrieval.ChunkOverlap == 0 {
		cfg.Retrieval.ChunkOverlap = 40
	}
	if cfg.News.LookbackDays == 0 {
		cfg.News.LookbackDays = 7
	}
	if cfg.News.MaxResults == 0 {
		cfg.News.MaxResults = 10
	}
	if cfg.Videos.RegionCode == "" {
		cfg.Videos.RegionCode = "KE"
	}
	if cfg.Videos.MaxResults == 0 {
		cfg.Videos.MaxResults = 5
	}
	if cfg.Videos.APIKeyEnv == "" {
		cfg.Videos.APIKeyEnv = "YOUTUBE_API_KEY"
	}
	if cfg.Social.InstanceURL == "" {
		cfg.Social.InstanceURL = "https://mastodon.social"
	}
	if cfg.Social.MaxPosts == 0 {
		cfg.Social.MaxPosts = 20
	}
	if cfg.Social.TokenEnv == "" {
		cfg.Social.TokenEnv = "MASTODON_ACCESS_TOKEN"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.0-flash"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 8192
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GEMINI_API_KEY"
	}
}
