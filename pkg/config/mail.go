package config

// MailConfig configures the outbound mail provider.
type MailConfig struct {
	Provider       string
	DefaultAccount string
	AWSRegion      string
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Provider:       getEnv("MAIL_PROVIDER", "console"),
		DefaultAccount: getEnv("MAIL_DEFAULT_ACCOUNT", "default"),
		AWSRegion:      getEnv("MAIL_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
	}
}

// StorageConfig configures where action definitions are stored.
type StorageConfig struct {
	Provider string
	BasePath string
	Bucket   string
	Prefix   string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
		Bucket:   getEnv("STORAGE_S3_BUCKET", ""),
		Prefix:   getEnv("STORAGE_S3_PREFIX", "vigil"),
	}
}

// DefinitionsConfig configures action definition loading.
type DefinitionsConfig struct {
	Dir string
}

func loadDefinitionsConfig() DefinitionsConfig {
	return DefinitionsConfig{
		Dir: getEnv("DEFINITIONS_DIR", "definitions"),
	}
}
