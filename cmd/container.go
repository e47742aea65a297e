// Root composition root. Owns infrastructure (DB, Redis, AWS, FS) and wires
// the action pipeline. This is the only place that knows about all packages.
package main

import (
	"context"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/authx"
	"github.com/dmichel1/vigil/pkg/config"
	"github.com/dmichel1/vigil/pkg/definitionx"
	"github.com/dmichel1/vigil/pkg/fsx"
	"github.com/dmichel1/vigil/pkg/fsx/fsxlocal"
	"github.com/dmichel1/vigil/pkg/fsx/fsxs3"
	"github.com/dmichel1/vigil/pkg/historyx"
	"github.com/dmichel1/vigil/pkg/historyx/historyxredis"
	"github.com/dmichel1/vigil/pkg/logx"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/mailx/mailxconsole"
	"github.com/dmichel1/vigil/pkg/mailx/mailxpg"
	"github.com/dmichel1/vigil/pkg/mailx/mailxses"
	"github.com/dmichel1/vigil/pkg/templatex"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and the composed action pipeline.
type Container struct {
	Config config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem

	// Pipeline
	Accounts    mailx.AccountStore
	Mail        mailx.Service
	Engine      templatex.Engine
	Factory     *actionx.Factory
	History     historyx.Store
	Definitions *definitionx.Registry

	// Auth
	Tokens *authx.TokenService
	Auth   *authx.Middleware
}

func NewContainer(cfg config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initPipeline()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — DB, Redis, file storage
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database
	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	// 2. Redis
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	// 3. Definition storage
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Provider {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Mail.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		client := s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(client, c.Config.Storage.Bucket, c.Config.Storage.Prefix)
		logx.Infof("  ✅ S3 file system configured (bucket: %s)", c.Config.Storage.Bucket)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.BasePath)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("  ✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_PROVIDER: %s (use 'local' or 's3')", c.Config.Storage.Provider)
	}
}

// ---------------------------------------------------------------------------
// Pipeline — accounts, mail provider, template engine, definitions
// ---------------------------------------------------------------------------

func (c *Container) initPipeline() {
	logx.Info("📦 Initializing action pipeline...")

	c.Accounts = mailxpg.NewPostgresAccountStore(c.DB)

	switch c.Config.Mail.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Mail.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.Mail = mailxses.NewSESService(ses.NewFromConfig(awsCfg), c.Accounts, c.Config.Mail.DefaultAccount)
		logx.Infof("  ✅ SES mail provider configured (region: %s)", c.Config.Mail.AWSRegion)

	case "console":
		c.Mail = mailxconsole.NewConsoleService()
		logx.Info("  ✅ Console mail provider configured")

	default:
		logx.Fatalf("Unknown MAIL_PROVIDER: %s (use 'console' or 'ses')", c.Config.Mail.Provider)
	}

	c.Engine = templatex.NewGoEngine()
	c.Factory = actionx.NewFactory(c.Mail, c.Engine)
	c.History = historyxredis.NewRedisStore(c.Redis, int64(c.Config.Redis.MaxPerWatch))

	c.loadDefinitions()

	c.Tokens = authx.NewTokenService(c.Config.Auth.JWTSecret, c.Config.Auth.TokenTTL, c.Config.Auth.Issuer)
	c.Auth = authx.NewMiddleware(c.Tokens)

	logx.Info("✅ Action pipeline initialized")
}

func (c *Container) loadDefinitions() {
	defs, err := definitionx.LoadDirectory(context.Background(), c.FileSystem, c.Config.Definitions.Dir, c.Factory)
	if err != nil {
		logx.Fatalf("Failed to load action definitions: %v", err)
	}
	c.Definitions = definitionx.NewRegistry(defs)
	logx.Infof("  ✅ Loaded %d action definitions", len(defs))
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
