package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"readinggame/internal/config"
	"readinggame/internal/database"
	"readinggame/internal/identity"
	"readinggame/internal/localstore"
	"readinggame/internal/logger"
	"readinggame/internal/media"
	"readinggame/internal/repository"
	"readinggame/internal/service"
	"readinggame/migrations"
)

const defaultDiskBaseURL = "http://localhost:8080/storage"

// runtime opens dependencies on first use so each command only connects to what it needs
type runtime struct {
	out        io.Writer
	configFile string

	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	auth    *service.AuthService
	closers []func() error
}

func (rt *runtime) init() error {
	if rt.cfg != nil {
		return nil
	}
	if rt.configFile != "" {
		if err := os.Setenv("CONFIG_FILE", rt.configFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	rt.cfg = cfg
	rt.log = log
	rt.closers = append(rt.closers, func() error {
		log.Sync()
		return nil
	})
	return nil
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
	rt.closers = nil
}

func (rt *runtime) migrationsFS() fs.FS {
	if rt.cfg.MigrationsPath != "" {
		return os.DirFS(rt.cfg.MigrationsPath)
	}
	return migrations.FS
}

// database connects to the remote store and brings its schema up to date
func (rt *runtime) database(ctx context.Context) (*database.DB, error) {
	if rt.db != nil {
		return rt.db, nil
	}
	db, err := database.InitializeWithConfig(rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt.closers = append(rt.closers, db.Close)

	applied, err := db.RunMigrations(ctx, rt.migrationsFS())
	if err != nil {
		return nil, err
	}
	if len(applied) > 0 {
		rt.log.Info("Applied migrations", "files", applied)
	}
	rt.log.Debug("Database ready", "type", db.Dialect.Name())
	rt.db = db
	return db, nil
}

func (rt *runtime) localBackend(ctx context.Context) (localstore.Backend, error) {
	switch strings.ToLower(rt.cfg.LocalBackend) {
	case "memory":
		return localstore.NewMemoryBackend(), nil
	case "sqlite":
		b, err := localstore.OpenSQLite(rt.cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, b.Close)
		return b, nil
	case "redis":
		b, err := localstore.NewRedisBackend(ctx, localstore.RedisOptions{
			Addr:     rt.cfg.RedisAddr,
			Password: rt.cfg.RedisPassword,
			DB:       rt.cfg.RedisDB,
			Prefix:   rt.cfg.RedisPrefix,
		})
		if err != nil {
			rt.log.Warn("Local storage unavailable", "backend", "redis", "error", err)
			return localstore.UnavailableBackend{}, nil
		}
		rt.closers = append(rt.closers, b.Close)
		return b, nil
	default:
		return localstore.UnavailableBackend{}, nil
	}
}

func (rt *runtime) localStore(ctx context.Context) (*localstore.Store, error) {
	backend, err := rt.localBackend(ctx)
	if err != nil {
		return nil, err
	}
	return localstore.New(backend, localstore.WithLogger(rt.log)), nil
}

func (rt *runtime) gameRepository(ctx context.Context) (*repository.GameRepository, error) {
	db, err := rt.database(ctx)
	if err != nil {
		return nil, err
	}
	return repository.NewGameRepository(db,
		repository.WithLogger(rt.log),
		repository.WithCreatedAtOrder(repository.ParseSortDirection(rt.cfg.CreatedAtOrder)),
	), nil
}

func (rt *runtime) authService(ctx context.Context) (*service.AuthService, error) {
	if rt.auth != nil {
		return rt.auth, nil
	}
	if rt.cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set to use accounts")
	}
	db, err := rt.database(ctx)
	if err != nil {
		return nil, err
	}
	mailer, err := service.NewEmailService(ctx, service.EmailConfig{
		AWSRegion:  rt.cfg.AWSRegion,
		FromEmail:  rt.cfg.SESFromEmail,
		FromName:   rt.cfg.SESFromName,
		AppBaseURL: rt.cfg.AppBaseURL,
	}, rt.log)
	if err != nil {
		return nil, err
	}
	rt.auth = service.NewAuthService(repository.NewUserRepository(db), []byte(rt.cfg.JWTSecret), rt.cfg.SessionDuration, mailer, rt.log)
	return rt.auth, nil
}

// ownerContext attaches the acting user to ctx, either directly by id or by
// resolving an access token
func (rt *runtime) publishService(ctx context.Context) (*service.PublishService, error) {
	db, err := rt.database(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewPublishService(repository.NewPublicContentRepository(db, rt.log),
		repository.NewUserRepository(db), rt.cfg.PublishAdmins, rt.log), nil
}

func (rt *runtime) ownerContext(ctx context.Context, userID, token string) (context.Context, error) {
	if token != "" {
		auth, err := rt.authService(ctx)
		if err != nil {
			return nil, err
		}
		return auth.Authenticate(ctx, token)
	}
	if userID == "" {
		return nil, usageErrorf("the remote store needs --user or --token")
	}
	return identity.WithUserID(ctx, userID), nil
}

func (rt *runtime) mediaGateway(ctx context.Context) (*media.Gateway, error) {
	var store media.ObjectStore
	switch strings.ToLower(rt.cfg.MediaBackend) {
	case "s3":
		s, err := media.NewS3Store(ctx, media.S3Config{
			Region:        rt.cfg.AWSRegion,
			Bucket:        rt.cfg.MediaBucket,
			Endpoint:      rt.cfg.S3Endpoint,
			PublicBaseURL: rt.cfg.MediaPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		store = s
	case "gcs":
		s, err := media.NewGCSStore(ctx, media.GCSConfig{
			Bucket:          rt.cfg.MediaBucket,
			CredentialsFile: rt.cfg.GCSCredentialsFile,
			PublicBaseURL:   rt.cfg.MediaPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, s.Close)
		store = s
	default:
		baseURL := rt.cfg.MediaPublicBaseURL
		if baseURL == "" {
			baseURL = defaultDiskBaseURL
		}
		s, err := media.NewDiskStore(rt.cfg.MediaDir, rt.cfg.MediaBucket, baseURL)
		if err != nil {
			return nil, err
		}
		store = s
	}
	return media.NewGateway(store, rt.cfg.MediaBucket, rt.log), nil
}

// storeFlags selects the local or remote store for a command
type storeFlags struct {
	store  string
	userID string
	token  string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.store, "store", "local", "Store to operate on: local or remote")
	flags.StringVar(&f.userID, "user", "", "Owner user id for the remote store")
	flags.StringVar(&f.token, "token", "", "Access token identifying the remote store owner")
}

func (rt *runtime) openStore(ctx context.Context, f storeFlags) (service.GameStore, context.Context, error) {
	switch strings.ToLower(f.store) {
	case "local", "":
		s, err := rt.localStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return s, ctx, nil
	case "remote":
		repo, err := rt.gameRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		ownerCtx, err := rt.ownerContext(ctx, f.userID, f.token)
		if err != nil {
			return nil, nil, err
		}
		return repo, ownerCtx, nil
	default:
		return nil, nil, usageErrorf("unknown store %q: want local or remote", f.store)
	}
}
