package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/catalog"
	"github.com/2beens/fitpulse/internal/config"
	"github.com/2beens/fitpulse/internal/db"
	"github.com/2beens/fitpulse/internal/feed"
	"github.com/2beens/fitpulse/internal/geoip"
	"github.com/2beens/fitpulse/internal/imaging"
	"github.com/2beens/fitpulse/internal/meals"
	mealsmcp "github.com/2beens/fitpulse/internal/meals/mcp"
	"github.com/2beens/fitpulse/internal/middleware"
	"github.com/2beens/fitpulse/internal/misc"
	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/photos"
	"github.com/2beens/fitpulse/internal/progress"
	"github.com/2beens/fitpulse/internal/recognition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	mcpSecret         string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	geoIp       *geoip.Api
	photoStore  photos.Store

	nutritionTable *nutrition.Table
	recognition    *recognition.Stack
	analyzer       *meals.Analyzer

	usersRepo    *auth.UsersRepo
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: secrets.HoneycombEnabled,
	}
	if cfg.RunMigrations {
		if err := db.Migrate(db.ConnString(dbParams)); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(params.VersionInfo, pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	table, err := loadNutritionTable(cfg.NutritionTablePath)
	if err != nil {
		return nil, err
	}

	photoStore, err := newPhotoStore(ctx, cfg, secrets)
	if err != nil {
		return nil, fmt.Errorf("new photo store: %w", err)
	}

	recognitionStack := recognition.NewStack(recognition.StackParams{
		BaseURL:        cfg.RecognitionBaseURL,
		APIKey:         secrets.RecognitionAPIKey,
		ModelID:        cfg.RecognitionModelID,
		HTTPClient:     tracedHttpClient,
		Counter:        recognition.NewRedisUsageCounter(rdb),
		MonthlyQuota:   cfg.RecognitionMonthlyQuota,
		CacheSizeMB:    cfg.RecognitionCacheSizeMB,
		CacheTTLSec:    cfg.RecognitionCacheTTLSec,
		MetricsManager: metricsManager,
	})

	maxDimension, jpegQuality := cfg.ImageMaxDimension, cfg.ImageJPEGQuality
	analyzer := meals.NewAnalyzer(
		recognitionStack.Recognizer,
		nutrition.NewAggregator(table),
		func(photo []byte) ([]byte, error) {
			return imaging.Prepare(photo, maxDimension, jpegQuality)
		},
		cfg.DefaultPortionGrams,
		metricsManager,
	)

	usersRepo := auth.NewUsersRepo(dbPool)
	authService := auth.NewAuthService(usersRepo, auth.DefaultTTL, rdb)
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				authService.ScanAndClean(ctx, now)
			}
		}
	}()

	if missing := secrets.Missing(); len(missing) > 0 {
		log.Warnf("secrets not set, related features degrade: %v", missing)
	}

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,
		mcpSecret:   secrets.MCPSecret,
		geoIp: geoip.NewApi(
			secrets.IpInfoToken,
			tracedHttpClient,
			rdb,
		),
		photoStore: photoStore,

		nutritionTable: table,
		recognition:    recognitionStack,
		analyzer:       analyzer,

		usersRepo:    usersRepo,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func loadNutritionTable(path string) (*nutrition.Table, error) {
	if path == "" {
		return nutrition.DefaultTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nutrition table: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("close nutrition table file: %s", err)
		}
	}()

	table, err := nutrition.LoadTableYAML(f)
	if err != nil {
		return nil, fmt.Errorf("load nutrition table [%s]: %w", path, err)
	}
	log.Infof("nutrition table loaded from %s: %d entries", path, table.Len())

	return table, nil
}

func newPhotoStore(ctx context.Context, cfg *config.Config, secrets *config.Secrets) (photos.Store, error) {
	switch cfg.PhotoStorage {
	case "disk":
		return photos.NewDiskStore(cfg.PhotosDiskRootPath)
	case "s3":
		return photos.NewS3Store(ctx, photos.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: secrets.S3AccessKey,
			SecretKey: secrets.S3SecretKey,
		})
	case "gcs":
		return photos.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown photo storage: %s", cfg.PhotoStorage)
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	misc.NewHandler(s.geoIp, s.versionInfo).SetupRoutes(r)

	// rate limit the /a/* endpoints to prevent abuse
	authRouter := r.PathPrefix("/a").Subrouter()
	auth.NewHandler(s.authService).SetupRoutes(authRouter)
	authRouter.Use(middleware.RateLimit(reqRateLimiter, "login", s.config.LoginRateLimitAllowedPerMin, s.metricsManager))

	catalogRepo := catalog.NewRepo(s.dbPool)
	catalog.NewHandler(catalogRepo).SetupRoutes(r)

	progressTracker := progress.NewTracker(
		progress.NewStore(s.redisClient),
		catalog.NewDurationCache(catalogRepo),
		s.metricsManager,
	)
	progress.NewHandler(progressTracker).SetupRoutes(r)

	feed.NewHandler(feed.NewRepo(s.dbPool), s.usersRepo, s.metricsManager).SetupRoutes(r)

	mealsRepo := meals.NewRepo(s.dbPool)
	mealsHandler := meals.NewHandler(meals.HandlerParams{
		Analyzer:       s.analyzer,
		Repo:           mealsRepo,
		PhotoStore:     s.photoStore,
		Table:          s.nutritionTable,
		Usage:          s.recognition.Quota,
		Progress:       progressTracker,
		Timezones:      s.geoIp,
		MetricsManager: s.metricsManager,
	})
	mealsHandler.SetupRoutes(
		r.PathPrefix("/nutrition").Subrouter(),
		middleware.RateLimit(reqRateLimiter, "analyze", s.config.AnalyzeRateLimitAllowedPerMin, s.metricsManager),
	)

	if s.config.MCPEnabled {
		mcpHandler := mealsmcp.NewHTTPHandler(
			mealsmcp.NewServer(s.dbPool, mealsRepo, s.nutritionTable),
			s.mcpSecret,
		)
		r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if closer, ok := s.photoStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Errorf("failed to close photo store: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
