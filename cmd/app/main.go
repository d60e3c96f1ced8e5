package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"social-service/configs"
	"social-service/internal/activity"
	"social-service/internal/blob"
	"social-service/internal/counter"
	"social-service/internal/engagement"
	"social-service/internal/fanout"
	"social-service/internal/feed"
	"social-service/internal/health"
	"social-service/internal/media"
	"social-service/internal/post"
	"social-service/internal/relay"
	"social-service/internal/shared/httpx"
	"social-service/internal/storage/s3"
	"social-service/internal/store"
	"social-service/internal/story"
	"social-service/internal/user"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		log.Info().Msg("tracing disabled, OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return func(context.Context) error { return nil }
	}
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("otel exporter")
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("social-service"),
		attribute.String("deployment.environment", os.Getenv("DEPLOY_ENV")),
	))
	tp := trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}
	log.Info().Str("config", cfg.String()).Msg("starting social-service")

	ctx := context.Background()
	shutdown := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	st := store.New(store.Config{BaseURL: cfg.StoreBaseURL, AuthToken: cfg.StoreAuthToken})

	var blobs blob.Store
	deps := []health.Dependency{{Name: "store", Ping: st.Ping}}
	switch cfg.StorageBackend {
	case "s3":
		s3st, err := s3.New(s3.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("s3 storage")
		}
		if err := s3st.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("s3 ensure bucket")
		}
		blobs = s3st
		deps = append(deps, health.Dependency{Name: "s3", Ping: s3st.Ping})
	default:
		pool, err := relay.NewPool(cfg.BotTokens, relay.Strategy(cfg.SelectStrategy))
		if err != nil {
			log.Fatal().Err(err).Msg("relay credentials")
		}
		rc := relay.New(pool, relay.Config{ChatID: cfg.ChatID, BaseURL: cfg.RelayBaseURL})
		blobs = rc
		deps = append(deps, health.Dependency{Name: "relay", Ping: rc.Ping})
	}

	var counters counter.Counter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		counters = counter.NewRedis(rdb, st)
		deps = append(deps, health.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		counters = counter.NewStore(st)
	}

	var events *activity.Publisher
	if cfg.KafkaBrokers != "" {
		events = activity.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = events.Close() }()
	}

	notifier := activity.NewNotifier(10 * time.Second)
	fan := fanout.NewWriter(st)
	users := user.NewService(st)
	acts := activity.NewService(st, events)

	mediaH := media.NewHandler(media.NewService(blobs, st, notifier))
	postH := post.NewHandler(post.NewService(blobs, st, fan, users, counters, acts, notifier))
	storyH := story.NewHandler(story.NewService(blobs, st, fan, users, acts, notifier))
	engageH := engagement.NewHandler(engagement.NewService(st, fan, users, counters, acts, notifier))
	feedH := feed.NewHandler(feed.NewService(st, blobs))
	userH := user.NewHandler(users)
	actH := activity.NewHandler(acts)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /health", health.NewHandler(deps...))
	mux.HandleFunc("GET /{$}", discovery)

	open := func(pattern, name string, h http.HandlerFunc) {
		mux.Handle(pattern, otelhttp.NewHandler(h, name))
	}
	protected := func(pattern, name string, h http.HandlerFunc) {
		mux.Handle(pattern, httpx.AuthMiddleware(otelhttp.NewHandler(h, name)))
	}

	protected("POST /upload/", "media.upload", mediaH.Upload)
	open("GET /media/{token}", "media.redirect", mediaH.Redirect)
	open("GET /media/{token}/content", "media.content", mediaH.Content)

	protected("POST /upload-post/", "post.create", postH.Create)
	open("GET /post/{user_id}/{post_id}", "post.get", postH.Get)
	protected("DELETE /post/{user_id}/{post_id}", "post.delete", postH.Delete)

	protected("POST /upload-story/", "story.create", storyH.Create)
	open("GET /stories/{user_id}", "story.list", storyH.List)

	protected("POST /like-post/", "engagement.like", engageH.Like)
	protected("POST /add-comment/", "engagement.comment", engageH.Comment)
	protected("POST /follow-user/", "engagement.follow", engageH.Follow)

	protected("POST /create-user/", "user.create", userH.Create)
	open("GET /user/{user_id}", "user.get", userH.Get)

	open("GET /feed/", "feed.global", feedH.Global)
	open("GET /user-posts/{user_id}", "feed.user", feedH.UserPosts)
	open("GET /activities/{user_id}", "activity.list", actH.List)

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	log.Info().Str("addr", cfg.AppPort).Msg("social-service listening")
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

// discovery answers GET / with the capability document.
func discovery(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, map[string]any{
		"service": "social-service",
		"routes": []string{
			"POST /upload/",
			"GET /media/{token}",
			"GET /media/{token}/content",
			"POST /upload-post/",
			"GET /post/{user_id}/{post_id}",
			"DELETE /post/{user_id}/{post_id}",
			"POST /upload-story/",
			"GET /stories/{user_id}",
			"POST /like-post/",
			"POST /add-comment/",
			"POST /follow-user/",
			"POST /create-user/",
			"GET /user/{user_id}",
			"GET /feed/",
			"GET /user-posts/{user_id}",
			"GET /activities/{user_id}",
			"GET /health",
			"GET /metrics",
		},
	}, http.StatusOK)
}
