package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/bap-pick/bab-back/internal/adapters/primary/http"
	chatController "github.com/bap-pick/bab-back/internal/adapters/primary/http/controllers/chat"
	healthcheckController "github.com/bap-pick/bab-back/internal/adapters/primary/http/controllers/healthcheck"
	restaurantsController "github.com/bap-pick/bab-back/internal/adapters/primary/http/controllers/restaurants"
	sajuController "github.com/bap-pick/bab-back/internal/adapters/primary/http/controllers/saju"
	kafkaConsumerAdapter "github.com/bap-pick/bab-back/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/bap-pick/bab-back/internal/adapters/primary/kafka/handlers"
	kafkaAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/kafka"
	llmAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/llm"
	weaviateAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/search/weaviate"
	"github.com/bap-pick/bab-back/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/bap-pick/bab-back/internal/adapters/secondary/storage/s3"
	"github.com/bap-pick/bab-back/internal/ports/cache"
	"github.com/bap-pick/bab-back/internal/ports/geo"
	kafkaPorts "github.com/bap-pick/bab-back/internal/ports/kafka"
	"github.com/bap-pick/bab-back/internal/ports/llm"
	"github.com/bap-pick/bab-back/internal/ports/repository"
	"github.com/bap-pick/bab-back/internal/ports/storage"
	almanacRepo "github.com/bap-pick/bab-back/internal/repository/almanac"
	messageRepo "github.com/bap-pick/bab-back/internal/repository/message"
	restaurantRepo "github.com/bap-pick/bab-back/internal/repository/restaurant"
	roomRepo "github.com/bap-pick/bab-back/internal/repository/room"
	userRepo "github.com/bap-pick/bab-back/internal/repository/user"
	jobScheduler "github.com/bap-pick/bab-back/internal/services/jobs"
	chatUsecase "github.com/bap-pick/bab-back/internal/usecases/chat"
	restaurantUsecase "github.com/bap-pick/bab-back/internal/usecases/restaurant"
	sajuUsecase "github.com/bap-pick/bab-back/internal/usecases/saju"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB            *sqlx.DB
	HTTPServer    *http.Server
	Cache         cache.Cache
	KafkaProducer *kafkaAdapter.Producer
	KafkaConsumer *kafkaConsumerAdapter.Consumer
	JobScheduler  *jobScheduler.Scheduler
	Warmer        *jobScheduler.CacheWarmer
}

// initDependencies builds the full dependency graph.
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)

	ext, err := a.initExternalServices(ctx)
	if err != nil {
		return nil, err
	}

	// Profile reads go through the redis cache once it is up.
	repos.User = userRepo.NewCached(repos.User, ext.Cache, a.Log)

	producer, consumer, err := a.initKafka(repos, ext)
	if err != nil {
		return nil, err
	}

	uc := a.initUseCases(repos, ext)
	httpServer := a.initHTTP(db, repos, ext, uc, producer)

	warmer := jobScheduler.NewCacheWarmer(repos.Restaurant, ext.Geo, ext.Summaries, ext.Searcher, a.Log)
	scheduler := jobScheduler.NewScheduler(a.Log)
	scheduler.Register(warmer)

	return &Dependencies{
		DB:            db,
		HTTPServer:    httpServer,
		Cache:         ext.Cache,
		KafkaProducer: producer,
		KafkaConsumer: consumer,
		JobScheduler:  scheduler,
		Warmer:        warmer,
	}, nil
}

// repositories holds the initialized repositories.
type repositories struct {
	User       repository.IUserRepo
	Almanac    repository.IAlmanacRepo
	Room       repository.IRoomRepo
	Message    repository.IMessageRepo
	Restaurant repository.IRestaurantRepo
}

func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:       userRepo.New(persistenceLayer, a.Log),
		Almanac:    almanacRepo.New(persistenceLayer, a.Log),
		Room:       roomRepo.New(persistenceLayer, a.Log),
		Message:    messageRepo.New(persistenceLayer, a.Log),
		Restaurant: restaurantRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices holds the non-relational backends.
type externalServices struct {
	Cache     cache.Cache
	Geo       geo.Index
	Summaries cache.SummaryCache
	Searcher  *weaviateAdapter.Searcher
	Generator llm.IGenerator
	Images    storage.IS3Client
}

// initExternalServices connects redis, weaviate, the text-generation service
// and (optionally) object storage. Redis and weaviate are mandatory: the
// recommendation flow cannot run without the geo index or the menu corpus.
func (a *App) initExternalServices(ctx context.Context) (*externalServices, error) {
	services := &externalServices{}

	if a.Cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration is missing")
	}
	redisClient, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}
	services.Cache = redisAdapter.NewClient(redisClient)
	services.Geo = redisAdapter.NewGeoIndex(redisClient)
	services.Summaries = redisAdapter.NewSummaryCache(redisClient)
	a.Log.Info("redis connected successfully")

	if a.Cfg.Weaviate == nil {
		return nil, fmt.Errorf("weaviate configuration is missing")
	}
	weaviateClient, err := a.Cfg.Weaviate.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to init weaviate: %w", err)
	}
	services.Searcher = weaviateAdapter.NewSearcher(weaviateClient, a.Log)
	if err := services.Searcher.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("failed to bootstrap search index: %w", err)
	}
	a.Log.Info("weaviate connected successfully")

	if a.Cfg.LLM == nil {
		return nil, fmt.Errorf("llm configuration is missing")
	}
	services.Generator = llmAdapter.NewClient(a.Cfg.LLM, a.Log)

	// Object storage is optional: without it image fields pass through raw.
	if a.Cfg.S3 != nil {
		minioClient, err := a.Cfg.S3.NewClient()
		if err != nil {
			a.Log.Warn("failed to init object storage, continuing without images", "error", err)
		} else {
			services.Images = s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
			a.Log.Info("object storage connected successfully")
		}
	}

	return services, nil
}

// initKafka builds the optional update-event producer and consumer.
func (a *App) initKafka(repos *repositories, ext *externalServices) (*kafkaAdapter.Producer, *kafkaConsumerAdapter.Consumer, error) {
	if a.Cfg.Kafka == nil {
		a.Log.Info("kafka not configured, cache refresh events disabled")
		return nil, nil, nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init kafka producer: %w", err)
	}

	handler := kafkaHandlers.NewRestaurantUpdateHandler(repos.Restaurant, ext.Summaries, ext.Geo, a.Log)
	consumer, err := kafkaConsumerAdapter.NewConsumer(a.Cfg.Kafka, handler, a.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init kafka consumer: %w", err)
	}

	return producer, consumer, nil
}

// useCases holds the initialized use cases.
type useCases struct {
	Saju    *sajuUsecase.Service
	Matcher *restaurantUsecase.Matcher
	Chat    *chatUsecase.Service
}

func (a *App) initUseCases(repos *repositories, ext *externalServices) *useCases {
	sajuService := sajuUsecase.New(repos.Almanac, repos.User, ext.Cache, a.Log)
	matcher := restaurantUsecase.New(ext.Geo, ext.Searcher, ext.Summaries, a.Log)
	chatService := chatUsecase.New(
		repos.Room,
		repos.Message,
		repos.User,
		sajuService,
		matcher,
		ext.Generator,
		a.Log,
	)

	return &useCases{
		Saju:    sajuService,
		Matcher: matcher,
		Chat:    chatService,
	}
}

func (a *App) initHTTP(
	db *sqlx.DB,
	repos *repositories,
	ext *externalServices,
	uc *useCases,
	producer *kafkaAdapter.Producer,
) *http.Server {
	controllers := []server.Controller{
		healthcheckController.New(db, a.Log),
		chatController.New(uc.Chat, a.Log),
		sajuController.New(uc.Saju, repos.User, a.Log),
		restaurantsController.New(uc.Matcher, repos.Restaurant, ext.Images, producerOrNil(producer), a.Log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// producerOrNil keeps a missing producer a nil interface, so the controller
// nil check works.
func producerOrNil(p *kafkaAdapter.Producer) kafkaPorts.IProducer {
	if p == nil {
		return nil
	}
	return p
}
