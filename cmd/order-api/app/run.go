package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhjdev/bartender-order-service-sub000/configs"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/cache"
	apihttp "github.com/jhjdev/bartender-order-service-sub000/internal/adapter/http"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/http/middleware"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/queue"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/repo"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/ws"
	"github.com/jhjdev/bartender-order-service-sub000/internal/logging"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

type App struct {
	Router *gin.Engine
	Hub    *ws.Hub
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	log := logging.New("app")

	// init mongo
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	orderRepo := repo.NewMongoOrderRepo(db)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Warn("index creation failed", "err", err)
	}
	catalogRepo := repo.NewMongoCatalogRepo(db)

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}
	catalog := cache.NewCachingCatalog(rdb, catalogRepo, cfg.Cache.TTL)

	// realtime: websocket hub, plus broker fan-out when enabled
	hub := ws.NewHub(logging.New("ws"))
	notifiers := usecase.MultiNotifier{hub}

	var amqpConn *amqp.Connection
	if cfg.Rabbit.Enabled {
		amqpConn, err = amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, nil, err
		}
		ch, err := amqpConn.Channel()
		if err != nil {
			return nil, nil, err
		}
		broker, err := queue.NewRabbitNotifier(ch, cfg.Rabbit.Exchange, logging.New("amqp"))
		if err != nil {
			return nil, nil, err
		}
		notifiers = append(notifiers, broker)
	}

	// use cases + handlers + router
	orders := usecase.NewOrders(orderRepo, catalog, notifiers)
	h := apihttp.NewOrderHandler(orders)
	th := apihttp.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := apihttp.NewRouter(h, th, authz, hub)

	log.Info("wired", "mongo_db", cfg.Mongo.Database, "broker_enabled", cfg.Rabbit.Enabled)

	cleanup := func() {
		_ = rdb.Close()
		if amqpConn != nil {
			_ = amqpConn.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}

	return &App{Router: router, Hub: hub}, cleanup, nil
}
