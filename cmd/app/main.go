package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/in/http"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/in/rabbitmq"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/out/cache"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/out/logger"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/out/notifier"
	"github.com/mentorloop/mentor-slots-generator/internal/adapters/out/platform"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	"github.com/mentorloop/mentor-slots-generator/internal/core/services/reassignment_service"
	"github.com/mentorloop/mentor-slots-generator/internal/core/services/replacement_service"
	"github.com/mentorloop/mentor-slots-generator/internal/core/services/slot_generator_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	platformAdapter := platform.NewPlatformAdapter(cfg, log.WithModule("PlatformAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, log.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	var notifierAdapter out.NotifierPort
	if cfg.RabbitMQ.Enabled {
		adapter, err := notifier.NewAmqpNotifier(cfg, log.WithModule("AmqpNotifier"))
		if err != nil {
			log.Error("app.notifier.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		notifierAdapter = adapter
		defer func() {
			if err := adapter.Close(); err != nil {
				log.Error("app.notifier.close_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	// Инициализация сервисов
	slotGeneratorService := slot_generator_service.NewSlotGeneratorService(
		platformAdapter,
		cacheAdapter,
		cfg,
		log.WithModule("SlotGeneratorService"),
	)
	replacementService := replacement_service.NewReplacementService(
		platformAdapter,
		log.WithModule("ReplacementService"),
		nil,
	)
	reassignmentService := reassignment_service.NewReassignmentService(
		replacementService,
		notifierAdapter,
		log.WithModule("ReassignmentService"),
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewSlotGeneratorController(
		slotGeneratorService,
		replacementService,
		cfg,
		log.WithModule("SlotGeneratorController"),
	)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewAvailabilityListener(
			cacheAdapter,
			reassignmentService,
			cfg,
			log.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
