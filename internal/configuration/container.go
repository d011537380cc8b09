package configuration

import (
	"Parley/internal/auth"
	"Parley/internal/db"
	"Parley/internal/handler"
	"Parley/internal/hub"
	"Parley/internal/metrics"
	"Parley/internal/model"
	"Parley/internal/repo"
	"Parley/internal/service"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Container struct {
	UserHandler         handler.UserHandler
	ConversationHandler handler.ConversationHandler
	MessageHandler      handler.MessageHandler
	ReactionHandler     handler.ReactionHandler
	TypingHandler       handler.TypingHandler
	UnreadHandler       handler.UnreadHandler

	UserService         service.UserService
	ConversationService service.ConversationService

	Hub      *hub.Hub
	Verifier auth.Verifier
	Config   Config
	Logger   *zap.Logger

	// private - for cleanup
	mongoClient *mongo.Database
}

func BuildContainer(configPath string) (*Container, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	con, err := db.OpenConnection(config.Mongo.Uri, config.Mongo.Database)
	if err != nil {
		return nil, err
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(indexCtx, con); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	metrics.Register()

	userRepo := repo.NewUserRepository(con, db.NewRepository[model.User](con, "users"), logger)
	conversationRepo := repo.NewConversationRepository(con, db.NewRepository[model.Conversation](con, "conversations"), logger)
	messageRepo := repo.NewMessageRepository(con, db.NewRepository[model.Message](con, "messages"), logger)
	reactionRepo := repo.NewReactionRepository(con, db.NewRepository[model.Reaction](con, "reactions"), logger)
	typingRepo := repo.NewTypingRepository(con, db.NewRepository[model.TypingMarker](con, "typing"), logger)
	unreadRepo := repo.NewUnreadRepository(con, db.NewRepository[model.UnreadCounter](con, "unread"), logger)

	eventHub := hub.NewHub(logger, config.Server.AllowedOrigins)

	userService := service.NewUserService(userRepo, conversationRepo, unreadRepo, eventHub, logger)
	conversationService := service.NewConversationService(conversationRepo, userRepo, logger)
	messageService := service.NewMessageService(messageRepo, conversationRepo, eventHub, logger)
	reactionService := service.NewReactionService(reactionRepo, messageRepo, conversationRepo, eventHub, logger)
	typingService := service.NewTypingService(typingRepo, conversationRepo, userRepo, eventHub, logger)
	unreadService := service.NewUnreadService(unreadRepo, conversationRepo, logger)

	return &Container{
		UserHandler:         handler.NewUserHandler(userService),
		ConversationHandler: handler.NewConversationHandler(conversationService, userService),
		MessageHandler:      handler.NewMessageHandler(messageService, userService),
		ReactionHandler:     handler.NewReactionHandler(reactionService, userService),
		TypingHandler:       handler.NewTypingHandler(typingService, userService),
		UnreadHandler:       handler.NewUnreadHandler(unreadService, userService),
		UserService:         userService,
		ConversationService: conversationService,
		Hub:                 eventHub,
		Verifier:            auth.GatewayVerifier{},
		Config:              *config,
		Logger:              logger,
		mongoClient:         con,
	}, nil
}

// Close gracefully shuts down all connections
func (c *Container) Close() error {
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
