package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "mealdelivery/internal/adapters/in/http"
	"mealdelivery/internal/adapters/out/kafkasink"
	"mealdelivery/internal/adapters/out/postgres"
	"mealdelivery/internal/adapters/out/pubsub/amqpbus"
	"mealdelivery/internal/adapters/out/pubsub/memory"
	"mealdelivery/internal/adapters/out/pubsub/redisbus"
	"mealdelivery/internal/core/application/fanout"
	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/application/usecases/queries"
	"mealdelivery/internal/core/ports"
	"mealdelivery/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ClosableBroker is an event broker holding a connection that must be
// released at shutdown.
type ClosableBroker interface {
	ports.EventBroker
	Close() error
}

// CompositionRoot builds every handler of the service from shared
// infrastructure: one gorm pool, one event broker and the publisher that
// may mirror the broker to Kafka.
//
// Example:
//
//	root := cmd.NewCompositionRoot(cfg, gormDB, broker, publisher, logger)
//	router, err := root.CreateHTTPRouter()
//	if err != nil {
//	    log.Fatalf("build router: %v", err)
//	}
//	jobs := root.CreateJobManager()
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	broker     ports.EventBroker
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCompositionRoot keeps the dependencies. Nothing is connected or
// started here.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, broker ports.EventBroker, publisher ports.EventPublisher, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		broker:     broker,
		publisher:  publisher,
		logger:     logger,
	}
}

// NewEventBroker connects the backend selected by EVENT_BROKER.
func NewEventBroker(ctx context.Context, cfg Config, logger *slog.Logger) (ClosableBroker, error) {
	switch cfg.EventBroker {
	case BrokerMemory:
		return memory.NewBroker(memory.DefaultBufferSize), nil
	case BrokerRedis:
		broker, err := redisbus.Connect(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		return broker, nil
	case BrokerAMQP:
		broker, err := amqpbus.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return nil, err
		}
		return broker, nil
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnknownEventBroker, cfg.EventBroker)
	}
}

// NewEventPublisher mirrors broker traffic to the Kafka event log when
// brokers are configured. The returned close function releases the sink.
func NewEventPublisher(cfg Config, broker ports.EventBroker, logger *slog.Logger) (ports.EventPublisher, func() error, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return broker, func() error { return nil }, nil
	}

	sink, err := kafkasink.New(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	if err != nil {
		return nil, nil, err
	}
	return fanout.NewMultiPublisher(logger.With("component", "event-publisher"), broker, sink), sink.Close, nil
}

func (c *CompositionRoot) notifier() commands.OrderNotifier {
	return fanout.NewNotifier(c.publisher, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// CreateCreateOrderCommandHandler builds the order placement handler.
func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.notifier())
}

// CreateChangeOrderStatusCommandHandler builds the status transition handler.
func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uowFactoryFunc(), c.notifier())
}

// CreateMarkOrderDeliveredCommandHandler builds the delivery confirmation handler.
func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(c.uowFactoryFunc(), c.notifier())
}

// CreateAssignAgentCommandHandler builds the administrator override handler.
func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.uowFactoryFunc(), c.notifier())
}

// CreateAssignReadyOrdersCommandHandler builds the sweeper run by the job manager.
func (c *CompositionRoot) CreateAssignReadyOrdersCommandHandler() commands.AssignReadyOrdersCommandHandler {
	return commands.NewAssignReadyOrdersCommandHandler(c.uowFactoryFunc(), c.notifier())
}

// CreateGetOrderQueryHandler builds the single order read.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateGetUnassignedOrdersQueryHandler builds the waiting orders listing.
func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

// CreateNotificationHub builds the subscription side of the configured broker.
func (c *CompositionRoot) CreateNotificationHub() *fanout.Hub {
	return fanout.NewHub(c.broker, c.logger)
}

// CreateJobManager schedules the assignment sweeper on ASSIGNMENT_JOB_SCHEDULE.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateAssignReadyOrdersCommandHandler(), c.cfg.AssignmentJobSchedule, c.logger)
}

// CreateHTTPRouter wires every use case into the echo router.
func (c *CompositionRoot) CreateHTTPRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		ChangeStatus:     c.CreateChangeOrderStatusCommandHandler(),
		MarkDelivered:    c.CreateMarkOrderDeliveredCommandHandler(),
		AssignAgent:      c.CreateAssignAgentCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		UnassignedOrders: c.CreateGetUnassignedOrdersQueryHandler(),
		Notifications:    c.CreateNotificationHub(),
	}, c.logger)

	return httpin.NewRouter(server, httpin.NewAuthenticator(c.cfg.JWTSecret), c.cfg.RequestTimeout, c.logger)
}

// FuncOrderUoWFactory adapts a function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

// Create calls f.
func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
