package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"stagehand/internal/shared/config"

	"gorm.io/gorm"
)

// Service owns the notification pipeline: the producer the dispatcher
// publishes through and the consumer workers draining the topic into SMTP
type Service struct {
	cfg        *config.Config
	producer   NotificationProducer
	consumer   NotificationConsumer
	dispatcher *Dispatcher

	isRunning bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewService(cfg *config.Config, db *gorm.DB) (*Service, error) {
	// SMTP when configured, process log otherwise
	var emailService EmailService
	if cfg.Email.SMTPHost != "" {
		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email))
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	} else {
		emailService = NewLogEmailService()
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		cfg:        cfg,
		producer:   producer,
		consumer:   consumer,
		dispatcher: NewDispatcher(db, producer),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Dispatcher exposes the registration-facing hook
func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	if err := s.consumer.StartConsumers(s.ctx, s.cfg.Kafka.ConsumerWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	s.isRunning = true
	log.Printf("notification service started with %d workers", s.cfg.Kafka.ConsumerWorkers)
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()

	if err := s.consumer.Stop(); err != nil {
		log.Printf("error stopping notification consumer: %v", err)
	}
	if err := s.producer.Close(); err != nil {
		log.Printf("error closing notification producer: %v", err)
	}

	s.isRunning = false
	return nil
}
