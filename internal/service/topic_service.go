package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service/integration"
)

type TopicService interface {
	CreateTopic(ctx context.Context, req *models.CreateTopicRequest) (*models.Topic, error)
	GetTopic(ctx context.Context, topicID string) (*models.Topic, error)
	ListTopics(ctx context.Context, opts models.ListOptions) ([]models.Topic, error)
	UpdateTopic(ctx context.Context, req *models.UpdateTopicRequest) (*models.Topic, error)
	DeleteTopic(ctx context.Context, topicID string) error

	CreateReply(ctx context.Context, req *models.CreateReplyRequest) (*models.Reply, error)
	ListReplies(ctx context.Context, topicID string) ([]models.Reply, error)
	DeleteReply(ctx context.Context, replyID string) error
}

type topicService struct {
	topicRepo repository.TopicRepository
	events    eventEmitter
	logger    zerolog.Logger
}

func NewTopicService(
	topicRepo repository.TopicRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) TopicService {
	return &topicService{
		topicRepo: topicRepo,
		events:    eventEmitter{publisher: publisher, logger: logger},
		logger:    logger,
	}
}

func (s *topicService) CreateTopic(ctx context.Context, req *models.CreateTopicRequest) (*models.Topic, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	topic := &models.Topic{
		TopicID: req.TopicID,
		Subject: req.Subject,
		Message: req.Message,
		Author:  req.Author,
	}

	if err := s.topicRepo.Create(ctx, topic); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTopicExists
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.logger.Info().
		Str("topic_id", topic.TopicID).
		Str("author", topic.Author).
		Msg("Topic created")

	s.events.emit(ctx, models.EventTopicCreated, topic.TopicID, "")

	return topic, nil
}

func (s *topicService) GetTopic(ctx context.Context, topicID string) (*models.Topic, error) {
	if topicID == "" {
		return nil, MissingParam("topic_id")
	}

	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}

	return topic, nil
}

func (s *topicService) ListTopics(ctx context.Context, opts models.ListOptions) ([]models.Topic, error) {
	topics, err := s.topicRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	return topics, nil
}

func (s *topicService) UpdateTopic(ctx context.Context, req *models.UpdateTopicRequest) (*models.Topic, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if changes.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	topic, err := s.topicRepo.Update(ctx, req.TopicID, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}

	s.logger.Info().
		Str("topic_id", topic.TopicID).
		Msg("Topic updated")

	return topic, nil
}

func (s *topicService) DeleteTopic(ctx context.Context, topicID string) error {
	if topicID == "" {
		return MissingParam("topic_id")
	}

	deleted, err := s.topicRepo.Delete(ctx, topicID)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if !deleted {
		return ErrTopicNotFound
	}

	s.logger.Info().
		Str("topic_id", topicID).
		Msg("Topic deleted with replies")

	s.events.emit(ctx, models.EventTopicDeleted, topicID, "")

	return nil
}

func (s *topicService) CreateReply(ctx context.Context, req *models.CreateReplyRequest) (*models.Reply, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		ReplyID: req.ReplyID,
		TopicID: req.TopicID,
		Text:    req.Text,
		Author:  req.Author,
	}

	if err := s.topicRepo.CreateReply(ctx, reply); err != nil {
		switch {
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrTopicNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrReplyExists
		}
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.logger.Info().
		Str("reply_id", reply.ReplyID).
		Str("topic_id", reply.TopicID).
		Msg("Reply created")

	s.events.emit(ctx, models.EventReplyCreated, reply.ReplyID, reply.TopicID)

	return reply, nil
}

func (s *topicService) ListReplies(ctx context.Context, topicID string) ([]models.Reply, error) {
	if topicID == "" {
		return nil, MissingParam("topic_id")
	}

	replies, err := s.topicRepo.ListReplies(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	return replies, nil
}

func (s *topicService) DeleteReply(ctx context.Context, replyID string) error {
	if replyID == "" {
		return MissingParam("reply_id")
	}

	deleted, err := s.topicRepo.DeleteReply(ctx, replyID)
	if err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}
	if !deleted {
		return ErrReplyNotFound
	}

	return nil
}
