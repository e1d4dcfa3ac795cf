package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, topicID string) (*models.Topic, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Topic, error)
	Update(ctx context.Context, topicID string, changes models.TopicChanges) (*models.Topic, error)
	// Delete removes the topic and its replies in one transaction.
	Delete(ctx context.Context, topicID string) (bool, error)

	// CreateReply returns ErrForeignKey when the topic is missing and
	// ErrDuplicate when reply_id is taken.
	CreateReply(ctx context.Context, reply *models.Reply) error
	ListReplies(ctx context.Context, topicID string) ([]models.Reply, error)
	DeleteReply(ctx context.Context, replyID string) (bool, error)
}

type topicRepository struct {
	*PostgresRepository
}

func NewTopicRepository(db *sql.DB, logger zerolog.Logger) TopicRepository {
	return &topicRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (topic_id, subject, message, author)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		topic.TopicID,
		topic.Subject,
		topic.Message,
		topic.Author,
	).Scan(&topic.CreatedAt, &topic.UpdatedAt)

	return translateError(err)
}

func (r *topicRepository) GetByID(ctx context.Context, topicID string) (*models.Topic, error) {
	topic, err := scanTopic(r.db.QueryRowContext(ctx, selectByKey(topicListSpec), topicID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return topic, err
}

func (r *topicRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Topic, error) {
	query, args := topicListSpec.Build(paramsFromOptions(opts))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *topic)
	}

	return topics, rows.Err()
}

func (r *topicRepository) Update(ctx context.Context, topicID string, changes models.TopicChanges) (*models.Topic, error) {
	var u updateBuilder
	if changes.Subject != nil {
		u.set("subject", *changes.Subject)
	}
	if changes.Message != nil {
		u.set("message", *changes.Message)
	}

	query, args := u.Build(topicListSpec, topicID)
	topic, err := scanTopic(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return topic, nil
}

func (r *topicRepository) Delete(ctx context.Context, topicID string) (bool, error) {
	found := false

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "topics", "topic_id", topicID, lockForUpdate)
		if err != nil {
			return fmt.Errorf("failed to lock topic: %w", err)
		}
		if !exists {
			return nil
		}
		found = true

		if _, err := tx.ExecContext(ctx, `DELETE FROM replies WHERE topic_id = $1`, topicID); err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE topic_id = $1`, topicID); err != nil {
			return fmt.Errorf("failed to delete topic: %w", err)
		}
		return nil
	})

	return found, err
}

func (r *topicRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "topics", "topic_id", reply.TopicID, lockForKeyShare)
		if err != nil {
			return fmt.Errorf("failed to check topic: %w", err)
		}
		if !exists {
			return ErrForeignKey
		}

		query := `
			INSERT INTO replies (reply_id, topic_id, text, author)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`
		err = tx.QueryRowContext(ctx, query,
			reply.ReplyID,
			reply.TopicID,
			reply.Text,
			reply.Author,
		).Scan(&reply.CreatedAt)
		return translateError(err)
	})
}

func (r *topicRepository) ListReplies(ctx context.Context, topicID string) ([]models.Reply, error) {
	query, args := replyListSpec.Build(ListParams{Filter: topicID})

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []models.Reply{}
	for rows.Next() {
		var reply models.Reply
		if err := rows.Scan(&reply.ReplyID, &reply.TopicID, &reply.Text, &reply.Author, &reply.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}

	return replies, rows.Err()
}

func (r *topicRepository) DeleteReply(ctx context.Context, replyID string) (bool, error) {
	return deleteByKey(ctx, r.db, replyListSpec, replyID)
}

func scanTopic(row rowScanner) (*models.Topic, error) {
	topic := &models.Topic{}
	err := row.Scan(
		&topic.TopicID,
		&topic.Subject,
		&topic.Message,
		&topic.Author,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return topic, nil
}
