package httpd

import (
	"net/http"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

const (
	resourceTopics  = "topics"
	resourceReplies = "replies"
)

func (h *Handler) GetTopics(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceTopics, resourceReplies)
	if !ok {
		return
	}
	if resource == resourceReplies {
		h.ListReplies(w, r)
		return
	}

	if topicID := keyQuery(r, "topic_id", "id"); topicID != "" {
		topic, err := h.topicService.GetTopic(r.Context(), topicID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, topic)
		return
	}

	topics, err := h.topicService.ListTopics(r.Context(), listOptions(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, topics)
}

func (h *Handler) PostTopics(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceTopics, resourceReplies)
	if !ok {
		return
	}
	if resource == resourceReplies {
		h.CreateReply(w, r)
		return
	}

	var req models.CreateTopicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	topic, err := h.topicService.CreateTopic(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	if !parentResource(r, resourceTopics) {
		h.MethodNotAllowed(w, r)
		return
	}

	var req models.UpdateTopicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	topic, err := h.topicService.UpdateTopic(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, topic)
}

func (h *Handler) DeleteTopics(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceTopics, resourceReplies)
	if !ok {
		return
	}
	if resource == resourceReplies {
		h.DeleteReply(w, r)
		return
	}

	topicID, ok := keyParam(w, r, "topic_id", "id")
	if !ok {
		return
	}

	if err := h.topicService.DeleteTopic(r.Context(), topicID); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "topic")
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.topicService.ListReplies(r.Context(), keyQuery(r, "topic_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, replies)
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReplyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.topicService.CreateReply(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, reply)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	replyID, ok := keyParam(w, r, "reply_id", "id")
	if !ok {
		return
	}

	if err := h.topicService.DeleteReply(r.Context(), replyID); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "reply")
}
