package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type subscriberHandler struct {
	responder   Responder
	logger      zerolog.Logger
	subscribers *services.SubscriberService
}

func newSubscriberHandler(subscribers *services.SubscriberService) subscriberHandler {
	logger := log.With().Str("handlerName", "subscriberHandler").Logger()

	return subscriberHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		subscribers: subscribers,
	}
}

// getSubscribers lists active subscribers
// @Summary Get subscribers
// @Tags Subscribers
// @Produce json
// @Success 200 {array} models.Subscriber
// @Router /api/subscribers [get]
func (h subscriberHandler) getSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscribers, err := h.subscribers.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, subscribers)
	}
}

// subscribe creates or reactivates a subscription
// @Summary Subscribe
// @Tags Subscribers
// @Accept json
// @Produce json
// @Param subscriber body subscribeRequest true "Email to subscribe"
// @Success 201 {object} models.Subscriber
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid email"
// @Failure 409 {object} ErrorResponse "Conflict - Email already subscribed"
// @Router /api/subscribers/subscribe [post]
func (h subscriberHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		subscriber, err := h.subscribers.Subscribe(r.Context(), req.Email)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, subscriber)
	}
}

// unsubscribe deactivates a subscription
// @Summary Unsubscribe
// @Tags Subscribers
// @Produce json
// @Param email path string true "Subscribed email"
// @Success 200 {object} models.Subscriber
// @Failure 404 {object} ErrorResponse "Not Found - Email not found"
// @Router /api/subscribers/unsubscribe/{email} [delete]
func (h subscriberHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := url.PathUnescape(chi.URLParam(r, "email"))
		if err != nil || email == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "must be a valid email address"))
			return
		}

		subscriber, err := h.subscribers.Unsubscribe(r.Context(), email)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, subscriber)
	}
}

// sendEmail emails a single post to any address
// @Summary Send post by email
// @Tags Subscribers
// @Accept json
// @Produce json
// @Param request body sendEmailRequest true "Recipient and post"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Failure 502 {object} ErrorResponse "Bad Gateway - Email delivery failed"
// @Router /api/subscribers/send-email [post]
func (h subscriberHandler) sendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendEmailRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.subscribers.SendPostByEmail(r.Context(), req.Email, req.PostID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "Email sent successfully")
	}
}
