package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/metrics"
	"maturity_backend/internal/quiz/repository"
	"maturity_backend/internal/quiz/transport"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"

	"github.com/google/uuid"
)

// Service drives quiz sessions through the response collector.
type Service struct {
	store repository.SessionStore
	cat   *catalog.Catalog
	log   *logger.Logger
	now   func() time.Time
}

// New creates a quiz service.
func New(store repository.SessionStore, cat *catalog.Catalog, log *logger.Logger) *Service {
	return &Service{store: store, cat: cat, log: log, now: time.Now}
}

// Catalog returns the catalog as exposed to clients.
func (s *Service) Catalog() transport.CatalogResponse {
	return transport.CatalogResponse{
		Categories:     s.cat.Categories(),
		Levels:         s.cat.Levels(),
		TotalQuestions: s.cat.TotalQuestions(),
	}
}

// Start opens a session positioned at the first question.
func (s *Service) Start(ctx context.Context) (transport.SessionResponse, error) {
	sess := repository.Session{
		ID:        uuid.NewString(),
		State:     assessment.NewCollector(s.cat).State(),
		StartedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return transport.SessionResponse{}, err
	}
	c, _ := assessment.RestoreCollector(s.cat, sess.State)
	return s.toResponse(sess.ID, c), nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (transport.SessionResponse, error) {
	_, c, err := s.load(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return s.toResponse(id, c), nil
}

// errSessionCompleted keeps the answers scored at completion from changing.
func errSessionCompleted() error {
	return apperr.Conflict("quiz session is already completed")
}

// Answer records an answer, overwriting any earlier one for the question.
func (s *Service) Answer(ctx context.Context, id string, req transport.AnswerRequest) (transport.SessionResponse, error) {
	sess, c, err := s.load(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if c.Completed() {
		return transport.SessionResponse{}, errSessionCompleted()
	}
	if err := c.RecordAnswer(req.QuestionID, req.Value); err != nil {
		switch {
		case errors.Is(err, assessment.ErrUnknownQuestion):
			return transport.SessionResponse{}, apperr.Validation("unknown question").WithDetails(map[string]string{"questionId": req.QuestionID})
		case errors.Is(err, assessment.ErrInvalidOption):
			return transport.SessionResponse{}, apperr.Validation("value is not an option of the question").WithDetails(map[string]string{"value": strconv.Itoa(req.Value)})
		}
		return transport.SessionResponse{}, err
	}
	return s.save(ctx, sess, c)
}

// Next advances the cursor. The current question must be answered; at the
// last question the session is marked completed and the scored result is returned.
func (s *Service) Next(ctx context.Context, id string) (transport.SessionResponse, error) {
	sess, c, err := s.load(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if !c.CanAdvance() {
		return transport.SessionResponse{}, apperr.BadRequest("answer the current question before advancing")
	}
	wasCompleted := c.Completed()
	if c.Advance() && !wasCompleted {
		result := assessment.Evaluate(c.Answers(), s.cat)
		metrics.QuizCompleted.WithLabelValues(strconv.Itoa(result.Scores.Level)).Inc()
		s.log.WithContext(ctx).Info("quiz completed", "sessionId", id, "level", result.Scores.Level, "overall", result.Scores.Overall)
	}
	return s.save(ctx, sess, c)
}

// Previous moves the cursor back; a no-op at the first question.
// Completed sessions are frozen.
func (s *Service) Previous(ctx context.Context, id string) (transport.SessionResponse, error) {
	sess, c, err := s.load(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if c.Completed() {
		return transport.SessionResponse{}, errSessionCompleted()
	}
	c.Retreat()
	return s.save(ctx, sess, c)
}

// CompletedResult scores a completed session. It fails with a precondition
// error while the session is still in progress.
func (s *Service) CompletedResult(ctx context.Context, id string) (assessment.Result, map[string]string, error) {
	_, c, err := s.load(ctx, id)
	if err != nil {
		return assessment.Result{}, nil, err
	}
	if !c.Completed() {
		return assessment.Result{}, nil, apperr.Precondition("quiz session is not completed")
	}
	answers := c.Answers()
	return assessment.Evaluate(answers, s.cat), answers, nil
}

// Evaluate scores an arbitrary answer set.
func (s *Service) Evaluate(answers map[string]string) assessment.Result {
	return assessment.Evaluate(answers, s.cat)
}

func (s *Service) load(ctx context.Context, id string) (repository.Session, *assessment.Collector, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return repository.Session{}, nil, apperr.NotFound("quiz session not found")
		}
		return repository.Session{}, nil, err
	}
	c, err := assessment.RestoreCollector(s.cat, sess.State)
	if err != nil {
		s.log.WithContext(ctx).Warn("discarding unreadable quiz session", "sessionId", id, "error", err)
		_ = s.store.Delete(ctx, id)
		return repository.Session{}, nil, apperr.NotFound("quiz session not found")
	}
	return sess, c, nil
}

func (s *Service) save(ctx context.Context, sess repository.Session, c *assessment.Collector) (transport.SessionResponse, error) {
	sess.State = c.State()
	if err := s.store.Save(ctx, sess); err != nil {
		return transport.SessionResponse{}, err
	}
	return s.toResponse(sess.ID, c), nil
}

func (s *Service) toResponse(id string, c *assessment.Collector) transport.SessionResponse {
	resp := transport.SessionResponse{
		SessionID: id,
		Question:  c.Current(),
		Cursor:    c.Cursor(),
		Total:     s.cat.TotalQuestions(),
		Progress:  c.Progress(),
		Answered:  c.CanAdvance(),
		Answers:   c.Answers(),
		Completed: c.Completed(),
	}
	if resp.Completed {
		result := assessment.Evaluate(resp.Answers, s.cat)
		resp.Result = &result
	}
	return resp
}
