package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service is the entry point used by every interaction surface.
type Service struct {
	validator  *Validator
	challenges *Challenges
	sessions   *Manager
	log        *zap.Logger
}

func NewService(validator *Validator, challenges *Challenges, sessions *Manager, log *zap.Logger) *Service {
	return &Service{validator: validator, challenges: challenges, sessions: sessions, log: log}
}

// ProposeChallenge validates the request and opens a pending challenge
// without waiting for the opponent.
func (s *Service) ProposeChallenge(ctx context.Context, req ChallengeRequest) (*Challenge, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		s.log.Info("challenge rejected",
			zap.String("proposer", req.Proposer.ID),
			zap.String("opponent", req.Opponent.ID),
			zap.Error(err))
		return nil, err
	}
	if _, busy := s.sessions.ActiveBetween(req.Proposer.ID, req.Opponent.ID); busy {
		return nil, fmt.Errorf("players already in a session: %w", ErrSessionInProgress)
	}
	return s.challenges.Open(req), nil
}

// Propose validates, opens and then blocks until the challenge resolves or
// ctx ends. A non-accepted outcome is returned together with its error.
func (s *Service) Propose(ctx context.Context, req ChallengeRequest) (ChallengeOutcome, error) {
	c, err := s.ProposeChallenge(ctx, req)
	if err != nil {
		return ChallengeOutcome{}, err
	}
	out := s.challenges.Wait(ctx, c)
	return out, out.Err()
}

// RespondChallenge records the opponent's decision.
func (s *Service) RespondChallenge(ctx context.Context, challengeID, playerID string, accept bool) (ChallengeOutcome, error) {
	return s.challenges.Respond(ctx, challengeID, playerID, accept)
}

// CancelChallenge lets the proposer withdraw a pending challenge.
func (s *Service) CancelChallenge(challengeID, playerID string) error {
	c, err := s.challenges.Get(challengeID)
	if err != nil {
		return err
	}
	if c.Proposer.ID != playerID {
		return ErrNotParticipant
	}
	if !s.challenges.Cancel(challengeID) {
		return ErrChallengeResolved
	}
	return nil
}

func (s *Service) Challenge(challengeID string) (*Challenge, error) {
	return s.challenges.Get(challengeID)
}

func (s *Service) SubmitMove(ctx context.Context, sessionID, playerID, move string) (MoveResult, error) {
	return s.sessions.SubmitMove(ctx, sessionID, playerID, move)
}

// Session returns a snapshot of a live or recently finished session.
func (s *Service) Session(sessionID string) (SessionView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return sess.View(), nil
}

// CancelSession stops a session with no winner and no settlement.
func (s *Service) CancelSession(sessionID, reason string) error {
	return s.sessions.Cancel(sessionID, reason)
}

func (s *Service) Result(sessionID string) (MatchResult, error) {
	return s.sessions.Result(sessionID)
}

// Stats reports live counts for the health endpoint.
func (s *Service) Stats() (pendingChallenges, activeSessions int) {
	return s.challenges.PendingCount(), s.sessions.ActiveCount()
}

func (s *Service) Shutdown() {
	s.sessions.Shutdown()
}
