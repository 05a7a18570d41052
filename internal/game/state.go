package game

// SessionStatus is the lifecycle state of a match.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "IN_PROGRESS"
	StatusFinished   SessionStatus = "FINISHED"
	StatusCancelled  SessionStatus = "CANCELLED"
)

// ChallengeStatus is the state of a pre-match negotiation.
type ChallengeStatus string

const (
	ChallengePending   ChallengeStatus = "PENDING"
	ChallengeAccepted  ChallengeStatus = "ACCEPTED"
	ChallengeDeclined  ChallengeStatus = "DECLINED"
	ChallengeExpired   ChallengeStatus = "EXPIRED"
	ChallengeCancelled ChallengeStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s ChallengeStatus) Terminal() bool { return s != ChallengePending }
