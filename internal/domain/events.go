package domain

// Event names, inbound and outbound, exactly as catalogued in spec §6.
const (
	// Inbound
	EvJoinRoom                        = "join-room"
	EvOffer                           = "offer"
	EvAnswer                          = "answer"
	EvICECandidate                    = "ice-candidate"
	EvUserMuted                       = "user-muted"
	EvUserVideoToggled                = "user-video-toggled"
	EvRaiseHandToggled                = "raise-hand-toggled"
	EvReaction                        = "reaction"
	EvChatMessage                     = "chat-message"
	EvTyping                          = "typing"
	EvHostMuteParticipant             = "host-mute-participant"
	EvHostToggleVideo                 = "host-toggle-video"
	EvHostRemoveParticipant           = "host-remove-participant"
	EvHostTransfer                    = "host-transfer"
	EvRenameParticipant               = "rename-participant"
	EvPing                            = "ping"
	EvReconnectRequest                = "reconnect-request"
	EvStartBreakoutRooms              = "start-breakout-rooms"
	EvEndBreakoutRooms                = "end-breakout-rooms"
	EvCreatePoll                      = "create-poll"
	EvVotePoll                        = "vote-poll"
	EvEndPoll                         = "end-poll"
	EvWhiteboardDraw                  = "whiteboard-draw"
	EvWhiteboardClear                 = "whiteboard-clear"
	EvShareFile                       = "share-file"
	EvDeleteFile                      = "delete-file"
	EvAskQuestion                     = "ask-question"
	EvUpvoteQuestion                  = "upvote-question"
	EvAnswerQuestion                  = "answer-question"
	EvToggleMeetingLock               = "toggle-meeting-lock"
	EvToggleWaitingRoom               = "toggle-waiting-room"
	EvToggleScreenShareRestriction    = "toggle-screen-share-restriction"
	EvToggleChatRestriction           = "toggle-chat-restriction"
	EvScreenShareStarted              = "screen-share-started"
	EvScreenShareStopped              = "screen-share-stopped"
	EvHostSpotlightParticipant        = "host-spotlight-participant"
	EvHostRemoveSpotlight             = "host-remove-spotlight"
	EvError                           = "error"

	// Outbound
	EvConnectionConfirmed   = "connection-confirmed"
	EvUserJoined            = "user-joined"
	EvCurrentParticipants   = "current-participants"
	EvParticipantCount      = "participant-count"
	EvUserLeft              = "user-left"
	EvReactionReceived      = "reaction-received"
	EvUserTyping            = "user-typing"
	EvParticipantForceMuted = "participant-force-muted"
	EvParticipantForceVideo = "participant-force-video-toggle"
	EvForceDisconnect       = "force-disconnect"
	EvHostChanged           = "host-changed"
	EvHostStatusUpdate      = "host-status-update"
	EvParticipantRenamed    = "participant-renamed"
	EvPong                  = "pong"
	EvReconnectResponse     = "reconnect-response"
	EvServerShutdown        = "server-shutdown"
	EvJoinError             = "join-error"
	EvConnectionRecovery    = "connection-recovery"
	EvBreakoutRoomsCreated  = "breakout-rooms-created"
	EvBreakoutRoomsStarted  = "breakout-rooms-started"
	EvAssignedToBreakout    = "assigned-to-breakout-room"
	EvBreakoutRoomsEnded    = "breakout-rooms-ended"
	EvPollCreated           = "poll-created"
	EvPollVote              = "poll-vote"
	EvPollEnded             = "poll-ended"
	EvFileShared            = "file-shared"
	EvFileDeleted           = "file-deleted"
	EvQuestionAsked         = "question-asked"
	EvQuestionUpvoted       = "question-upvoted"
	EvQuestionAnswered      = "question-answered"
	EvMeetingLocked         = "meeting-locked"
	EvWaitingRoomToggled    = "waiting-room-toggled"
	EvScreenShareRestricted = "screen-share-restricted"
	EvChatRestricted        = "chat-restricted"
	EvParticipantSpotlighted = "participant-spotlighted"
	EvSpotlightRemoved      = "spotlight-removed"
)

// --- fixed payload shapes, spec §6 ---

type ConnectionConfirmedPayload struct {
	SocketID      string   `json:"socketId"`
	Timestamp     int64    `json:"timestamp"`
	ServerTime    int64    `json:"serverTime"`
	ServerVersion string   `json:"serverVersion"`
	Features      []string `json:"features"`
}

type UserJoinedPayload = Snapshot

type UserLeftPayload struct {
	ParticipantID string `json:"participantId"`
	UserName      string `json:"userName"`
	Timestamp     int64  `json:"timestamp"`
	Reason        string `json:"reason"`
}

const (
	ReasonDuplicateSession = "duplicate-session"
	ReasonStaleConnection  = "stale-connection"
	ReasonDisconnected     = "disconnected"
	ReasonHostRemoved      = "host-removed"
)

type ParticipantCountPayload struct {
	Count int `json:"n"`
}

type HostStatusUpdatePayload struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type HostChangedPayload struct {
	NewHostID     string                   `json:"newHostId"`
	NewHostName   string                   `json:"newHostName"`
	PreviousHostID string                  `json:"previousHostId"`
	Participants  []ParticipantHostEntry   `json:"participants"`
}

type ParticipantHostEntry struct {
	ID     string `json:"id"`
	IsHost bool   `json:"isHost"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PeerSignalPayload struct {
	Payload  any    `json:"payload"`
	SenderID string `json:"senderId"`
}

type PingPayload struct {
	Timestamp     int64   `json:"timestamp"`
	ServerLoad    float64 `json:"serverLoad"`
	MemoryUsage   float64 `json:"memoryUsage"`
}

type PongPayload struct {
	Timestamp      int64  `json:"timestamp"`
	Healthy        bool   `json:"healthy"`
	LatencyMs      *int64 `json:"latencyMs,omitempty"`
	ReconnectCount int    `json:"reconnectCount"`
}

type ForceDisconnectPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type ReconnectResponsePayload struct {
	Success          bool           `json:"success"`
	UserData         Snapshot       `json:"userData"`
	ConnectionHealth *ConnectionHealth `json:"connectionHealth,omitempty"`
}

type ServerShutdownPayload struct {
	Message          string         `json:"message"`
	Timestamp        int64          `json:"timestamp"`
	RecoveryData     map[string]any `json:"recoveryData"`
	ExpectedDowntime int64          `json:"expectedDowntime"`
}

type ConnectionRecoveryPayload struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type RenameParticipantPayload struct {
	ParticipantID string `json:"id"`
	NewName       string `json:"name"`
}
