package constant

// Inbound websocket events (client -> server)
const (
	EventSendMessage    = "sendMessage"
	EventUserOnline     = "userOnline"
	EventUserOffline    = "userOffline"
	EventSearchUsers    = "searchUsers"
	EventBlockUser      = "blockUser"
	EventUnblockUser    = "unblockUser"
	EventGetOnlineUsers = "getOnlineUsers"
)

// Outbound websocket events (server -> client). userOnline and userOffline
// share their names with the inbound toggles.
const (
	EventAllUsers           = "allUsers"
	EventOfflineMessages    = "offlineMessages"
	EventBlockedUsers       = "blockedUsers"
	EventUserJoined         = "userJoined"
	EventUserDropped        = "userDropped"
	EventOnlineUsers        = "onlineUsers"
	EventMessageReceived    = "messageReceived"
	EventSearchResults      = "searchResults"
	EventUserBlocked        = "userBlocked"
	EventUserUnblocked      = "userUnblocked"
	EventError              = "error"
	EventSystemAnnouncement = "systemAnnouncement"
)

// Domain events published on the NATS bus.
const (
	DomainEventUserBlocked        = "USER_BLOCKED"
	DomainEventUserUnblocked      = "USER_UNBLOCKED"
	DomainEventMessageQueued      = "MESSAGE_QUEUED"
	DomainEventSystemAnnouncement = "SYSTEM_ANNOUNCEMENT"
)

// Presence transitions carried on the in-process bus.
const (
	PresenceTopic = "chat.presence"

	PresenceJoined  = "joined"
	PresenceDropped = "dropped"
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)
