package hub

// MonitorService gathers hub statistics for the monitoring endpoint.
type MonitorService struct {
	hub *Hub
}

// MonitorResponse is the monitor API payload.
type MonitorResponse struct {
	Status         string     `json:"status"` // "healthy" or "idle"
	TotalConnected int        `json:"totalConnected"`
	TotalRooms     int        `json:"totalRooms"`
	Rooms          []RoomInfo `json:"rooms"`
}

// RoomInfo describes one conversation room and its attached clients.
type RoomInfo struct {
	ConversationID string   `json:"conversationId"`
	Clients        int      `json:"clients"`
	UserIDs        []string `json:"userIds"`
}

// NewMonitorService creates a new monitor service
func NewMonitorService(hub *Hub) *MonitorService {
	return &MonitorService{hub: hub}
}

// GetStats gathers and returns all hub statistics
func (ms *MonitorService) GetStats() MonitorResponse {
	response := MonitorResponse{
		Rooms: make([]RoomInfo, 0),
	}

	for _, bucket := range ms.hub.shards {
		bucket.RLock()
		for conversationID, room := range bucket.rooms {
			userIDs := make([]string, 0, len(room))
			for _, client := range room {
				userIDs = append(userIDs, client.userId)
			}

			response.Rooms = append(response.Rooms, RoomInfo{
				ConversationID: conversationID,
				Clients:        len(room),
				UserIDs:        userIDs,
			})
			response.TotalRooms++
			response.TotalConnected += len(room)
		}
		bucket.RUnlock()
	}

	response.Status = "healthy"
	if response.TotalConnected == 0 {
		response.Status = "idle"
	}
	return response
}
