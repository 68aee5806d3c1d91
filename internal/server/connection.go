package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parchment-games/hexcrawl/internal/network"
	"github.com/parchment-games/hexcrawl/pkg/brush"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
	"github.com/parchment-games/hexcrawl/pkg/logger"
	"github.com/parchment-games/hexcrawl/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 65536
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	ws     *websocket.Conn
	server *Server

	// Member information (set after authentication)
	member *models.Member

	// Buffered channel for outbound messages
	send chan []byte

	// Guards send against writes after Close
	sendMu     sync.RWMutex
	sendClosed bool
	closeOnce  sync.Once

	authenticated bool
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		send:   make(chan []byte, 256),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("WebSocket read error")
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			logger.Log.WithError(err).Warn("Failed to parse client message")
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Log.WithError(err).Warn("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to the appropriate handler. Mutating
// message types are gated on the GM role.
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	if !c.authenticated || c.member == nil {
		c.SendError("not_authenticated", "Connection not authenticated")
		return
	}

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin()
	case network.MsgTypeLeave:
		c.handleLeave()
	case network.MsgTypePing:
		c.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypePong,
			Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
		})

	case network.MsgTypePaint, network.MsgTypeErase, network.MsgTypeFloodApply,
		network.MsgTypeSetCellMeta, network.MsgTypeMovePlayers, network.MsgTypeSetSight,
		network.MsgTypeSetRevealMode, network.MsgTypeRevealAll, network.MsgTypeResetExplored,
		network.MsgTypeCopyRegion, network.MsgTypePaste,
		network.MsgTypeBrushPreview, network.MsgTypeFloodPreview, network.MsgTypePastePreview:
		// Previews stay GM-only too: a flood preview would reveal
		// unexplored map structure to players.
		if !c.member.IsGM() {
			c.SendError("forbidden", "Only the GM may edit or preview the map")
			return
		}
		c.handleGMMessage(msg)

	default:
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

func (c *Connection) handleGMMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypePaint:
		c.handlePaint(msg.Payload)
	case network.MsgTypeErase:
		c.handleErase(msg.Payload)
	case network.MsgTypeFloodApply:
		c.handleFloodApply(msg.Payload)
	case network.MsgTypeSetCellMeta:
		c.handleSetCellMeta(msg.Payload)
	case network.MsgTypeMovePlayers:
		c.handleMovePlayers(msg.Payload)
	case network.MsgTypeSetSight:
		c.handleSetSight(msg.Payload)
	case network.MsgTypeSetRevealMode:
		c.handleSetRevealMode(msg.Payload)
	case network.MsgTypeRevealAll:
		c.server.session.RevealAll()
		c.broadcastVisibility()
	case network.MsgTypeResetExplored:
		c.server.session.ResetExplored()
		c.broadcastVisibility()
	case network.MsgTypeCopyRegion:
		c.handleCopyRegion(msg.Payload)
	case network.MsgTypePaste:
		c.handlePaste(msg.Payload)
	case network.MsgTypeBrushPreview:
		c.handleBrushPreview(msg.Payload)
	case network.MsgTypeFloodPreview:
		c.handleFloodPreview(msg.Payload)
	case network.MsgTypePastePreview:
		c.handlePastePreview(msg.Payload)
	}
}

// handleJoin adds the member to the session and sends the initial state
func (c *Connection) handleJoin() {
	c.member.Connected = true
	c.member.ConnectedAt = time.Now()
	c.member.CampaignID = c.server.session.ID

	if err := c.server.session.AddMember(c.member, c); err != nil {
		c.SendError("join_failed", err.Error())
		return
	}

	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			MemberID:   c.member.ID,
			Name:       c.member.Name,
			Role:       string(c.member.Role),
			CampaignID: c.server.session.ID,
		},
	})
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeMapState,
		Payload: c.server.session.MapStateFor(c.member),
	})

	c.server.session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypeMemberJoined,
		Payload: network.MemberJoinedPayload{
			MemberID: c.member.ID,
			Name:     c.member.Name,
			Role:     string(c.member.Role),
		},
	})
}

// handleLeave removes the member from the session
func (c *Connection) handleLeave() {
	if c.member == nil {
		return
	}
	c.server.session.RemoveMember(c.member.ID)
	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type: network.MsgTypeMemberLeft,
		Payload: network.MemberLeftPayload{
			MemberID: c.member.ID,
			Name:     c.member.Name,
		},
	})
}

func (c *Connection) handlePaint(payload json.RawMessage) {
	var p network.PaintPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid paint payload")
		return
	}
	changed, err := c.server.session.Paint(p.Center, p.Size, brush.Shape(p.Shape), p.Content)
	if err != nil {
		c.SendError("paint_failed", err.Error())
		return
	}
	c.broadcastCells(changed)
}

func (c *Connection) handleErase(payload json.RawMessage) {
	var p network.ErasePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid erase payload")
		return
	}
	var cat hexmap.Category
	scoped := false
	if p.Category != "" {
		var ok bool
		if cat, ok = hexmap.ParseCategory(p.Category); !ok {
			c.SendError("invalid_payload", "Unknown erase category: "+p.Category)
			return
		}
		scoped = true
	}
	changed, err := c.server.session.Erase(p.Center, p.Size, brush.Shape(p.Shape), cat, scoped)
	if err != nil {
		c.SendError("erase_failed", err.Error())
		return
	}
	c.broadcastCells(changed)
}

func (c *Connection) handleBrushPreview(payload json.RawMessage) {
	var p network.BrushPreviewPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid brush preview payload")
		return
	}
	coords, err := c.server.session.BrushPreview(p.Center, p.Size, brush.Shape(p.Shape))
	if err != nil {
		c.SendError("preview_failed", err.Error())
		return
	}
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeBrushRegion,
		Payload: network.RegionPayload{Coords: coords},
	})
}

func (c *Connection) handleFloodPreview(payload json.RawMessage) {
	var p network.FloodPreviewPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid flood preview payload")
		return
	}
	region, needsConfirm := c.server.session.FloodPreview(p.Start)
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeFloodRegion,
		Payload: network.RegionPayload{Coords: region, NeedsConfirm: needsConfirm},
	})
}

func (c *Connection) handleFloodApply(payload json.RawMessage) {
	var p network.FloodApplyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid flood apply payload")
		return
	}
	changed, err := c.server.session.FloodApply(p.Start, p.Content, p.Confirmed)
	if err != nil {
		c.SendError("flood_failed", err.Error())
		return
	}
	c.broadcastCells(changed)
}

func (c *Connection) handleSetCellMeta(payload json.RawMessage) {
	var p network.SetCellMetaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid cell meta payload")
		return
	}
	changed, err := c.server.session.SetCellMeta(p.Coord, p.Name, p.Description, p.GMNotes)
	if err != nil {
		c.SendError("meta_failed", err.Error())
		return
	}
	c.broadcastCells(changed)
}

func (c *Connection) handleMovePlayers(payload json.RawMessage) {
	var p network.MovePlayersPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid move players payload")
		return
	}
	c.server.session.MovePlayers(p.Positions)
	c.broadcastVisibility()
}

func (c *Connection) handleSetSight(payload json.RawMessage) {
	var p network.SetSightPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid sight payload")
		return
	}
	if err := c.server.session.SetSight(p.Distance); err != nil {
		c.SendError("sight_failed", err.Error())
		return
	}
	c.broadcastVisibility()
}

func (c *Connection) handleSetRevealMode(payload json.RawMessage) {
	var p network.SetRevealModePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid reveal mode payload")
		return
	}
	mode, ok := network.ParseRevealMode(p.Mode)
	if !ok {
		c.SendError("invalid_reveal_mode", "Reveal mode must be permanent or lineOfSight")
		return
	}
	c.server.session.SetRevealMode(mode)
	c.broadcastVisibility()
}

func (c *Connection) handleCopyRegion(payload json.RawMessage) {
	var p network.CopyRegionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid copy payload")
		return
	}
	state := c.server.session.CopyRegion(p.Selected, p.Origin)
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeClipboardState,
		Payload: state,
	})
}

func (c *Connection) handlePaste(payload json.RawMessage) {
	var p network.PastePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid paste payload")
		return
	}
	changed, err := c.server.session.Paste(p.Target, p.Rotate, p.Mirror, p.Scale)
	if err != nil {
		c.SendError("paste_failed", err.Error())
		return
	}
	c.broadcastCells(changed)
}

func (c *Connection) handlePastePreview(payload json.RawMessage) {
	var p network.PastePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Invalid paste preview payload")
		return
	}
	coords, err := c.server.session.PastePreview(p.Target, p.Rotate, p.Mirror, p.Scale)
	if err != nil {
		c.SendError("preview_failed", err.Error())
		return
	}
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePasteRegion,
		Payload: network.RegionPayload{Coords: coords},
	})
}

// broadcastCells announces mutated cells to every member under the
// per-role visibility filter.
func (c *Connection) broadcastCells(changed hexmap.CellMap) {
	c.server.session.BroadcastCells(changed)
}

// broadcastVisibility announces the recomputed reveal state.
func (c *Connection) broadcastVisibility() {
	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type:    network.MsgTypeVisibilityChanged,
		Payload: c.server.session.VisibilityState(),
	})
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to marshal message")
		return
	}

	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.sendClosed {
		return
	}

	select {
	case c.send <- data:
	default:
		logger.Log.Warn("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection. Safe to call more than once; the read
// pump and server shutdown may both reach it.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.authenticated && c.member != nil {
			c.handleLeave()
		}
		c.sendMu.Lock()
		c.sendClosed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.ws != nil {
			c.ws.Close()
		}
	})
}
