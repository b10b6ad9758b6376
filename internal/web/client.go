package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/flplima/tmuxy/internal/config"
	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/pane"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

// frameInterval paces momentum coast frames, roughly one display frame.
const frameInterval = 16 * time.Millisecond

// Client is one connected browser. Each client owns a private interaction
// router (copy-mode browsing is per viewer, not shared), fed by the
// server's pane broadcasts and by the client's own events. All router
// access happens on the client's run loop.
type Client struct {
	ID     string
	server *Server
	conn   *websocket.Conn
	router *input.Router
	keys   *config.KeybindRegistry

	inbound chan ClientMessage
	panes   chan []pane.Pane
	out     chan ServerMessage

	viewports map[string]*remoteViewport
	grids     map[string]*tmuxcmd.Grid
	known     map[string]bool
}

func newClient(s *Server, conn *websocket.Conn) *Client {
	tuning, keys := s.clientSettings()
	c := &Client{
		ID:        uuid.NewString(),
		server:    s,
		conn:      conn,
		keys:      keys,
		inbound:   make(chan ClientMessage, 64),
		panes:     make(chan []pane.Pane, 1),
		out:       make(chan ServerMessage, 64),
		viewports: make(map[string]*remoteViewport),
		grids:     make(map[string]*tmuxcmd.Grid),
		known:     make(map[string]bool),
	}
	c.router = input.NewRouter(s.runner, tuning)
	c.router.OnChange = c.pushCopyMode
	return c
}

// UpdatePanes delivers a fresh pane snapshot to the client's run loop.
// Only the latest snapshot matters; a pending older one is replaced.
func (c *Client) UpdatePanes(panes []pane.Pane) {
	select {
	case <-c.panes:
	default:
	}
	c.panes <- panes
}

func (c *Client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.readLoop(ctx, cancel)
	go c.writeLoop(ctx)

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.inbound:
			c.handle(msg)
		case panes := <-c.panes:
			c.applyPanes(panes)
		case now := <-frames.C:
			c.router.Frame(now)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("bad client message", "client", c.ID, "err", err)
			continue
		}
		select {
		case c.inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.out:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

func (c *Client) send(msg ServerMessage) {
	select {
	case c.out <- msg:
	default:
		logger.Warn("dropping message to slow client", "client", c.ID, "type", msg.Type)
	}
}

func (c *Client) handle(msg ClientMessage) {
	now := time.Now()
	ev := input.PointerEvent{
		PaneID: msg.Pane,
		X:      msg.X,
		Y:      msg.Y,
		Button: msg.Button,
		Shift:  msg.Shift,
		Alt:    msg.Alt,
		Ctrl:   msg.Ctrl,
		Time:   now,
	}

	switch msg.Type {
	case MsgPointerDown:
		c.router.PointerDown(ev)
	case MsgPointerMove:
		c.router.PointerMove(ev)
	case MsgPointerUp:
		c.router.PointerUp(ev)
	case MsgPointerOut:
		c.router.PointerLeave(msg.Pane)
	case MsgDoubleClick:
		c.router.DoubleClick(ev)
	case MsgWheel:
		c.router.Wheel(input.WheelEvent{
			PaneID: msg.Pane,
			X:      msg.X,
			Y:      msg.Y,
			DeltaY: msg.DeltaY,
			Shift:  msg.Shift,
			Time:   now,
		})
	case MsgTouchStart:
		c.router.TouchStart(input.TouchEvent{PaneID: msg.Pane, X: msg.X, Y: msg.Y, Time: now})
	case MsgTouchMove:
		c.router.TouchMove(input.TouchEvent{PaneID: msg.Pane, X: msg.X, Y: msg.Y, Time: now})
	case MsgTouchEnd:
		c.router.TouchEnd(input.TouchEvent{PaneID: msg.Pane, X: msg.X, Y: msg.Y, Time: now})
	case MsgLayout:
		if msg.Layout != nil {
			c.router.SetLayout(msg.Pane, msg.Layout.toLayout())
		}
	case MsgScroll:
		if vp := c.viewports[msg.Pane]; vp != nil {
			vp.top = msg.ScrollTop
			vp.max = msg.MaxScrollTop
			c.router.ViewportScrolled(msg.Pane, now)
		}
	case MsgKey:
		c.handleKey(msg.Pane, msg.Key, now)
	default:
		logger.Debug("unknown message type", "client", c.ID, "type", msg.Type)
	}
}

func (c *Client) handleKey(paneID, key string, now time.Time) {
	switch c.keys.ActionFor(key) {
	case "exit_copy_mode":
		c.router.ExitCopyMode(paneID)
	case "copy_selection":
		if text, ok := c.router.CopySelection(paneID); ok {
			c.send(ServerMessage{Type: MsgCopied, Pane: paneID, Text: text})
		}
	case "clear_selection":
		c.router.ClearSelection(paneID)
	case "scroll_up":
		c.router.KeyScroll(paneID, -1, now)
	case "scroll_down":
		c.router.KeyScroll(paneID, 1, now)
	case "page_up":
		c.router.PageScroll(paneID, true, now)
	case "page_down":
		c.router.PageScroll(paneID, false, now)
	case "go_to_top":
		c.router.GoToTop(paneID, now)
	case "go_to_bottom":
		c.router.GoToBottom(paneID)
	}
}

// applyPanes reconciles a remote state push: new panes get a session,
// viewport and grid; vanished panes are torn down; everyone gets the
// refreshed flags. Grids are invalidated because any push may follow new
// output.
func (c *Client) applyPanes(panes []pane.Pane) {
	seen := make(map[string]bool, len(panes))
	payloads := make([]PanePayload, 0, len(panes))

	for _, p := range panes {
		seen[p.ID] = true
		c.router.UpdatePane(p)

		if !c.known[p.ID] {
			c.known[p.ID] = true
			vp := &remoteViewport{client: c, paneID: p.ID}
			c.viewports[p.ID] = vp
			c.router.AttachViewport(p.ID, vp)

			g := tmuxcmd.NewGrid(c.server.runner, p.ID)
			c.grids[p.ID] = g
			c.router.SetGrid(p.ID, g)
		}

		c.grids[p.ID].Invalidate()
		c.router.ContentUpdated(p.ID)

		content, err := c.server.runner.Exec("capture-pane", "-t", p.ID, "-p")
		if err != nil {
			logger.Debug("capture failed", "pane", p.ID, "err", err)
		}
		payloads = append(payloads, panePayload(p, content))
	}

	for id := range c.known {
		if !seen[id] {
			c.router.RemovePane(id)
			delete(c.known, id)
			delete(c.viewports, id)
			delete(c.grids, id)
		}
	}

	c.send(ServerMessage{Type: MsgPanes, Panes: payloads})
}

func (c *Client) pushCopyMode(paneID string) {
	m := c.router.CopyMode(paneID)
	if m == nil {
		return
	}
	msg := ServerMessage{
		Type:      MsgCopyMode,
		Pane:      paneID,
		Active:    m.Active(),
		Offset:    m.Offset(),
		Indicator: c.router.IndicatorVisible(paneID, time.Now()),
	}
	if sel := m.Selection(); sel != nil {
		msg.Selection = &SelectionPayload{
			AnchorRow: sel.Anchor.Row,
			AnchorCol: sel.Anchor.Col,
			CursorRow: sel.Cursor.Row,
			CursorCol: sel.Cursor.Col,
			Mode:      int(sel.Mode),
		}
	}
	c.send(msg)
}

// remoteViewport proxies the browser's scroll container. Reads return the
// last reported position; writes go out as scrollset messages.
type remoteViewport struct {
	client *Client
	paneID string
	top    float64
	max    float64
}

func (v *remoteViewport) ScrollTop() float64 { return v.top }

func (v *remoteViewport) SetScrollTop(px float64) {
	v.top = px
	v.client.send(ServerMessage{Type: MsgScrollSet, Pane: v.paneID, ScrollTop: px})
}

func (v *remoteViewport) MaxScrollTop() float64 { return v.max }
