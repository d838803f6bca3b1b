package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"

	"github.com/conneroisu/weld/internal/bridge"
	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/snapshot"
)

// clientMessage is one command from the driving client.
type clientMessage struct {
	Type  string          `json:"type"`
	ID    string          `json:"id,omitempty"`
	Tag   string          `json:"tag,omitempty"`
	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Data  string          `json:"data,omitempty"`
}

// serverMessage is one notification to the driving client.
type serverMessage struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	HTML   string `json:"html,omitempty"`
	Event  string `json:"event,omitempty"`
	Detail any    `json:"detail,omitempty"`
	Data   string `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// sessionElement pairs an instance with the class it was created from.
type sessionElement struct {
	el    *host.Element
	class *bridge.ElementClass
}

// session is one WebSocket connection driving its own document. Elements are
// exclusively owned by the session; nothing is shared between connections
// except the definition registry and function registry.
type session struct {
	server   *Server
	conn     *websocket.Conn
	doc      *host.Document
	elements map[string]sessionElement
}

func newSession(s *Server, conn *websocket.Conn) *session {
	return &session{
		server:   s,
		conn:     conn,
		doc:      host.NewDocument(),
		elements: make(map[string]sessionElement),
	}
}

// run processes client messages until the connection closes.
func (s *session) run(ctx context.Context) {
	defer func() { _ = s.conn.Close(websocket.StatusNormalClosure, "session over") }()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(ctx, serverMessage{Type: "error", Error: "malformed message"})
			continue
		}
		if err := s.handle(ctx, msg); err != nil {
			s.send(ctx, serverMessage{Type: "error", ID: msg.ID, Error: err.Error()})
		}
	}
}

// handle executes one command, flushes the document turn, and reports the
// affected element's rendered output.
func (s *session) handle(ctx context.Context, msg clientMessage) error {
	switch msg.Type {
	case "create":
		class, ok := s.server.registry.Get(msg.Tag)
		if !ok {
			return fmt.Errorf("unknown tag %q", msg.Tag)
		}
		el := class.NewElement(s.doc)
		s.elements[msg.ID] = sessionElement{el: el, class: class}
		// Forward every declared event to the client.
		for _, spec := range class.EventSpecs() {
			eventType := spec.Type
			id := msg.ID
			el.AddEventListener(eventType, func(ev host.CustomEvent) {
				s.send(ctx, serverMessage{
					Type:   "event",
					ID:     id,
					Event:  eventType,
					Detail: ev.Detail,
				})
			})
		}
		return nil

	case "connect":
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		if err := el.Connect(); err != nil {
			return err
		}
		return s.flushAndRender(ctx, msg.ID, el)

	case "disconnect":
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		el.Disconnect()
		return nil

	case "set-attribute":
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		var value string
		if err := json.Unmarshal(msg.Value, &value); err != nil {
			return fmt.Errorf("attribute value must be a string")
		}
		el.SetAttribute(msg.Name, value)
		return s.flushAndRender(ctx, msg.ID, el)

	case "remove-attribute":
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		el.RemoveAttribute(msg.Name)
		return s.flushAndRender(ctx, msg.ID, el)

	case "set-property":
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		var value any
		if err := json.Unmarshal(msg.Value, &value); err != nil {
			return fmt.Errorf("malformed property value")
		}
		if err := el.SetProperty(msg.Name, value); err != nil {
			return err
		}
		return s.flushAndRender(ctx, msg.ID, el)

	case "dispatch":
		// External listeners driving behavior: deliver an event to the
		// element from the outside.
		el, err := s.element(msg.ID)
		if err != nil {
			return err
		}
		var detail any
		if len(msg.Value) > 0 {
			if err := json.Unmarshal(msg.Value, &detail); err != nil {
				return fmt.Errorf("malformed event detail")
			}
		}
		el.DispatchEvent(host.CustomEvent{Type: msg.Name, Detail: detail})
		return s.flushAndRender(ctx, msg.ID, el)

	case "snapshot":
		se, ok := s.elements[msg.ID]
		if !ok {
			return fmt.Errorf("unknown element id %q", msg.ID)
		}
		snap := snapshot.Capture(se.el.Tag(), se.class.PropSpecs(), func(name string) (any, bool) {
			return se.el.Property(name)
		})
		encoded, err := encodeSnapshot(snap)
		if err != nil {
			return err
		}
		s.send(ctx, serverMessage{Type: "snapshot", ID: msg.ID, Data: encoded})
		return nil

	case "restore":
		se, ok := s.elements[msg.ID]
		if !ok {
			return fmt.Errorf("unknown element id %q", msg.ID)
		}
		raw, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			return fmt.Errorf("malformed snapshot data")
		}
		snap, err := snapshot.Decode(raw)
		if err != nil {
			return err
		}
		if err := snapshot.Apply(snap, se.class.PropSpecs(), se.el.SetProperty); err != nil {
			return err
		}
		return s.flushAndRender(ctx, msg.ID, se.el)

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (s *session) element(id string) (*host.Element, error) {
	se, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("unknown element id %q", id)
	}
	return se.el, nil
}

// flushAndRender drains the document turn and sends the element's current
// rendered markup. Render errors surface to the client as error messages,
// matching the propagation policy: the mutation's caller sees the failure.
func (s *session) flushAndRender(ctx context.Context, id string, el *host.Element) error {
	if err := s.doc.FlushTurn(); err != nil {
		return err
	}
	s.send(ctx, serverMessage{
		Type: "render",
		ID:   id,
		HTML: el.Container().HTML(),
	})
	return nil
}

// encodeSnapshot serializes element prop state for the state-preservation
// protocol message.
func encodeSnapshot(snap snapshot.ElementSnapshot) (string, error) {
	data, err := snapshot.Encode(snap)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *session) send(ctx context.Context, msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = s.conn.Write(ctx, websocket.MessageText, data)
}
