package wlproto

import "fmt"

const displayID = 1

const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1
)

const (
	evDisplayError        = 0
	evDisplayDeleteID     = 1
)

// DisplayHandlers mirrors the Handlers-struct callback idiom used
// throughout friedelschoen-ctxmenu's generated proto package: a struct
// of optional OnXxx fields, nil-checked before invocation.
type DisplayHandlers struct {
	OnError func(objectID uint32, code uint32, message string)
}

// Display is the wl_display singleton, always bound to object ID 1.
type Display struct {
	conn     *Conn
	handlers *DisplayHandlers
}

// NewDisplay registers the wl_display singleton on conn.
func NewDisplay(conn *Conn, h *DisplayHandlers) *Display {
	if h == nil {
		h = &DisplayHandlers{}
	}
	d := &Display{conn: conn, handlers: h}
	conn.Register(displayID, d)
	return d
}

// GetRegistry creates the wl_registry singleton used to enumerate and
// bind globals.
func (d *Display) GetRegistry(h *RegistryHandlers) *Registry {
	r := &Registry{conn: d.conn, handlers: h}
	id := d.conn.NewID(r)
	r.id = id

	e := &encoder{}
	e.putNewID(id)
	d.conn.send(displayID, opDisplayGetRegistry, e)
	return r
}

// Sync requests a round-trip callback: the compositor fires OnDone
// once it has processed every request sent before this one, the
// idiom friedelschoen-ctxmenu's wayland.go uses to block until
// globals are bound.
func (d *Display) Sync(h *CallbackHandlers) *Callback {
	cb := &Callback{conn: d.conn, handlers: h}
	id := d.conn.NewID(cb)
	cb.id = id

	e := &encoder{}
	e.putNewID(id)
	d.conn.send(displayID, opDisplaySync, e)
	return cb
}

func (d *Display) dispatch(opcode uint16, dec *decoder) error {
	switch opcode {
	case evDisplayError:
		objID, err := dec.object()
		if err != nil {
			return err
		}
		code, err := dec.uint32()
		if err != nil {
			return err
		}
		msg, err := dec.string()
		if err != nil {
			return err
		}
		if d.handlers.OnError != nil {
			d.handlers.OnError(objID, code, msg)
			return nil
		}
		return fmt.Errorf("wlproto: display error on object %d: [%d] %s", objID, code, msg)
	case evDisplayDeleteID:
		id, err := dec.uint32()
		if err != nil {
			return err
		}
		d.conn.Forget(id)
		return nil
	}
	return nil
}
