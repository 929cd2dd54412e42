package wlproto

const evCallbackDone = 0

// CallbackHandlers fires once when a wl_callback (from Sync or
// Surface.Frame) completes.
type CallbackHandlers struct {
	OnDone func(callbackData uint32)
}

// Callback is wl_callback: one-shot, self-destroying after OnDone.
type Callback struct {
	conn     *Conn
	id       uint32
	handlers *CallbackHandlers
}

func (c *Callback) dispatch(opcode uint16, dec *decoder) error {
	if opcode != evCallbackDone {
		return nil
	}
	data, err := dec.uint32()
	if err != nil {
		return err
	}
	c.conn.Forget(c.id)
	if c.handlers != nil && c.handlers.OnDone != nil {
		c.handlers.OnDone(data)
	}
	return nil
}
