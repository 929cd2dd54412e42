package wlproto

const opCompositorCreateSurface = 0

// Compositor is wl_compositor. It has no events.
type Compositor struct {
	conn *Conn
	id   uint32
}

// BindCompositor binds the wl_compositor global announced by the
// registry.
func BindCompositor(reg *Registry, name uint32, version uint32) *Compositor {
	c := &Compositor{conn: reg.conn}
	c.id = reg.Bind(name, "wl_compositor", version, c)
	return c
}

func (c *Compositor) dispatch(uint16, *decoder) error { return nil }

// CreateSurface allocates a new wl_surface.
func (c *Compositor) CreateSurface(h *SurfaceHandlers) *Surface {
	s := &Surface{conn: c.conn, handlers: h}
	s.id = c.conn.NewID(s)
	e := &encoder{}
	e.putNewID(s.id)
	c.conn.send(c.id, opCompositorCreateSurface, e)
	return s
}
