package wlproto

const (
	opRegistryBind = 0
)

const (
	evRegistryGlobal       = 0
	evRegistryGlobalRemove = 1
)

// RegistryHandlers receives global announcements as the compositor
// enumerates its interfaces.
type RegistryHandlers struct {
	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

// Registry is wl_registry.
type Registry struct {
	conn     *Conn
	id       uint32
	handlers *RegistryHandlers
}

// Bind requests the global named name be instantiated as iface at
// version, returning the newly allocated client-side object ID for
// the caller to wrap in the matching concrete proxy type.
func (r *Registry) Bind(name uint32, iface string, version uint32, d Dispatcher) uint32 {
	id := r.conn.NewID(d)
	e := &encoder{}
	e.putUint32(name)
	e.putString(iface)
	e.putUint32(version)
	e.putNewID(id)
	r.conn.send(r.id, opRegistryBind, e)
	return id
}

func (r *Registry) dispatch(opcode uint16, dec *decoder) error {
	if r.handlers == nil {
		return nil
	}
	switch opcode {
	case evRegistryGlobal:
		name, err := dec.uint32()
		if err != nil {
			return err
		}
		iface, err := dec.string()
		if err != nil {
			return err
		}
		version, err := dec.uint32()
		if err != nil {
			return err
		}
		if r.handlers.OnGlobal != nil {
			r.handlers.OnGlobal(name, iface, version)
		}
	case evRegistryGlobalRemove:
		name, err := dec.uint32()
		if err != nil {
			return err
		}
		if r.handlers.OnGlobalRemove != nil {
			r.handlers.OnGlobalRemove(name)
		}
	}
	return nil
}
