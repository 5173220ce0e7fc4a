package circuit

import (
	"fmt"
	"iter"

	"github.com/flanksource/commons/logger"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Component is a placed instance of a descriptor.
type Component struct {
	ID        ID
	Desc      DescID
	Box       geom.Box
	PortFirst ID
	TypeLabel ID
	NameLabel ID
}

// Port belongs to exactly one component. Position is relative to the
// component center.
type Port struct {
	ID        ID
	Component ID
	Position  geom.Vec
	Direction Direction
	Label     ID
	Next      ID
}

// Waypoint is a free point on a net's wire path.
type Waypoint struct {
	ID       ID
	Net      ID
	Position geom.Vec
	Next     ID
}

// Net owns a chain of endpoints and a chain of waypoints.
type Net struct {
	ID            ID
	EndpointFirst ID
	WaypointFirst ID
}

// Endpoint terminates a net at a port. Position follows the port's world
// location and is refreshed by UpdateEndpoints.
type Endpoint struct {
	ID       ID
	Net      ID
	Port     ID
	Position geom.Vec
	Next     ID
}

// Label is a piece of text with bounds relative to its owner.
type Label struct {
	ID   ID
	Text string
	Box  geom.Box
}

// Store holds every entity of one circuit.
type Store struct {
	descs  []Desc
	layout Layout

	components arena[Component]
	ports      arena[Port]
	waypoints  arena[Waypoint]
	nets       arena[Net]
	endpoints  arena[Endpoint]
	labels     arena[Label]

	instanceCount map[DescID]int

	onComponentCreate []func(ID)
	onComponentDelete []func(ID)
	onWaypointCreate  []func(ID)
	onWaypointDelete  []func(ID)

	log logger.Logger
}

// New creates an empty store over the given descriptor table. A nil layout
// selects DefaultLayout.
func New(descs []Desc, layout Layout) *Store {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &Store{
		descs:         descs,
		layout:        layout,
		components:    arena[Component]{kind: KindComponent},
		ports:         arena[Port]{kind: KindPort},
		waypoints:     arena[Waypoint]{kind: KindWaypoint},
		nets:          arena[Net]{kind: KindNet},
		endpoints:     arena[Endpoint]{kind: KindEndpoint},
		labels:        arena[Label]{kind: KindLabel},
		instanceCount: make(map[DescID]int),
		log:           logger.GetLogger("circuit"),
	}
}

// Descs returns the descriptor table.
func (s *Store) Descs() []Desc {
	return s.descs
}

// Desc returns the descriptor with the given index.
func (s *Store) Desc(id DescID) (Desc, bool) {
	if id < 0 || int(id) >= len(s.descs) {
		return Desc{}, false
	}
	return s.descs[id], true
}

// OnComponentCreate registers fn to run after a component is added or
// restored.
func (s *Store) OnComponentCreate(fn func(ID)) {
	s.onComponentCreate = append(s.onComponentCreate, fn)
}

// OnComponentDelete registers fn to run after a component is deleted.
func (s *Store) OnComponentDelete(fn func(ID)) {
	s.onComponentDelete = append(s.onComponentDelete, fn)
}

// OnWaypointCreate registers fn to run after a waypoint is added.
func (s *Store) OnWaypointCreate(fn func(ID)) {
	s.onWaypointCreate = append(s.onWaypointCreate, fn)
}

// OnWaypointDelete registers fn to run after a waypoint is deleted.
func (s *Store) OnWaypointDelete(fn func(ID)) {
	s.onWaypointDelete = append(s.onWaypointDelete, fn)
}

func notify(fns []func(ID), id ID) {
	for _, fn := range fns {
		fn(id)
	}
}

// Valid reports whether id names a live entity.
func (s *Store) Valid(id ID) bool {
	var ok bool
	switch id.Kind {
	case KindComponent:
		_, ok = s.components.get(id)
	case KindPort:
		_, ok = s.ports.get(id)
	case KindWaypoint:
		_, ok = s.waypoints.get(id)
	case KindNet:
		_, ok = s.nets.get(id)
	case KindEndpoint:
		_, ok = s.endpoints.get(id)
	case KindLabel:
		_, ok = s.labels.get(id)
	}
	return ok
}

// --- Components ---

// AddComponent places a new instance of desc centred on center and returns
// its identifier, or NoID if desc is unknown.
func (s *Store) AddComponent(desc DescID, center geom.Vec) ID {
	d, ok := s.Desc(desc)
	if !ok {
		s.log.Errorf("add component: unknown descriptor %d", desc)
		return NoID
	}

	s.instanceCount[desc]++
	half, positions := s.layout.Component(d)

	id := s.components.add(Component{})
	c, _ := s.components.get(id)
	c.ID = id
	c.Desc = desc
	c.Box = geom.Box{Center: center, HalfSize: half}
	c.TypeLabel = s.AddLabel(d.TypeName)
	c.NameLabel = s.AddLabel(fmt.Sprintf("%s%d", d.TypeName, s.instanceCount[desc]))

	// Build the chain back to front so PortFirst ends up at d.Ports[0].
	next := NoID
	for i := len(d.Ports) - 1; i >= 0; i-- {
		pid := s.ports.add(Port{
			Component: id,
			Position:  positions[i],
			Direction: d.Ports[i].Direction,
			Label:     s.AddLabel(d.Ports[i].Name),
			Next:      next,
		})
		p, _ := s.ports.get(pid)
		p.ID = pid
		next = pid
	}
	c.PortFirst = next

	s.log.Debugf("added %s %s at (%.1f, %.1f)", d.Name, id, center.X, center.Y)
	notify(s.onComponentCreate, id)
	return id
}

// Component looks up a live component.
func (s *Store) Component(id ID) (*Component, bool) {
	return s.components.get(id)
}

// Components iterates live components in creation order.
func (s *Store) Components() iter.Seq[*Component] {
	return s.components.each
}

// ComponentCount returns the number of live components.
func (s *Store) ComponentCount() int {
	return s.components.live
}

// DeleteComponent removes a component together with its ports and labels.
func (s *Store) DeleteComponent(id ID) bool {
	c, ok := s.components.get(id)
	if !ok {
		return false
	}
	for pid := c.PortFirst; !pid.IsNone(); {
		p, ok := s.ports.get(pid)
		if !ok {
			break
		}
		next := p.Next
		s.labels.remove(p.Label)
		s.ports.remove(pid)
		pid = next
	}
	s.labels.remove(c.TypeLabel)
	s.labels.remove(c.NameLabel)
	s.components.remove(id)

	s.log.Debugf("deleted %s", id)
	notify(s.onComponentDelete, id)
	return true
}

// RestoreComponent brings back a deleted component, its ports and labels
// under their original identifiers.
func (s *Store) RestoreComponent(id ID) error {
	if err := s.components.restore(id); err != nil {
		return fmt.Errorf("restore %s: %w", id, err)
	}
	c, _ := s.components.get(id)
	s.restoreLabel(c.TypeLabel)
	s.restoreLabel(c.NameLabel)

	for pid := c.PortFirst; !pid.IsNone(); {
		if err := s.ports.restore(pid); err != nil {
			return fmt.Errorf("restore %s: %w", pid, err)
		}
		p, _ := s.ports.get(pid)
		s.restoreLabel(p.Label)
		pid = p.Next
	}

	s.log.Debugf("restored %s", id)
	notify(s.onComponentCreate, id)
	return nil
}

func (s *Store) restoreLabel(id ID) {
	if id.IsNone() {
		return
	}
	if err := s.labels.restore(id); err != nil {
		s.log.Errorf("restore label %s: %v", id, err)
	}
}

// MoveComponentTo recenters a component.
func (s *Store) MoveComponentTo(id ID, center geom.Vec) bool {
	c, ok := s.components.get(id)
	if !ok {
		return false
	}
	c.Box.Center = center
	return true
}

// Ports iterates the port chain of a component.
func (s *Store) Ports(component ID) iter.Seq[*Port] {
	return func(yield func(*Port) bool) {
		c, ok := s.components.get(component)
		if !ok {
			return
		}
		for pid := c.PortFirst; !pid.IsNone(); {
			p, ok := s.ports.get(pid)
			if !ok || !yield(p) {
				return
			}
			pid = p.Next
		}
	}
}

// Port looks up a live port.
func (s *Store) Port(id ID) (*Port, bool) {
	return s.ports.get(id)
}

// PortWorldPosition returns a port's position in world space.
func (s *Store) PortWorldPosition(id ID) (geom.Vec, bool) {
	p, ok := s.ports.get(id)
	if !ok {
		return geom.Vec{}, false
	}
	c, ok := s.components.get(p.Component)
	if !ok {
		return geom.Vec{}, false
	}
	return geom.Add(c.Box.Center, p.Position), true
}

// --- Labels ---

// AddLabel stores a text label.
func (s *Store) AddLabel(text string) ID {
	id := s.labels.add(Label{Text: text})
	l, _ := s.labels.get(id)
	l.ID = id
	return id
}

// Label looks up a live label.
func (s *Store) Label(id ID) (*Label, bool) {
	return s.labels.get(id)
}

// LabelText returns the text of a label, or "" when id is not live.
func (s *Store) LabelText(id ID) string {
	if l, ok := s.labels.get(id); ok {
		return l.Text
	}
	return ""
}

// --- Nets, endpoints and waypoints ---

// AddNet creates an empty net.
func (s *Store) AddNet() ID {
	id := s.nets.add(Net{})
	n, _ := s.nets.get(id)
	n.ID = id
	return id
}

// Net looks up a live net.
func (s *Store) Net(id ID) (*Net, bool) {
	return s.nets.get(id)
}

// Nets iterates live nets.
func (s *Store) Nets() iter.Seq[*Net] {
	return s.nets.each
}

// AddEndpoint attaches a new endpoint for port to the end of net's chain.
func (s *Store) AddEndpoint(net, port ID) ID {
	n, ok := s.nets.get(net)
	if !ok {
		return NoID
	}
	pos, _ := s.PortWorldPosition(port)
	id := s.endpoints.add(Endpoint{Net: net, Port: port, Position: pos})
	e, _ := s.endpoints.get(id)
	e.ID = id

	if n.EndpointFirst.IsNone() {
		n.EndpointFirst = id
		return id
	}
	last := n.EndpointFirst
	for {
		prev, _ := s.endpoints.get(last)
		if prev.Next.IsNone() {
			prev.Next = id
			return id
		}
		last = prev.Next
	}
}

// Endpoints iterates a net's endpoint chain.
func (s *Store) Endpoints(net ID) iter.Seq[*Endpoint] {
	return func(yield func(*Endpoint) bool) {
		n, ok := s.nets.get(net)
		if !ok {
			return
		}
		for eid := n.EndpointFirst; !eid.IsNone(); {
			e, ok := s.endpoints.get(eid)
			if !ok || !yield(e) {
				return
			}
			eid = e.Next
		}
	}
}

// UpdateEndpoints recomputes every endpoint position from its port's live
// location. Endpoints whose port is gone keep their last position.
func (s *Store) UpdateEndpoints() {
	s.endpoints.each(func(e *Endpoint) bool {
		if pos, ok := s.PortWorldPosition(e.Port); ok {
			e.Position = pos
		}
		return true
	})
}

// AddWaypoint appends a waypoint to net's chain.
func (s *Store) AddWaypoint(net ID, pos geom.Vec) ID {
	if _, ok := s.nets.get(net); !ok {
		return NoID
	}
	id := s.waypoints.add(Waypoint{Net: net, Position: pos})
	w, _ := s.waypoints.get(id)
	w.ID = id

	n, _ := s.nets.get(net)
	if n.WaypointFirst.IsNone() {
		n.WaypointFirst = id
	} else {
		last := n.WaypointFirst
		for {
			prev, _ := s.waypoints.get(last)
			if prev.Next.IsNone() {
				prev.Next = id
				break
			}
			last = prev.Next
		}
	}

	notify(s.onWaypointCreate, id)
	return id
}

// Waypoint looks up a live waypoint.
func (s *Store) Waypoint(id ID) (*Waypoint, bool) {
	return s.waypoints.get(id)
}

// Waypoints iterates all live waypoints in creation order.
func (s *Store) Waypoints() iter.Seq[*Waypoint] {
	return s.waypoints.each
}

// NetWaypoints iterates a net's waypoint chain.
func (s *Store) NetWaypoints(net ID) iter.Seq[*Waypoint] {
	return func(yield func(*Waypoint) bool) {
		n, ok := s.nets.get(net)
		if !ok {
			return
		}
		for wid := n.WaypointFirst; !wid.IsNone(); {
			w, ok := s.waypoints.get(wid)
			if !ok || !yield(w) {
				return
			}
			wid = w.Next
		}
	}
}

// WaypointCount returns the number of live waypoints.
func (s *Store) WaypointCount() int {
	return s.waypoints.live
}

// MoveWaypointTo repositions a waypoint.
func (s *Store) MoveWaypointTo(id ID, pos geom.Vec) bool {
	w, ok := s.waypoints.get(id)
	if !ok {
		return false
	}
	w.Position = pos
	return true
}

// DeleteWaypoint unlinks a waypoint from its net and removes it.
func (s *Store) DeleteWaypoint(id ID) bool {
	w, ok := s.waypoints.get(id)
	if !ok {
		return false
	}
	next := w.Next
	if n, ok := s.nets.get(w.Net); ok {
		if n.WaypointFirst == id {
			n.WaypointFirst = next
		} else {
			for cur := n.WaypointFirst; !cur.IsNone(); {
				prev, ok := s.waypoints.get(cur)
				if !ok {
					break
				}
				if prev.Next == id {
					prev.Next = next
					break
				}
				cur = prev.Next
			}
		}
	}
	s.waypoints.remove(id)

	notify(s.onWaypointDelete, id)
	return true
}
