package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

func newTestStore(t *testing.T) (*Store, DescID) {
	t.Helper()
	s := New(DefaultDescs, nil)
	and, ok := FindDesc(s.Descs(), "and")
	require.True(t, ok)
	return s, and
}

func TestAddComponent(t *testing.T) {
	s, and := newTestStore(t)

	id := s.AddComponent(and, geom.V(100, 50))
	require.Equal(t, KindComponent, id.Kind)

	c, ok := s.Component(id)
	require.True(t, ok)
	assert.Equal(t, geom.V(100, 50), c.Box.Center)
	assert.Equal(t, geom.V(27.5, 30), c.Box.HalfSize)
	assert.Equal(t, "AND", s.LabelText(c.TypeLabel))
	assert.Equal(t, "AND1", s.LabelText(c.NameLabel))

	var names []string
	var positions []geom.Vec
	for p := range s.Ports(id) {
		assert.Equal(t, id, p.Component)
		names = append(names, s.LabelText(p.Label))
		positions = append(positions, p.Position)
	}
	assert.Equal(t, []string{"A", "B", "Y"}, names)
	assert.Equal(t, []geom.Vec{geom.V(-27, -10), geom.V(-27, 10), geom.V(27, 0)}, positions)

	second := s.AddComponent(and, geom.V(0, 0))
	c2, _ := s.Component(second)
	assert.Equal(t, "AND2", s.LabelText(c2.NameLabel))
	assert.Equal(t, 2, s.ComponentCount())
}

func TestAddComponentUnknownDesc(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, NoID, s.AddComponent(DescID(99), geom.V(0, 0)))
	assert.Equal(t, 0, s.ComponentCount())
}

func TestDeleteAndRestoreComponent(t *testing.T) {
	s, and := newTestStore(t)

	var created, deleted []ID
	s.OnComponentCreate(func(id ID) { created = append(created, id) })
	s.OnComponentDelete(func(id ID) { deleted = append(deleted, id) })

	id := s.AddComponent(and, geom.V(10, 10))
	var ports []ID
	for p := range s.Ports(id) {
		ports = append(ports, p.ID)
	}

	require.True(t, s.DeleteComponent(id))
	assert.False(t, s.Valid(id))
	for _, pid := range ports {
		assert.False(t, s.Valid(pid), "port %s should die with its component", pid)
	}
	assert.False(t, s.DeleteComponent(id), "double delete is a no-op")

	require.NoError(t, s.RestoreComponent(id))
	assert.True(t, s.Valid(id))
	for _, pid := range ports {
		assert.True(t, s.Valid(pid))
	}
	c, _ := s.Component(id)
	assert.Equal(t, "AND1", s.LabelText(c.NameLabel))

	assert.Equal(t, []ID{id, id}, created)
	assert.Equal(t, []ID{id}, deleted)

	assert.ErrorIs(t, s.RestoreComponent(id), ErrSlotInUse)
}

func TestRestoreRejectsStaleID(t *testing.T) {
	s, and := newTestStore(t)
	id := s.AddComponent(and, geom.V(0, 0))

	stale := id
	stale.Gen = 7
	require.True(t, s.DeleteComponent(id))
	assert.ErrorIs(t, s.RestoreComponent(stale), ErrNotDeleted)
}

func TestMoveComponentUpdatesEndpoints(t *testing.T) {
	s, and := newTestStore(t)
	id := s.AddComponent(and, geom.V(0, 0))

	var out ID
	for p := range s.Ports(id) {
		if p.Direction == Output {
			out = p.ID
		}
	}

	net := s.AddNet()
	ep := s.AddEndpoint(net, out)
	require.False(t, ep.IsNone())

	require.True(t, s.MoveComponentTo(id, geom.V(100, 0)))
	s.UpdateEndpoints()

	for e := range s.Endpoints(net) {
		assert.Equal(t, geom.V(127, 0), e.Position)
	}
}

func TestWaypointChain(t *testing.T) {
	s, _ := newTestStore(t)

	var deleted []ID
	s.OnWaypointDelete(func(id ID) { deleted = append(deleted, id) })

	net := s.AddNet()
	a := s.AddWaypoint(net, geom.V(0, 0))
	b := s.AddWaypoint(net, geom.V(10, 0))
	c := s.AddWaypoint(net, geom.V(20, 0))
	assert.Equal(t, 3, s.WaypointCount())

	chain := func() []ID {
		var ids []ID
		for w := range s.NetWaypoints(net) {
			ids = append(ids, w.ID)
		}
		return ids
	}
	assert.Equal(t, []ID{a, b, c}, chain())

	require.True(t, s.DeleteWaypoint(b))
	assert.Equal(t, []ID{a, c}, chain())
	require.True(t, s.DeleteWaypoint(a))
	assert.Equal(t, []ID{c}, chain())
	assert.Equal(t, []ID{b, a}, deleted)

	require.True(t, s.MoveWaypointTo(c, geom.V(5, 5)))
	w, _ := s.Waypoint(c)
	assert.Equal(t, geom.V(5, 5), w.Position)
	assert.Equal(t, NoID, s.AddWaypoint(ID{Kind: KindNet, Index: 42}, geom.V(0, 0)))
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "none", NoID.String())
	assert.Equal(t, "waypoint:3.1", ID{Kind: KindWaypoint, Index: 3, Gen: 1}.String())
	assert.True(t, NoID.IsNone())
	assert.False(t, ID{Kind: KindLabel}.IsNone())
}

func TestFindDesc(t *testing.T) {
	id, ok := FindDesc(DefaultDescs, "XOR")
	require.True(t, ok)
	assert.Equal(t, "XOR", DefaultDescs[id].TypeName)

	_, ok = FindDesc(DefaultDescs, "flipflop")
	assert.False(t, ok)

	in, out := DefaultDescs[id].NumPorts()
	assert.Equal(t, 2, in)
	assert.Equal(t, 1, out)
}
