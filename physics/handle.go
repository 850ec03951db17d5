package physics

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics/engine"
)

// Handle identifies a body in a PhysicsWorld. The low 32 bits hold the slot,
// the high 32 bits the slot's generation at creation time.
type Handle uint64

// NoHandle is the unset handle. The world never issues it.
const NoHandle Handle = 0

type slotID uint32
type generation uint32

const handleSlotBits = 32

func makeHandle(slot slotID, gen generation) Handle {
	return Handle(uint64(gen)<<handleSlotBits | uint64(slot))
}

func (h Handle) slot() slotID {
	return slotID(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> handleSlotBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

func (h Handle) Valid() bool {
	return h != NoHandle
}

// Poser receives a body's simulated pose.
type Poser interface {
	SetWorldPosition(p mgl64.Vec3)
	SetWorldRotation(q mgl64.Quat)
}

type bodyRecord struct {
	handle Handle
	body   engine.Body
	node   Poser
}

// handleTable maps handles to live bodies. Slots are 1-based and recycled
// through a free list; each reuse bumps the slot generation so old handles
// stop resolving. Live records stay dense in creation order.
type handleTable struct {
	gen    []generation
	free   []slotID
	sparse []int
	dense  []*bodyRecord
}

func (t *handleTable) insert(body engine.Body, node Poser) Handle {
	var slot slotID
	if len(t.free) > 0 {
		slot = t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
	} else {
		t.gen = append(t.gen, 1)
		t.sparse = append(t.sparse, -1)
		slot = slotID(len(t.gen))
	}

	h := makeHandle(slot, t.gen[slot-1])
	t.dense = append(t.dense, &bodyRecord{handle: h, body: body, node: node})
	t.sparse[slot-1] = len(t.dense) - 1
	return h
}

func (t *handleTable) get(h Handle) (*bodyRecord, bool) {
	slot := h.slot()
	if slot == 0 || int(slot) > len(t.gen) {
		return nil, false
	}
	if t.gen[slot-1] != h.generation() {
		return nil, false
	}
	idx := t.sparse[slot-1]
	if idx < 0 || idx >= len(t.dense) {
		return nil, false
	}
	return t.dense[idx], true
}

func (t *handleTable) remove(h Handle) (*bodyRecord, bool) {
	rec, ok := t.get(h)
	if !ok {
		return nil, false
	}
	slot := h.slot()
	idx := t.sparse[slot-1]

	copy(t.dense[idx:], t.dense[idx+1:])
	t.dense[len(t.dense)-1] = nil
	t.dense = t.dense[:len(t.dense)-1]
	for i := idx; i < len(t.dense); i++ {
		t.sparse[t.dense[i].handle.slot()-1] = i
	}

	t.sparse[slot-1] = -1
	t.gen[slot-1]++
	if t.gen[slot-1] == 0 {
		t.gen[slot-1] = 1
	}
	t.free = append(t.free, slot)
	return rec, true
}

func (t *handleTable) len() int {
	return len(t.dense)
}

func (t *handleTable) records() []*bodyRecord {
	return t.dense
}
