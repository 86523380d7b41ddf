package save

import "github.com/eldensave/eldensave/binio"

// Inventory is a fixed-capacity table of gaitem_map handles: a common
// section plus a smaller "key items" section, each zero-padded to its
// declared capacity.
type Inventory struct {
	Common []uint32
	Key    []uint32
}

func decodeInventory(r *binio.Reader, commonCap, keyCap int) (Inventory, error) {
	common := make([]uint32, commonCap)
	for i := range common {
		v, err := r.U32()
		if err != nil {
			return Inventory{}, err
		}
		common[i] = v
	}
	key := make([]uint32, keyCap)
	for i := range key {
		v, err := r.U32()
		if err != nil {
			return Inventory{}, err
		}
		key[i] = v
	}
	return Inventory{Common: common, Key: key}, nil
}

// Encode serializes inv back to its wire form. The caller is
// responsible for ensuring len(Common)/len(Key) still match the
// slot's declared capacities before calling this — Decode always
// produces slices of exactly that length, so a mutator that only
// edits entries in place (never resizes the slices) satisfies this
// automatically.
func (inv Inventory) Encode() []byte {
	out := make([]byte, 4*(len(inv.Common)+len(inv.Key)))
	w := binio.NewWriter(out)
	for _, h := range inv.Common {
		w.PutU32(h)
	}
	for _, h := range inv.Key {
		w.PutU32(h)
	}
	return out
}

const (
	inventoryHeldCommonCap   = 0xA80
	inventoryHeldKeyCap      = 0x180
	inventoryStorageCommonCap = 0x780
	inventoryStorageKeyCap   = 0x80
)

func decodeEquippedList(r *binio.Reader, count int) ([]uint32, error) {
	out := make([]uint32, count)
	for i := range out {
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func encodeUint32List(vals []uint32) []byte {
	out := make([]byte, 4*len(vals))
	w := binio.NewWriter(out)
	for _, v := range vals {
		w.PutU32(v)
	}
	return out
}
