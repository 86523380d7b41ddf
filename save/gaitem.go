package save

import "github.com/eldensave/eldensave/binio"

// Gaitem is a single game-item handle record. Its serialized width is
// not a container-level constant: it depends on the category encoded
// in the leading decimal digits of ItemID, so both the reader and the writer must
// derive the width from the record itself, never assume a fixed
// stride across the whole gaitem_map.
type Gaitem struct {
	ItemID uint32
	Extra  []byte // category-specific trailing bytes, width-4 long
}

// GaitemCategory classifies an item id by its wire-format category
// prefix, which in turn determines the record's total serialized
// width (21/16/8 bytes).
type GaitemCategory int

const (
	GaitemCategoryWeapon GaitemCategory = iota
	GaitemCategoryArmor
	GaitemCategoryConsumable
)

const (
	gaitemWidthWeapon     = 21
	gaitemWidthArmor      = 16
	gaitemWidthConsumable = 8
)

// emptyItemID values mark an unoccupied gaitem_map entry.
const (
	emptyItemIDZero = 0
	emptyItemIDAll  = 0xFFFFFFFF
)

// categoryOf buckets an item id by its category prefix, following the
// convention FromSoftware params use of dedicating the top digits of
// an id to its category: 0-prefixed ids are weapons, 1-prefixed ids
// are protectors (armor), everything else (accessories, goods, the
// 0xFFFFFFFF sentinel) serializes at the smallest width. The empty id 0
// falls in the weapon bucket here; decodeGaitem reads both empty
// sentinels at the smallest width instead.
func categoryOf(itemID uint32) GaitemCategory {
	switch itemID / 10_000_000 {
	case 0:
		return GaitemCategoryWeapon
	case 1:
		return GaitemCategoryArmor
	default:
		return GaitemCategoryConsumable
	}
}

func widthFor(category GaitemCategory) int {
	switch category {
	case GaitemCategoryWeapon:
		return gaitemWidthWeapon
	case GaitemCategoryArmor:
		return gaitemWidthArmor
	default:
		return gaitemWidthConsumable
	}
}

func isEmptyItemID(id uint32) bool {
	return id == emptyItemIDZero || id == emptyItemIDAll
}

// decodeGaitem reads one variable-width record starting at the
// reader's current position.
func decodeGaitem(r *binio.Reader) (Gaitem, error) {
	id, err := r.U32()
	if err != nil {
		return Gaitem{}, err
	}
	category := categoryOf(id)
	if isEmptyItemID(id) {
		category = GaitemCategoryConsumable
	}
	width := widthFor(category)
	extra, err := r.Bytes(width - 4)
	if err != nil {
		return Gaitem{}, err
	}
	return Gaitem{ItemID: id, Extra: extra}, nil
}

// Width returns this record's total serialized width.
func (g Gaitem) Width() int {
	return 4 + len(g.Extra)
}

// Encode serializes g back to its wire form.
func (g Gaitem) Encode() []byte {
	out := make([]byte, g.Width())
	w := binio.NewWriter(out)
	w.PutU32(g.ItemID)
	w.PutBytes(g.Extra)
	return out
}

// IsEmpty reports whether this entry marks an unoccupied slot.
func (g Gaitem) IsEmpty() bool {
	return isEmptyItemID(g.ItemID)
}

// decodeGaitemMap reads count variable-width Gaitem records
// sequentially, deriving each record's width from its own item id
// rather than a table-wide constant.
func decodeGaitemMap(r *binio.Reader, count int) ([]Gaitem, error) {
	entries := make([]Gaitem, count)
	for i := 0; i < count; i++ {
		g, err := decodeGaitem(r)
		if err != nil {
			return nil, err
		}
		entries[i] = g
	}
	return entries, nil
}

func encodeGaitemMap(entries []Gaitem) []byte {
	total := 0
	for _, g := range entries {
		total += g.Width()
	}
	out := make([]byte, 0, total)
	for _, g := range entries {
		out = append(out, g.Encode()...)
	}
	return out
}
