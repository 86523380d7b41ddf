package save

import (
	"fmt"

	"github.com/eldensave/eldensave/binio"
	"github.com/eldensave/eldensave/eldenerr"
)

// UserData10 is the save-wide common region: the logged-in SteamID,
// opaque engine settings, the face-preset gallery, and the per-slot
// profile summary table the in-game load screen reads without having
// to touch any slot payload.
type UserData10 struct {
	Version uint32
	SteamID uint64

	Settings []byte // opaque, engine/graphics/control settings

	// MenuHeader is the 8-byte CSMenuSystemSaveLoad header preceding the
	// face-preset gallery. Opaque; preserved verbatim.
	MenuHeader [galleryHeaderSize]byte

	FacePresets []FacePreset

	ProfileSummaries []ProfileSummary

	Rest []byte // trailing opaque bytes, preserved verbatim

	presetsOffset int // absolute offset of the FacePreset table, for writeback
}

const (
	settingsSize = 0x140

	// galleryTotalSize is the fixed size of the CSMenuSystemSaveLoad
	// region: an 8-byte header, 15 fixed-size FacePreset slots, and a
	// trailing pad making up the difference.
	galleryTotalSize  = 0x1800
	galleryHeaderSize = 8

	facePresetMagic    = "FACE"
	facePresetCount    = 15
	facePresetDataSize = 0x130
	facePresetNameCap  = 32

	galleryPadSize = galleryTotalSize - galleryHeaderSize - facePresetCount*facePresetDataSize

	profileSummaryCount   = 10
	profileSummaryNameCap = 32
)

// FacePreset is one saved character-creation appearance, identified by
// its "FACE" magic and an opaque parameter blob the character creator
// reads and writes but this codec never needs to interpret.
type FacePreset struct {
	Magic [4]byte
	Name  string
	Data  []byte // opaque, facePresetDataSize-4-facePresetNameCap bytes

	// absOffset is the absolute file offset of this preset's magic,
	// recorded so ImportPreset/CopyPresetToSave/DeletePreset can
	// overwrite a single slot of the gallery without touching its
	// neighbors.
	absOffset int
}

// IsEmpty reports whether this gallery slot holds no preset.
func (fp FacePreset) IsEmpty() bool {
	return fp.Magic != [4]byte{'F', 'A', 'C', 'E'}
}

// ProfileSummary is the load-screen summary for one character slot.
type ProfileSummary struct {
	Name          string
	Level         uint32
	SecondsPlayed uint32
}

func facePresetPayloadSize() int {
	return facePresetDataSize - 4 - facePresetNameCap
}

func decodeFacePreset(r *binio.Reader, absOffset int) (FacePreset, error) {
	magicBytes, err := r.Bytes(4)
	if err != nil {
		return FacePreset{}, err
	}
	var fp FacePreset
	copy(fp.Magic[:], magicBytes)
	fp.absOffset = absOffset

	name, err := r.WString(facePresetNameCap)
	if err != nil {
		return FacePreset{}, err
	}
	fp.Name = name

	fp.Data, err = r.Bytes(facePresetPayloadSize())
	if err != nil {
		return FacePreset{}, err
	}
	return fp, nil
}

func encodeFacePreset(fp FacePreset) []byte {
	out := make([]byte, facePresetDataSize)
	w := binio.NewWriter(out)
	w.PutBytes(fp.Magic[:])
	w.PutWString(fp.Name, facePresetNameCap)
	w.PutBytes(fp.Data)
	return out
}

func decodeProfileSummary(r *binio.Reader) (ProfileSummary, error) {
	name, err := r.WString(profileSummaryNameCap)
	if err != nil {
		return ProfileSummary{}, err
	}
	level, err := r.U32()
	if err != nil {
		return ProfileSummary{}, err
	}
	seconds, err := r.U32()
	if err != nil {
		return ProfileSummary{}, err
	}
	return ProfileSummary{Name: name, Level: level, SecondsPlayed: seconds}, nil
}

func encodeProfileSummary(p ProfileSummary) []byte {
	out := make([]byte, profileSummaryNameCap+8)
	w := binio.NewWriter(out)
	w.PutWString(p.Name, profileSummaryNameCap)
	w.PutU32(p.Level)
	w.PutU32(p.SecondsPlayed)
	return out
}

// DecodeUserData10 parses the common region starting at absOffset in
// raw. Like DecodeSlot, it records the absolute offsets mutators need
// (here, per-preset offsets) rather than requiring a full re-encode on
// writeback.
func DecodeUserData10(raw []byte, absOffset int) (UserData10, error) {
	payload := raw[absOffset : absOffset+userData10PayloadSize]
	r := binio.NewReader(payload)

	var u UserData10

	var err error
	u.Version, err = r.U32()
	if err != nil {
		return u, err
	}
	u.SteamID, err = r.U64()
	if err != nil {
		return u, err
	}
	u.Settings, err = r.Bytes(settingsSize)
	if err != nil {
		return u, err
	}

	galleryStart := r.Pos()
	header, err := r.Bytes(galleryHeaderSize)
	if err != nil {
		return u, err
	}
	copy(u.MenuHeader[:], header)

	u.presetsOffset = absOffset + r.Pos()
	u.FacePresets = make([]FacePreset, facePresetCount)
	for i := range u.FacePresets {
		fp, err := decodeFacePreset(r, u.presetsOffset+i*facePresetDataSize)
		if err != nil {
			return u, fmt.Errorf("face_preset[%d]: %w", i, err)
		}
		u.FacePresets[i] = fp
	}

	if _, err := r.Bytes(galleryPadSize); err != nil {
		return u, err
	}
	if r.Pos()-galleryStart != galleryTotalSize {
		return u, fmt.Errorf("menu_system_save_load: decoded %d bytes, want %d", r.Pos()-galleryStart, galleryTotalSize)
	}

	u.ProfileSummaries = make([]ProfileSummary, profileSummaryCount)
	for i := range u.ProfileSummaries {
		ps, err := decodeProfileSummary(r)
		if err != nil {
			return u, fmt.Errorf("profile_summary[%d]: %w", i, err)
		}
		u.ProfileSummaries[i] = ps
	}

	consumed := r.Pos()
	if consumed < userData10PayloadSize {
		u.Rest, _ = r.Bytes(userData10PayloadSize - consumed)
	}

	return u, nil
}

// writePreset overwrites a single FacePreset gallery slot in place,
// without touching Settings, other presets, or ProfileSummaries.
func (sv *Save) writePreset(presetIdx int) error {
	if presetIdx < 0 || presetIdx >= len(sv.Common.FacePresets) {
		return eldenerr.ErrInvalidArgument
	}
	fp := sv.Common.FacePresets[presetIdx]
	blob := encodeFacePreset(fp)
	copy(sv.raw[fp.absOffset:fp.absOffset+len(blob)], blob)
	return nil
}

// ExportPresets returns a defensive copy of every non-empty face
// preset in the gallery, fit for writing into another save's gallery
// via ImportPreset.
func (sv *Save) ExportPresets() []FacePreset {
	var out []FacePreset
	for _, fp := range sv.Common.FacePresets {
		if !fp.IsEmpty() {
			fp.Data = append([]byte(nil), fp.Data...)
			out = append(out, fp)
		}
	}
	return out
}

// ImportPreset writes preset into gallery slot presetIdx, preserving
// that slot's own absolute offset (the one thing that must never be
// copied across saves, since it is file-specific).
func (sv *Save) ImportPreset(presetIdx int, preset FacePreset) error {
	if presetIdx < 0 || presetIdx >= len(sv.Common.FacePresets) {
		return eldenerr.ErrInvalidArgument
	}
	preset.absOffset = sv.Common.FacePresets[presetIdx].absOffset
	sv.Common.FacePresets[presetIdx] = preset
	return sv.writePreset(presetIdx)
}

// CopyPresetToSave copies the preset at srcIdx in sv's own gallery into
// dst's gallery slot dstIdx — verbatim, byte for byte, per the spec's
// "preset transfer across files" primitive.
func (sv *Save) CopyPresetToSave(srcIdx int, dst *Save, dstIdx int) error {
	if srcIdx < 0 || srcIdx >= len(sv.Common.FacePresets) ||
		dstIdx < 0 || dstIdx >= len(dst.Common.FacePresets) {
		return eldenerr.ErrInvalidArgument
	}
	src := sv.Common.FacePresets[srcIdx]
	dstOff := dst.Common.FacePresets[dstIdx].absOffset
	copy(dst.raw[dstOff:dstOff+facePresetDataSize], sv.raw[src.absOffset:src.absOffset+facePresetDataSize])
	src.Data = append([]byte(nil), src.Data...)
	src.absOffset = dstOff
	dst.Common.FacePresets[dstIdx] = src
	return nil
}

// DeletePreset clears gallery slot presetIdx back to its empty-magic
// sentinel state.
func (sv *Save) DeletePreset(presetIdx int) error {
	return sv.ImportPreset(presetIdx, FacePreset{Name: "", Data: make([]byte, facePresetPayloadSize())})
}
