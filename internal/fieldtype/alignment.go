package fieldtype

// Alignment returns the alignment class of a built-in tag. The second result is
// false for Skip, whose alignment is undefined; callers then fall back to
// PointerSize.
func Alignment(tag Tag) (uint8, bool) {
	switch tag {
	case Skip:
		return PointerSize, false
	case Byte, UnsignedByte, Bool, Flags8, State8, CharacterDBID, UTF8StringFixedSize:
		return 1, true
	case Word, UnsignedWord, State16, Flags16, UTF16StringFixedSize, UTF16Char:
		return 2, true
	case Dword, UnsignedDword, Float, Flags32, State32,
		EntityDBID, ParticleDBID, EntityUID, TextureDBID, StringsTableID, IPv4Address,
		CharacterDB: // widest member is 4 bytes
		return 4, true
	default:
		return PointerSize, true
	}
}
