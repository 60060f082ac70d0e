package fieldtype

// Tag is the canonical kind of a schema field.
type Tag uint8

// PointerSize is the pointer width of the inspected process.
const PointerSize = 8

const (
	None Tag = iota

	CodePointer
	DataPointer
	Byte
	UnsignedByte
	Word
	UnsignedWord
	Dword
	UnsignedDword
	Qword
	UnsignedQword
	Float
	Double
	Bool
	Flags8
	Flags16
	Flags32
	State8
	State16
	State32
	UTF16Char
	UTF16StringFixedSize
	UTF8StringFixedSize
	Skip

	StdVector
	StdMap
	StdString
	StdWstring
	OldStdList
	StdList
	StdUnorderedMap

	GameManager
	State
	SaveGame
	LevelGen
	EntityDB
	ParticleDB
	TextureDB
	CharacterDB
	Online
	GameAPI
	Hud
	EntityFactory
	LiquidPhysics

	OnHeapPointer
	EntityPointer
	EntityDBPointer
	EntityDBID
	EntityUID
	ParticleDBID
	ParticleDBPointer
	TextureDBID
	TextureDBPointer
	ConstCharPointer
	ConstCharPointerPointer
	UndeterminedThemeInfoPointer
	COThemeInfoPointer
	LevelGenRoomsPointer
	LevelGenRoomsMetaPointer
	LiquidPhysicsPointer
	JournalPagePointer
	LevelGenPointer
	StringsTableID
	CharacterDBID
	VirtualFunctionTable
	IPv4Address
	Array
	Matrix
	EntityList

	Flag
	Dummy

	// StructRef marks a field whose type is a struct defined by the schema itself.
	StructRef
)

// Schema names that alias another tag.
const (
	NameStdSet          = "StdSet"
	NameStdUnorderedSet = "StdUnorderedSet"
)

// DefaultElementType is substituted when a container omits its element, key or value type.
const DefaultElementType = "UnsignedQword"

// String returns the schema name of the tag, or its display name when it has none.
func (t Tag) String() string {
	info, ok := Get(t)
	if !ok {
		return "Tag(?)"
	}
	if info.SchemaName != "" {
		return info.SchemaName
	}
	return info.DisplayName
}
