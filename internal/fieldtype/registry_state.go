package fieldtype

// Info is one row of the built-in type table.
type Info struct {
	Tag         Tag
	DisplayName string
	CPPName     string
	// SchemaName is the name used in schema sources; empty for pseudo-fields.
	SchemaName string
	// Size is the nominal byte size; 0 means computed from fields or attributes.
	Size    uint64
	Pointer bool
}

type registry struct {
	byTag   map[Tag]Info
	byName  map[string]Tag
	ordered []Info
}

var defaultRegistry = newRegistry([]Info{
	{CodePointer, "Code pointer", "size_t*", "CodePointer", 8, true},
	{DataPointer, "Data pointer", "size_t*", "DataPointer", 8, true},
	{Byte, "8-bit", "int8_t", "Byte", 1, false},
	{UnsignedByte, "8-bit unsigned", "uint8_t", "UnsignedByte", 1, false},
	{Word, "16-bit", "int16_t", "Word", 2, false},
	{UnsignedWord, "16-bit unsigned", "uint16_t", "UnsignedWord", 2, false},
	{Dword, "32-bit", "int32_t", "Dword", 4, false},
	{UnsignedDword, "32-bit unsigned", "uint32_t", "UnsignedDword", 4, false},
	{Qword, "64-bit", "int64_t", "Qword", 8, false},
	{UnsignedQword, "64-bit unsigned", "uint64_t", "UnsignedQword", 8, false},
	{Float, "Float", "float", "Float", 4, false},
	{Double, "Double", "double", "Double", 8, false},
	{Bool, "Bool", "bool", "Bool", 1, false},
	{Flags8, "8-bit flags", "uint8_t", "Flags8", 1, false},
	{Flags16, "16-bit flags", "uint16_t", "Flags16", 2, false},
	{Flags32, "32-bit flags", "uint32_t", "Flags32", 4, false},
	{State8, "8-bit state", "int8_t", "State8", 1, false},
	{State16, "16-bit state", "int16_t", "State16", 2, false},
	{State32, "32-bit state", "int32_t", "State32", 4, false},
	{UTF16Char, "UTF16Char", "char16_t", "UTF16Char", 2, false},
	{UTF16StringFixedSize, "UTF16StringFixedSize", "std::array<char16_t, S>", "UTF16StringFixedSize", 0, false},
	{UTF8StringFixedSize, "UTF8StringFixedSize", "std::array<char, S>", "UTF8StringFixedSize", 0, false},
	{Skip, "skip", "uint8_t", "Skip", 0, false},

	{StdVector, "StdVector", "std::vector<T>", "StdVector", 24, false},
	{StdMap, "StdMap", "std::map<K, V>", "StdMap", 16, false},
	{StdString, "StdString", "std::string", "StdString", 32, false},
	{StdWstring, "StdWstring", "std::wstring", "StdWstring", 32, false},
	// the list layout changed between game versions, so the old one is kept as a raw pair
	{OldStdList, "OldStdList", "std::pair<uintptr_t, uintptr_t>", "OldStdList", 16, false},
	{StdList, "StdList", "std::list<T>", "StdList", 16, false},
	{StdUnorderedMap, "StdUnorderedMap", "std::unordered_map<K, V>", "StdUnorderedMap", 64, false},

	{GameManager, "GameManager", "", "GameManager", 0, false},
	{State, "State", "", "State", 0, false},
	{SaveGame, "SaveGame", "", "SaveGame", 0, false},
	{LevelGen, "LevelGen", "", "LevelGen", 0, false},
	{EntityDB, "EntityDB", "", "EntityDB", 0, false},
	{ParticleDB, "ParticleDB", "", "ParticleDB", 0, false},
	{TextureDB, "TextureDB", "", "TextureDB", 0, false},
	{CharacterDB, "CharacterDB", "", "CharacterDB", 0, false},
	{Online, "Online", "", "Online", 0, false},
	{GameAPI, "GameAPI", "", "GameAPI", 0, false},
	{Hud, "Hud", "", "Hud", 0, false},
	{EntityFactory, "EntityFactory", "", "EntityFactory", 0, false},
	{LiquidPhysics, "LiquidPhysics", "", "LiquidPhysics", 0, false},

	// an offset into the game heap rather than an address
	{OnHeapPointer, "OnHeap Pointer", "OnHeapPointer<T>", "OnHeapPointer", 8, false},
	{EntityPointer, "Entity pointer", "Entity*", "EntityPointer", 8, true},
	{EntityDBPointer, "EntityDB pointer", "EntityDB*", "EntityDBPointer", 8, true},
	{EntityDBID, "EntityDB ID", "uint32_t", "EntityDBID", 4, false},
	{EntityUID, "Entity UID", "int32_t", "EntityUID", 4, false},
	{ParticleDBID, "ParticleDB ID", "uint32_t", "ParticleDBID", 4, false},
	{ParticleDBPointer, "ParticleDB pointer", "ParticleDB*", "ParticleDBPointer", 8, true},
	{TextureDBID, "TextureDB ID", "int32_t", "TextureDBID", 4, false},
	{TextureDBPointer, "TextureDB pointer", "Texture*", "TextureDBPointer", 8, true},
	{ConstCharPointer, "Const char*", "const char*", "ConstCharPointer", 8, true},
	{ConstCharPointerPointer, "Const char**", "const char**", "ConstCharPointerPointer", 8, true},
	{UndeterminedThemeInfoPointer, "UndeterminedThemeInfoPointer", "ThemeInfo*", "UndeterminedThemeInfoPointer", 8, true},
	{COThemeInfoPointer, "COThemeInfoPointer", "ThemeInfo*", "COThemeInfoPointer", 8, true},
	{LevelGenRoomsPointer, "LevelGenRoomsPointer", "LevelGenRooms*", "LevelGenRoomsPointer", 8, true},
	{LevelGenRoomsMetaPointer, "LevelGenRoomsMetaPointer", "LevelGenRoomsMeta*", "LevelGenRoomsMetaPointer", 8, true},
	{LiquidPhysicsPointer, "LiquidPhysicsPointer", "LiquidPhysicsPointer*", "LiquidPhysicsPointer", 8, true},
	{JournalPagePointer, "JournalPagePointer", "JournalPage*", "JournalPagePointer", 8, true},
	{LevelGenPointer, "LevelGenPointer", "LevelGen*", "LevelGenPointer", 8, true},
	{StringsTableID, "StringsTable ID", "uint32_t", "StringsTableID", 4, false},
	{CharacterDBID, "CharacterDBID", "uint8_t", "CharacterDBID", 1, false},
	{VirtualFunctionTable, "VirtualFunctionTable", "size_t*", "VirtualFunctionTable", 8, true},
	{IPv4Address, "IPv4Address", "uint32_t", "IPv4Address", 4, false},
	{Array, "Array", "", "Array", 0, false},
	{Matrix, "Matrix", "", "Matrix", 0, false},
	{EntityList, "EntityList", "EntityList*", "EntityList", 24, false},

	{Flag, "Flag", "", "", 0, false},
	{Dummy, " ", "", "", 0, false},
})
