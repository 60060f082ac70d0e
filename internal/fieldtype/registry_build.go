package fieldtype

func newRegistry(items []Info) registry {
	byTag := make(map[Tag]Info, len(items))
	byName := make(map[string]Tag, len(items))
	ordered := make([]Info, 0, len(items))

	for _, item := range items {
		if item.Tag == None || item.Tag == StructRef {
			continue
		}
		if _, exists := byTag[item.Tag]; exists {
			continue
		}
		byTag[item.Tag] = item
		ordered = append(ordered, item)
		if item.SchemaName != "" {
			byName[item.SchemaName] = item.Tag
		}
	}

	return registry{
		byTag:   byTag,
		byName:  byName,
		ordered: ordered,
	}
}
