package entities

// AssemblyInfo is the metadata document consumed by the external code
// generator. Field names are a compatibility contract and must stay stable.
type AssemblyInfo struct {
	ClassInfos []ClassInfo `json:"classInfos"`
	EnumInfos  []EnumInfo  `json:"enumInfos"`
	// Errors lists failures encountered while exporting. Omitted when the
	// export was clean.
	Errors []string `json:"errors,omitempty"`
}

// ClassInfo describes one script component class.
type ClassInfo struct {
	Name          string       `json:"name"`
	MethodInfos   []MethodInfo `json:"methodInfos"`
	PropertyInfos []TypeInfo   `json:"propertyInfos"`
}

// MethodInfo describes one script-visible method.
type MethodInfo struct {
	Name       string     `json:"name"`
	ClassName  string     `json:"className"`
	Parameters []TypeInfo `json:"parameters"`
	MetaData   []Meta     `json:"metaData"`
	ReturnType TypeTag    `json:"returnType"`
}

// TypeInfo describes a property or a method parameter.
type TypeInfo struct {
	Name      string  `json:"name"`
	ClassName string  `json:"className"`
	MetaData  []Meta  `json:"metaData"`
	TypeID    TypeTag `json:"typeId"`
}

// Meta is one metadata key/value pair.
type Meta struct {
	Key   string `json:"metaKey"`
	Value string `json:"metaValue"`
}

// EnumInfo describes one exported enumeration.
type EnumInfo struct {
	Name   string         `json:"name"`
	Values []EnumKeyValue `json:"values"`
}

// EnumKeyValue is one enumeration member in declaration order.
type EnumKeyValue struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}
