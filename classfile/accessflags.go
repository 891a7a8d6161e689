package classfile

// Access flag bits, per JVMS §4.1/§4.5/§4.6. Several bit
// positions are reused with different meaning depending on whether they
// decorate a class, a field, or a method, so each is decoded through its
// own Decode*Flags function rather than one shared bitmask type
// "Access flags").
const (
	accPublic       = 0x0001
	accPrivate      = 0x0002
	accProtected    = 0x0004
	accStatic       = 0x0008
	accFinal        = 0x0010
	accSuper        = 0x0020 // class
	accSynchronized = 0x0020 // method
	accVolatile     = 0x0040 // field
	accBridge       = 0x0040 // method
	accTransient    = 0x0080 // field
	accVarargs      = 0x0080 // method
	accNative       = 0x0100 // method
	accInterface    = 0x0200 // class
	accAbstract     = 0x0400
	accStrict       = 0x0800 // method
	accSynthetic    = 0x1000
	accAnnotation   = 0x2000 // class
	accEnum         = 0x4000 // class, field
	accMandated     = 0x8000 // parameter, module
)

// ClassFlags is the decoded access_flags of a class or interface.
type ClassFlags struct {
	IsPublic     bool
	IsFinal      bool
	IsSuper      bool
	IsInterface  bool
	IsAbstract   bool
	IsSynthetic  bool
	IsAnnotation bool
	IsEnum       bool
}

func decodeClassFlags(raw uint16) ClassFlags {
	return ClassFlags{
		IsPublic:     raw&accPublic != 0,
		IsFinal:      raw&accFinal != 0,
		IsSuper:      raw&accSuper != 0,
		IsInterface:  raw&accInterface != 0,
		IsAbstract:   raw&accAbstract != 0,
		IsSynthetic:  raw&accSynthetic != 0,
		IsAnnotation: raw&accAnnotation != 0,
		IsEnum:       raw&accEnum != 0,
	}
}

// FieldFlags is the decoded access_flags of a field_info.
type FieldFlags struct {
	IsPublic    bool
	IsPrivate   bool
	IsProtected bool
	IsStatic    bool
	IsFinal     bool
	IsVolatile  bool
	IsTransient bool
	IsSynthetic bool
	IsEnum      bool
}

func decodeFieldFlags(raw uint16) FieldFlags {
	return FieldFlags{
		IsPublic:    raw&accPublic != 0,
		IsPrivate:   raw&accPrivate != 0,
		IsProtected: raw&accProtected != 0,
		IsStatic:    raw&accStatic != 0,
		IsFinal:     raw&accFinal != 0,
		IsVolatile:  raw&accVolatile != 0,
		IsTransient: raw&accTransient != 0,
		IsSynthetic: raw&accSynthetic != 0,
		IsEnum:      raw&accEnum != 0,
	}
}

// MethodFlags is the decoded access_flags of a method_info.
type MethodFlags struct {
	IsPublic       bool
	IsPrivate      bool
	IsProtected    bool
	IsStatic       bool
	IsFinal        bool
	IsSynchronized bool
	IsBridge       bool
	IsVarargs      bool
	IsNative       bool
	IsAbstract     bool
	IsStrict       bool
	IsSynthetic    bool
}

func decodeMethodFlags(raw uint16) MethodFlags {
	return MethodFlags{
		IsPublic:       raw&accPublic != 0,
		IsPrivate:      raw&accPrivate != 0,
		IsProtected:    raw&accProtected != 0,
		IsStatic:       raw&accStatic != 0,
		IsFinal:        raw&accFinal != 0,
		IsSynchronized: raw&accSynchronized != 0,
		IsBridge:       raw&accBridge != 0,
		IsVarargs:      raw&accVarargs != 0,
		IsNative:       raw&accNative != 0,
		IsAbstract:     raw&accAbstract != 0,
		IsStrict:       raw&accStrict != 0,
		IsSynthetic:    raw&accSynthetic != 0,
	}
}

// ParameterFlags is the decoded access_flags of a MethodParameters entry.
type ParameterFlags struct {
	IsFinal     bool
	IsSynthetic bool
	IsMandated  bool
}

func decodeParameterFlags(raw uint16) ParameterFlags {
	return ParameterFlags{
		IsFinal:     raw&accFinal != 0,
		IsSynthetic: raw&accSynthetic != 0,
		IsMandated:  raw&accMandated != 0,
	}
}
