package classfile

// RawClassInfo is the per-classfile output of parsing one classfile's
// bytes. It carries exactly the facts the relationship graph needs and
// nothing derived from interpreting method bytecode.
type RawClassInfo struct {
	Name            string // dotted
	MinorVersion    uint16
	MajorVersion    uint16
	Flags           ClassFlags
	SuperclassName  string // "" for java.lang.Object and interfaces with none
	InterfaceNames  []string
	AnnotationNames []string
	Fields          []RawFieldInfo
	Methods         []RawMethodInfo
	// ReferencedTypeNames is the union of field types, method parameter
	// types, method return types, and generic signature pieces, restricted
	// to allowed packages.
	ReferencedTypeNames []string

	// Deprecated mirrors the classfile's Deprecated attribute.
	Deprecated bool
	// SourceFile is the SourceFile class attribute's value, if present.
	SourceFile string
	// BootstrapMethodCount is the number of entries in the BootstrapMethods
	// attribute, a diagnostic count only: invokedynamic call sites are never
	// resolved, since that would require interpreting method bytecode.
	BootstrapMethodCount int
	// IsNested is true when an InnerClasses or EnclosingMethod attribute
	// names this class.
	IsNested bool
}

// RawFieldInfo describes one field of a RawClassInfo.
type RawFieldInfo struct {
	Name         string
	DeclaredType string // field descriptor decoded to its Java spelling, e.g. "int" or "java.lang.String"
	Flags        FieldFlags
	Annotations  []RawAnnotationInfo
	// ConstantValue holds the coerced literal for a static final field whose
	// classfile carries a ConstantValue attribute and whose name is in the
	// caller's "field names of interest" set. Nil when not applicable or not
	// requested.
	ConstantValue interface{}
	// SignatureTypeNames are additional referenced type names contributed by
	// a Signature attribute on this field (generics).
	SignatureTypeNames []string
}

// RawMethodInfo describes one method of a RawClassInfo.
type RawMethodInfo struct {
	Name                string
	ParameterTypes      []string
	ReturnType          string
	Flags               MethodFlags
	Annotations         []RawAnnotationInfo
	ParameterAnnotations [][]RawAnnotationInfo // parallel to ParameterTypes
	ThrownExceptions    []string
	SignatureTypeNames  []string
	Deprecated          bool
}

// RawAnnotationInfo names one annotation attached to a class, field,
// method, or parameter, post include/exclude filtering.
type RawAnnotationInfo struct {
	TypeName string
	// Visible distinguishes RuntimeVisibleAnnotations from
	// RuntimeInvisibleAnnotations and is always set. Invisible annotations
	// are retained only when ParseOptions.IncludeInvisibleAnnotations is
	// true; with the zero-value options only visible ones are kept.
	// ParseOptions.SeparateAnnotationVisibility is not read by the parser.
	Visible bool
}

// TypeFilter decides whether a referenced type name should be retained in
// RawClassInfo.ReferencedTypeNames / AnnotationNames: emitted names are
// checked against the include/exclude configuration before retention.
// Implementations must be safe for concurrent use since one parser per
// worker may share a filter instance read-only across the whole scan.
type TypeFilter interface {
	Allow(dottedName string) bool
}

// allowAllFilter retains every referenced type name; used when the caller
// does not configure include/exclude restrictions.
type allowAllFilter struct{}

func (allowAllFilter) Allow(string) bool { return true }

// ParseOptions gates which parser outputs are computed, mirroring the
// "enable_*" configuration surface.
type ParseOptions struct {
	EnableFieldInfo              bool
	EnableMethodInfo             bool
	EnableAnnotationInfo         bool
	EnableStaticFinalConstants   bool
	SeparateAnnotationVisibility bool
	IncludeInvisibleAnnotations  bool
	// ConstantFieldsOfInterest restricts ConstantValue resolution to
	// "Class.field" keys the caller actually wants. A nil map means
	// "resolve for every eligible field".
	ConstantFieldsOfInterest map[string]bool
	// TypeFilter restricts which referenced type names are retained.
	TypeFilter TypeFilter
}

func (o ParseOptions) typeFilter() TypeFilter {
	if o.TypeFilter == nil {
		return allowAllFilter{}
	}
	return o.TypeFilter
}
