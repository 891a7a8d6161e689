package classfile

import (
	"fmt"
	"math"

	"github.com/viant/cpgraph/scanerr"
	"github.com/viant/cpgraph/slice"
)

const classMagic = 0xCAFEBABE

const (
	attrConstantValue                        = "ConstantValue"
	attrCode                                 = "Code"
	attrExceptions                            = "Exceptions"
	attrInnerClasses                          = "InnerClasses"
	attrEnclosingMethod                       = "EnclosingMethod"
	attrSynthetic                             = "Synthetic"
	attrSignature                             = "Signature"
	attrSourceFile                            = "SourceFile"
	attrDeprecated                            = "Deprecated"
	attrRuntimeVisibleAnnotations             = "RuntimeVisibleAnnotations"
	attrRuntimeInvisibleAnnotations           = "RuntimeInvisibleAnnotations"
	attrRuntimeVisibleParameterAnnotations    = "RuntimeVisibleParameterAnnotations"
	attrRuntimeInvisibleParameterAnnotations  = "RuntimeInvisibleParameterAnnotations"
	attrBootstrapMethods                      = "BootstrapMethods"
)

// Parser is a single classfile's worth of parsing state, meant to be owned
// by one scan worker and reused across many Parse calls. It carries no per-call mutable
// state itself today beyond what's local to Parse; the type exists so
// callers have a stable place to hang future reusable buffers without
// changing the call signature.
type Parser struct{}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads one classfile's bytes from r front to back exactly once and
// produces its RawClassInfo. r must be positioned at offset 0. Parse returns
// (nil, nil) for java.lang.Object: the graph treats it as an implicit
// universal root and never materializes it as a node.
func (p *Parser) Parse(r slice.SeqReader, opts ParseOptions) (*RawClassInfo, error) {
	const op = "classfile.Parse"

	magic, err := r.ReadU32BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	if magic != classMagic {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, fmt.Errorf("bad magic 0x%08X", magic))
	}
	minor, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	major, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}

	pool, err := parseConstantPool(r)
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}

	accessRaw, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	flags := decodeClassFlags(accessRaw)

	thisClassIdx, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	name, err := pool.ClassName(thisClassIdx)
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	if name == "java.lang.Object" {
		// The graph treats java.lang.Object as an implicit universal root;
		// it is never itself materialized as a node.
		return nil, nil
	}

	superClassIdx, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err)
	}
	var superName string
	if superClassIdx != 0 {
		if superName, err = pool.ClassName(superClassIdx); err != nil {
			return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
		}
	} else if !flags.IsInterface {
		// A class (not an interface, not java.lang.Object) without a
		// superclass is malformed; interfaces legitimately omit one in
		// some obfuscated/synthetic classfiles we still want to tolerate.
		return nil, scanerr.New(scanerr.MalformedClassfile, op, fmt.Errorf("class %s has no superclass", name)).WithClass(name)
	}

	interfacesCount, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
	}
	interfaceNames := make([]string, 0, interfacesCount)
	for i := uint16(0); i < interfacesCount; i++ {
		idx, err := r.ReadU16BE()
		if err != nil {
			return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
		}
		iname, err := pool.ClassName(idx)
		if err != nil {
			return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
		}
		interfaceNames = append(interfaceNames, iname)
	}

	var referenced []string
	filter := opts.typeFilter()

	fieldsCount, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
	}
	fields := make([]RawFieldInfo, 0, fieldsCount)
	for i := uint16(0); i < fieldsCount; i++ {
		f, err := p.parseField(r, pool, name, opts, &referenced)
		if err != nil {
			return nil, err
		}
		if opts.EnableFieldInfo {
			fields = append(fields, f)
		}
	}

	methodsCount, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
	}
	methods := make([]RawMethodInfo, 0, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		m, err := p.parseMethod(r, pool, name, opts, &referenced)
		if err != nil {
			return nil, err
		}
		if opts.EnableMethodInfo {
			methods = append(methods, m)
		}
	}

	classAttrsCount, err := r.ReadU16BE()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
	}
	bag, err := parseAttributes(r, pool, classAttrsCount, opts, thisClassIdx)
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(name)
	}
	if bag.hasSignature {
		scanReferencedTypes(bag.signature, filter, &referenced)
	}

	var annotationNames []string
	if opts.EnableAnnotationInfo {
		for _, a := range bag.annotationsVisible {
			annotationNames = append(annotationNames, a.TypeName)
		}
		if opts.IncludeInvisibleAnnotations {
			for _, a := range bag.annotationsInvisible {
				annotationNames = append(annotationNames, a.TypeName)
			}
		}
	}

	return &RawClassInfo{
		Name:                 name,
		MinorVersion:         minor,
		MajorVersion:         major,
		Flags:                flags,
		SuperclassName:       superName,
		InterfaceNames:       interfaceNames,
		AnnotationNames:      annotationNames,
		Fields:               fields,
		Methods:              methods,
		ReferencedTypeNames:  dedupStrings(referenced),
		Deprecated:           bag.deprecated,
		SourceFile:           bag.sourceFile,
		BootstrapMethodCount: bag.bootstrapMethodCount,
		IsNested:             bag.innerClassesSelf || bag.enclosingMethod,
	}, nil
}

func (p *Parser) parseField(r slice.SeqReader, pool *ConstantPool, className string, opts ParseOptions, referenced *[]string) (RawFieldInfo, error) {
	const op = "classfile.parseField"
	accessRaw, err := r.ReadU16BE()
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	nameIdx, err := r.ReadU16BE()
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	descIdx, err := r.ReadU16BE()
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	fieldName, err := pool.Utf8(nameIdx)
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	desc, err := pool.Utf8(descIdx)
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	declaredType, err := parseFieldDescriptor(desc)
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}

	filter := opts.typeFilter()
	if filter.Allow(declaredType) {
		*referenced = append(*referenced, declaredType)
	}

	flags := decodeFieldFlags(accessRaw)

	attrsCount, err := r.ReadU16BE()
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	bag, err := parseAttributes(r, pool, attrsCount, opts, 0)
	if err != nil {
		return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}

	if bag.hasSignature {
		scanReferencedTypes(bag.signature, filter, referenced)
	}

	field := RawFieldInfo{
		Name:               fieldName,
		DeclaredType:       declaredType,
		Flags:              flags,
		SignatureTypeNames: signatureNames(bag.signature, filter),
	}
	if opts.EnableAnnotationInfo {
		field.Annotations = mergeAnnotations(bag, opts)
	}

	if opts.EnableStaticFinalConstants && bag.hasConstantValue && flags.IsStatic && flags.IsFinal {
		key := className + "." + fieldName
		if opts.ConstantFieldsOfInterest == nil || opts.ConstantFieldsOfInterest[key] {
			cv, err := coerceConstantValue(pool, bag.constantValueIndex, desc)
			if err != nil {
				return RawFieldInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
			}
			field.ConstantValue = cv
		}
	}

	return field, nil
}

func (p *Parser) parseMethod(r slice.SeqReader, pool *ConstantPool, className string, opts ParseOptions, referenced *[]string) (RawMethodInfo, error) {
	const op = "classfile.parseMethod"
	accessRaw, err := r.ReadU16BE()
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	nameIdx, err := r.ReadU16BE()
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	descIdx, err := r.ReadU16BE()
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	methodName, err := pool.Utf8(nameIdx)
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	desc, err := pool.Utf8(descIdx)
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	params, ret, err := parseMethodDescriptor(desc)
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}

	filter := opts.typeFilter()
	for _, pt := range params {
		if filter.Allow(pt) {
			*referenced = append(*referenced, pt)
		}
	}
	if filter.Allow(ret) {
		*referenced = append(*referenced, ret)
	}

	flags := decodeMethodFlags(accessRaw)

	attrsCount, err := r.ReadU16BE()
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}
	bag, err := parseAttributes(r, pool, attrsCount, opts, 0)
	if err != nil {
		return RawMethodInfo{}, scanerr.New(scanerr.MalformedClassfile, op, err).WithClass(className)
	}

	if bag.hasSignature {
		scanReferencedTypes(bag.signature, filter, referenced)
	}

	method := RawMethodInfo{
		Name:               methodName,
		ParameterTypes:     params,
		ReturnType:         ret,
		Flags:              flags,
		ThrownExceptions:   bag.thrownExceptions,
		SignatureTypeNames: signatureNames(bag.signature, filter),
		Deprecated:         bag.deprecated,
	}
	if opts.EnableAnnotationInfo {
		method.Annotations = mergeAnnotations(bag, opts)
		method.ParameterAnnotations = mergeParameterAnnotations(bag, opts, len(params))
	}

	return method, nil
}

func signatureNames(signature string, filter TypeFilter) []string {
	if signature == "" {
		return nil
	}
	var out []string
	scanReferencedTypes(signature, filter, &out)
	return out
}

func mergeAnnotations(bag attrBag, opts ParseOptions) []RawAnnotationInfo {
	out := append([]RawAnnotationInfo{}, bag.annotationsVisible...)
	if opts.IncludeInvisibleAnnotations {
		out = append(out, bag.annotationsInvisible...)
	}
	return out
}

func mergeParameterAnnotations(bag attrBag, opts ParseOptions, numParams int) [][]RawAnnotationInfo {
	if bag.paramAnnotationsVisible == nil && bag.paramAnnotationsInvisible == nil {
		return nil
	}
	out := make([][]RawAnnotationInfo, numParams)
	for i := 0; i < numParams; i++ {
		if i < len(bag.paramAnnotationsVisible) {
			out[i] = append(out[i], bag.paramAnnotationsVisible[i]...)
		}
		if opts.IncludeInvisibleAnnotations && i < len(bag.paramAnnotationsInvisible) {
			out[i] = append(out[i], bag.paramAnnotationsInvisible[i]...)
		}
	}
	return out
}

// coerceConstantValue resolves a ConstantValue attribute's constant-pool
// index according to the field's own descriptor, per JVMS §4.7.2: the tag at
// that index is implied by the field type, not self-describing.
func coerceConstantValue(pool *ConstantPool, idx uint16, fieldDesc string) (interface{}, error) {
	switch fieldDesc {
	case "J":
		return pool.Long(idx)
	case "F":
		return pool.Float(idx)
	case "D":
		return pool.Double(idx)
	case "I", "S", "C", "B", "Z":
		v, err := pool.Integer(idx)
		if err != nil {
			return nil, err
		}
		switch fieldDesc {
		case "Z":
			return v != 0, nil
		case "B":
			return int8(v), nil
		case "C":
			return uint16(v), nil
		case "S":
			return int16(v), nil
		default:
			return v, nil
		}
	case "Ljava/lang/String;":
		return pool.StringValue(idx)
	default:
		return nil, fmt.Errorf("ConstantValue attribute on non-constant-eligible descriptor %q", fieldDesc)
	}
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// parseConstantPool reads the constant_pool_count and every constant_pool
// entry that follows (JVMS §4.4), honoring the Long/Double double-slot rule.
func parseConstantPool(r slice.SeqReader) (*ConstantPool, error) {
	count, err := r.ReadU16BE()
	if err != nil {
		return nil, err
	}
	pool := newConstantPool(int(count))
	for i := 1; i < int(count); i++ {
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		pool.tags[i] = tag
		switch tag {
		case tagUtf8:
			length, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			raw, err := r.ReadN(uint64(length))
			if err != nil {
				return nil, err
			}
			s, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, err
			}
			pool.utf8[i] = s
		case tagInteger:
			v, err := r.ReadU32BE()
			if err != nil {
				return nil, err
			}
			pool.ints[i] = int32(v)
		case tagFloat:
			v, err := r.ReadU32BE()
			if err != nil {
				return nil, err
			}
			pool.floats[i] = math.Float32frombits(v)
		case tagLong:
			v, err := r.ReadU64BE()
			if err != nil {
				return nil, err
			}
			pool.longs[i] = int64(v)
			i += tagSlotSize(tag) - 1
			if i < int(count) {
				pool.tags[i] = 0
			}
		case tagDouble:
			v, err := r.ReadU64BE()
			if err != nil {
				return nil, err
			}
			pool.doubles[i] = math.Float64frombits(v)
			i += tagSlotSize(tag) - 1
			if i < int(count) {
				pool.tags[i] = 0
			}
		case tagClass:
			idx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			pool.classes[i] = idx
		case tagString:
			idx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			pool.strings_[i] = idx
		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			classIdx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			pool.refs[i] = refEntry{classIndex: classIdx, nameTypeIndex: natIdx}
		case tagNameAndType:
			nameIdx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			descIdx, err := r.ReadU16BE()
			if err != nil {
				return nil, err
			}
			pool.nats[i] = nameAndTypeEntry{nameIndex: nameIdx, descIndex: descIdx}
		case tagMethodHandle:
			if _, err := r.ReadU8(); err != nil {
				return nil, err
			}
			if _, err := r.ReadU16BE(); err != nil {
				return nil, err
			}
		case tagMethodType:
			if _, err := r.ReadU16BE(); err != nil {
				return nil, err
			}
		case tagDynamic, tagInvokeDynamic:
			if _, err := r.ReadU16BE(); err != nil {
				return nil, err
			}
			if _, err := r.ReadU16BE(); err != nil {
				return nil, err
			}
		case tagModule, tagPackage:
			if _, err := r.ReadU16BE(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}
	return pool, nil
}

// attrBag accumulates every attribute-derived fact parseAttributes can
// surface across the class/field/method contexts it's shared between; which
// fields end up populated depends on which attribute names actually appear.
type attrBag struct {
	hasSignature   bool
	signature      string
	hasConstantValue bool
	constantValueIndex uint16
	deprecated     bool
	sourceFile     string
	bootstrapMethodCount int
	innerClassesSelf bool
	enclosingMethod  bool
	thrownExceptions []string

	annotationsVisible   []RawAnnotationInfo
	annotationsInvisible []RawAnnotationInfo
	paramAnnotationsVisible   [][]RawAnnotationInfo
	paramAnnotationsInvisible [][]RawAnnotationInfo
}

// parseAttributes reads count attribute_info structures from r. selfClassIdx
// is the enclosing classfile's this_class constant-pool index, used only to
// recognize InnerClasses entries that describe the class itself; pass 0 when
// parsing field_info/method_info attributes, where it's unused.
func parseAttributes(r slice.SeqReader, pool *ConstantPool, count uint16, opts ParseOptions, selfClassIdx uint16) (attrBag, error) {
	var bag attrBag
	for i := uint16(0); i < count; i++ {
		nameIdx, err := r.ReadU16BE()
		if err != nil {
			return bag, err
		}
		length, err := r.ReadU32BE()
		if err != nil {
			return bag, err
		}
		attrName, err := pool.Utf8(nameIdx)
		if err != nil {
			return bag, err
		}

		switch attrName {
		case attrSignature:
			idx, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			sig, err := pool.Utf8(idx)
			if err != nil {
				return bag, err
			}
			bag.hasSignature = true
			bag.signature = sig
		case attrConstantValue:
			idx, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			bag.hasConstantValue = true
			bag.constantValueIndex = idx
		case attrDeprecated:
			bag.deprecated = true
		case attrSourceFile:
			idx, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			sf, err := pool.Utf8(idx)
			if err != nil {
				return bag, err
			}
			bag.sourceFile = sf
		case attrEnclosingMethod:
			if err := r.Skip(4); err != nil { // class_index u2, method_index u2
				return bag, err
			}
			bag.enclosingMethod = true
		case attrInnerClasses:
			n, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			for j := uint16(0); j < n; j++ {
				innerIdx, err := r.ReadU16BE()
				if err != nil {
					return bag, err
				}
				if err := r.Skip(6); err != nil { // outer_class_info, inner_name, inner_access_flags
					return bag, err
				}
				if selfClassIdx != 0 && innerIdx == selfClassIdx {
					bag.innerClassesSelf = true
				}
			}
		case attrBootstrapMethods:
			n, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			bag.bootstrapMethodCount = int(n)
			for j := uint16(0); j < n; j++ {
				if _, err := r.ReadU16BE(); err != nil { // bootstrap_method_ref
					return bag, err
				}
				numArgs, err := r.ReadU16BE()
				if err != nil {
					return bag, err
				}
				if err := r.Skip(uint64(numArgs) * 2); err != nil {
					return bag, err
				}
			}
		case attrExceptions:
			n, err := r.ReadU16BE()
			if err != nil {
				return bag, err
			}
			bag.thrownExceptions = make([]string, 0, n)
			for j := uint16(0); j < n; j++ {
				idx, err := r.ReadU16BE()
				if err != nil {
					return bag, err
				}
				en, err := pool.ClassName(idx)
				if err != nil {
					return bag, err
				}
				bag.thrownExceptions = append(bag.thrownExceptions, en)
			}
		case attrRuntimeVisibleAnnotations:
			if opts.EnableAnnotationInfo {
				anns, err := readAnnotations(r, pool, true, opts.typeFilter())
				if err != nil {
					return bag, err
				}
				bag.annotationsVisible = anns
			} else if err := r.Skip(uint64(length)); err != nil {
				return bag, err
			}
		case attrRuntimeInvisibleAnnotations:
			if opts.EnableAnnotationInfo {
				anns, err := readAnnotations(r, pool, false, opts.typeFilter())
				if err != nil {
					return bag, err
				}
				bag.annotationsInvisible = anns
			} else if err := r.Skip(uint64(length)); err != nil {
				return bag, err
			}
		case attrRuntimeVisibleParameterAnnotations:
			if opts.EnableAnnotationInfo {
				pa, err := readParameterAnnotations(r, pool, true, opts.typeFilter())
				if err != nil {
					return bag, err
				}
				bag.paramAnnotationsVisible = pa
			} else if err := r.Skip(uint64(length)); err != nil {
				return bag, err
			}
		case attrRuntimeInvisibleParameterAnnotations:
			if opts.EnableAnnotationInfo {
				pa, err := readParameterAnnotations(r, pool, false, opts.typeFilter())
				if err != nil {
					return bag, err
				}
				bag.paramAnnotationsInvisible = pa
			} else if err := r.Skip(uint64(length)); err != nil {
				return bag, err
			}
		default:
			// Code, LineNumberTable, LocalVariableTable, StackMapTable,
			// MethodParameters, Synthetic, and any attribute this package
			// doesn't assign domain meaning to: skip by declared length.
			// Bytecode interpretation is explicitly out of scope.
			if err := r.Skip(uint64(length)); err != nil {
				return bag, err
			}
		}
	}
	return bag, nil
}

// readParameterAnnotations reads a RuntimeVisible/InvisibleParameterAnnotations
// attribute body (JVMS §4.7.18), whose parameter count is a single byte,
// unlike every other "count" field in the classfile format.
func readParameterAnnotations(r slice.SeqReader, pool *ConstantPool, visible bool, filter TypeFilter) ([][]RawAnnotationInfo, error) {
	numParams, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	out := make([][]RawAnnotationInfo, numParams)
	for i := uint8(0); i < numParams; i++ {
		count, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		anns := make([]RawAnnotationInfo, 0, count)
		for j := uint16(0); j < count; j++ {
			typeIndex, err := readAnnotationEntry(r, pool)
			if err != nil {
				return nil, err
			}
			desc, err := pool.Utf8(typeIndex)
			if err != nil {
				return nil, err
			}
			tn, err := parseFieldDescriptor(desc)
			if err != nil {
				return nil, err
			}
			if filter.Allow(tn) {
				anns = append(anns, RawAnnotationInfo{TypeName: tn, Visible: visible})
			}
		}
		out[i] = anns
	}
	return out, nil
}

