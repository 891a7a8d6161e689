package classfile

import (
	"fmt"
	"strings"

	"github.com/viant/cpgraph/scanerr"
)

// parseFieldDescriptor converts a raw JVM field descriptor (e.g.
// "Ljava/lang/String;", "[[I", "Z") into the dotted type name used for
// identity: descriptors win over generic Signature attributes for type
// identity. Primitive and array descriptors are returned as their
// canonical Java source spelling; class descriptors are returned dotted.
func parseFieldDescriptor(desc string) (string, error) {
	name, rest, err := scanOneDescriptor(desc)
	if err != nil {
		return "", err
	}
	if rest != "" {
		return "", scanerr.New(scanerr.MalformedClassfile, "classfile.parseFieldDescriptor", fmt.Errorf("trailing data in descriptor %q", desc))
	}
	return name, nil
}

// scanOneDescriptor consumes exactly one field-descriptor-shaped prefix of s
// and returns its Java source spelling plus the unconsumed remainder.
func scanOneDescriptor(s string) (name, rest string, err error) {
	if s == "" {
		return "", "", scanerr.New(scanerr.MalformedClassfile, "classfile.scanOneDescriptor", fmt.Errorf("empty descriptor"))
	}
	dims := 0
	i := 0
	for i < len(s) && s[i] == '[' {
		dims++
		i++
	}
	if i >= len(s) {
		return "", "", scanerr.New(scanerr.MalformedClassfile, "classfile.scanOneDescriptor", fmt.Errorf("truncated array descriptor %q", s))
	}
	switch s[i] {
	case 'B':
		name, rest = "byte", s[i+1:]
	case 'C':
		name, rest = "char", s[i+1:]
	case 'D':
		name, rest = "double", s[i+1:]
	case 'F':
		name, rest = "float", s[i+1:]
	case 'I':
		name, rest = "int", s[i+1:]
	case 'J':
		name, rest = "long", s[i+1:]
	case 'S':
		name, rest = "short", s[i+1:]
	case 'Z':
		name, rest = "boolean", s[i+1:]
	case 'V':
		name, rest = "void", s[i+1:]
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", "", scanerr.New(scanerr.MalformedClassfile, "classfile.scanOneDescriptor", fmt.Errorf("unterminated class descriptor %q", s))
		}
		name = strings.ReplaceAll(s[i+1:i+end], "/", ".")
		rest = s[i+end+1:]
	default:
		return "", "", scanerr.New(scanerr.MalformedClassfile, "classfile.scanOneDescriptor", fmt.Errorf("unknown descriptor byte %q in %q", s[i], s))
	}
	for d := 0; d < dims; d++ {
		name += "[]"
	}
	return name, rest, nil
}

// parseMethodDescriptor splits a method descriptor "(ParamDesc*)ReturnDesc"
// into its parameter type names and return type name
// "Method parsing".
func parseMethodDescriptor(desc string) (params []string, ret string, err error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, "", scanerr.New(scanerr.MalformedClassfile, "classfile.parseMethodDescriptor", fmt.Errorf("method descriptor %q missing '('", desc))
	}
	end := strings.IndexByte(desc, ')')
	if end < 0 {
		return nil, "", scanerr.New(scanerr.MalformedClassfile, "classfile.parseMethodDescriptor", fmt.Errorf("method descriptor %q missing ')'", desc))
	}
	paramsDesc := desc[1:end]
	for paramsDesc != "" {
		name, rest, perr := scanOneDescriptor(paramsDesc)
		if perr != nil {
			return nil, "", perr
		}
		params = append(params, name)
		paramsDesc = rest
	}
	ret, rest, err := scanOneDescriptor(desc[end+1:])
	if err != nil {
		return nil, "", err
	}
	if rest != "" {
		return nil, "", scanerr.New(scanerr.MalformedClassfile, "classfile.parseMethodDescriptor", fmt.Errorf("trailing data after return type in %q", desc))
	}
	return params, ret, nil
}

// scanReferencedTypes walks a descriptor or generic Signature string and
// appends every class-typed reference it finds to out, after running each
// through filter. It handles:
//   - "L...;" class types, emitting one name
//   - generic type arguments and formal type parameters inside "<...>",
//     recursing, including a TypeParameter's class/interface bounds
//     ("T:Lfoo/Bar;")
//   - "+", "-", "*" wildcard markers (skipped; the bounded type beneath,
//     if any, is still scanned by the loop's next iteration)
//   - "T...;" type-variable usages (e.g. "TT;"), which name a type
//     parameter rather than a concrete class and are never emitted
//   - "[" array dimensions (skipped, doesn't affect the element type name)
//   - "/" -> "." package separator conversion
//   - primitive descriptor letters and method-signature punctuation
//     (ignored: they carry no class reference)
//
// It does not validate that the input is a complete, single descriptor; it
// is also used to sweep whole Signature attribute strings that contain
// multiple back-to-back type signatures (formal type parameters, superclass
// signature, superinterface signatures, or a method's parameter/return/
// throws signatures).
func scanReferencedTypes(s string, filter TypeFilter, out *[]string) {
	i := 0
	for i < len(s) {
		i = scanTypeUnit(s, i, filter, out)
	}
}

// scanTypeUnit consumes exactly one syntactic unit starting at i and returns
// the index just past it, emitting any class reference(s) found along the
// way.
func scanTypeUnit(s string, i int, filter TypeFilter, out *[]string) int {
	switch s[i] {
	case 'L':
		return scanClassTypeSignature(s, i, filter, out)
	case 'T':
		return scanTypeVariableOrParameter(s, i, filter, out)
	case '<':
		return scanTypeArgumentList(s, i, filter, out)
	default:
		return i + 1
	}
}

// scanTypeVariableOrParameter handles the byte 'T', which begins either a
// TypeVariableSignature usage ("T" Identifier ";", e.g. "TT;") or, when
// positioned inside a TypeParameters "<...>" block, a formal type
// parameter's name followed by one ClassBound and zero or more
// InterfaceBounds (each ':' ReferenceTypeSignature, e.g.
// "T:Ljava/lang/Object;"). Both forms share the same leading byte; the
// character right after the identifier run -- ';' for a usage, ':' for a
// declaration -- tells them apart.
func scanTypeVariableOrParameter(s string, i int, filter TypeFilter, out *[]string) int {
	j := i + 1
	for j < len(s) && s[j] != ';' && s[j] != ':' && s[j] != '<' && s[j] != '>' {
		j++
	}
	if j >= len(s) {
		return j
	}
	if s[j] == ';' {
		return j + 1 // plain type-variable usage: no class reference
	}
	for j < len(s) && s[j] == ':' {
		j++ // consume ':'
		if j < len(s) && (s[j] == ':' || s[j] == '>') {
			continue // ClassBound omitted in favor of an InterfaceBound only
		}
		if j < len(s) {
			j = scanTypeUnit(s, j, filter, out)
		}
	}
	return j
}

// scanTypeArgumentList consumes a balanced "<" ... ">" group -- either a
// TypeArguments list or a TypeParameters list -- and returns the index just
// past the matching '>'.
func scanTypeArgumentList(s string, i int, filter TypeFilter, out *[]string) int {
	j := i + 1
	for j < len(s) && s[j] != '>' {
		switch s[j] {
		case '+', '-', '*', ':':
			j++
		default:
			j = scanTypeUnit(s, j, filter, out)
		}
	}
	if j < len(s) {
		j++ // consume '>'
	}
	return j
}

// scanClassTypeSignature consumes one ClassTypeSignature: "L" possibly
// followed by a TypeArguments block before the terminating ";". Only ever
// called positioned at 'L'. A ClassTypeSignatureSuffix ('.' introducing a
// nested class qualification after a TypeArguments block) is tolerated by
// scanning through to the next ';' without further structural analysis.
func scanClassTypeSignature(s string, i int, filter TypeFilter, out *[]string) int {
	j := i + 1
	nameStart := i + 1
	for j < len(s) {
		switch s[j] {
		case ';':
			emitClassName(s[nameStart:j], filter, out)
			return j + 1
		case '<':
			emitClassName(s[nameStart:j], filter, out)
			j = scanTypeArgumentList(s, j, filter, out)
			for j < len(s) && s[j] != ';' {
				j++
			}
			if j < len(s) {
				j++
			}
			return j
		default:
			j++
		}
	}
	return j
}

func emitClassName(raw string, filter TypeFilter, out *[]string) {
	if raw == "" {
		return
	}
	dotted := strings.ReplaceAll(raw, "/", ".")
	if filter.Allow(dotted) {
		*out = append(*out, dotted)
	}
}
