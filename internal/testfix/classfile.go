// Package testfix builds synthetic classfile and archive fixtures for tests
// across this module, the way classfile's own _test.go files build them
// inline but shared so scan/query/cgraph integration tests don't each
// reinvent a constant-pool writer.
package testfix

import (
	"bytes"
	"encoding/binary"
	"strings"
)

const classMagic = 0xCAFEBABE

const (
	tagUtf8  = 1
	tagClass = 7
)

const (
	accPublic    = 0x0001
	accSuper     = 0x0020
	accInterface = 0x0200
)

// ClassSpec describes the minimal shape of a synthetic classfile: its own
// name, optional superclass, and interfaces -- exactly the facts cgraph's
// relationship graph cares about. Fields, methods, and annotations are
// deliberately out of scope here: classfile's own tests already cover
// byte-level field/method/attribute parsing, so scan- and query-level
// fixtures only need enough of a classfile to name this_class, super_class,
// and interfaces correctly.
type ClassSpec struct {
	Name       string // dotted, e.g. "com.example.Widget"
	Super      string // dotted; "" for java.lang.Object or an interface with none
	Interfaces []string
	Interface  bool
}

// Build assembles a minimal, well-formed classfile from spec: a constant
// pool with just enough entries to name this_class/super_class/interfaces,
// zero fields, zero methods, zero class attributes.
func Build(spec ClassSpec) []byte {
	var cp bytes.Buffer
	next := uint16(1)
	utf8 := func(s string) uint16 {
		idx := next
		next++
		cp.WriteByte(tagUtf8)
		_ = binary.Write(&cp, binary.BigEndian, uint16(len(s)))
		cp.WriteString(s)
		return idx
	}
	class := func(dotted string) uint16 {
		if dotted == "" {
			return 0
		}
		nameIdx := utf8(internalName(dotted))
		idx := next
		next++
		cp.WriteByte(tagClass)
		_ = binary.Write(&cp, binary.BigEndian, nameIdx)
		return idx
	}

	thisClass := class(spec.Name)
	superClass := class(spec.Super)
	ifaceIdx := make([]uint16, 0, len(spec.Interfaces))
	for _, iface := range spec.Interfaces {
		ifaceIdx = append(ifaceIdx, class(iface))
	}

	var out bytes.Buffer
	_ = binary.Write(&out, binary.BigEndian, uint32(classMagic))
	_ = binary.Write(&out, binary.BigEndian, uint16(0))  // minor_version
	_ = binary.Write(&out, binary.BigEndian, uint16(61)) // major_version (Java 17)
	_ = binary.Write(&out, binary.BigEndian, next)       // constant_pool_count
	out.Write(cp.Bytes())

	access := uint16(accPublic | accSuper)
	if spec.Interface {
		access = accPublic | accInterface
	}
	_ = binary.Write(&out, binary.BigEndian, access)
	_ = binary.Write(&out, binary.BigEndian, thisClass)
	_ = binary.Write(&out, binary.BigEndian, superClass)
	_ = binary.Write(&out, binary.BigEndian, uint16(len(ifaceIdx)))
	for _, idx := range ifaceIdx {
		_ = binary.Write(&out, binary.BigEndian, idx)
	}
	_ = binary.Write(&out, binary.BigEndian, uint16(0)) // fields_count
	_ = binary.Write(&out, binary.BigEndian, uint16(0)) // methods_count
	_ = binary.Write(&out, binary.BigEndian, uint16(0)) // class attributes_count
	return out.Bytes()
}

// RelativePath returns the ".class" path a ClassSpec's Name would live at
// under a directory or archive classpath root.
func RelativePath(dottedName string) string {
	return internalName(dottedName) + ".class"
}

func internalName(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}
