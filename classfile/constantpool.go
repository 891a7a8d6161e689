package classfile

import (
	"fmt"
	"strings"

	"github.com/viant/cpgraph/scanerr"
)

// Constant pool tags, per JVMS §4.4.
const (
	tagUtf8              = 1
	tagInteger           = 3
	tagFloat             = 4
	tagLong              = 5
	tagDouble            = 6
	tagClass             = 7
	tagString            = 8
	tagFieldref          = 9
	tagMethodref         = 10
	tagInterfaceMethodref = 11
	tagNameAndType       = 12
	tagMethodHandle      = 15
	tagMethodType        = 16
	tagDynamic           = 17
	tagInvokeDynamic     = 18
	tagModule            = 19
	tagPackage           = 20
)

// refEntry is the shape shared by Fieldref/Methodref/InterfaceMethodref:
// an index to a Class entry and an index to a NameAndType entry.
type refEntry struct {
	classIndex     uint16
	nameTypeIndex  uint16
}

type nameAndTypeEntry struct {
	nameIndex uint16
	descIndex uint16
}

// ConstantPool holds the decoded-but-not-cross-resolved constant pool of one
// classfile. Class and String entries remain *indirect* references to a
// Utf8 index until ClassName/StringValue is called (resolution
// is deferred until a value is requested"); this implementation decodes
// Utf8 bytes eagerly (the parser only ever gets one sequential pass over a
// deflated entry's bytes, so the raw bytes cannot be re-fetched later) but
// keeps every other tag's payload as plain indices, preserving the
// indirection JVMS §4.4 describes.
type ConstantPool struct {
	tags     []byte
	utf8     []string
	ints     []int32
	floats   []float32
	longs    []int64
	doubles  []float64
	classes  []uint16 // nameIndex per Class entry, indexed by cp index
	strings_ []uint16 // Utf8 index per String entry, indexed by cp index
	refs     []refEntry
	nats     []nameAndTypeEntry
}

// newConstantPool allocates a pool sized for count entries (indices
// 1..count-1; index 0 is unused, and each Long/Double entry occupies two
// indices, leaving index i+1 unused).
func newConstantPool(count int) *ConstantPool {
	return &ConstantPool{
		tags:     make([]byte, count),
		utf8:     make([]string, count),
		ints:     make([]int32, count),
		floats:   make([]float32, count),
		longs:    make([]int64, count),
		doubles:  make([]float64, count),
		classes:  make([]uint16, count),
		strings_: make([]uint16, count),
		refs:     make([]refEntry, count),
		nats:     make([]nameAndTypeEntry, count),
	}
}

func (p *ConstantPool) checkIndex(idx uint16, wantTag byte, what string) error {
	if int(idx) >= len(p.tags) || idx == 0 {
		return scanerr.New(scanerr.MalformedClassfile, "classfile.ConstantPool", fmt.Errorf("constant pool index %d out of range", idx))
	}
	if p.tags[idx] != wantTag {
		return scanerr.New(scanerr.MalformedClassfile, "classfile.ConstantPool", fmt.Errorf("%s: index %d has tag %d, want %d", what, idx, p.tags[idx], wantTag))
	}
	return nil
}

// Utf8 returns the decoded string at idx.
func (p *ConstantPool) Utf8(idx uint16) (string, error) {
	if err := p.checkIndex(idx, tagUtf8, "Utf8"); err != nil {
		return "", err
	}
	return p.utf8[idx], nil
}

// ClassName resolves a Class entry to its dotted (not slash-separated) name.
func (p *ConstantPool) ClassName(idx uint16) (string, error) {
	if err := p.checkIndex(idx, tagClass, "ClassName"); err != nil {
		return "", err
	}
	raw, err := p.Utf8(p.classes[idx])
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(raw, "/", "."), nil
}

// StringValue resolves a String entry to its literal Go string value.
func (p *ConstantPool) StringValue(idx uint16) (string, error) {
	if err := p.checkIndex(idx, tagString, "StringValue"); err != nil {
		return "", err
	}
	return p.Utf8(p.strings_[idx])
}

func (p *ConstantPool) Integer(idx uint16) (int32, error) {
	if err := p.checkIndex(idx, tagInteger, "Integer"); err != nil {
		return 0, err
	}
	return p.ints[idx], nil
}

func (p *ConstantPool) Float(idx uint16) (float32, error) {
	if err := p.checkIndex(idx, tagFloat, "Float"); err != nil {
		return 0, err
	}
	return p.floats[idx], nil
}

func (p *ConstantPool) Long(idx uint16) (int64, error) {
	if err := p.checkIndex(idx, tagLong, "Long"); err != nil {
		return 0, err
	}
	return p.longs[idx], nil
}

func (p *ConstantPool) Double(idx uint16) (float64, error) {
	if err := p.checkIndex(idx, tagDouble, "Double"); err != nil {
		return 0, err
	}
	return p.doubles[idx], nil
}

// NameAndType resolves a NameAndType entry to its name and descriptor.
func (p *ConstantPool) NameAndType(idx uint16) (name, desc string, err error) {
	if err := p.checkIndex(idx, tagNameAndType, "NameAndType"); err != nil {
		return "", "", err
	}
	nat := p.nats[idx]
	if name, err = p.Utf8(nat.nameIndex); err != nil {
		return "", "", err
	}
	if desc, err = p.Utf8(nat.descIndex); err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// tagSlotSize returns how many constant-pool index slots this tag consumes
// (2 for Long/Double, 1 otherwise), per JVMS §4.4.
func tagSlotSize(tag byte) int {
	if tag == tagLong || tag == tagDouble {
		return 2
	}
	return 1
}
