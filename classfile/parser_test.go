package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpgraph/slice"
)

// cpBuilder assembles a classfile constant pool entry by entry, mirroring
// how javac itself would emit one, so parser tests exercise the real wire
// format instead of a parallel test-only representation.
type cpBuilder struct {
	buf     bytes.Buffer
	nextIdx uint16
}

func newCPBuilder() *cpBuilder {
	return &cpBuilder{nextIdx: 1}
}

func (b *cpBuilder) utf8(s string) uint16 {
	idx := b.nextIdx
	b.nextIdx++
	b.buf.WriteByte(tagUtf8)
	binary.Write(&b.buf, binary.BigEndian, uint16(len(s)))
	b.buf.WriteString(s)
	return idx
}

func (b *cpBuilder) class(name string) uint16 {
	nameIdx := b.utf8(name)
	idx := b.nextIdx
	b.nextIdx++
	b.buf.WriteByte(tagClass)
	binary.Write(&b.buf, binary.BigEndian, nameIdx)
	return idx
}

func (b *cpBuilder) nameAndType(name, desc string) uint16 {
	nameIdx := b.utf8(name)
	descIdx := b.utf8(desc)
	idx := b.nextIdx
	b.nextIdx++
	b.buf.WriteByte(tagNameAndType)
	binary.Write(&b.buf, binary.BigEndian, nameIdx)
	binary.Write(&b.buf, binary.BigEndian, descIdx)
	return idx
}

func (b *cpBuilder) integer(v int32) uint16 {
	idx := b.nextIdx
	b.nextIdx++
	b.buf.WriteByte(tagInteger)
	binary.Write(&b.buf, binary.BigEndian, uint32(v))
	return idx
}

func (b *cpBuilder) count() uint16 { return b.nextIdx }

// classBuilder assembles a minimal, well-formed classfile body around a
// cpBuilder, one section at a time.
type classBuilder struct {
	cp   *cpBuilder
	body bytes.Buffer
}

func newClassBuilder() *classBuilder {
	return &classBuilder{cp: newCPBuilder()}
}

func (c *classBuilder) u8(v uint8)   { c.body.WriteByte(v) }
func (c *classBuilder) u16(v uint16) { binary.Write(&c.body, binary.BigEndian, v) }
func (c *classBuilder) u32(v uint32) { binary.Write(&c.body, binary.BigEndian, v) }

func (c *classBuilder) bytes(header struct {
	minor, major     uint16
	access           uint16
	thisClass        uint16
	superClass       uint16
	interfaces       []uint16
}) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classMagic))
	binary.Write(&out, binary.BigEndian, header.minor)
	binary.Write(&out, binary.BigEndian, header.major)
	binary.Write(&out, binary.BigEndian, c.cp.count())
	out.Write(c.cp.buf.Bytes())
	binary.Write(&out, binary.BigEndian, header.access)
	binary.Write(&out, binary.BigEndian, header.thisClass)
	binary.Write(&out, binary.BigEndian, header.superClass)
	binary.Write(&out, binary.BigEndian, uint16(len(header.interfaces)))
	for _, idx := range header.interfaces {
		binary.Write(&out, binary.BigEndian, idx)
	}
	out.Write(c.body.Bytes())
	return out.Bytes()
}

func seqReaderOf(data []byte) slice.SeqReader {
	s := slice.NewArray(data, nil)
	r, err := s.SequentialReader()
	if err != nil {
		panic(err)
	}
	return r
}

// TestParse_SimpleClassWithFieldAndMethod builds a classfile for:
//
//	package com.example;
//	public class Widget extends java.lang.Object implements java.io.Serializable {
//	    public static final int MAX = 10;
//	    public java.lang.String name;
//	    public void rename(java.lang.String n) {}
//	}
func TestParse_SimpleClassWithFieldAndMethod(t *testing.T) {
	cb := newClassBuilder()
	thisClass := cb.cp.class("com/example/Widget")
	superClass := cb.cp.class("java/lang/Object")
	ifaceClass := cb.cp.class("java/io/Serializable")

	// field: MAX, static final int, with ConstantValue.
	maxNameIdx := cb.cp.utf8("MAX")
	maxDescIdx := cb.cp.utf8("I")
	cvAttrName := cb.cp.utf8(attrConstantValue)
	cvIdx := cb.cp.integer(10)

	// field: name, java.lang.String.
	nameNameIdx := cb.cp.utf8("name")
	nameDescIdx := cb.cp.utf8("Ljava/lang/String;")

	// method: rename(Ljava/lang/String;)V
	renameNameIdx := cb.cp.utf8("rename")
	renameDescIdx := cb.cp.utf8("(Ljava/lang/String;)V")

	sourceFileAttrName := cb.cp.utf8(attrSourceFile)
	sourceFileIdx := cb.cp.utf8("Widget.java")

	// fields_count = 2
	cb.u16(2)

	// field 0: MAX
	cb.u16(accPublic | accStatic | accFinal)
	cb.u16(maxNameIdx)
	cb.u16(maxDescIdx)
	cb.u16(1) // attributes_count
	cb.u16(cvAttrName)
	cb.u32(2) // attribute_length
	cb.u16(cvIdx)

	// field 1: name
	cb.u16(accPublic)
	cb.u16(nameNameIdx)
	cb.u16(nameDescIdx)
	cb.u16(0) // attributes_count

	// methods_count = 1
	cb.u16(1)
	cb.u16(accPublic)
	cb.u16(renameNameIdx)
	cb.u16(renameDescIdx)
	cb.u16(0) // attributes_count (no Code attribute in this fixture)

	// class attributes_count = 1 (SourceFile)
	cb.u16(1)
	cb.u16(sourceFileAttrName)
	cb.u32(2)
	cb.u16(sourceFileIdx)

	data := cb.bytes(struct {
		minor, major uint16
		access       uint16
		thisClass    uint16
		superClass   uint16
		interfaces   []uint16
	}{
		minor: 0, major: 61,
		access:     accPublic | accSuper,
		thisClass:  thisClass,
		superClass: superClass,
		interfaces: []uint16{ifaceClass},
	})

	opts := ParseOptions{
		EnableFieldInfo:            true,
		EnableMethodInfo:           true,
		EnableAnnotationInfo:       true,
		EnableStaticFinalConstants: true,
		IncludeInvisibleAnnotations: true,
	}
	info, err := NewParser().Parse(seqReaderOf(data), opts)
	require.NoError(t, err)

	assert.Equal(t, "com.example.Widget", info.Name)
	assert.Equal(t, "java.lang.Object", info.SuperclassName)
	assert.Equal(t, []string{"java.io.Serializable"}, info.InterfaceNames)
	assert.Equal(t, "Widget.java", info.SourceFile)
	assert.True(t, info.Flags.IsPublic)

	require.Len(t, info.Fields, 2)
	assert.Equal(t, "MAX", info.Fields[0].Name)
	assert.Equal(t, "int", info.Fields[0].DeclaredType)
	assert.Equal(t, int32(10), info.Fields[0].ConstantValue)
	assert.Equal(t, "name", info.Fields[1].Name)
	assert.Equal(t, "java.lang.String", info.Fields[1].DeclaredType)

	require.Len(t, info.Methods, 1)
	assert.Equal(t, "rename", info.Methods[0].Name)
	assert.Equal(t, []string{"java.lang.String"}, info.Methods[0].ParameterTypes)
	assert.Equal(t, "void", info.Methods[0].ReturnType)

	assert.ElementsMatch(t, []string{"java.lang.String", "int", "void"}, info.ReferencedTypeNames)
}

func TestParse_RejectsBadMagic(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 61, 0, 1}
	_, err := NewParser().Parse(seqReaderOf(data), ParseOptions{})
	assert.Error(t, err)
}

func TestParse_DeprecatedAndAnnotatedClass(t *testing.T) {
	cb := newClassBuilder()
	thisClass := cb.cp.class("com/example/OldWidget")
	superClass := cb.cp.class("java/lang/Object")
	annType := cb.cp.utf8("Lcom/example/Deprecated2;")

	deprecatedAttrName := cb.cp.utf8(attrDeprecated)
	rvaAttrName := cb.cp.utf8(attrRuntimeVisibleAnnotations)

	cb.u16(0) // fields_count
	cb.u16(0) // methods_count

	cb.u16(2) // class attributes_count
	cb.u16(deprecatedAttrName)
	cb.u32(0)
	cb.u16(rvaAttrName)
	// RuntimeVisibleAnnotations body: num_annotations=1, one annotation with
	// zero element_value_pairs.
	var annBody bytes.Buffer
	binary.Write(&annBody, binary.BigEndian, uint16(1))
	binary.Write(&annBody, binary.BigEndian, annType)
	binary.Write(&annBody, binary.BigEndian, uint16(0))
	cb.u32(uint32(annBody.Len()))
	cb.body.Write(annBody.Bytes())

	data := cb.bytes(struct {
		minor, major uint16
		access       uint16
		thisClass    uint16
		superClass   uint16
		interfaces   []uint16
	}{
		minor: 0, major: 61,
		access:     accPublic,
		thisClass:  thisClass,
		superClass: superClass,
	})

	opts := ParseOptions{EnableAnnotationInfo: true, IncludeInvisibleAnnotations: true}
	info, err := NewParser().Parse(seqReaderOf(data), opts)
	require.NoError(t, err)
	assert.True(t, info.Deprecated)
	assert.Equal(t, []string{"com.example.Deprecated2"}, info.AnnotationNames)
}
