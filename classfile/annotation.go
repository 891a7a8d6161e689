package classfile

import (
	"fmt"

	"github.com/viant/cpgraph/scanerr"
	"github.com/viant/cpgraph/slice"
)

// readAnnotations reads a RuntimeVisible/InvisibleAnnotations attribute body
// (the u2 num_annotations count has already been consumed by the caller is
// NOT assumed; this function reads it itself) and returns the filtered,
// post-descriptor-to-dotted-name annotation list.
func readAnnotations(r slice.SeqReader, pool *ConstantPool, visible bool, filter TypeFilter) ([]RawAnnotationInfo, error) {
	count, err := r.ReadU16BE()
	if err != nil {
		return nil, err
	}
	out := make([]RawAnnotationInfo, 0, count)
	for i := uint16(0); i < count; i++ {
		typeIndex, err := readAnnotationEntry(r, pool)
		if err != nil {
			return nil, err
		}
		desc, err := pool.Utf8(typeIndex)
		if err != nil {
			return nil, err
		}
		name, err := parseFieldDescriptor(desc)
		if err != nil {
			return nil, err
		}
		if filter.Allow(name) {
			out = append(out, RawAnnotationInfo{TypeName: name, Visible: visible})
		}
	}
	return out, nil
}

// readAnnotationEntry consumes one `annotation` structure (JVMS §4.7.16) and
// returns its type_index, skipping every element_value pair's payload.
func readAnnotationEntry(r slice.SeqReader, pool *ConstantPool) (uint16, error) {
	typeIndex, err := r.ReadU16BE()
	if err != nil {
		return 0, err
	}
	numPairs, err := r.ReadU16BE()
	if err != nil {
		return 0, err
	}
	for i := uint16(0); i < numPairs; i++ {
		if _, err := r.ReadU16BE(); err != nil { // element_name_index
			return 0, err
		}
		if err := skipElementValue(r); err != nil {
			return 0, err
		}
	}
	return typeIndex, nil
}

// skipElementValue consumes one `element_value` structure without
// interpreting it, beyond what's needed to know its length (JVMS §4.7.16.1).
// Only literal constant-pool values are ever surfaced by this package;
// annotation element values are not.
func skipElementValue(r slice.SeqReader) error {
	tag, err := r.ReadU8()
	if err != nil {
		return err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		_, err := r.ReadU16BE()
		return err
	case 'e':
		if _, err := r.ReadU16BE(); err != nil {
			return err
		}
		_, err := r.ReadU16BE()
		return err
	case 'c':
		_, err := r.ReadU16BE()
		return err
	case '@':
		_, err := readAnnotationEntry(r, nil)
		return err
	case '[':
		n, err := r.ReadU16BE()
		if err != nil {
			return err
		}
		for i := uint16(0); i < n; i++ {
			if err := skipElementValue(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return scanerr.New(scanerr.MalformedClassfile, "classfile.skipElementValue", fmt.Errorf("unknown element_value tag %q", tag))
	}
}
