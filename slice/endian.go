package slice

import "encoding/binary"

// readBE16 etc. are shared by any SeqReader implementation (fileSeqReader,
// inflateReader) that can only read via ReadN; they
// keep the big-/little-endian primitives in one place so the conversion
// logic itself is never duplicated, only the byte source.

func readBE16(r interface{ ReadN(uint64) ([]byte, error) }) (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func readBE32(r interface{ ReadN(uint64) ([]byte, error) }) (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func readBE64(r interface{ ReadN(uint64) ([]byte, error) }) (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func readLE16(r interface{ ReadN(uint64) ([]byte, error) }) (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func readLE32(r interface{ ReadN(uint64) ([]byte, error) }) (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func readLE64(r interface{ ReadN(uint64) ([]byte, error) }) (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
