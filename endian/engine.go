// Package endian provides the byte-order engine used to decode MAVLink
// binary log records.
//
// It extends Go's standard encoding/binary package by combining ByteOrder
// and AppendByteOrder into a single EndianEngine interface, which keeps the
// format and decode packages from importing encoding/binary directly and
// gives them one seam to swap byte order through in tests.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte-order operations.
//
// Satisfied by binary.LittleEndian and binary.BigEndian directly.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the engine used for every MAVLink binary log
// record (§4.1: "little-endian byte order is used throughout").
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
