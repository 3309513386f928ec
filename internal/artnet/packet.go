// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package artnet implements the Art-Net Manager: the owner of universes
// and controller sockets, the 50ms tick loop that drives active effects,
// and Art-Net DMX packet framing (spec §4.2).
package artnet

import "encoding/binary"

const (
	// OpCodeDMX is the Art-Net operation code for a DMX data packet,
	// written little-endian (spec §4.2).
	OpCodeDMX uint16 = 0x5000
	// ProtocolVersion is the Art-Net protocol version, written big-endian.
	ProtocolVersion uint16 = 0x0014
	// HeaderSize is the fixed 18-byte Art-Net DMX packet header.
	HeaderSize = 18
	// Port is the standard Art-Net UDP port.
	Port = 6454
)

// artNetID is the fixed packet identifier: "Art-Net" plus a trailing NUL.
var artNetID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

// BuildDMXPacket assembles an Art-Net ArtDMX packet for the given
// addressing and DMX data. data's length must already be the universe's
// even frame size (spec §4.2); the caller (Universe) is responsible for
// padding.
func BuildDMXPacket(net, subnet, universe int, sequence, physical byte, data []byte) []byte {
	packet := make([]byte, HeaderSize+len(data))

	copy(packet[0:8], artNetID[:])
	binary.LittleEndian.PutUint16(packet[8:10], OpCodeDMX)
	binary.BigEndian.PutUint16(packet[10:12], ProtocolVersion)
	packet[12] = sequence
	packet[13] = physical
	packet[14] = byte((subnet<<4)&0xF0) | byte(universe&0x0F)
	packet[15] = byte(net)
	binary.BigEndian.PutUint16(packet[16:18], uint16(len(data)))
	copy(packet[18:], data)

	return packet
}
