// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package artnet

import (
	"fmt"
	"net"
	"strconv"
)

// controller is a UDP socket to one Art-Net receiver, shared by every
// universe addressing the same controller IP. The socket is bound to
// 0.0.0.0:0 and connected to the controller so that Write uses send()
// rather than sendto() (spec §6).
//
// Universes hold a strong reference to their controller; the Manager's
// controllers map is the only place a controller is looked up by IP, and
// it evicts the entry once refCount drops to zero — the (strong, weak)
// pair spec §9 describes, modeled without a true weak pointer since Go's
// GC offers none: the map entry is simply removed rather than merely
// downgraded, and nothing but the owning universes keeps the socket alive
// past that point.
type controller struct {
	ip       string
	conn     *net.UDPConn
	refCount int
}

func newController(ip string) (*controller, error) {
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(ip, strconv.Itoa(Port)))
	if err != nil {
		return nil, fmt.Errorf("resolving controller address %q: %w", ip, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dialing controller %q: %w", ip, err)
	}
	return &controller{ip: ip, conn: conn}, nil
}

func (c *controller) send(packet []byte) error {
	_, err := c.conn.Write(packet)
	return err
}

func (c *controller) close() error {
	return c.conn.Close()
}
